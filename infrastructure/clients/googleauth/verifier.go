package googleauth

import (
	"context"
	"fmt"

	"github.com/elainedb/videofeed/domain/repository"

	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// Verifier validates Google ID tokens through the tokeninfo endpoint and
// extracts the verified email for the allow-list check.
type Verifier struct {
	service  *oauth2api.Service
	clientID string
}

// NewVerifier creates a verifier bound to the given OAuth web client ID.
// Extra client options (e.g. an alternate endpoint) are appended for tests.
func NewVerifier(ctx context.Context, clientID string, opts ...option.ClientOption) (repository.ITokenVerifier, error) {
	all := append([]option.ClientOption{option.WithoutAuthentication()}, opts...)
	service, err := oauth2api.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("failed to create oauth2 service: %w", err)
	}
	return &Verifier{service: service, clientID: clientID}, nil
}

func (v *Verifier) VerifyIDToken(ctx context.Context, idToken string) (string, error) {
	info, err := v.service.Tokeninfo().IdToken(idToken).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("ID token verification failed: %w", err)
	}
	if v.clientID != "" && info.Audience != v.clientID {
		return "", fmt.Errorf("ID token audience mismatch")
	}
	if info.Email == "" || !info.VerifiedEmail {
		return "", fmt.Errorf("ID token carries no verified email")
	}
	return info.Email, nil
}
