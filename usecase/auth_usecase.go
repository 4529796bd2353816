package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/elainedb/videofeed/domain/dto"
	"github.com/elainedb/videofeed/domain/repository"
	"github.com/elainedb/videofeed/infrastructure/logger"

	"github.com/golang-jwt/jwt"
)

// ErrAccessDenied marks a verified identity whose email is not on the
// allow-list. No session is issued.
var ErrAccessDenied = errors.New("access denied: email is not authorized")

// IAuthUseCase defines the sign-in operations
type IAuthUseCase interface {
	// SignIn verifies an identity-provider ID token, checks the allow-list,
	// and issues a session token for the authenticated views.
	SignIn(ctx context.Context, idToken string) (*dto.SessionResponse, error)
	IsAuthorized(email string) bool
}

// AuthUseCase implements the allow-list gate over an injected verifier.
type AuthUseCase struct {
	verifier   repository.ITokenVerifier
	authorized map[string]struct{}
	secretKey  string
}

func NewAuthUseCase(verifier repository.ITokenVerifier, authorizedEmails []string, secretKey string) IAuthUseCase {
	authorized := make(map[string]struct{}, len(authorizedEmails))
	for _, email := range authorizedEmails {
		authorized[strings.ToLower(strings.TrimSpace(email))] = struct{}{}
	}
	return &AuthUseCase{verifier: verifier, authorized: authorized, secretKey: secretKey}
}

func (u *AuthUseCase) SignIn(ctx context.Context, idToken string) (*dto.SessionResponse, error) {
	if idToken == "" {
		return nil, fmt.Errorf("ID token is required")
	}
	if u.secretKey == "" {
		return nil, fmt.Errorf("session secret not configured: set SECRET_KEY in the environment or app.secretKey in config.json")
	}

	email, err := u.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("sign-in failed: %w", err)
	}

	if !u.IsAuthorized(email) {
		logger.GetLogger().WithField("email", email).Info("Access denied for unauthorized email")
		return nil, ErrAccessDenied
	}
	logger.GetLogger().WithField("email", email).Info("Access granted")

	claims := jwt.MapClaims{
		"email": email,
		"iss":   "videofeed",
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(u.secretKey))
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}
	return &dto.SessionResponse{Token: signed, Email: email}, nil
}

func (u *AuthUseCase) IsAuthorized(email string) bool {
	_, ok := u.authorized[strings.ToLower(strings.TrimSpace(email))]
	return ok
}
