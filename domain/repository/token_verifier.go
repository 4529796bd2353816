package repository

import "context"

// ITokenVerifier validates an identity-provider ID token and returns the
// verified email address it asserts.
type ITokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (string, error)
}
