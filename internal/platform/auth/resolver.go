package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// IdentityStore looks up the identity behind a verified userId claim.
// Implementations return (nil, nil) when the id does not resolve; an error
// means the store itself is unavailable.
type IdentityStore interface {
	FindIdentity(ctx context.Context, id uuid.UUID) (*Identity, error)
}

// Authenticator turns a raw request credential into an authentication
// Context. It performs exactly one store lookup per request and never
// retries; store faults propagate as errors, not as authErrors.
type Authenticator struct {
	codec  *TokenCodec
	store  IdentityStore
	logger zerolog.Logger
}

func NewAuthenticator(codec *TokenCodec, store IdentityStore, logger zerolog.Logger) *Authenticator {
	return &Authenticator{codec: codec, store: store, logger: logger}
}

// Authenticate resolves rawToken into a Context. Exactly one of these paths
// executes:
//
//   - no credential          → anonymous context
//   - expired credential     → authError JWT_EXPIRED (with expiry time)
//   - malformed credential   → authError INVALID_TOKEN
//   - other verify failure   → authError AUTH_FAILED
//   - valid credential       → user lookup; unresolved id stays anonymous
//     (valid signature over a stale identity is "no user", not an error)
func (a *Authenticator) Authenticate(ctx context.Context, rawToken string) (*Context, error) {
	if rawToken == "" {
		return &Context{}, nil
	}

	ac := &Context{Token: rawToken}

	claims, err := a.codec.Verify(rawToken)
	if err != nil {
		var expired *ExpiredError
		switch {
		case errors.As(err, &expired):
			a.logger.Warn().Time("expired_at", expired.ExpiredAt).Msg("jwt token expired")
			expiredAt := expired.ExpiredAt
			ac.Err = &AuthError{
				Code:      CodeJWTExpired,
				Message:   "Your session has expired. Please log in again.",
				ExpiredAt: &expiredAt,
			}
		case errors.Is(err, ErrTokenMalformed):
			a.logger.Warn().Msg("invalid jwt token")
			ac.Err = &AuthError{
				Code:    CodeInvalidToken,
				Message: "Invalid authentication token. Please log in again.",
			}
		default:
			a.logger.Warn().Err(err).Msg("authentication failed")
			ac.Err = &AuthError{
				Code:    CodeAuthFailed,
				Message: "Authentication failed. Please log in again.",
			}
		}
		return ac, nil
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		// A signature we minted never carries a non-uuid subject; treat it
		// the same as a stale identity.
		return ac, nil
	}

	user, err := a.store.FindIdentity(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve identity %s: %w", userID, err)
	}
	if user != nil {
		ac.User = user
	}
	return ac, nil
}
