package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role is a registry user role as carried in token claims and user rows.
type Role string

const (
	RoleSuperAdmin     Role = "SUPER_ADMIN"
	RoleInstituteAdmin Role = "INSTITUTE_ADMIN"
	RoleAdmin          Role = "ADMIN"
	RoleDataEntry      Role = "DATA_ENTRY"
)

// StatusActive is the user status flag for an enabled account. Any other
// value means the account is disabled.
const StatusActive = 1

// DefaultTokenTTL is the validity window used when the config supplies none.
const DefaultTokenTTL = 15 * time.Minute

// Claims is the registry JWT payload.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}

var (
	// ErrTokenMissing signals that no credential was supplied. This is the
	// anonymous-request signal, not a verification failure.
	ErrTokenMissing = errors.New("no credential supplied")

	// ErrTokenMalformed signals a structurally invalid token or a bad signature.
	ErrTokenMalformed = errors.New("token malformed")
)

// ExpiredError is returned by Verify for a well-formed token past its expiry.
type ExpiredError struct {
	ExpiredAt time.Time
}

func (e *ExpiredError) Error() string {
	return fmt.Sprintf("token expired at %s", e.ExpiredAt.Format(time.RFC3339))
}

// TokenCodec signs and verifies registry bearer tokens with a process-wide
// HMAC secret. Verification is a pure function of (token, current time,
// secret); it never consults the store.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenCodec(secret []byte, ttl time.Duration) *TokenCodec {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenCodec{secret: secret, ttl: ttl}
}

// Issue signs a token carrying the user's id, email and role with the
// codec's default validity window.
func (c *TokenCodec) Issue(userID, email string, role Role) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		UserID: userID,
		Email:  email,
		Role:   role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a bearer token. Failures are classified:
//
//   - empty token      → ErrTokenMissing (anonymous, not a failure)
//   - past expiry      → *ExpiredError carrying the expiry timestamp
//   - bad structure or
//     bad signature    → ErrTokenMalformed
//   - anything else    → a generic error
//
// Expiry is a hard boundary; no clock skew is tolerated.
func (c *TokenCodec) Verify(tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, ErrTokenMissing
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			// Claims are decoded before validation, so the expiry is available.
			exp := time.Time{}
			if claims.ExpiresAt != nil {
				exp = claims.ExpiresAt.Time
			}
			return nil, &ExpiredError{ExpiredAt: exp}
		case errors.Is(err, jwt.ErrTokenMalformed), errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenMalformed
		default:
			return nil, fmt.Errorf("verify token: %w", err)
		}
	}
	if !token.Valid {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}
