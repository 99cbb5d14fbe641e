package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "hotseat"

// ErrInvalidHandle is returned for handles that are malformed, expired or signed with another key.
var ErrInvalidHandle = errors.New("invalid handle")

// Issuer signs and verifies game handles. A handle is an HS256 JWT whose subject is the session ID.
type Issuer interface {
	Issue(sessionID string) (string, error)
	Verify(handle string) (string, error)
}

type hmacIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer creates an Issuer. A zero ttl issues handles that never expire.
func NewIssuer(secret string, ttl time.Duration) Issuer {
	return &hmacIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (i *hmacIssuer) Issue(sessionID string) (string, error) {
	now := i.now()
	claims := jwt.RegisteredClaims{
		Issuer:   issuer,
		Subject:  sessionID,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if i.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(i.ttl))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign handle: %w", err)
	}
	return signed, nil
}

func (i *hmacIssuer) Verify(handle string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(handle, &claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidHandle, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidHandle)
	}
	return claims.Subject, nil
}
