package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuer_RoundTrip(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)

	handle, err := issuer.Issue("session-1")
	require.NoError(t, err)

	id, err := issuer.Verify(handle)
	require.NoError(t, err)
	assert.Equal(t, "session-1", id)
}

func TestIssuer_Verify(t *testing.T) {
	good := NewIssuer("secret", time.Hour)

	expired := &hmacIssuer{secret: []byte("secret"), ttl: time.Minute, now: func() time.Time {
		return time.Now().Add(-time.Hour)
	}}
	expiredHandle, err := expired.Issue("session-1")
	require.NoError(t, err)

	otherKey, err := NewIssuer("other", time.Hour).Issue("session-1")
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Issuer: "hotseat"}).SignedString([]byte("secret"))
	require.NoError(t, err)

	wrongAlg, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{Issuer: "hotseat", Subject: "session-1"}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		handle string
	}{
		{name: "empty", handle: ""},
		{name: "garbage", handle: "not-a-jwt"},
		{name: "expired", handle: expiredHandle},
		{name: "signed with another key", handle: otherKey},
		{name: "missing subject", handle: noSubject},
		{name: "unexpected algorithm", handle: wrongAlg},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := good.Verify(tt.handle)
			assert.ErrorIs(t, err, ErrInvalidHandle)
		})
	}
}

func TestIssuer_ZeroTTLNeverExpires(t *testing.T) {
	issuer := NewIssuer("secret", 0)

	handle, err := issuer.Issue("session-1")
	require.NoError(t, err)

	parsed, _, err := jwt.NewParser().ParseUnverified(handle, &jwt.RegisteredClaims{})
	require.NoError(t, err)
	exp, err := parsed.Claims.GetExpirationTime()
	require.NoError(t, err)
	assert.Nil(t, exp)
}
