package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("segredo", time.Hour)

	token, err := issuer.Issue(42, "professional", "sess-1")
	require.NoError(t, err)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
	assert.Equal(t, "professional", claims.Role)
	assert.Equal(t, "sess-1", claims.ID)
}

func TestTokenIssuer_Expired(t *testing.T) {
	issuer := NewTokenIssuer("segredo", time.Minute)
	now := time.Now()
	issuer.now = func() time.Time { return now }

	token, err := issuer.Issue(1, "client", "s")
	require.NoError(t, err)

	issuer.now = func() time.Time { return now.Add(2 * time.Minute) }

	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	token, err := NewTokenIssuer("a", time.Hour).Issue(1, "client", "s")
	require.NoError(t, err)

	_, err = NewTokenIssuer("b", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_RejectsNoneAlg(t *testing.T) {
	claims := jwt.MapClaims{"sub": "1", "jti": "s", "role": "admin", "exp": time.Now().Add(time.Hour).Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenIssuer("segredo", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
