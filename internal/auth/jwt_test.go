package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_RoundTrip(t *testing.T) {
	svc := NewTokenService("test_secret")

	token, err := svc.Issue(map[string]interface{}{"sub": "user@test.com"}, time.Minute)
	require.NoError(t, err)

	claims, err := svc.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user@test.com", Subject(claims))
	assert.Empty(t, Scope(claims))
}

func TestTokenService_ScopeClaim(t *testing.T) {
	svc := NewTokenService("test_secret")

	token, err := svc.Issue(map[string]interface{}{
		"sub":   "user@test.com",
		"scope": ScopePasswordReset,
	}, ActionTokenTTL)
	require.NoError(t, err)

	claims, err := svc.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, ScopePasswordReset, Scope(claims))
}

func TestTokenService_Expired(t *testing.T) {
	svc := NewTokenService("test_secret")

	token, err := svc.Issue(map[string]interface{}{"sub": "user@test.com"}, -time.Minute)
	require.NoError(t, err)

	_, err = svc.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_WrongSecret(t *testing.T) {
	token, err := NewTokenService("one_secret").Issue(map[string]interface{}{"sub": "user@test.com"}, time.Minute)
	require.NoError(t, err)

	_, err = NewTokenService("another_secret").Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsUnsignedToken(t *testing.T) {
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "user@test.com",
		"exp": jwt.NewNumericDate(time.Now().Add(time.Minute)),
	})
	tokenStr, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenService("test_secret").Parse(tokenStr)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_Garbage(t *testing.T) {
	svc := NewTokenService("test_secret")
	for _, input := range []string{"", "garbage", "a.b.c"} {
		_, err := svc.Parse(input)
		assert.ErrorIs(t, err, ErrInvalidToken, "input=%q", input)
	}
}
