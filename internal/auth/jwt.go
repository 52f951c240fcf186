package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claim scopes distinguishing action tokens from session tokens. Same
// mechanism, different claim and TTL.
const (
	ScopeVerifyEmail   = "verify_email"
	ScopePasswordReset = "password_reset"
)

// ActionTokenTTL is the lifetime of email-confirmation and password-reset
// tokens.
const ActionTokenTTL = 2 * time.Hour

// ErrInvalidToken is the single outcome for every validation failure:
// bad signature, expired, malformed. Callers must not distinguish them.
var ErrInvalidToken = errors.New("invalid token")

// TokenService issues and validates HS256-signed bearer tokens.
type TokenService struct {
	secret []byte
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// Issue signs a token carrying the given claims plus exp = now + ttl. The
// caller supplies at minimum a "sub" claim.
func (s *TokenService) Issue(claims map[string]interface{}, ttl time.Duration) (string, error) {
	mapClaims := jwt.MapClaims{
		"exp": jwt.NewNumericDate(time.Now().Add(ttl)),
	}
	for k, v := range claims {
		mapClaims[k] = v
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims)
	return token.SignedString(s.secret)
}

// Parse verifies signature and expiry and returns the claims. Every failure
// collapses to ErrInvalidToken.
func (s *TokenService) Parse(tokenStr string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Subject extracts the "sub" claim; empty string when absent.
func Subject(claims jwt.MapClaims) string {
	sub, _ := claims["sub"].(string)
	return sub
}

// Scope extracts the "scope" claim; empty string for session tokens.
func Scope(claims jwt.MapClaims) string {
	scope, _ := claims["scope"].(string)
	return scope
}
