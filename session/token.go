package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims are the custom claims carried in a player's session JWT,
// replacing the original protocol's opaque auth_token string with a
// verifiable, self-contained credential.
type TokenClaims struct {
	PlayerName string `json:"player_name"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and validates player session tokens with a shared
// HMAC secret.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer returns an issuer signing tokens with secret, valid
// for the given lifetime.
func NewTokenIssuer(secret []byte, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: secret, ttl: ttl}
}

// Issue mints a signed token for playerName.
func (t *TokenIssuer) Issue(playerName string, now time.Time) (string, error) {
	claims := TokenClaims{
		PlayerName: playerName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// ErrInvalidToken is returned by Validate for any malformed, expired,
// or incorrectly-signed token.
var ErrInvalidToken = errors.New("session: invalid auth token")

// Validate parses and verifies tokenStr, returning its claims.
func (t *TokenIssuer) Validate(tokenStr string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(tok *jwt.Token) (any, error) {
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
