package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenCodec issues and verifies signed, self-contained claim tokens.
// Verification is a pure function of (token, current time, secret); there is
// no stored state, so issued tokens cannot be revoked before they expire.
type TokenCodec struct {
	secret []byte
}

// NewTokenCodec creates a codec bound to the process-wide signing secret.
// Rotating the secret silently invalidates every outstanding token.
func NewTokenCodec(secret []byte) *TokenCodec {
	return &TokenCodec{secret: secret}
}

// Issue serializes the claims plus an absolute expiry of now+ttl and signs
// them with HS256. The returned string is opaque to callers.
func (c *TokenCodec) Issue(claims map[string]any, ttl time.Duration) (string, error) {
	mapClaims := jwt.MapClaims{}
	for k, v := range claims {
		mapClaims[k] = v
	}
	mapClaims["exp"] = jwt.NewNumericDate(time.Now().Add(ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims)
	return token.SignedString(c.secret)
}

// Verify checks the signature and expiry of a token and returns its claims.
// The signing method is pinned to HS256 so a forged "alg" header cannot
// downgrade verification. Signature and structural failures both surface as
// ErrInvalidToken; only a genuinely expired, correctly signed token yields
// ErrTokenExpired.
func (c *TokenCodec) Verify(tokenString string) (map[string]any, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
