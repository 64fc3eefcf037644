package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carried by the session cookie token. The token only names a
// server-side session id; all session state lives in Redis.
type Claims struct {
	jwt.RegisteredClaims
}

// SignSessionToken creates a signed token wrapping a session id.
func SignSessionToken(sessionID string, secret []byte, ttl time.Duration) (string, error) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseSessionToken validates a session token and returns the session id.
func ParseSessionToken(tokenStr string, secret []byte) (string, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return "", err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims.ID, nil
	}

	return "", jwt.ErrSignatureInvalid
}
