package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTTL is the lifetime of an issued session token. There is no
// server-side revocation; logout is cookie deletion only.
const SessionTTL = 7 * 24 * time.Hour

// Claims carries the signed user identity inside a session token.
type Claims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Generate issues an HS256 session token for the user, valid for SessionTTL.
func Generate(secret string, userID uint, role string) (string, error) {
	if secret == "" {
		return "", errors.New("secret is required for token generation")
	}
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Verify checks signature and expiry and returns the embedded claims.
func Verify(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, errors.New("secret is required for token verification")
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
