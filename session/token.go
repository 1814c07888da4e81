// Package session issues signed run tokens that identify a test run. Workers
// attach the token to published run summaries so the aggregation side can
// verify which run and worker produced a result.
package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carried by a run token
type Claims struct {
	RunID  string `json:"run_id"`
	Worker string `json:"worker"`
	jwt.RegisteredClaims
}

// Generate signs a run token for the given run and worker, valid for ttl.
func Generate(secret, runID, worker string, ttl time.Duration) (string, time.Time, error) {
	exp := time.Now().Add(ttl)
	claims := Claims{
		RunID:  runID,
		Worker: worker,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ID:        runID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	return signed, exp, err
}

// Verify parses and validates a run token, returning its claims.
func Verify(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrInvalidKey
}
