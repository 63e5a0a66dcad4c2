package tokenstore

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpired inspects the access token's exp claim without verifying the
// signature (the client does not hold the signing secret — the backend is the
// authority; this only avoids a guaranteed 401 round trip). Malformed tokens
// and tokens without an exp claim are reported as expired.
func TokenExpired(accessToken string, now time.Time) bool {
	if accessToken == "" {
		return true
	}
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(accessToken, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return now.After(exp.Time)
}
