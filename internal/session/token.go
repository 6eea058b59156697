package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// expiryLeeway keeps restore from trusting a token about to lapse mid-call.
const expiryLeeway = 30 * time.Second

// tokenExpired inspects the access token's exp claim without verifying the
// signature; the client holds no key material, verification is the server's
// job. Opaque tokens are trusted and left to the 401 path.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}

	return exp.Time.Before(now.Add(expiryLeeway))
}
