// ABOUTME: Local expiry check for JWT bearer tokens
// ABOUTME: Reads the exp claim without verifying the signature

package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenExpiry returns the exp claim of a JWT. ok is false for opaque tokens
// or tokens without exp; those are left to remote validation.
func tokenExpiry(token string) (exp time.Time, ok bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// expiredLocally reports whether token is a JWT whose exp has passed
func expiredLocally(token string, now time.Time) bool {
	exp, ok := tokenExpiry(token)
	return ok && !now.Before(exp)
}
