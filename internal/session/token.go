package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenExpired reads the exp claim of an access token without verifying its
// signature. This is a convenience check to avoid sending known-dead tokens,
// not an auth boundary: the API verifies every token itself.
//
// Malformed tokens count as expired. Tokens without exp never expire here.
func tokenExpired(token string, now time.Time) bool {
	if token == "" {
		return true
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return true
	}
	if exp == nil {
		return false
	}
	return now.After(exp.Time)
}
