// Package tokeninfo reads display information out of the session token.
//
// The token stays opaque to the session core: nothing here verifies a
// signature, and the result must never be used for authorization decisions.
package tokeninfo

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrOpaque is returned for tokens that are not JWTs.
var ErrOpaque = errors.New("token is not a JWT")

type Info struct {
	Subject   string
	UserID    int64
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token carries an expiry before now. Tokens
// without one never expire.
func (i Info) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && now.After(i.ExpiresAt)
}

// Inspect decodes token's claims without checking its signature.
func Inspect(token string) (Info, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Info{}, fmt.Errorf("%w: %w", ErrOpaque, err)
	}

	var info Info
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time.UTC()
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		info.IssuedAt = iat.Time.UTC()
	}
	if id, ok := claims["userId"].(float64); ok {
		info.UserID = int64(id)
	}
	return info, nil
}
