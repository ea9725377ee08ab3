// Package utils provides helpers for issuing and parsing session
// tokens.
package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iliyamo/library-seat-reservation/internal/model"
)

// ErrInvalidSession is returned when a session token cannot be parsed,
// fails signature verification, or carries malformed claims.
var ErrInvalidSession = errors.New("invalid session token")

// NewSessionToken builds and signs an HS256 JWT carrying the login
// identity.  The claims are: sub (registration number), name (display
// name), login_time (RFC3339), exp and iat.  The token is stored in an
// HttpOnly cookie and parsed back on every request.
func NewSessionToken(secret string, user model.UserInfo, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":        user.RegistrationNumber,
		"name":       user.Name,
		"login_time": user.LoginTime.UTC().Format(time.RFC3339),
		"exp":        now.Add(ttl).Unix(),
		"iat":        now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// ParseSessionToken verifies a session token and reconstructs the
// identity stored in it.  Only HMAC-signed tokens are accepted.
func ParseSessionToken(secret, raw string) (model.UserInfo, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSession
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return model.UserInfo{}, ErrInvalidSession
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return model.UserInfo{}, ErrInvalidSession
	}

	reg, _ := claims["sub"].(string)
	name, _ := claims["name"].(string)
	if reg == "" || name == "" {
		return model.UserInfo{}, ErrInvalidSession
	}

	user := model.UserInfo{RegistrationNumber: reg, Name: name}
	if lt, ok := claims["login_time"].(string); ok {
		if parsed, err := time.Parse(time.RFC3339, lt); err == nil {
			user.LoginTime = parsed
		}
	}
	return user, nil
}
