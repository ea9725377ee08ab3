// Package middleware contains the HTTP middleware applied by the
// router: session identity extraction and rate limiting.
package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/library-seat-reservation/internal/model"
	"github.com/iliyamo/library-seat-reservation/internal/utils"
)

// SessionCookieName is the cookie holding the signed session token.
const SessionCookieName = "session"

// userInfoKey is the context key under which the parsed identity is
// stored for handlers.
const userInfoKey = "user_info"

// Session returns middleware that parses the session cookie when
// present and stores the identity in the request context.  It never
// rejects a request: pages and API handlers decide for themselves how
// to respond to an absent identity (redirect versus a
// {success:false} body), matching the original application.
func Session(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookieName)
			if err == nil && cookie.Value != "" {
				if user, err := utils.ParseSessionToken(secret, cookie.Value); err == nil {
					c.Set(userInfoKey, user)
				}
			}
			return next(c)
		}
	}
}

// CurrentUser returns the identity established by the Session
// middleware.  The boolean reports whether the caller is logged in.
func CurrentUser(c echo.Context) (model.UserInfo, bool) {
	user, ok := c.Get(userInfoKey).(model.UserInfo)
	return user, ok && !user.IsZero()
}
