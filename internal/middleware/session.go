package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ekarabulut/vblog/internal/utils"
)

// SessionCookie is the name of the HTTP-only cookie carrying the signed
// session token.
const SessionCookie = "vblog_session"

const sessionKey = "session"

// SessionAuth returns middleware that validates the session cookie and
// stores the decoded identity in the request context. Requests without
// a valid session are rejected with 401; handlers behind this
// middleware can call CurrentSession without checking for absence.
func SessionAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}
			sess, err := utils.ParseSessionToken(secret, cookie.Value)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid session"})
			}
			c.Set(sessionKey, sess)
			return next(c)
		}
	}
}

// OptionalSession is like SessionAuth but lets unauthenticated requests
// through; a valid cookie still populates the context. Used on read
// endpoints where guests see published content and authors see more.
func OptionalSession(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cookie, err := c.Cookie(SessionCookie); err == nil && cookie.Value != "" {
				if sess, err := utils.ParseSessionToken(secret, cookie.Value); err == nil {
					c.Set(sessionKey, sess)
				}
			}
			return next(c)
		}
	}
}

// CurrentSession returns the identity stored by SessionAuth or
// OptionalSession, if any.
func CurrentSession(c echo.Context) (utils.Session, bool) {
	sess, ok := c.Get(sessionKey).(utils.Session)
	return sess, ok
}
