package middleware

import (
	"time"

	"brainbee_backend/internal/config"
	"brainbee_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// SessionIDKey is where the middleware parks the verified session id for
// handlers. Empty means the client has no usable session yet.
const SessionIDKey = "session_id"

// SessionMiddleware verifies the signed session cookie. A missing or
// invalid cookie is not an error; the store mints a fresh session and the
// handler issues a new cookie.
func SessionMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := ""
		if cookie, err := c.Cookie(cfg.Session.CookieName); err == nil && cookie != "" {
			if id, err := util.ParseSessionToken(cookie, cfg.Session.Secret); err == nil {
				sessionID = id
			}
		}

		c.Set(SessionIDKey, sessionID)
		c.Next()
	}
}

// SessionID returns the verified session id for the request, if any.
func SessionID(c *gin.Context) string {
	id, _ := c.Get(SessionIDKey)
	s, _ := id.(string)
	return s
}

// IssueSessionCookie signs and sets the session cookie when the request's
// session id changed (first contact, or a token that failed verification).
func IssueSessionCookie(c *gin.Context, cfg *config.Config, sessionID string) {
	if sessionID == SessionID(c) {
		return
	}

	maxAge := cfg.Session.CookieMaxAge
	if maxAge <= 0 {
		maxAge = int((30 * 24 * time.Hour).Seconds())
	}

	token, err := util.SignSessionToken(sessionID, cfg.Session.Secret, time.Duration(maxAge)*time.Second)
	if err != nil {
		return
	}

	c.SetCookie(cfg.Session.CookieName, token, maxAge, "/", "", c.Request.TLS != nil, true)
	c.Set(SessionIDKey, sessionID)
}
