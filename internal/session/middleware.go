package session

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/landmark-estates/landmark-web/internal/apiclient"
)

const ctxSessionKey = "session"

// CookieOptions controls the session cookie.
type CookieOptions struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

// Middleware opens the browser's session, drops it if its token expired,
// and makes it available to handlers and to API calls made with the
// request context.
func Middleware(gate *Gate, cookie CookieOptions) gin.HandlerFunc {
	if cookie.Name == "" {
		cookie.Name = "lm_session"
	}
	return func(c *gin.Context) {
		id, _ := c.Cookie(cookie.Name)
		sess := gate.Open(c.Request.Context(), id)
		setCookie := func(v string) {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cookie.Name, v, int(cookie.MaxAge.Seconds()), "/", "", cookie.Secure, true)
		}
		if sess.ID() != id {
			setCookie(sess.ID())
		}
		sess.OnRotate(setCookie)

		gate.CheckTokenExpiry(c.Request.Context(), sess)

		c.Set(ctxSessionKey, sess)
		c.Request = c.Request.WithContext(apiclient.WithTokens(c.Request.Context(), sess))
		c.Next()
	}
}

// From returns the session opened by Middleware.
func From(c *gin.Context) *Session {
	if v, ok := c.Get(ctxSessionKey); ok {
		if s, ok := v.(*Session); ok {
			return s
		}
	}
	return nil
}

// RequireAuth sends anonymous visitors to loginPath, remembering where they
// were headed in the next parameter.
func RequireAuth(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := From(c)
		if sess == nil || !sess.IsAuthenticated() {
			target := loginPath + "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
			c.Redirect(http.StatusSeeOther, target)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin sends signed in non-admins to unauthorizedPath. Mount it after
// RequireAuth.
func RequireAdmin(unauthorizedPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := From(c)
		if sess == nil || !sess.IsAdmin() {
			c.Redirect(http.StatusSeeOther, unauthorizedPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// GuestOnly sends signed in users away from pages like login.
func GuestOnly(homePath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sess := From(c); sess != nil && sess.IsAuthenticated() {
			c.Redirect(http.StatusSeeOther, homePath)
			c.Abort()
			return
		}
		c.Next()
	}
}
