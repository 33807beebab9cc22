package web

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/landmark-estates/landmark-web/internal/apiclient"
	"github.com/landmark-estates/landmark-web/internal/logging"
	"github.com/landmark-estates/landmark-web/internal/web/form"
)

// postValues parses a urlencoded or multipart body.
func (h *Handler) postValues(c *gin.Context) url.Values {
	if err := c.Request.ParseMultipartForm(maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		logging.WithRequest(c.Request.Context(), h.log).Debug("parse form", zap.Error(err))
	}
	if c.Request.PostForm == nil {
		return url.Values{}
	}
	return c.Request.PostForm
}

// fail handles an API error on a page that cannot render without the data.
// A rejected session goes back to login; anything else gets the error page.
func (h *Handler) fail(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, apiclient.ErrUnauthorized):
		c.Redirect(http.StatusSeeOther, loginPath+"?next="+url.QueryEscape(c.Request.URL.RequestURI()))
		c.Abort()
		return
	case errors.Is(err, apiclient.ErrForbidden):
		c.Redirect(http.StatusSeeOther, unauthorizedPath)
		c.Abort()
		return
	}
	logging.WithRequest(c.Request.Context(), h.log).Warn("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	if fallback == "" {
		fallback = "Something went wrong. Please try again."
	}
	h.render(c, statusFor(err), "error", gin.H{
		"Title":   "Something went wrong",
		"Message": apiclient.Message(err, fallback),
	})
}

// statusFor maps an API error to the status of the re-rendered page.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apiclient.ErrValidation), errors.Is(err, apiclient.ErrConflict):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apiclient.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apiclient.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apiclient.ErrForbidden):
		return http.StatusForbidden
	}
	return http.StatusBadGateway
}

// applyFieldErrors copies the API's per-field messages onto f.
func applyFieldErrors(f *form.Form, err error) {
	var apiErr *apiclient.APIError
	if !errors.As(err, &apiErr) {
		return
	}
	for name, msg := range apiErr.Fields {
		if _, ok := f.Field(name); ok {
			f.AddError(name, msg)
		}
	}
}
