package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"github.com/landmark-estates/landmark-web/internal/logging"
	"github.com/landmark-estates/landmark-web/internal/web/form"
)

type loginInput struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
	Next     string `form:"next"`
}

type registerInput struct {
	Name     string `form:"name" binding:"required,max=100"`
	Email    string `form:"email" binding:"required,email"`
	Phone    string `form:"phone" binding:"omitempty,max=20"`
	Password string `form:"password" binding:"required,min=8"`
	Confirm  string `form:"confirm" binding:"required,eqfield=Password"`
}

type profileInput struct {
	Name  string `form:"name" binding:"required,max=100"`
	Email string `form:"email" binding:"required,email"`
	Phone string `form:"phone" binding:"omitempty,max=20"`
}

type passwordInput struct {
	CurrentPassword string `form:"currentPassword" binding:"required"`
	NewPassword     string `form:"newPassword" binding:"required,min=8"`
	Confirm         string `form:"confirm" binding:"required,eqfield=NewPassword"`
}

type enquiryInput struct {
	Name    string `form:"name" binding:"required,max=100"`
	Email   string `form:"email" binding:"required,email"`
	Phone   string `form:"phone" binding:"required,max=20"`
	Message string `form:"message" binding:"max=2000"`
}

// trimmedForm is gin's form binding over the request body with surrounding
// whitespace removed from every value except secrets.
type trimmedForm struct{}

func (trimmedForm) Name() string { return "trimmed form" }

func (trimmedForm) Bind(req *http.Request, obj any) error {
	if err := req.ParseMultipartForm(maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return err
	}
	values := make(map[string][]string, len(req.PostForm))
	for k, vs := range req.PostForm {
		out := make([]string, len(vs))
		for i, v := range vs {
			if secretField(k) {
				out[i] = v
			} else {
				out[i] = strings.TrimSpace(v)
			}
		}
		values[k] = out
	}
	if err := binding.MapFormWithTag(obj, values, "form"); err != nil {
		return err
	}
	return binding.Validator.ValidateStruct(obj)
}

func secretField(name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(n, "password") || n == "confirm"
}

// bind decodes the submitted body into in. f is bound as well, so a rejected
// submission re-renders what was typed next to the field errors.
func (h *Handler) bind(c *gin.Context, f *form.Form, in any) bool {
	f.Bind(h.postValues(c))
	if err := c.ShouldBindWith(in, trimmedForm{}); err != nil {
		if !f.AddBindErrors(in, err) {
			logging.WithRequest(c.Request.Context(), h.log).Info("bind form", zap.Error(err))
		}
		return false
	}
	return true
}
