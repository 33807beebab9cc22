package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/landmark-estates/landmark-web/internal/apiclient"
	"github.com/landmark-estates/landmark-web/internal/logging"
	"github.com/landmark-estates/landmark-web/internal/session"
	"github.com/landmark-estates/landmark-web/internal/web/form"
)

func (h *Handler) loginPage(c *gin.Context) {
	h.renderLogin(c, http.StatusOK, c.Query("email"), "")
}

func (h *Handler) renderLogin(c *gin.Context, status int, email, errMsg string) {
	next := c.Query("next")
	if v := c.PostForm("next"); v != "" {
		next = v
	}
	if !session.SafeNext(next) {
		next = ""
	}
	h.render(c, status, "login", gin.H{
		"Title": "Sign in",
		"Email": email,
		"Next":  next,
		"Error": errMsg,
	})
}

func (h *Handler) submitLogin(c *gin.Context) {
	ctx := c.Request.Context()
	email := c.PostForm("email")

	if !h.login.Allow(c.ClientIP()) {
		h.renderLogin(c, http.StatusTooManyRequests, email, "Too many sign-in attempts. Please wait a minute and try again.")
		return
	}

	var in loginInput
	if err := c.ShouldBindWith(&in, trimmedForm{}); err != nil {
		msg := "Email and password are required."
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && verrs[0].Tag() == "email" {
			msg = "Enter a valid email address."
		}
		h.renderLogin(c, http.StatusBadRequest, email, msg)
		return
	}

	sess := session.From(c)
	next, err := h.gate.Login(ctx, sess, in.Email, in.Password, in.Next)
	switch {
	case errors.Is(err, session.ErrMissingCredentials):
		h.renderLogin(c, http.StatusBadRequest, email, "Email and password are required.")
		return
	case err != nil:
		logging.WithRequest(ctx, h.log).Info("sign in failed", zap.Error(err))
		status := http.StatusUnauthorized
		if errors.Is(err, apiclient.ErrUnavailable) {
			status = http.StatusBadGateway
		}
		h.renderLogin(c, status, email, apiclient.Message(err, "Invalid email or password."))
		return
	}

	flashSuccess(c, "Welcome back, "+sess.User().Name+".")
	c.Redirect(http.StatusSeeOther, next)
}

func registerForm() *form.Form {
	return form.New(
		form.Field{Name: "name", Label: "Name", Kind: form.Text, Required: true},
		form.Field{Name: "email", Label: "Email", Kind: form.Email, Required: true},
		form.Field{Name: "phone", Label: "Phone", Kind: form.Text},
		form.Field{Name: "password", Label: "Password", Kind: form.Password, Required: true},
		form.Field{Name: "confirm", Label: "Confirm password", Kind: form.Password, Required: true},
	)
}

func (h *Handler) registerPage(c *gin.Context) {
	h.render(c, http.StatusOK, "register", gin.H{"Title": "Create account", "Form": registerForm()})
}

func (h *Handler) submitRegister(c *gin.Context) {
	ctx := c.Request.Context()
	f := registerForm()
	var in registerInput
	if !h.bind(c, f, &in) {
		h.render(c, http.StatusUnprocessableEntity, "register", gin.H{"Title": "Create account", "Form": f})
		return
	}

	res, err := h.api.Auth.Register(ctx, apiclient.RegisterInput{
		Name:     in.Name,
		Email:    in.Email,
		Phone:    in.Phone,
		Password: in.Password,
	})
	if err == nil {
		err = h.gate.Establish(ctx, session.From(c), res)
	}
	if err != nil {
		applyFieldErrors(f, err)
		f.AddError("form", apiclient.Message(err, "Your account could not be created."))
		h.render(c, statusFor(err), "register", gin.H{"Title": "Create account", "Form": f})
		return
	}

	flashSuccess(c, "Your account is ready.")
	c.Redirect(http.StatusSeeOther, session.RedirectFor(session.From(c).User(), ""))
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.gate.Logout(c.Request.Context(), session.From(c)); err != nil {
		logging.WithRequest(c.Request.Context(), h.log).Warn("clear session", zap.Error(err))
	}
	flashSuccess(c, "You have been signed out.")
	c.Redirect(http.StatusSeeOther, homePath)
}

func (h *Handler) unauthorized(c *gin.Context) {
	h.render(c, http.StatusForbidden, "unauthorized", gin.H{"Title": "Access denied"})
}

func profileForm() *form.Form {
	return form.New(
		form.Field{Name: "name", Label: "Name", Kind: form.Text, Required: true},
		form.Field{Name: "email", Label: "Email", Kind: form.Email, Required: true},
		form.Field{Name: "phone", Label: "Phone", Kind: form.Text},
	)
}

func passwordForm() *form.Form {
	return form.New(
		form.Field{Name: "currentPassword", Label: "Current password", Kind: form.Password, Required: true},
		form.Field{Name: "newPassword", Label: "New password", Kind: form.Password, Required: true},
		form.Field{Name: "confirm", Label: "Confirm new password", Kind: form.Password, Required: true},
	)
}

func (h *Handler) account(c *gin.Context) {
	ctx := c.Request.Context()
	sess := session.From(c)
	profile := profileForm()

	user, err := h.api.Auth.Me(ctx)
	switch {
	case errors.Is(err, apiclient.ErrUnauthorized):
		h.fail(c, err, "")
		return
	case err != nil:
		logging.WithRequest(ctx, h.log).Warn("load profile", zap.Error(err))
		user = sess.User()
	default:
		if serr := sess.SetUser(ctx, *user); serr != nil {
			logging.WithRequest(ctx, h.log).Warn("refresh cached user", zap.Error(serr))
		}
	}
	if user != nil {
		_ = profile.Fill(user)
	}
	h.renderAccount(c, http.StatusOK, profile, passwordForm())
}

func (h *Handler) renderAccount(c *gin.Context, status int, profile, password *form.Form) {
	h.render(c, status, "account", gin.H{
		"Title":    "My account",
		"Profile":  profile,
		"Password": password,
	})
}

func (h *Handler) updateProfile(c *gin.Context) {
	ctx := c.Request.Context()
	f := profileForm()
	var in profileInput
	if !h.bind(c, f, &in) {
		h.renderAccount(c, http.StatusUnprocessableEntity, f, passwordForm())
		return
	}

	user, err := h.api.Auth.UpdateProfile(ctx, apiclient.ProfileInput{
		Name:  in.Name,
		Email: in.Email,
		Phone: in.Phone,
	})
	if err != nil {
		if errors.Is(err, apiclient.ErrUnauthorized) {
			h.fail(c, err, "")
			return
		}
		applyFieldErrors(f, err)
		f.AddError("form", apiclient.Message(err, "Your profile could not be updated."))
		h.renderAccount(c, statusFor(err), f, passwordForm())
		return
	}
	if user != nil {
		if err := session.From(c).SetUser(ctx, *user); err != nil {
			logging.WithRequest(ctx, h.log).Warn("refresh cached user", zap.Error(err))
		}
	}
	flashSuccess(c, "Profile updated.")
	c.Redirect(http.StatusSeeOther, "/account")
}

func (h *Handler) changePassword(c *gin.Context) {
	ctx := c.Request.Context()
	f := passwordForm()
	profile := profileForm()
	if u := session.From(c).User(); u != nil {
		_ = profile.Fill(u)
	}
	var in passwordInput
	if !h.bind(c, f, &in) {
		h.renderAccount(c, http.StatusUnprocessableEntity, profile, f)
		return
	}

	err := h.api.Auth.ChangePassword(ctx, apiclient.PasswordChange{
		CurrentPassword: in.CurrentPassword,
		NewPassword:     in.NewPassword,
	})
	if err != nil {
		if errors.Is(err, apiclient.ErrUnauthorized) {
			h.fail(c, err, "")
			return
		}
		f.AddError("form", apiclient.Message(err, "Your password could not be changed."))
		h.renderAccount(c, statusFor(err), profile, f)
		return
	}
	flashSuccess(c, "Password changed.")
	c.Redirect(http.StatusSeeOther, "/account")
}
