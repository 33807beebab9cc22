package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/landmark-estates/landmark-web/internal/domain"
)

// LoginResult is the token triple returned by login and register.
type LoginResult struct {
	User         domain.User `json:"user"`
	Token        string      `json:"token"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

// Access returns whichever access token field the API filled.
func (r LoginResult) Access() string {
	if r.Token != "" {
		return r.Token
	}
	return r.AccessToken
}

// RegisterInput creates an account.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

// ProfileInput updates the signed in user.
type ProfileInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// PasswordChange replaces the signed in user's password.
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Auth covers /auth.
type Auth struct {
	c *Client
}

// Login exchanges credentials for tokens.
func (a *Auth) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	return a.tokens(ctx, "/auth/login", map[string]string{"email": email, "password": password})
}

// Register creates an account and signs it in.
func (a *Auth) Register(ctx context.Context, in RegisterInput) (*LoginResult, error) {
	return a.tokens(ctx, "/auth/register", in)
}

func (a *Auth) tokens(ctx context.Context, path string, body any) (*LoginResult, error) {
	data, err := a.c.do(ctx, call{method: http.MethodPost, path: path, body: body, tag: "auth"})
	if err != nil {
		return nil, err
	}
	var out LoginResult
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}
	if out.Access() == "" {
		return nil, fmt.Errorf("login response carried no token")
	}
	return &out, nil
}

// Logout invalidates the tokens attached to ctx on the API.
func (a *Auth) Logout(ctx context.Context, refreshToken string) error {
	_, err := a.c.do(ctx, call{method: http.MethodPost, path: "/auth/logout", body: map[string]string{"refreshToken": refreshToken}, tag: "auth"})
	return err
}

// Me fetches the signed in user.
func (a *Auth) Me(ctx context.Context) (*domain.User, error) {
	data, err := a.c.do(ctx, call{method: http.MethodGet, path: "/auth/me", tag: "auth"})
	if err != nil {
		return nil, err
	}
	return decodeOne[domain.User](data, "user")
}

// UpdateProfile edits the signed in user.
func (a *Auth) UpdateProfile(ctx context.Context, in ProfileInput) (*domain.User, error) {
	data, err := a.c.do(ctx, call{method: http.MethodPut, path: "/auth/profile", body: in, tag: "auth", invalidate: []string{TagUsers}})
	if err != nil {
		return nil, err
	}
	return decodeOne[domain.User](data, "user")
}

// ChangePassword replaces the signed in user's password.
func (a *Auth) ChangePassword(ctx context.Context, in PasswordChange) error {
	_, err := a.c.do(ctx, call{method: http.MethodPut, path: "/auth/change-password", body: in, tag: "auth"})
	return err
}

// Uploads stores files through /upload and returns their URLs.
type Uploads struct {
	c *Client
}

type uploadResult struct {
	URL      string `json:"url"`
	FileURL  string `json:"fileUrl"`
	Location string `json:"location"`
}

// Image uploads a picture.
func (u *Uploads) Image(ctx context.Context, filename string, r io.Reader) (string, error) {
	return u.upload(ctx, "/upload/image", "image", filename, r)
}

// Brochure uploads a project brochure.
func (u *Uploads) Brochure(ctx context.Context, filename string, r io.Reader) (string, error) {
	return u.upload(ctx, "/upload/brochure", "brochure", filename, r)
}

// FloorPlan uploads an apartment floor plan.
func (u *Uploads) FloorPlan(ctx context.Context, filename string, r io.Reader) (string, error) {
	return u.upload(ctx, "/upload/floor-plan", "floorPlan", filename, r)
}

func (u *Uploads) upload(ctx context.Context, path, field, filename string, r io.Reader) (string, error) {
	data, err := u.c.do(ctx, call{
		method: http.MethodPost,
		path:   path,
		form:   &multipartBody{field: field, filename: filename, content: r},
		tag:    "upload",
	})
	if err != nil {
		return "", err
	}
	var out uploadResult
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	for _, v := range []string{out.URL, out.FileURL, out.Location} {
		if v != "" {
			return v, nil
		}
	}
	return "", fmt.Errorf("upload response carried no url")
}
