package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/landmark-estates/landmark-web/internal/apiclient"
	"github.com/landmark-estates/landmark-web/internal/domain"
	"github.com/landmark-estates/landmark-web/internal/logging"
	"github.com/landmark-estates/landmark-web/internal/metrics"
)

var ErrMissingCredentials = errors.New("email and password are required")

// Authenticator is the part of the auth API the gate needs.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*apiclient.LoginResult, error)
	Logout(ctx context.Context, refreshToken string) error
}

// Gate drives session state transitions. It is the only writer of the store.
type Gate struct {
	store Store
	auth  Authenticator
	log   *zap.Logger
	now   func() time.Time
}

func NewGate(store Store, auth Authenticator, log *zap.Logger) *Gate {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gate{store: store, auth: auth, log: log, now: time.Now}
}

// Open loads the session for id, or starts an anonymous one under a fresh id
// when id is empty. Store failures degrade to an anonymous session. An
// anonymous id is never trusted with credentials: Establish replaces it.
func (g *Gate) Open(ctx context.Context, id string) *Session {
	id = strings.TrimSpace(id)
	if id == "" {
		return newSession(uuid.NewString(), g.store, nil)
	}
	creds, err := g.store.Load(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logging.WithRequest(ctx, g.log).Warn("load session", zap.Error(err))
		}
		return newSession(id, g.store, nil)
	}
	return newSession(id, g.store, creds)
}

// Login authenticates with the API, persists the token triple and returns
// where the browser should go next.
func (g *Gate) Login(ctx context.Context, sess *Session, email, password, next string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", ErrMissingCredentials
	}
	res, err := g.auth.Login(ctx, email, password)
	if err != nil {
		return "", err
	}
	if err := g.Establish(ctx, sess, res); err != nil {
		return "", err
	}
	return RedirectFor(sess.User(), next), nil
}

// Establish stores a login or registration result in sess under a newly
// issued session id.
func (g *Gate) Establish(ctx context.Context, sess *Session, res *apiclient.LoginResult) error {
	user := res.User
	if user.Role == "" {
		user.Role = domain.RoleUser
	}
	if err := sess.establish(ctx, Credentials{User: &user, AccessToken: res.Access(), RefreshToken: res.RefreshToken}); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	metrics.RecordSessionTransition("login")
	logging.WithRequest(ctx, g.log).Info("signed in", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return nil
}

// Logout clears the session. The remote logout is best effort: its failure
// never keeps local credentials alive.
func (g *Gate) Logout(ctx context.Context, sess *Session) error {
	log := logging.WithRequest(ctx, g.log)
	if sess.IsAuthenticated() {
		creds := sess.Credentials()
		rctx := apiclient.WithTokens(ctx, &fixedTokens{access: creds.AccessToken})
		if err := g.auth.Logout(rctx, creds.RefreshToken); err != nil {
			log.Info("remote logout failed", zap.Error(err))
		}
		metrics.RecordSessionTransition("logout")
	}
	return sess.Clear(ctx)
}

// CheckTokenExpiry drops the session when its access token has expired or
// cannot be decoded. It makes no network call and is safe to run on every
// request. It reports whether the session was dropped.
func (g *Gate) CheckTokenExpiry(ctx context.Context, sess *Session) bool {
	if !sess.IsAuthenticated() {
		return false
	}
	if !tokenExpired(sess.AccessToken(), g.now()) {
		return false
	}
	if err := sess.Clear(ctx); err != nil {
		logging.WithRequest(ctx, g.log).Warn("clear expired session", zap.Error(err))
	}
	metrics.RecordSessionTransition("expired")
	return true
}

// RedirectFor picks the post-login destination: next when it is a local path
// the user may see, otherwise the role's home.
func RedirectFor(u *domain.User, next string) string {
	admin := u != nil && u.Role == domain.RoleAdmin
	if SafeNext(next) {
		if admin || !strings.HasPrefix(next, "/admin") {
			return next
		}
	}
	if admin {
		return "/admin"
	}
	return "/"
}

// SafeNext accepts only same-site absolute paths.
func SafeNext(next string) bool {
	return strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") && !strings.HasPrefix(next, "/\\")
}

// fixedTokens authenticates a single call without refresh or persistence.
type fixedTokens struct {
	access string
}

func (f *fixedTokens) AccessToken() string                                { return f.access }
func (f *fixedTokens) RefreshToken() string                               { return "" }
func (f *fixedTokens) UpdateTokens(context.Context, string, string) error { return nil }
func (f *fixedTokens) Clear(context.Context) error                        { return nil }
