package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/landmark-estates/landmark-web/internal/logging"
	"github.com/landmark-estates/landmark-web/internal/metrics"
)

// refreshGrace is how long a refresh result is remembered for requests that
// were sent with the superseded tokens.
const refreshGrace = 30 * time.Second

// refreshTimeout bounds a shared refresh call, which outlives the
// cancellation of whichever request started it.
const refreshTimeout = 10 * time.Second

// AuthTransport attaches the session's bearer token to every request and,
// when the API answers 401, performs one silent refresh with the stored
// refresh token. A successful refresh retries the original request once; a
// failed refresh clears the session. It never retries more than once.
//
// Concurrent 401s for the same refresh token share a single refresh call,
// and a request that raced a completed refresh retries with the new token
// instead of refreshing again.
type AuthTransport struct {
	Base       http.RoundTripper
	RefreshURL string
	Log        *zap.Logger

	group singleflight.Group

	mu     sync.Mutex
	recent map[string]rotated
}

type tokenPair struct {
	access  string
	refresh string
}

type rotated struct {
	tokenPair
	at time.Time
}

func (t *AuthTransport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	holder := TokensFrom(ctx)
	if holder == nil || holder.AccessToken() == "" {
		return t.base().RoundTrip(req)
	}

	sent := holder.AccessToken()
	refreshToken := holder.RefreshToken()
	resp, err := t.base().RoundTrip(withBearer(req, sent, req.Body))
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	log := logging.WithRequest(ctx, t.Log)

	// Another request on this session refreshed while this one was in flight.
	if current := holder.AccessToken(); current != "" && current != sent {
		return t.retry(req, resp, current)
	}

	if refreshToken == "" {
		metrics.RecordTokenRefresh("skipped")
		if cerr := holder.Clear(ctx); cerr != nil {
			log.Warn("clear session after 401", zap.Error(cerr))
		}
		return resp, nil
	}

	if !replayable(req) {
		metrics.RecordTokenRefresh("skipped")
		return resp, nil
	}

	pair, rerr := t.refreshOnce(ctx, refreshToken)
	if rerr != nil {
		metrics.RecordTokenRefresh("failed")
		// Only the holder of the rejected refresh token is signed out; a
		// concurrent success may already have replaced it.
		if holder.RefreshToken() != refreshToken {
			if current := holder.AccessToken(); current != "" {
				return t.retry(req, resp, current)
			}
			return resp, nil
		}
		log.Info("token refresh failed, clearing session", zap.Error(rerr))
		if cerr := holder.Clear(ctx); cerr != nil {
			log.Warn("clear session after failed refresh", zap.Error(cerr))
		}
		return resp, nil
	}

	if holder.AccessToken() != pair.access {
		if uerr := holder.UpdateTokens(ctx, pair.access, pair.refresh); uerr != nil {
			log.Warn("persist refreshed tokens", zap.Error(uerr))
		}
	}
	return t.retry(req, resp, pair.access)
}

// retry discards the 401 and replays req once with access.
func (t *AuthTransport) retry(req *http.Request, unauthorized *http.Response, access string) (*http.Response, error) {
	var body io.ReadCloser
	if req.Body != nil && req.Body != http.NoBody {
		if req.GetBody == nil {
			return unauthorized, nil
		}
		b, err := req.GetBody()
		if err != nil {
			return unauthorized, nil
		}
		body = b
	}
	_, _ = io.Copy(io.Discard, unauthorized.Body)
	_ = unauthorized.Body.Close()
	return t.base().RoundTrip(withBearer(req, access, body))
}

// replayable reports whether req's body can be sent a second time.
func replayable(req *http.Request) bool {
	return req.Body == nil || req.Body == http.NoBody || req.GetBody != nil
}

// refreshOnce exchanges refreshToken for new tokens. Callers holding the same
// refresh token share one upstream call, and a token rotated moments ago
// resolves to its successor without calling the API again.
func (t *AuthTransport) refreshOnce(ctx context.Context, refreshToken string) (tokenPair, error) {
	if pair, ok := t.recentPair(refreshToken); ok {
		metrics.RecordTokenRefresh("shared")
		return pair, nil
	}
	v, err, shared := t.group.Do(refreshToken, func() (any, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()
		access, refresh, err := t.refresh(rctx, refreshToken)
		if err != nil {
			return tokenPair{}, err
		}
		pair := tokenPair{access: access, refresh: refresh}
		t.remember(refreshToken, pair)
		return pair, nil
	})
	if err != nil {
		return tokenPair{}, err
	}
	if shared {
		metrics.RecordTokenRefresh("shared")
	} else {
		metrics.RecordTokenRefresh("success")
	}
	return v.(tokenPair), nil
}

func (t *AuthTransport) recentPair(refreshToken string) (tokenPair, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	r, ok := t.recent[refreshToken]
	if !ok || time.Since(r.at) > refreshGrace {
		return tokenPair{}, false
	}
	return r.tokenPair, true
}

func (t *AuthTransport) remember(refreshToken string, pair tokenPair) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.recent == nil {
		t.recent = make(map[string]rotated)
	}
	now := time.Now()
	for k, r := range t.recent {
		if now.Sub(r.at) > refreshGrace {
			delete(t.recent, k)
		}
	}
	t.recent[refreshToken] = rotated{tokenPair: pair, at: now}
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResult struct {
	Token        string `json:"token"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (t *AuthTransport) refresh(ctx context.Context, refreshToken string) (string, string, error) {
	payload, err := json.Marshal(refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return "", "", fmt.Errorf("marshal refresh request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.RefreshURL, bytes.NewReader(payload))
	if err != nil {
		return "", "", fmt.Errorf("create refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := t.base().RoundTrip(req)
	if err != nil {
		metrics.RecordUpstreamCall(http.MethodPost, "auth", "error", time.Since(start))
		return "", "", fmt.Errorf("refresh request failed: %w", err)
	}
	defer resp.Body.Close()
	metrics.RecordUpstreamCall(http.MethodPost, "auth", statusLabel(resp.StatusCode), time.Since(start))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("read refresh response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", "", parseAPIError(resp.StatusCode, body)
	}

	data, err := unwrapEnvelope(body)
	if err != nil {
		return "", "", err
	}
	var out refreshResult
	if err := json.Unmarshal(data, &out); err != nil {
		return "", "", fmt.Errorf("decode refresh response: %w", err)
	}
	access := out.Token
	if access == "" {
		access = out.AccessToken
	}
	if access == "" {
		return "", "", errors.New("refresh response carried no token")
	}
	if out.RefreshToken == "" {
		out.RefreshToken = refreshToken
	}
	return access, out.RefreshToken, nil
}

func withBearer(req *http.Request, token string, body io.ReadCloser) *http.Request {
	r := req.Clone(req.Context())
	r.Body = body
	if body == nil {
		r.Body = req.Body
	}
	r.Header.Set("Authorization", "Bearer "+token)
	return r
}

// RateLimitTransport holds requests to the API to a steady rate.
type RateLimitTransport struct {
	Base    http.RoundTripper
	Limiter *rate.Limiter
}

func (t *RateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.Limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}
