// Package apiclient is the web tier's view of the REST API: request shaping,
// envelope unwrapping, the tagged response cache and the silent token refresh
// all live here so handlers only see typed values and errors.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/landmark-estates/landmark-web/internal/cache"
	"github.com/landmark-estates/landmark-web/internal/logging"
	"github.com/landmark-estates/landmark-web/internal/metrics"
)

const (
	DefaultTimeout  = 15 * time.Second
	DefaultCacheTTL = 2 * time.Minute
)

// Options configures a Client.
type Options struct {
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
	// RateLimit is requests per second towards the API; zero disables it.
	RateLimit float64
	Burst     int
	Cache     cache.Cache
	Logger    *zap.Logger
	// Transport is the innermost round tripper, http.DefaultTransport when nil.
	Transport http.RoundTripper
}

// Client talks to the REST API.
type Client struct {
	baseURL  string
	http     *http.Client
	cache    cache.Cache
	cacheTTL time.Duration
	log      *zap.Logger
}

// New builds a client whose transport chain is
// auth refresh -> rate limit -> base transport.
func New(opts Options) *Client {
	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		base = &RateLimitTransport{Base: base, Limiter: rate.NewLimiter(rate.Limit(opts.RateLimit), burst)}
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.CacheTTL == 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.Cache == nil {
		opts.Cache = cache.Nop{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")

	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: opts.Timeout,
			Transport: &AuthTransport{
				Base:       base,
				RefreshURL: baseURL + "/auth/refresh",
				Log:        opts.Logger,
			},
		},
		cache:    opts.Cache,
		cacheTTL: opts.CacheTTL,
		log:      opts.Logger,
	}
}

// BaseURL is the API root the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

// Ping checks that the API answers at all.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= 500 {
		return fmt.Errorf("api health returned status %d", resp.StatusCode)
	}
	return nil
}

// call describes one API request.
type call struct {
	method string
	path   string
	query  url.Values
	body   any
	form   *multipartBody
	// tag names the resource for cache grouping and metrics.
	tag string
	// cached GETs are served from and stored in the response cache.
	cached bool
	// invalidate lists tags to drop after a successful mutation.
	invalidate []string
}

type multipartBody struct {
	field    string
	filename string
	content  io.Reader
}

// do sends a call and returns the unwrapped envelope payload.
func (c *Client) do(ctx context.Context, cl call) (json.RawMessage, error) {
	log := logging.WithRequest(ctx, c.log)
	key := cl.cacheKey()

	if cl.cached {
		if data, err := c.cache.Get(ctx, key); err == nil {
			metrics.RecordCacheLookup(cl.tag, "hit")
			payload, err := unwrapEnvelope(data)
			if err != nil {
				return nil, err
			}
			return normalizeIDs(payload), nil
		} else if errors.Is(err, cache.ErrMiss) {
			metrics.RecordCacheLookup(cl.tag, "miss")
		} else {
			metrics.RecordCacheLookup(cl.tag, "error")
			log.Warn("cache get", zap.String("key", key), zap.Error(err))
		}
	}

	req, err := c.newRequest(ctx, cl)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordUpstreamCall(cl.method, cl.tag, "error", time.Since(start))
		log.Error("api request failed", zap.String("method", cl.method), zap.String("path", cl.path), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	metrics.RecordUpstreamCall(cl.method, cl.tag, statusLabel(resp.StatusCode), time.Since(start))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := parseAPIError(resp.StatusCode, body)
		if resp.StatusCode >= 500 {
			log.Warn("api returned error", zap.String("method", cl.method), zap.String("path", cl.path), zap.Int("status", resp.StatusCode))
		}
		return nil, apiErr
	}

	data, err := unwrapEnvelope(body)
	if err != nil {
		return nil, err
	}

	if cl.cached {
		if err := c.cache.Set(ctx, key, body, c.cacheTTL, cl.tag); err != nil {
			log.Warn("cache set", zap.String("key", key), zap.Error(err))
		}
	}
	if len(cl.invalidate) > 0 {
		if err := c.cache.InvalidateTags(ctx, cl.invalidate...); err != nil {
			log.Warn("cache invalidate", zap.Strings("tags", cl.invalidate), zap.Error(err))
		}
	}
	return normalizeIDs(data), nil
}

func (c *Client) newRequest(ctx context.Context, cl call) (*http.Request, error) {
	u := c.baseURL + cl.path
	if len(cl.query) > 0 {
		u += "?" + cl.query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case cl.form != nil:
		buf := &bytes.Buffer{}
		mw := multipart.NewWriter(buf)
		part, err := mw.CreateFormFile(cl.form.field, cl.form.filename)
		if err != nil {
			return nil, fmt.Errorf("create form file: %w", err)
		}
		if _, err := io.Copy(part, cl.form.content); err != nil {
			return nil, fmt.Errorf("copy upload: %w", err)
		}
		if err := mw.Close(); err != nil {
			return nil, fmt.Errorf("close multipart: %w", err)
		}
		body = bytes.NewReader(buf.Bytes())
		contentType = mw.FormDataContentType()
	case cl.body != nil:
		payload, err := json.Marshal(cl.body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, u, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if rid := logging.RequestID(ctx); rid != "" {
		req.Header.Set("X-Request-Id", rid)
	}
	return req, nil
}

func (cl call) cacheKey() string {
	key := cl.method + " " + cl.path
	if len(cl.query) > 0 {
		key += "?" + cl.query.Encode()
	}
	return key
}

type envelope struct {
	Data json.RawMessage `json:"data"`
}

// unwrapEnvelope strips the {"data": ...} wrapper. A body without one is
// returned as is.
func unwrapEnvelope(body []byte) (json.RawMessage, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		if !json.Valid(body) {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		return body, nil
	}
	if len(env.Data) == 0 {
		return body, nil
	}
	return env.Data, nil
}

// normalizeIDs copies "_id" into "id" on every object that has no id of its
// own, so records decode the same whichever key the API uses.
func normalizeIDs(data json.RawMessage) json.RawMessage {
	if !bytes.Contains(data, []byte(`"_id"`)) {
		return data
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return data
	}
	if !copyIDs(v) {
		return data
	}
	out, err := json.Marshal(v)
	if err != nil {
		return data
	}
	return out
}

// copyIDs reports whether it changed anything.
func copyIDs(v any) bool {
	changed := false
	switch t := v.(type) {
	case map[string]any:
		if cur, ok := t["id"]; !ok || cur == nil || cur == "" {
			switch id := t["_id"].(type) {
			case string:
				if id != "" {
					t["id"] = id
					changed = true
				}
			case json.Number:
				t["id"] = id.String()
				changed = true
			}
		}
		for _, child := range t {
			if copyIDs(child) {
				changed = true
			}
		}
	case []any:
		for _, child := range t {
			if copyIDs(child) {
				changed = true
			}
		}
	}
	return changed
}

func statusLabel(code int) string {
	return fmt.Sprintf("%dxx", code/100)
}
