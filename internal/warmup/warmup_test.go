package warmup

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/landmark-estates/landmark-web/internal/apiclient"
	"github.com/landmark-estates/landmark-web/internal/cache"
)

type hits struct {
	mu    sync.Mutex
	paths map[string]int
}

func (h *hits) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	h.paths[r.URL.Path]++
	h.mu.Unlock()
	if r.URL.Path == "/milestones" {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"data":{}}`))
}

func (h *hits) count(path string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.paths[path]
}

func TestPublicJobs_WarmTheCache(t *testing.T) {
	h := &hits{paths: map[string]int{}}
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	api := apiclient.NewAPI(apiclient.New(apiclient.Options{BaseURL: srv.URL, Cache: cache.NewMemory()}))

	s := NewScheduler(nil, time.Second)
	require.NoError(t, s.Add("0 */5 * * * *", PublicJobs(api)...))
	s.RunAll(context.Background())

	assert.Equal(t, 1, h.count("/statistics/location/home"))
	assert.Equal(t, 1, h.count("/statistics/location/about"))
	assert.Equal(t, 1, h.count("/statistics/footer"))
	assert.Equal(t, 5, h.count("/projects"), "featured plus one listing per status")
	assert.Equal(t, 1, h.count("/team-members"), "a failing fetch does not stop the job")
	assert.Equal(t, 1, h.count("/addresses/primary"))

	s.RunAll(context.Background())
	assert.Equal(t, 1, h.count("/statistics/footer"), "second run is served from the cache")
	assert.Equal(t, 2, h.count("/milestones"), "failures are not cached")
}

func TestScheduler_RejectsBadSpec(t *testing.T) {
	s := NewScheduler(nil, 0)
	err := s.Add("every now and then", Job{Name: "x", Run: func(context.Context) error { return nil }})
	assert.ErrorContains(t, err, "schedule x")
}

func TestScheduler_RunAllContinuesAfterFailure(t *testing.T) {
	s := NewScheduler(nil, 0)
	var ran []string
	require.NoError(t, s.Add("@every 1h",
		Job{Name: "first", Run: func(context.Context) error { ran = append(ran, "first"); return errors.New("boom") }},
		Job{Name: "second", Run: func(ctx context.Context) error {
			_, ok := ctx.Deadline()
			assert.True(t, ok, "jobs run with a timeout")
			ran = append(ran, "second")
			return nil
		}},
	))
	s.RunAll(context.Background())
	assert.Equal(t, []string{"first", "second"}, ran)

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}

type fakePurger struct {
	n   int64
	err error
}

func (f fakePurger) PurgeExpired(context.Context) (int64, error) { return f.n, f.err }

func TestSessionPurge(t *testing.T) {
	assert.NoError(t, SessionPurge(fakePurger{n: 3}, nil).Run(context.Background()))
	assert.EqualError(t, SessionPurge(fakePurger{err: errors.New("db down")}, nil).Run(context.Background()), "db down")
}
