package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpapi "github.com/landmark-estates/landmark-web/internal/api/http"
	"github.com/landmark-estates/landmark-web/internal/apiclient"
	"github.com/landmark-estates/landmark-web/internal/content"
	"github.com/landmark-estates/landmark-web/internal/session"
	"github.com/landmark-estates/landmark-web/internal/web"
)

func TestBuildRouter(t *testing.T) {
	SetGinMode("test")

	api := apiclient.NewAPI(apiclient.New(apiclient.Options{BaseURL: "http://127.0.0.1:1"}))
	gate := session.NewGate(session.NewMemoryStore(time.Hour), api.Auth, nil)
	c, err := content.Default()
	require.NoError(t, err)

	r, err := BuildRouter(RouterDeps{
		ServiceName:    "landmark-web",
		Version:        "test",
		Web:            web.New(api, gate, c, web.Options{}),
		Health:         map[string]httpapi.Pinger{"api": httpapi.PingFunc(func(context.Context) error { return nil })},
		AllowedOrigins: []string{"https://admin.example.com"},
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "web_http_request_duration_seconds")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/site.css", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login?next=%2Fadmin", w.Header().Get("Location"))
}

func TestSetGinMode(t *testing.T) {
	defer gin.SetMode(gin.TestMode)
	SetGinMode("production")
	assert.Equal(t, gin.ReleaseMode, gin.Mode())
}
