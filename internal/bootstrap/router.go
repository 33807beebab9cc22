package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	httpapi "github.com/landmark-estates/landmark-web/internal/api/http"
	"github.com/landmark-estates/landmark-web/internal/api/http/middleware"
	"github.com/landmark-estates/landmark-web/internal/web"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	Logger      *zap.Logger
	Web         *web.Handler
	// Health maps dependency names to their pingers; nil entries report as
	// disabled.
	Health map[string]httpapi.Pinger
	// AllowedOrigins may call the admin JSON endpoints cross-origin.
	AllowedOrigins []string
}

func BuildRouter(dep RouterDeps) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(dep.Logger))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Health)
	healthHandler.RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	var adminAPI []gin.HandlerFunc
	if len(dep.AllowedOrigins) > 0 {
		adminAPI = append(adminAPI, cors.New(cors.Config{
			AllowOrigins:     dep.AllowedOrigins,
			AllowMethods:     []string{"GET", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Accept", "X-Request-Id"},
			ExposeHeaders:    []string{"X-Request-Id"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	if err := dep.Web.Register(r, adminAPI...); err != nil {
		return nil, err
	}
	return r, nil
}
