// Package web renders the public marketing site and the admin back office.
// Every page is server rendered; the REST API behind apiclient owns the data.
package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/landmark-estates/landmark-web/internal/apiclient"
	"github.com/landmark-estates/landmark-web/internal/content"
	"github.com/landmark-estates/landmark-web/internal/domain"
	"github.com/landmark-estates/landmark-web/internal/logging"
	"github.com/landmark-estates/landmark-web/internal/session"
)

const (
	homePath         = "/"
	loginPath        = "/login"
	unauthorizedPath = "/unauthorized"
	adminPath        = "/admin"

	defaultAdminFetchLimit = 500
	maxUploadBytes         = 32 << 20
)

// Options configures the handler.
type Options struct {
	Cookie session.CookieOptions
	// AdminFetchLimit caps how many records an admin table loads before the
	// table pipeline searches, sorts and pages them.
	AdminFetchLimit int
	// LoginPerMinute and LoginBurst throttle login attempts per client IP.
	LoginPerMinute float64
	LoginBurst     int
	Logger         *zap.Logger
}

// Handler serves every HTML route.
type Handler struct {
	api     *apiclient.API
	gate    *session.Gate
	content *content.Content
	log     *zap.Logger
	opts    Options

	panels []*panel
	byName map[string]*panel
	login  *throttle
	now    func() time.Time
}

func New(api *apiclient.API, gate *session.Gate, c *content.Content, opts Options) *Handler {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.AdminFetchLimit <= 0 {
		opts.AdminFetchLimit = defaultAdminFetchLimit
	}
	if opts.LoginPerMinute <= 0 {
		opts.LoginPerMinute = 10
	}
	if opts.LoginBurst <= 0 {
		opts.LoginBurst = 5
	}
	h := &Handler{
		api:     api,
		gate:    gate,
		content: c,
		log:     opts.Logger,
		opts:    opts,
		login:   newThrottle(opts.LoginPerMinute/60, opts.LoginBurst),
		now:     time.Now,
	}
	h.panels = buildPanels(api)
	h.byName = make(map[string]*panel, len(h.panels))
	for _, p := range h.panels {
		h.byName[p.Name] = p
	}
	return h
}

// Register installs the templates and routes on r. adminAPI, when given,
// wraps the JSON table endpoints (CORS).
func (h *Handler) Register(r *gin.Engine, adminAPI ...gin.HandlerFunc) error {
	tmpl, err := parseTemplates()
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)
	r.StaticFS("/static", http.FS(staticFiles()))

	site := r.Group("", session.Middleware(h.gate, h.opts.Cookie))

	site.GET("/", h.home)
	site.GET("/about", h.about)
	site.GET("/projects", h.projects)
	site.GET("/projects/:id", h.project)
	site.POST("/projects/:id/enquire", h.enquireProject)
	site.GET("/contact", h.contact)
	site.POST("/contact", h.submitContact)

	guest := site.Group("", session.GuestOnly(homePath))
	guest.GET("/login", h.loginPage)
	guest.POST("/login", h.submitLogin)
	guest.GET("/register", h.registerPage)
	guest.POST("/register", h.submitRegister)

	site.POST("/logout", h.logout)
	site.GET(unauthorizedPath, h.unauthorized)

	account := site.Group("/account", session.RequireAuth(loginPath))
	account.GET("", h.account)
	account.POST("/profile", h.updateProfile)
	account.POST("/password", h.changePassword)

	admin := site.Group(adminPath, session.RequireAuth(loginPath), session.RequireAdmin(unauthorizedPath))
	admin.GET("", h.dashboard)

	api := admin.Group("/api", adminAPI...)
	api.GET("/:panel", h.panelJSON)

	admin.GET("/:panel", h.panelList)
	admin.GET("/:panel/new", h.panelNew)
	admin.POST("/:panel", h.panelCreate)
	admin.GET("/:panel/:id/edit", h.panelEdit)
	admin.POST("/:panel/:id", h.panelUpdate)
	admin.POST("/:panel/:id/:action", h.panelAction)

	r.NoRoute(session.Middleware(h.gate, h.opts.Cookie), func(c *gin.Context) {
		h.render(c, http.StatusNotFound, "not_found", gin.H{"Title": "Page not found"})
	})
	return nil
}

// viewer is the session as templates see it.
type viewer struct {
	Authenticated bool
	Admin         bool
	User          *domain.User
}

func viewerOf(c *gin.Context) viewer {
	sess := session.From(c)
	if sess == nil {
		return viewer{}
	}
	return viewer{Authenticated: sess.IsAuthenticated(), Admin: sess.IsAdmin(), User: sess.User()}
}

// render adds the layout data every page needs and writes the template.
func (h *Handler) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	ctx := c.Request.Context()
	data["Viewer"] = viewerOf(c)
	data["Flash"] = popFlash(c)
	data["Path"] = c.Request.URL.Path
	data["Year"] = h.now().Year()
	data["FooterStats"], data["FooterAddress"] = h.footer(ctx)
	c.HTML(status, name, data)
}

// footer fetches footer statistics and the primary address, falling back to
// static content.
func (h *Handler) footer(ctx context.Context) ([]domain.Statistic, *domain.Address) {
	stats, err := h.api.Statistics.Footer(ctx)
	if err != nil {
		logging.WithRequest(ctx, h.log).Debug("footer statistics unavailable", zap.Error(err))
	}
	stats = content.Or(stats, err, h.content.StatisticsFor("footer"))

	addr, err := h.api.Addresses.Primary(ctx)
	if err != nil || addr == nil {
		if fallback := h.content.AddressesFor("footer"); len(fallback) > 0 {
			addr = &fallback[0]
		}
	}
	return stats, addr
}
