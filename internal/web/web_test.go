package web

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/landmark-estates/landmark-web/internal/apiclient"
	"github.com/landmark-estates/landmark-web/internal/cache"
	"github.com/landmark-estates/landmark-web/internal/content"
	"github.com/landmark-estates/landmark-web/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeAPI is an in-memory REST API speaking the envelope format.
type fakeAPI struct {
	mu        sync.Mutex
	addresses []map[string]any
	leads     []map[string]any
	creates   int
	logouts   int
	// idKey is the key records are identified by on the wire: "id" (the
	// default), "_id", or "-" for records sent without one.
	idKey string
}

// wire renders a stored record with the configured identity key.
func (f *fakeAPI) wire(rec map[string]any) map[string]any {
	out := make(map[string]any, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	switch f.idKey {
	case "_id":
		out["_id"] = out["id"]
		delete(out, "id")
	case "-":
		delete(out, "id")
	}
	return out
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{addresses: []map[string]any{
		{"id": "a1", "name": "Head Office", "type": "headquarters", "city": "Colombo", "country": "Sri Lanka", "isPrimary": true, "isActive": true},
		{"id": "a2", "name": "Branch One", "type": "branch", "city": "Kandy", "country": "Sri Lanka", "isActive": false},
	}}
}

func sendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func testToken(exp time.Time) string {
	s, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u", "exp": exp.Unix()}).SignedString([]byte("k"))
	return s
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var in struct{ Email, Password string }
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.Password != "secret" {
			sendJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Invalid credentials"})
			return
		}
		role := "user"
		if strings.HasPrefix(in.Email, "admin") {
			role = "admin"
		}
		sendJSON(w, http.StatusOK, map[string]any{"data": map[string]any{
			"user":         map[string]any{"id": "u-" + role, "name": "Pat", "email": in.Email, "role": role},
			"token":        testToken(time.Now().Add(time.Hour)),
			"refreshToken": "refresh-" + role,
		}})
	})
	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.logouts++
		f.mu.Unlock()
		sendJSON(w, http.StatusOK, map[string]any{"success": true})
	})

	mux.HandleFunc("GET /projects", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		p1 := f.wire(map[string]any{"id": "p1", "title": "Harbour View", "location": "Colombo", "status": "ongoing", "featured": true, "isActive": true})
		f.mu.Unlock()
		sendJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"projects": []map[string]any{p1}}})
	})
	mux.HandleFunc("GET /projects/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "p1" {
			sendJSON(w, http.StatusNotFound, map[string]any{"message": "Project not found"})
			return
		}
		sendJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"project": map[string]any{
			"id": "p1", "title": "Harbour View", "location": "Colombo", "status": "ongoing", "isActive": true,
		}}})
	})
	mux.HandleFunc("GET /apartments", func(w http.ResponseWriter, r *http.Request) {
		sendJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"apartments": []any{}}})
	})

	unavailable := func(w http.ResponseWriter, r *http.Request) {
		sendJSON(w, http.StatusServiceUnavailable, map[string]any{"message": "down"})
	}
	mux.HandleFunc("GET /statistics/location/{loc}", unavailable)
	mux.HandleFunc("GET /statistics/footer", unavailable)
	mux.HandleFunc("GET /addresses/primary", unavailable)
	mux.HandleFunc("GET /team-members", unavailable)
	mux.HandleFunc("GET /milestones", unavailable)

	mux.HandleFunc("POST /leads", func(w http.ResponseWriter, r *http.Request) {
		var lead map[string]any
		_ = json.NewDecoder(r.Body).Decode(&lead)
		f.mu.Lock()
		lead["id"] = fmt.Sprintf("l%d", len(f.leads)+1)
		f.leads = append(f.leads, lead)
		f.mu.Unlock()
		sendJSON(w, http.StatusCreated, map[string]any{"data": map[string]any{"lead": lead}})
	})

	listAddresses := func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		items := make([]map[string]any, 0, len(f.addresses))
		for _, a := range f.addresses {
			items = append(items, f.wire(a))
		}
		f.mu.Unlock()
		sendJSON(w, http.StatusOK, map[string]any{"data": map[string]any{
			"addresses":  items,
			"pagination": map[string]any{"page": 1, "limit": len(items), "total": len(items), "pages": 1},
		}})
	}
	mux.HandleFunc("GET /addresses", listAddresses)
	mux.HandleFunc("GET /addresses/admin", listAddresses)
	mux.HandleFunc("POST /addresses", func(w http.ResponseWriter, r *http.Request) {
		var rec map[string]any
		_ = json.NewDecoder(r.Body).Decode(&rec)
		if rec["name"] == "Taken" {
			sendJSON(w, http.StatusConflict, map[string]any{"message": "Address already exists", "errors": map[string]string{"name": "Name is taken"}})
			return
		}
		f.mu.Lock()
		f.creates++
		rec["id"] = fmt.Sprintf("a%d", len(f.addresses)+1)
		f.addresses = append(f.addresses, rec)
		f.mu.Unlock()
		sendJSON(w, http.StatusCreated, map[string]any{"data": map[string]any{"address": rec}})
	})
	mux.HandleFunc("PATCH /addresses/{id}/set-primary", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		for _, a := range f.addresses {
			a["isPrimary"] = a["id"] == r.PathValue("id")
		}
		sendJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"address": map[string]any{"id": r.PathValue("id"), "isPrimary": true}}})
	})
	return mux
}

type site struct {
	api *fakeAPI
	srv *httptest.Server
}

func newSite(t *testing.T, opts Options) *site {
	t.Helper()
	fake := newFakeAPI()
	upstream := httptest.NewServer(fake.handler())
	t.Cleanup(upstream.Close)

	api := apiclient.NewAPI(apiclient.New(apiclient.Options{BaseURL: upstream.URL, Cache: cache.NewMemory()}))
	gate := session.NewGate(session.NewMemoryStore(time.Hour), api.Auth, nil)
	c, err := content.Default()
	require.NoError(t, err)

	r := gin.New()
	require.NoError(t, New(api, gate, c, opts).Register(r))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &site{api: fake, srv: srv}
}

// browser keeps cookies and does not follow redirects.
type browser struct {
	t      *testing.T
	base   string
	client *http.Client
}

func (s *site) browser(t *testing.T) *browser {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{t: t, base: s.srv.URL, client: &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}}
}

func (b *browser) do(req *http.Request) (*http.Response, string) {
	b.t.Helper()
	resp, err := b.client.Do(req)
	require.NoError(b.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	return resp, string(body)
}

func (b *browser) get(path string) (*http.Response, string) {
	req, err := http.NewRequest(http.MethodGet, b.base+path, nil)
	require.NoError(b.t, err)
	return b.do(req)
}

func (b *browser) post(path string, form url.Values) (*http.Response, string) {
	req, err := http.NewRequest(http.MethodPost, b.base+path, strings.NewReader(form.Encode()))
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) login(email string) {
	b.t.Helper()
	resp, _ := b.post("/login", url.Values{"email": {email}, "password": {"secret"}})
	require.Equal(b.t, http.StatusSeeOther, resp.StatusCode)
}

func TestHome_FallsBackToStaticStatistics(t *testing.T) {
	s := newSite(t, Options{})
	resp, body := s.browser(t).get("/")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Harbour View")
	assert.Contains(t, body, "Years of Experience")
	assert.Contains(t, body, "Happy Families")
}

func TestProjects_UnderscoreIDs(t *testing.T) {
	s := newSite(t, Options{})
	s.api.idKey = "_id"

	resp, body := s.browser(t).get("/projects?q=harbour")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Harbour View")
	assert.Contains(t, body, `href="/projects/p1"`)
}

func TestProjects_ListedWithoutIDs(t *testing.T) {
	s := newSite(t, Options{})
	s.api.idKey = "-"

	_, body := s.browser(t).get("/projects")
	assert.Contains(t, body, "Harbour View")
}

func TestProject_NotFound(t *testing.T) {
	s := newSite(t, Options{})
	resp, _ := s.browser(t).get("/projects/missing")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAdmin_AnonymousRedirectsToLogin(t *testing.T) {
	s := newSite(t, Options{})
	resp, _ := s.browser(t).get("/admin/leads?page=2")

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login?next=%2Fadmin%2Fleads%3Fpage%3D2", resp.Header.Get("Location"))
}

func TestLogin_AdminLandsOnDashboard(t *testing.T) {
	s := newSite(t, Options{})
	b := s.browser(t)

	resp, _ := b.post("/login", url.Values{"email": {"admin@example.com"}, "password": {"secret"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin", resp.Header.Get("Location"))

	resp, body := b.get("/admin/addresses")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Welcome back, Pat.")
	assert.Contains(t, body, "Head Office")
	assert.Contains(t, body, "Branch One")

	resp, _ = b.get("/login")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode, "signed in users skip the login page")
}

func TestLogin_HonoursNext(t *testing.T) {
	s := newSite(t, Options{})
	b := s.browser(t)

	resp, _ := b.post("/login", url.Values{"email": {"admin@example.com"}, "password": {"secret"}, "next": {"/admin/addresses?q=Head"}})
	assert.Equal(t, "/admin/addresses?q=Head", resp.Header.Get("Location"))
}

func TestLogin_BadCredentials(t *testing.T) {
	s := newSite(t, Options{})
	b := s.browser(t)

	resp, body := b.post("/login", url.Values{"email": {"admin@example.com"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "Invalid credentials")

	resp, body = b.post("/login", url.Values{"email": {""}, "password": {""}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "Email and password are required.")
}

func TestLogin_Throttled(t *testing.T) {
	s := newSite(t, Options{LoginPerMinute: 1, LoginBurst: 2})
	b := s.browser(t)

	for i := 0; i < 2; i++ {
		resp, _ := b.post("/login", url.Values{"email": {"a@example.com"}, "password": {"wrong"}})
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
	resp, body := b.post("/login", url.Values{"email": {"a@example.com"}, "password": {"secret"}})
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Contains(t, body, "Too many sign-in attempts")
}

func TestAdmin_NonAdminIsUnauthorized(t *testing.T) {
	s := newSite(t, Options{})
	b := s.browser(t)

	resp, _ := b.post("/login", url.Values{"email": {"user@example.com"}, "password": {"secret"}, "next": {"/admin"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	resp, _ = b.get("/admin")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/unauthorized", resp.Header.Get("Location"))

	resp, _ = b.get("/unauthorized")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestLogout(t *testing.T) {
	s := newSite(t, Options{})
	b := s.browser(t)
	b.login("admin@example.com")

	resp, _ := b.post("/logout", nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	assert.Equal(t, 1, s.api.logouts)

	resp, _ = b.get("/admin")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Location"), "/login"))
}

func TestAdmin_UnderscoreIDsDriveRowActions(t *testing.T) {
	s := newSite(t, Options{})
	s.api.idKey = "_id"
	b := s.browser(t)
	b.login("admin@example.com")

	resp, body := b.get("/admin/addresses")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `href="/admin/addresses/a1/edit"`)
	assert.Contains(t, body, `action="/admin/addresses/a2/toggle-active"`)
	assert.Contains(t, body, `action="/admin/addresses/a2/delete"`)
	assert.NotContains(t, body, "/admin/addresses/0/")
	assert.NotContains(t, body, "/admin/addresses/1/")

	resp, _ = b.post("/admin/addresses/a2/set-primary", url.Values{"return": {"/admin/addresses"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, true, s.api.addresses[1]["isPrimary"])
}

func TestAdmin_RowsWithoutIDsHaveNoActions(t *testing.T) {
	s := newSite(t, Options{})
	s.api.idKey = "-"
	b := s.browser(t)
	b.login("admin@example.com")

	_, body := b.get("/admin/addresses")
	assert.Contains(t, body, "Head Office")
	assert.Contains(t, body, "No record id")
	assert.NotContains(t, body, "/edit")
	assert.NotContains(t, body, "/delete")
}

func TestAdmin_ExportCSV(t *testing.T) {
	s := newSite(t, Options{})
	b := s.browser(t)
	b.login("admin@example.com")

	resp, body := b.get("/admin/addresses?format=csv&sel=a1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Regexp(t, `attachment; filename="export_\d{4}-\d{2}-\d{2}\.csv"`, resp.Header.Get("Content-Disposition"))

	lines := strings.Split(body, "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], `"Name","Type"`))
	assert.Contains(t, lines[1], `"Head Office"`)

	_, body = b.get("/admin/addresses?format=csv")
	assert.Len(t, strings.Split(body, "\n"), 3, "no selection exports the filtered set")
}

func TestAdmin_SelectionLinksRedirect(t *testing.T) {
	s := newSite(t, Options{})
	b := s.browser(t)
	b.login("admin@example.com")

	resp, _ := b.get("/admin/addresses?op=toggle&key=a2&sel=a1")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	loc, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/admin/addresses", loc.Path)
	assert.ElementsMatch(t, []string{"a1", "a2"}, loc.Query()["sel"])

	resp, _ = b.get("/admin/addresses?op=clear&sel=a1&sel=a2")
	loc, err = url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	assert.Empty(t, loc.Query()["sel"])
}

func TestAdmin_JSON(t *testing.T) {
	s := newSite(t, Options{})
	b := s.browser(t)
	b.login("admin@example.com")

	resp, body := b.get("/admin/api/addresses?q=Branch")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Data struct {
			Addresses  []map[string]any `json:"addresses"`
			Pagination struct {
				Total int `json:"total"`
			} `json:"pagination"`
			Search string `json:"search"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	require.Len(t, out.Data.Addresses, 1)
	assert.Equal(t, "a2", out.Data.Addresses[0]["id"])
	assert.Equal(t, 1, out.Data.Pagination.Total)
	assert.Equal(t, "Branch", out.Data.Search)

	resp, _ = b.get("/admin/api/nothing")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func addressForm(name, city string) url.Values {
	return url.Values{
		"name":         {name},
		"type":         {"branch"},
		"addressLine1": {"1 Lake Road"},
		"city":         {city},
		"state":        {"Central"},
		"postalCode":   {"20000"},
		"country":      {"Sri Lanka"},
		"isActive":     {"on"},
	}
}

func TestAdmin_CreateRefetchesList(t *testing.T) {
	s := newSite(t, Options{})
	b := s.browser(t)
	b.login("admin@example.com")

	_, body := b.get("/admin/addresses")
	require.NotContains(t, body, "Galle Office")

	resp, _ := b.post("/admin/addresses", addressForm("Galle Office", "Galle"))
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin/addresses", resp.Header.Get("Location"))

	_, body = b.get("/admin/addresses")
	assert.Contains(t, body, "Galle Office", "the cached list is invalidated by the create")
	assert.Contains(t, body, "Address saved.")
}

func TestAdmin_CreateValidation(t *testing.T) {
	s := newSite(t, Options{})
	b := s.browser(t)
	b.login("admin@example.com")

	resp, body := b.post("/admin/addresses", addressForm("Galle Office", ""))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "City is required")
	assert.Contains(t, body, `value="Galle Office"`)
	assert.Zero(t, s.api.creates)

	resp, body = b.post("/admin/addresses", addressForm("Taken", "Galle"))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Name is taken")
	assert.Contains(t, body, "Address already exists")
}

func TestAdmin_ActionReturnsToTable(t *testing.T) {
	s := newSite(t, Options{})
	b := s.browser(t)
	b.login("admin@example.com")

	resp, _ := b.post("/admin/addresses/a2/set-primary", url.Values{"return": {"/admin/addresses?q=Branch"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin/addresses?q=Branch", resp.Header.Get("Location"))
	assert.Equal(t, true, s.api.addresses[1]["isPrimary"])

	resp, _ = b.post("/admin/addresses/a2/launch", url.Values{"return": {"https://elsewhere.test/"}})
	assert.Equal(t, "/admin/addresses", resp.Header.Get("Location"))
}

func TestEnquiry(t *testing.T) {
	s := newSite(t, Options{})
	b := s.browser(t)

	resp, body := b.post("/projects/p1/enquire", url.Values{"name": {"Sam"}, "email": {"not-an-email"}, "phone": {"0771234567"}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Harbour View")
	assert.Empty(t, s.api.leads)

	resp, _ = b.post("/projects/p1/enquire", url.Values{"name": {"Sam"}, "email": {"sam@example.com"}, "phone": {"0771234567"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/projects/p1", resp.Header.Get("Location"))

	require.Len(t, s.api.leads, 1)
	assert.Equal(t, "p1", s.api.leads[0]["projectId"])
	assert.Equal(t, "project-page", s.api.leads[0]["source"])
	assert.Equal(t, "new", s.api.leads[0]["status"])

	_, body = b.get("/projects/p1")
	assert.Contains(t, body, "Our team will get in touch shortly.")
}

func TestEnquiry_TrimsSubmittedValues(t *testing.T) {
	s := newSite(t, Options{})
	b := s.browser(t)

	resp, body := b.post("/contact", url.Values{"name": {"   "}, "email": {"sam@example.com"}, "phone": {"0771234567"}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Name is required")

	resp, _ = b.post("/contact", url.Values{"name": {"  Sam  "}, "email": {" sam@example.com "}, "phone": {"0771234567 "}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Len(t, s.api.leads, 1)
	assert.Equal(t, "Sam", s.api.leads[0]["name"])
	assert.Equal(t, "sam@example.com", s.api.leads[0]["email"])
	assert.Equal(t, "contact-page", s.api.leads[0]["source"])
}

func TestRegister_Validation(t *testing.T) {
	s := newSite(t, Options{})
	b := s.browser(t)

	resp, body := b.post("/register", url.Values{
		"name": {"Sam"}, "email": {"sam@example.com"}, "password": {"short"}, "confirm": {"short"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Use at least 8 characters")

	resp, body = b.post("/register", url.Values{
		"name": {"Sam"}, "email": {"sam@example.com"}, "password": {"long enough"}, "confirm": {"different"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Passwords do not match")

	resp, body = b.post("/register", url.Values{
		"name": {"Sam"}, "email": {"nope"}, "password": {"long enough"}, "confirm": {"long enough"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Enter a valid email address")
}

func TestLogin_InvalidEmail(t *testing.T) {
	s := newSite(t, Options{})
	resp, body := s.browser(t).post("/login", url.Values{"email": {"admin"}, "password": {"secret"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "Enter a valid email address.")
}

func TestNoRoute(t *testing.T) {
	s := newSite(t, Options{})
	resp, body := s.browser(t).get("/nowhere")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "Page not found")
}
