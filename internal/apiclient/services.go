package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/landmark-estates/landmark-web/internal/domain"
)

// Cache tags, one per resource collection.
const (
	TagProjects    = "projects"
	TagApartments  = "apartments"
	TagLeads       = "leads"
	TagTeamMembers = "team-members"
	TagMilestones  = "milestones"
	TagStatistics  = "statistics"
	TagAddresses   = "addresses"
	TagUsers       = "users"
)

// Limits shared by the public pages and the cache warmer so both hit the
// same cache keys.
const (
	FeaturedLimit       = 6
	PublicProjectsLimit = 200
)

// API bundles every resource service.
type API struct {
	client *Client

	Projects    *Projects
	Apartments  *Apartments
	Leads       *Leads
	TeamMembers *Resource[domain.TeamMember]
	Milestones  *Resource[domain.Milestone]
	Statistics  *Statistics
	Addresses   *Addresses
	Users       *Users
	Auth        *Auth
	Uploads     *Uploads
}

// NewAPI wires the services on top of c.
func NewAPI(c *Client) *API {
	return &API{
		client:      c,
		Projects:    &Projects{newResource[domain.Project](c, "/projects", TagProjects, "project", "projects", TagApartments)},
		Apartments:  &Apartments{newResource[domain.Apartment](c, "/apartments", TagApartments, "apartment", "apartments")},
		Leads:       &Leads{newResource[domain.Lead](c, "/leads", TagLeads, "lead", "leads")},
		TeamMembers: newResource[domain.TeamMember](c, "/team-members", TagTeamMembers, "teamMember", "teamMembers"),
		Milestones:  newResource[domain.Milestone](c, "/milestones", TagMilestones, "milestone", "milestones"),
		Statistics:  &Statistics{newResource[domain.Statistic](c, "/statistics", TagStatistics, "statistic", "statistics")},
		Addresses:   &Addresses{newResource[domain.Address](c, "/addresses", TagAddresses, "address", "addresses")},
		Users:       &Users{newResource[domain.User](c, "/auth/users", TagUsers, "user", "users")},
		Auth:        &Auth{c: c},
		Uploads:     &Uploads{c: c},
	}
}

// Client is the underlying transport client.
func (a *API) Client() *Client { return a.client }

// Projects adds status listing to the project resource.
type Projects struct {
	*Resource[domain.Project]
}

// ByStatus lists public projects in one lifecycle state.
func (p *Projects) ByStatus(ctx context.Context, status domain.ProjectStatus, limit int) ([]domain.Project, error) {
	page, err := p.List(ctx, ListParams{Status: string(status), Limit: limit})
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// Featured lists projects flagged for the home page.
func (p *Projects) Featured(ctx context.Context, limit int) ([]domain.Project, error) {
	page, err := p.List(ctx, ListParams{Limit: limit, Extra: url.Values{"featured": {"true"}}})
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// Apartments are scoped to projects.
type Apartments struct {
	*Resource[domain.Apartment]
}

// ForProject lists the apartments of one project.
func (a *Apartments) ForProject(ctx context.Context, projectID string) ([]domain.Apartment, error) {
	page, err := a.List(ctx, ListParams{Extra: url.Values{"projectId": {projectID}}})
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// Leads adds the public submission and status workflow.
type Leads struct {
	*Resource[domain.Lead]
}

// Submit records an enquiry from the public site.
func (l *Leads) Submit(ctx context.Context, in domain.Lead) (*domain.Lead, error) {
	return l.Create(ctx, in)
}

// UpdateStatus moves a lead through the sales workflow.
func (l *Leads) UpdateStatus(ctx context.Context, id string, status domain.LeadStatus) (*domain.Lead, error) {
	return l.action(ctx, id, "status", map[string]string{"status": string(status)})
}

// Statistics adds location queries and quick value edits.
type Statistics struct {
	*Resource[domain.Statistic]
}

// ByLocation lists statistics shown at loc (home, about or footer).
func (s *Statistics) ByLocation(ctx context.Context, loc string) ([]domain.Statistic, error) {
	data, err := s.c.do(ctx, call{method: http.MethodGet, path: s.path + "/location/" + url.PathEscape(loc), tag: s.tag, cached: true})
	if err != nil {
		return nil, err
	}
	page, err := decodeMany[domain.Statistic](data, s.many)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// Footer lists the statistics shown in the site footer.
func (s *Statistics) Footer(ctx context.Context) ([]domain.Statistic, error) {
	data, err := s.c.do(ctx, call{method: http.MethodGet, path: s.path + "/footer", tag: s.tag, cached: true})
	if err != nil {
		return nil, err
	}
	page, err := decodeMany[domain.Statistic](data, s.many)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// UpdateValue changes only the number of a statistic.
func (s *Statistics) UpdateValue(ctx context.Context, id string, value float64) (*domain.Statistic, error) {
	return s.action(ctx, id, "value", map[string]float64{"value": value})
}

// Addresses adds the primary address workflow.
type Addresses struct {
	*Resource[domain.Address]
}

// Primary fetches the primary address.
func (a *Addresses) Primary(ctx context.Context) (*domain.Address, error) {
	return a.getPath(ctx, a.path+"/primary")
}

// SetPrimary makes id the primary address. The API demotes the previous one.
func (a *Addresses) SetPrimary(ctx context.Context, id string) (*domain.Address, error) {
	return a.action(ctx, id, "set-primary", nil)
}

// Users is admin user management under /auth/users.
type Users struct {
	*Resource[domain.User]
}

// UpdateRole changes a user's role.
func (u *Users) UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	return u.action(ctx, id, "role", map[string]string{"role": string(role)})
}
