package web

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/landmark-estates/landmark-web/internal/apiclient"
	"github.com/landmark-estates/landmark-web/internal/domain"
	"github.com/landmark-estates/landmark-web/internal/table"
	"github.com/landmark-estates/landmark-web/internal/web/form"
)

var errUnknownAction = errors.New("unknown action")

// action is a one-click mutation on a record, e.g. set-primary. It returns
// the success message.
type action func(ctx context.Context, id string, in url.Values) (string, error)

// panel is one admin management screen: a resource wired to the generic
// table and form.
type panel struct {
	Name     string
	Title    string
	Singular string
	Columns  []table.Column
	Fields   []form.Field
	// ServerFilters are query parameters forwarded to the API list call.
	ServerFilters []string
	Creatable     bool
	Empty         string

	list   func(ctx context.Context, p apiclient.ListParams) ([]table.Row, int, error)
	get    func(ctx context.Context, id string) (any, error)
	create func(ctx context.Context, payload map[string]any) error
	update func(ctx context.Context, id string, payload map[string]any) error
	// prepare adjusts fields per request, e.g. to load select options.
	prepare func(ctx context.Context, fields []form.Field) []form.Field
	actions map[string]action
}

// bind wires the CRUD closures of p to r. adminList selects the admin list
// endpoint, which includes inactive records.
func bind[T any](p *panel, r *apiclient.Resource[T], adminList bool) *panel {
	list := r.List
	if adminList {
		list = r.AdminList
	}
	p.list = func(ctx context.Context, params apiclient.ListParams) ([]table.Row, int, error) {
		page, err := list(ctx, params)
		if err != nil {
			return nil, 0, err
		}
		rows, err := table.RowsOf(page.Items)
		if err != nil {
			return nil, 0, err
		}
		total := page.Pagination.Total
		if total < len(rows) {
			total = len(rows)
		}
		return rows, total, nil
	}
	p.get = func(ctx context.Context, id string) (any, error) {
		return r.Get(ctx, id)
	}
	p.create = func(ctx context.Context, payload map[string]any) error {
		_, err := r.Create(ctx, payload)
		return err
	}
	p.update = func(ctx context.Context, id string, payload map[string]any) error {
		_, err := r.Update(ctx, id, payload)
		return err
	}
	if p.actions == nil {
		p.actions = map[string]action{}
	}
	p.actions["delete"] = func(ctx context.Context, id string, _ url.Values) (string, error) {
		return p.Singular + " deleted", r.Delete(ctx, id)
	}
	p.actions["toggle-active"] = func(ctx context.Context, id string, _ url.Values) (string, error) {
		_, err := r.ToggleActive(ctx, id)
		return p.Singular + " visibility updated", err
	}
	return p
}

func buildPanels(api *apiclient.API) []*panel {
	return []*panel{
		projectsPanel(api),
		apartmentsPanel(api),
		leadsPanel(api),
		teamMembersPanel(api),
		milestonesPanel(api),
		statisticsPanel(api),
		addressesPanel(api),
		usersPanel(api),
	}
}

func projectsPanel(api *apiclient.API) *panel {
	p := &panel{
		Name:     "projects",
		Title:    "Projects",
		Singular: "Project",
		Columns: []table.Column{
			{Key: "title", Title: "Title", Sortable: true, Filterable: true},
			{Key: "location", Title: "Location", Sortable: true, Filterable: true},
			{Key: "category", Title: "Category", Sortable: true, Filterable: true},
			{Key: "status", Title: "Status", Sortable: true, Filterable: true, Render: badgeOf("status")},
			{Key: "progress", Title: "Progress", Sortable: true, Render: progressCell},
			{Key: "priceMin", Title: "Price", Sortable: true, Render: priceRange},
			{Key: "units", Title: "Units", Sortable: true},
			{Key: "isActive", Title: "Visibility", Sortable: true, Render: activeCell},
		},
		Fields: []form.Field{
			{Name: "title", Label: "Title", Kind: form.Text, Required: true},
			{Name: "location", Label: "Location", Kind: form.Text, Required: true},
			{Name: "category", Label: "Category", Kind: form.Select, Required: true,
				Options: form.Options(string(domain.CategoryResidential), string(domain.CategoryCommercial), string(domain.CategoryMixed))},
			{Name: "status", Label: "Status", Kind: form.Select, Required: true,
				Options: form.Options(string(domain.StatusUpcoming), string(domain.StatusOngoing), string(domain.StatusCompleted))},
			{Name: "progress", Label: "Progress", Kind: form.Integer, Rules: "gte=0,lte=100", Help: "Ongoing projects only, 0 to 100"},
			{Name: "priceMin", Label: "Minimum price", Kind: form.Number, Rules: "gte=0"},
			{Name: "priceMax", Label: "Maximum price", Kind: form.Number, Rules: "gte=0"},
			{Name: "units", Label: "Units", Kind: form.Integer, Rules: "gte=0"},
			{Name: "completionDate", Label: "Completion date", Kind: form.Date},
			{Name: "description", Label: "Description", Kind: form.Textarea},
			{Name: "images", Label: "Image URLs", Kind: form.List, Help: "Comma separated; the first is the cover"},
			{Name: "brochure", Label: "Brochure", Kind: form.File, Upload: "brochure"},
			{Name: "features", Label: "Features", Kind: form.List, Help: "Comma separated"},
			{Name: "featured", Label: "Featured on home page", Kind: form.Checkbox},
			{Name: "isActive", Label: "Visible on site", Kind: form.Checkbox},
		},
		ServerFilters: []string{"status", "category"},
		Creatable:     true,
		Empty:         "No projects yet.",
	}
	return bind(p, api.Projects.Resource, true)
}

func apartmentsPanel(api *apiclient.API) *panel {
	p := &panel{
		Name:     "apartments",
		Title:    "Apartments",
		Singular: "Apartment",
		Columns: []table.Column{
			{Key: "title", Title: "Title", Sortable: true, Filterable: true},
			{Key: "projectId", Title: "Project", Filterable: true},
			{Key: "type", Title: "Type", Sortable: true, Filterable: true},
			{Key: "areaSqft", Title: "Area (sq ft)", Sortable: true},
			{Key: "price", Title: "Price", Sortable: true, Render: moneyCell("price")},
			{Key: "floor", Title: "Floor", Sortable: true},
			{Key: "status", Title: "Status", Sortable: true, Filterable: true, Render: badgeOf("status")},
			{Key: "isActive", Title: "Visibility", Sortable: true, Render: activeCell},
		},
		Fields: []form.Field{
			{Name: "projectId", Label: "Project", Kind: form.Text, Required: true},
			{Name: "title", Label: "Title", Kind: form.Text, Required: true},
			{Name: "type", Label: "Type", Kind: form.Text, Required: true, Help: "e.g. 2BHK"},
			{Name: "areaSqft", Label: "Area (sq ft)", Kind: form.Number, Rules: "gte=0"},
			{Name: "price", Label: "Price", Kind: form.Number, Rules: "gte=0"},
			{Name: "floor", Label: "Floor", Kind: form.Integer},
			{Name: "status", Label: "Status", Kind: form.Select, Required: true,
				Options: form.Options(string(domain.ApartmentAvailable), string(domain.ApartmentBooked), string(domain.ApartmentSold))},
			{Name: "floorPlan", Label: "Floor plan", Kind: form.File, Upload: "floor-plan"},
			{Name: "isActive", Label: "Visible on site", Kind: form.Checkbox},
		},
		ServerFilters: []string{"status", "projectId"},
		Creatable:     true,
		Empty:         "No apartments yet.",
	}
	// The project field becomes a select of known projects when they load.
	p.prepare = func(ctx context.Context, fields []form.Field) []form.Field {
		page, err := api.Projects.AdminList(ctx, apiclient.ListParams{Limit: defaultAdminFetchLimit})
		if err != nil || len(page.Items) == 0 {
			return fields
		}
		opts := make([]form.Option, len(page.Items))
		for i, pr := range page.Items {
			opts[i] = form.Option{Value: pr.ID, Label: pr.Title}
		}
		out := make([]form.Field, len(fields))
		copy(out, fields)
		for i := range out {
			if out[i].Name == "projectId" {
				out[i].Kind = form.Select
				out[i].Options = opts
			}
		}
		return out
	}
	return bind(p, api.Apartments.Resource, true)
}

func leadsPanel(api *apiclient.API) *panel {
	statuses := form.Options(string(domain.LeadNew), string(domain.LeadContacted), string(domain.LeadQualified), string(domain.LeadClosed))
	p := &panel{
		Name:     "leads",
		Title:    "Leads",
		Singular: "Lead",
		Columns: []table.Column{
			{Key: "name", Title: "Name", Sortable: true, Filterable: true},
			{Key: "email", Title: "Email", Sortable: true, Filterable: true},
			{Key: "phone", Title: "Phone", Filterable: true},
			{Key: "projectId", Title: "Project", Filterable: true},
			{Key: "source", Title: "Source", Sortable: true, Filterable: true},
			{Key: "status", Title: "Status", Sortable: true, Filterable: true, Render: badgeOf("status")},
			{Key: "createdAt", Title: "Received", Sortable: true, Render: dateCell("createdAt")},
		},
		Fields: []form.Field{
			{Name: "name", Label: "Name", Kind: form.Text, Required: true},
			{Name: "email", Label: "Email", Kind: form.Email, Required: true},
			{Name: "phone", Label: "Phone", Kind: form.Text, Required: true},
			{Name: "message", Label: "Message", Kind: form.Textarea},
			{Name: "projectId", Label: "Project ID", Kind: form.Text},
			{Name: "source", Label: "Source", Kind: form.Text},
			{Name: "status", Label: "Status", Kind: form.Select, Required: true, Options: statuses},
		},
		ServerFilters: []string{"status", "projectId"},
		Creatable:     true,
		Empty:         "No leads yet.",
		actions: map[string]action{
			"status": func(ctx context.Context, id string, in url.Values) (string, error) {
				status := domain.LeadStatus(in.Get("status"))
				switch status {
				case domain.LeadNew, domain.LeadContacted, domain.LeadQualified, domain.LeadClosed:
				default:
					return "", fmt.Errorf("invalid lead status %q", status)
				}
				_, err := api.Leads.UpdateStatus(ctx, id, status)
				return "Lead marked " + string(status), err
			},
		},
	}
	return bind(p, api.Leads.Resource, true)
}

func teamMembersPanel(api *apiclient.API) *panel {
	p := &panel{
		Name:     "team-members",
		Title:    "Team members",
		Singular: "Team member",
		Columns: []table.Column{
			{Key: "name", Title: "Name", Sortable: true, Filterable: true},
			{Key: "position", Title: "Position", Sortable: true, Filterable: true},
			{Key: "experience", Title: "Experience", Sortable: true, Render: yearsCell},
			{Key: "specializations", Title: "Specializations", Filterable: true, Render: tagsCell("specializations")},
			{Key: "sortOrder", Title: "Order", Sortable: true},
			{Key: "isActive", Title: "Visibility", Sortable: true, Render: activeCell},
		},
		Fields: []form.Field{
			{Name: "name", Label: "Name", Kind: form.Text, Required: true},
			{Name: "position", Label: "Position", Kind: form.Text, Required: true},
			{Name: "experience", Label: "Experience (years)", Kind: form.Integer, Rules: "gte=0"},
			{Name: "description", Label: "Description", Kind: form.Textarea},
			{Name: "image", Label: "Photo", Kind: form.File, Upload: "image"},
			{Name: "socialLinks.linkedin", Label: "LinkedIn", Kind: form.URL},
			{Name: "socialLinks.twitter", Label: "Twitter", Kind: form.URL},
			{Name: "socialLinks.email", Label: "Public email", Kind: form.Email},
			{Name: "specializations", Label: "Specializations", Kind: form.List, Help: "Comma separated"},
			{Name: "achievements", Label: "Achievements", Kind: form.List, Help: "Comma separated"},
			{Name: "sortOrder", Label: "Sort order", Kind: form.Integer},
			{Name: "isActive", Label: "Visible on site", Kind: form.Checkbox},
		},
		ServerFilters: []string{"status"},
		Creatable:     true,
		Empty:         "No team members yet.",
	}
	return bind(p, api.TeamMembers, true)
}

func milestonesPanel(api *apiclient.API) *panel {
	p := &panel{
		Name:     "milestones",
		Title:    "Milestones",
		Singular: "Milestone",
		Columns: []table.Column{
			{Key: "year", Title: "Year", Sortable: true, Filterable: true},
			{Key: "heading", Title: "Heading", Sortable: true, Filterable: true},
			{Key: "description", Title: "Description", Filterable: true},
			{Key: "sortOrder", Title: "Order", Sortable: true},
			{Key: "isActive", Title: "Visibility", Sortable: true, Render: activeCell},
		},
		Fields: []form.Field{
			{Name: "year", Label: "Year", Kind: form.Text, Required: true, Rules: "numeric,len=4"},
			{Name: "heading", Label: "Heading", Kind: form.Text, Required: true},
			{Name: "description", Label: "Description", Kind: form.Textarea, Required: true},
			{Name: "icon", Label: "Icon", Kind: form.Text},
			{Name: "sortOrder", Label: "Sort order", Kind: form.Integer},
			{Name: "isActive", Label: "Visible on site", Kind: form.Checkbox},
		},
		ServerFilters: []string{"status"},
		Creatable:     true,
		Empty:         "No milestones yet.",
	}
	return bind(p, api.Milestones, true)
}

func statisticsPanel(api *apiclient.API) *panel {
	p := &panel{
		Name:     "statistics",
		Title:    "Statistics",
		Singular: "Statistic",
		Columns: []table.Column{
			{Key: "key", Title: "Key", Sortable: true, Filterable: true},
			{Key: "label", Title: "Label", Sortable: true, Filterable: true},
			{Key: "value", Title: "Value", Sortable: true, Render: statValueCell},
			{Key: "category", Title: "Category", Sortable: true, Filterable: true},
			{Key: "displayLocations", Title: "Shown on", Render: locationsCell},
			{Key: "isActive", Title: "Visibility", Sortable: true, Render: activeCell},
		},
		Fields: []form.Field{
			{Name: "key", Label: "Key", Kind: form.Text, Required: true, Rules: "excludesall=0x20", Help: "Unique, e.g. happy_families"},
			{Name: "label", Label: "Label", Kind: form.Text, Required: true},
			{Name: "value", Label: "Value", Kind: form.Number, Required: true},
			{Name: "prefix", Label: "Prefix", Kind: form.Text},
			{Name: "suffix", Label: "Suffix", Kind: form.Text},
			{Name: "category", Label: "Category", Kind: form.Text},
			{Name: "displayLocations.home", Label: "Home page", Kind: form.Checkbox},
			{Name: "displayLocations.about", Label: "About page", Kind: form.Checkbox},
			{Name: "displayLocations.footer", Label: "Footer", Kind: form.Checkbox},
			{Name: "animation", Label: "Animation", Kind: form.Select, Options: form.Options("count", "fade", "none")},
			{Name: "sortOrder", Label: "Sort order", Kind: form.Integer},
			{Name: "isActive", Label: "Visible on site", Kind: form.Checkbox},
		},
		ServerFilters: []string{"status", "category"},
		Creatable:     true,
		Empty:         "No statistics yet.",
		actions: map[string]action{
			"value": func(ctx context.Context, id string, in url.Values) (string, error) {
				v, err := strconv.ParseFloat(strings.TrimSpace(in.Get("value")), 64)
				if err != nil {
					return "", fmt.Errorf("value must be a number")
				}
				_, err = api.Statistics.UpdateValue(ctx, id, v)
				return "Statistic value updated", err
			},
		},
	}
	return bind(p, api.Statistics.Resource, true)
}

func addressesPanel(api *apiclient.API) *panel {
	p := &panel{
		Name:     "addresses",
		Title:    "Addresses",
		Singular: "Address",
		Columns: []table.Column{
			{Key: "name", Title: "Name", Sortable: true, Filterable: true},
			{Key: "type", Title: "Type", Sortable: true, Filterable: true, Render: badgeOf("type")},
			{Key: "city", Title: "City", Sortable: true, Filterable: true},
			{Key: "country", Title: "Country", Sortable: true, Filterable: true},
			{Key: "phone", Title: "Phone"},
			{Key: "isPrimary", Title: "Primary", Sortable: true, Render: primaryCell},
			{Key: "isActive", Title: "Visibility", Sortable: true, Render: activeCell},
		},
		Fields: []form.Field{
			{Name: "name", Label: "Name", Kind: form.Text, Required: true},
			{Name: "type", Label: "Type", Kind: form.Select, Required: true, Options: form.Options(
				string(domain.AddressHeadquarters), string(domain.AddressBranch), string(domain.AddressSalesOffice),
				string(domain.AddressSiteOffice), string(domain.AddressOther))},
			{Name: "addressLine1", Label: "Address line 1", Kind: form.Text, Required: true},
			{Name: "addressLine2", Label: "Address line 2", Kind: form.Text},
			{Name: "city", Label: "City", Kind: form.Text, Required: true},
			{Name: "state", Label: "State", Kind: form.Text, Required: true},
			{Name: "postalCode", Label: "Postal code", Kind: form.Text, Required: true},
			{Name: "country", Label: "Country", Kind: form.Text, Required: true},
			{Name: "phone", Label: "Phone", Kind: form.Text},
			{Name: "email", Label: "Email", Kind: form.Email},
			{Name: "workingHours", Label: "Working hours", Kind: form.Text},
			{Name: "mapUrl", Label: "Map URL", Kind: form.URL},
			{Name: "displayLocations.home", Label: "Home page", Kind: form.Checkbox},
			{Name: "displayLocations.about", Label: "About page", Kind: form.Checkbox},
			{Name: "displayLocations.footer", Label: "Footer", Kind: form.Checkbox},
			{Name: "isActive", Label: "Visible on site", Kind: form.Checkbox},
		},
		ServerFilters: []string{"status", "type"},
		Creatable:     true,
		Empty:         "No addresses yet.",
		actions: map[string]action{
			"set-primary": func(ctx context.Context, id string, _ url.Values) (string, error) {
				_, err := api.Addresses.SetPrimary(ctx, id)
				return "Primary address updated", err
			},
		},
	}
	return bind(p, api.Addresses.Resource, true)
}

func usersPanel(api *apiclient.API) *panel {
	p := &panel{
		Name:     "users",
		Title:    "Users",
		Singular: "User",
		Columns: []table.Column{
			{Key: "name", Title: "Name", Sortable: true, Filterable: true},
			{Key: "email", Title: "Email", Sortable: true, Filterable: true},
			{Key: "phone", Title: "Phone"},
			{Key: "role", Title: "Role", Sortable: true, Filterable: true, Render: badgeOf("role")},
			{Key: "isActive", Title: "Status", Sortable: true, Render: activeCell},
		},
		Fields: []form.Field{
			{Name: "name", Label: "Name", Kind: form.Text, Required: true},
			{Name: "email", Label: "Email", Kind: form.Email, Required: true},
			{Name: "phone", Label: "Phone", Kind: form.Text},
			{Name: "role", Label: "Role", Kind: form.Select, Required: true, Options: form.Options(string(domain.RoleUser), string(domain.RoleAdmin))},
			{Name: "isActive", Label: "Active", Kind: form.Checkbox},
		},
		ServerFilters: []string{"role"},
		Empty:         "No users found.",
		actions: map[string]action{
			"role": func(ctx context.Context, id string, in url.Values) (string, error) {
				role := domain.Role(in.Get("role"))
				if role != domain.RoleUser && role != domain.RoleAdmin {
					return "", fmt.Errorf("invalid role %q", role)
				}
				_, err := api.Users.UpdateRole(ctx, id, role)
				return "Role updated", err
			},
		},
	}
	// Users are listed from /auth/users itself; accounts are created by
	// registering.
	return bind(p, api.Users.Resource, false)
}

// fieldsFor returns the panel's fields for this request.
func (p *panel) fieldsFor(ctx context.Context) []form.Field {
	if p.prepare != nil {
		return p.prepare(ctx, p.Fields)
	}
	return p.Fields
}
