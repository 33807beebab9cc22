package web

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/landmark-estates/landmark-web/internal/apiclient"
	"github.com/landmark-estates/landmark-web/internal/content"
	"github.com/landmark-estates/landmark-web/internal/domain"
	"github.com/landmark-estates/landmark-web/internal/logging"
	"github.com/landmark-estates/landmark-web/internal/table"
	"github.com/landmark-estates/landmark-web/internal/web/form"
)

const publicPageSize = 9

// positionKey tags each project row with its index in the API response. It
// is not a column, so search never sees it.
const positionKey = "__pos"

var projectColumns = []table.Column{
	{Key: "title"},
	{Key: "location"},
	{Key: "category"},
	{Key: "description"},
}

func enquiryForm() *form.Form {
	return form.New(
		form.Field{Name: "name", Label: "Name", Kind: form.Text, Required: true},
		form.Field{Name: "email", Label: "Email", Kind: form.Email, Required: true},
		form.Field{Name: "phone", Label: "Phone", Kind: form.Text, Required: true},
		form.Field{Name: "message", Label: "Message", Kind: form.Textarea},
	)
}

func (h *Handler) home(c *gin.Context) {
	ctx := c.Request.Context()
	log := logging.WithRequest(ctx, h.log)

	featured, err := h.api.Projects.Featured(ctx, apiclient.FeaturedLimit)
	if err != nil {
		log.Warn("featured projects unavailable", zap.Error(err))
	}
	stats, err := h.api.Statistics.ByLocation(ctx, "home")
	stats = content.Or(stats, err, h.content.StatisticsFor("home"))

	h.render(c, http.StatusOK, "home", gin.H{
		"Title":    "Home",
		"Featured": featured,
		"Stats":    stats,
		"About":    h.content.About,
	})
}

func (h *Handler) about(c *gin.Context) {
	ctx := c.Request.Context()

	var team []domain.TeamMember
	page, err := h.api.TeamMembers.List(ctx, apiclient.ListParams{})
	if err == nil {
		team = page.Items
	}
	team = content.Or(team, err, h.content.ActiveTeam())

	var milestones []domain.Milestone
	mpage, err := h.api.Milestones.List(ctx, apiclient.ListParams{})
	if err == nil {
		milestones = mpage.Items
	}
	milestones = content.Or(milestones, err, h.content.ActiveMilestones())

	stats, err := h.api.Statistics.ByLocation(ctx, "about")
	stats = content.Or(stats, err, h.content.StatisticsFor("about"))

	h.render(c, http.StatusOK, "about", gin.H{
		"Title":      "About us",
		"About":      h.content.About,
		"Team":       team,
		"Milestones": milestones,
		"Stats":      stats,
	})
}

// projects lists public projects. The status filter is forwarded to the API;
// search and paging run through the table pipeline.
func (h *Handler) projects(c *gin.Context) {
	ctx := c.Request.Context()
	status := c.Query("status")
	switch domain.ProjectStatus(status) {
	case domain.StatusUpcoming, domain.StatusOngoing, domain.StatusCompleted:
	default:
		status = ""
	}

	data := gin.H{"Title": "Projects", "Status": status}
	page, err := h.api.Projects.List(ctx, apiclient.ListParams{Status: status, Limit: apiclient.PublicProjectsLimit})
	if err != nil {
		logging.WithRequest(ctx, h.log).Warn("list projects", zap.Error(err))
		data["Error"] = apiclient.Message(err, "Projects could not be loaded. Please try again shortly.")
		h.render(c, http.StatusBadGateway, "projects", data)
		return
	}

	rows, err := table.RowsOf(page.Items)
	if err != nil {
		h.fail(c, err, "Projects could not be loaded.")
		return
	}
	for i, row := range rows {
		row[positionKey] = i
	}

	st := table.ParseState(c.Request.URL.Query())
	st.PageSize = publicPageSize
	st.Filters = nil
	st.Sort = table.Sort{}
	res := table.Apply(rows, projectColumns, st)

	visible := make([]domain.Project, 0, len(res.Rows))
	for _, row := range res.Rows {
		if i, ok := row[positionKey].(int); ok && i < len(page.Items) {
			visible = append(visible, page.Items[i])
		}
	}

	link := func(page int) string {
		q := st.WithPage(page).Query()
		if status != "" {
			q.Set("status", status)
		}
		return "/projects?" + q.Encode()
	}
	data["Projects"] = visible
	data["Result"] = res
	data["Search"] = st.Search
	if res.HasPrev {
		data["PrevURL"] = link(res.Page - 1)
	}
	if res.HasNext {
		data["NextURL"] = link(res.Page + 1)
	}
	h.render(c, http.StatusOK, "projects", data)
}

func (h *Handler) project(c *gin.Context) {
	h.renderProject(c, http.StatusOK, enquiryForm())
}

func (h *Handler) renderProject(c *gin.Context, status int, f *form.Form) {
	ctx := c.Request.Context()
	id := c.Param("id")

	p, err := h.api.Projects.Get(ctx, id)
	if errors.Is(err, apiclient.ErrNotFound) || (err == nil && p == nil) {
		h.render(c, http.StatusNotFound, "not_found", gin.H{"Title": "Project not found"})
		return
	}
	if err != nil {
		h.fail(c, err, "This project could not be loaded.")
		return
	}

	data := gin.H{"Title": p.Title, "Project": p, "Form": f}
	apartments, err := h.api.Apartments.ForProject(ctx, p.ID)
	if err != nil {
		logging.WithRequest(ctx, h.log).Warn("list apartments", zap.String("project_id", p.ID), zap.Error(err))
		data["ApartmentsError"] = "Apartment details are unavailable right now."
	}
	data["Apartments"] = apartments
	h.render(c, status, "project", data)
}

func (h *Handler) enquireProject(c *gin.Context) {
	id := c.Param("id")
	f := enquiryForm()
	var in enquiryInput
	if !h.bind(c, f, &in) {
		h.renderProject(c, http.StatusUnprocessableEntity, f)
		return
	}
	if !h.submitLead(c, f, in, id, "project-page") {
		h.renderProject(c, http.StatusBadGateway, f)
		return
	}
	c.Redirect(http.StatusSeeOther, "/projects/"+url.PathEscape(id))
}

func (h *Handler) contact(c *gin.Context) {
	h.renderContact(c, http.StatusOK, enquiryForm())
}

func (h *Handler) renderContact(c *gin.Context, status int, f *form.Form) {
	ctx := c.Request.Context()
	var addresses []domain.Address
	page, err := h.api.Addresses.List(ctx, apiclient.ListParams{})
	if err == nil {
		for _, a := range page.Items {
			if a.IsActive {
				addresses = append(addresses, a)
			}
		}
	}
	addresses = content.Or(addresses, err, h.content.AddressesFor("about"))

	h.render(c, status, "contact", gin.H{
		"Title":     "Contact",
		"Addresses": addresses,
		"Form":      f,
	})
}

func (h *Handler) submitContact(c *gin.Context) {
	f := enquiryForm()
	var in enquiryInput
	if !h.bind(c, f, &in) {
		h.renderContact(c, http.StatusUnprocessableEntity, f)
		return
	}
	if !h.submitLead(c, f, in, "", "contact-page") {
		h.renderContact(c, http.StatusBadGateway, f)
		return
	}
	c.Redirect(http.StatusSeeOther, "/contact")
}

// submitLead posts the enquiry and sets the matching flash. On failure the
// message is also attached to the form so the re-rendered page shows it.
func (h *Handler) submitLead(c *gin.Context, f *form.Form, in enquiryInput, projectID, source string) bool {
	ctx := c.Request.Context()
	lead := domain.Lead{
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Message:   in.Message,
		ProjectID: projectID,
		Source:    source,
		Status:    domain.LeadNew,
	}
	if _, err := h.api.Leads.Submit(ctx, lead); err != nil {
		logging.WithRequest(ctx, h.log).Warn("submit lead", zap.String("source", source), zap.Error(err))
		f.AddError("form", apiclient.Message(err, "Your enquiry could not be sent. Please try again."))
		return false
	}
	flashSuccess(c, "Thank you! Our team will get in touch shortly.")
	return true
}
