package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/landmark-estates/landmark-web/internal/apiclient"
	"github.com/landmark-estates/landmark-web/internal/logging"
	"github.com/landmark-estates/landmark-web/internal/table"
	"github.com/landmark-estates/landmark-web/internal/web/form"
)

type panelCount struct {
	Panel *panel
	Count int
	Err   bool
}

// dashboard counts each panel's records one call at a time, all on the
// visitor's session.
func (h *Handler) dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	counts := make([]panelCount, 0, len(h.panels))
	for _, p := range h.panels {
		_, total, err := p.list(ctx, apiclient.ListParams{Page: 1, Limit: 1})
		counts = append(counts, panelCount{Panel: p, Count: total, Err: err != nil})
	}

	h.render(c, http.StatusOK, "admin_dashboard", gin.H{"Title": "Dashboard", "Counts": counts})
}

func (h *Handler) panelFor(c *gin.Context) (*panel, bool) {
	p, ok := h.byName[c.Param("panel")]
	if !ok {
		h.render(c, http.StatusNotFound, "not_found", gin.H{"Title": "Page not found"})
		c.Abort()
	}
	return p, ok
}

// load fetches the panel's records and runs the table pipeline over them.
func (h *Handler) load(ctx context.Context, p *panel, q url.Values) (table.State, table.Result, error) {
	params := apiclient.ListParams{Limit: h.opts.AdminFetchLimit}
	for _, key := range p.ServerFilters {
		if v := strings.TrimSpace(q.Get(key)); v != "" {
			if params.Extra == nil {
				params.Extra = url.Values{}
			}
			params.Extra.Set(key, v)
		}
	}
	st := table.ParseState(q)
	rows, _, err := p.list(ctx, params)
	if err != nil {
		return st, table.Result{Page: 1, PageSize: st.PageSize}, err
	}
	return st, table.Apply(rows, p.Columns, st), nil
}

type headerView struct {
	Column     table.Column
	SortURL    string
	Dir        table.Direction
	Filter     string
	Filterable bool
}

type rowView struct {
	Key       string
	// HasID is false for rows keyed by position; they get no record actions.
	HasID     bool
	Cells     []template.HTML
	Selected  bool
	ToggleURL string
	Raw       table.Row
}

// listView is everything the admin table template needs.
type listView struct {
	Panel        *panel
	State        table.State
	Result       table.Result
	Headers      []headerView
	Rows         []rowView
	Selected     int
	PageSelected bool
	PrevURL      string
	NextURL      string
	ExportURL    string
	JSONURL      string
	SelectPage   string
	SelectAll    string
	ClearURL     string
	Return       string
	Servers      map[string]string
}

// listQuery encodes table state, server filters and selection.
func listQuery(p *panel, st table.State, q url.Values, sel *table.Selection) url.Values {
	out := st.Query()
	for _, key := range p.ServerFilters {
		if v := q.Get(key); v != "" {
			out.Set(key, v)
		}
	}
	for _, k := range sel.Keys() {
		out.Add("sel", k)
	}
	return out
}

func (h *Handler) panelList(c *gin.Context) {
	p, ok := h.panelFor(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	q := c.Request.URL.Query()
	st, res, err := h.load(ctx, p, q)
	if err != nil && errors.Is(err, apiclient.ErrUnauthorized) {
		h.fail(c, err, "")
		return
	}

	sel := table.NewSelection(q["sel"]...)

	// Selection changes come in as links and redirect back to the table.
	if op := q.Get("op"); op != "" && err == nil {
		switch op {
		case "toggle":
			sel.Toggle(q.Get("key"))
		case "page":
			sel.TogglePage(res)
		case "all":
			sel.SelectAll(res)
		case "clear":
			sel.Clear()
		}
		c.Redirect(http.StatusSeeOther, "/admin/"+p.Name+"?"+listQuery(p, st, q, sel).Encode())
		return
	}

	if c.Query("format") == "csv" && err == nil {
		h.exportCSV(c, p, res, sel)
		return
	}

	view := h.listView(p, st, res, q, sel)
	data := gin.H{"Title": p.Title, "List": view}
	status := http.StatusOK
	if err != nil {
		logging.WithRequest(ctx, h.log).Warn("load panel", zap.String("panel", p.Name), zap.Error(err))
		data["Error"] = apiclient.Message(err, "The "+strings.ToLower(p.Title)+" could not be loaded.")
		status = http.StatusBadGateway
	}
	h.render(c, status, "admin_list", data)
}

func (h *Handler) listView(p *panel, st table.State, res table.Result, q url.Values, sel *table.Selection) listView {
	base := "/admin/" + p.Name + "?"
	withQuery := func(s table.State, extra ...string) string {
		v := listQuery(p, s, q, sel)
		for i := 0; i+1 < len(extra); i += 2 {
			v.Set(extra[i], extra[i+1])
		}
		return base + v.Encode()
	}

	view := listView{
		Panel:        p,
		State:        st,
		Result:       res,
		Selected:     sel.Len(),
		PageSelected: sel.PageSelected(res),
		ExportURL:    withQuery(st, "format", "csv"),
		JSONURL:      "/admin/api/" + p.Name + "?" + listQuery(p, st, q, sel).Encode(),
		SelectPage:   withQuery(st, "op", "page"),
		SelectAll:    withQuery(st, "op", "all"),
		ClearURL:     withQuery(st, "op", "clear"),
		Return:       base + listQuery(p, st, q, sel).Encode(),
		Servers:      map[string]string{},
	}
	for _, key := range p.ServerFilters {
		view.Servers[key] = q.Get(key)
	}
	if res.HasPrev {
		view.PrevURL = withQuery(st.WithPage(res.Page - 1))
	}
	if res.HasNext {
		view.NextURL = withQuery(st.WithPage(res.Page + 1))
	}

	for _, col := range p.Columns {
		hv := headerView{Column: col, Filter: st.Filters[col.Key], Filterable: col.Filterable}
		if col.Sortable {
			hv.SortURL = withQuery(st.Toggled(col.Key))
			if st.Sort.Key == col.Key {
				hv.Dir = st.Sort.Dir
			}
		}
		view.Headers = append(view.Headers, hv)
	}

	keys := res.PageKeys()
	for i, row := range res.Rows {
		_, hasID := table.RowID(row)
		rv := rowView{Key: keys[i], HasID: hasID, Selected: sel.Has(keys[i]), Raw: row}
		rv.ToggleURL = withQuery(st, "op", "toggle", "key", keys[i])
		for _, col := range p.Columns {
			rv.Cells = append(rv.Cells, cellHTML(table.CellFor(col, row)))
		}
		view.Rows = append(view.Rows, rv)
	}
	return view
}

// exportCSV downloads the selection, or the whole filtered set when nothing
// is selected.
func (h *Handler) exportCSV(c *gin.Context, p *panel, res table.Result, sel *table.Selection) {
	rows := table.ExportRows(res, sel)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, table.ExportFilename(h.now())))
	c.Status(http.StatusOK)
	if err := table.WriteCSV(c.Writer, p.Columns, rows); err != nil {
		logging.WithRequest(c.Request.Context(), h.log).Warn("write csv", zap.String("panel", p.Name), zap.Error(err))
	}
}

// panelJSON serves the table pipeline result for scripts and integrations,
// in the same envelope shape the API uses.
func (h *Handler) panelJSON(c *gin.Context) {
	p, ok := h.byName[c.Param("panel")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "unknown panel"})
		return
	}
	st, res, err := h.load(c.Request.Context(), p, c.Request.URL.Query())
	if err != nil {
		c.JSON(statusFor(err), gin.H{"ok": false, "error": apiclient.Message(err, "upstream request failed")})
		return
	}
	rows := res.Rows
	if rows == nil {
		rows = []table.Row{}
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		p.Name: rows,
		"pagination": gin.H{
			"page":  res.Page,
			"limit": res.PageSize,
			"total": len(res.Filtered),
			"pages": res.PageCount,
		},
		"search": st.Search,
	}})
}

func (h *Handler) renderForm(c *gin.Context, status int, p *panel, f *form.Form, id string) {
	action := "/admin/" + p.Name
	title := "New " + strings.ToLower(p.Singular)
	if id != "" {
		action += "/" + url.PathEscape(id)
		title = "Edit " + strings.ToLower(p.Singular)
	}
	h.render(c, status, "admin_form", gin.H{
		"Title":  title,
		"Panel":  p,
		"Form":   f,
		"Action": action,
		"ID":     id,
	})
}

func (h *Handler) panelNew(c *gin.Context) {
	p, ok := h.panelFor(c)
	if !ok {
		return
	}
	if !p.Creatable {
		h.render(c, http.StatusNotFound, "not_found", gin.H{"Title": "Page not found"})
		return
	}
	f := form.New(p.fieldsFor(c.Request.Context())...)
	f.Set("isActive", "true")
	h.renderForm(c, http.StatusOK, p, f, "")
}

func (h *Handler) panelEdit(c *gin.Context) {
	p, ok := h.panelFor(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	id := c.Param("id")
	record, err := p.get(ctx, id)
	if err != nil {
		if errors.Is(err, apiclient.ErrNotFound) {
			h.render(c, http.StatusNotFound, "not_found", gin.H{"Title": p.Singular + " not found"})
			return
		}
		h.fail(c, err, "The "+strings.ToLower(p.Singular)+" could not be loaded.")
		return
	}
	f := form.New(p.fieldsFor(ctx)...)
	if err := f.Fill(record); err != nil {
		h.fail(c, err, "")
		return
	}
	h.renderForm(c, http.StatusOK, p, f, id)
}

func (h *Handler) panelCreate(c *gin.Context) {
	p, ok := h.panelFor(c)
	if !ok {
		return
	}
	if !p.Creatable {
		h.render(c, http.StatusNotFound, "not_found", gin.H{"Title": "Page not found"})
		return
	}
	h.save(c, p, "")
}

func (h *Handler) panelUpdate(c *gin.Context) {
	p, ok := h.panelFor(c)
	if !ok {
		return
	}
	h.save(c, p, c.Param("id"))
}

// save validates the submitted form, uploads attached files and creates or
// updates the record. On failure the form is shown again with what was
// submitted.
func (h *Handler) save(c *gin.Context, p *panel, id string) {
	ctx := c.Request.Context()
	log := logging.WithRequest(ctx, h.log).With(zap.String("panel", p.Name))

	f := form.New(p.fieldsFor(ctx)...).Bind(h.postValues(c))
	if f.Validate() {
		h.uploadFiles(c, f)
	}
	if len(f.Errors) > 0 {
		h.renderForm(c, http.StatusUnprocessableEntity, p, f, id)
		return
	}

	var err error
	if id == "" {
		err = p.create(ctx, f.Payload())
	} else {
		err = p.update(ctx, id, f.Payload())
	}
	if err != nil {
		if errors.Is(err, apiclient.ErrUnauthorized) {
			h.fail(c, err, "")
			return
		}
		// Field names only; payload contents stay out of the logs.
		log.Warn("save record", zap.String("id", id), zap.Error(err))
		applyFieldErrors(f, err)
		f.AddError("form", apiclient.Message(err, "The "+strings.ToLower(p.Singular)+" could not be saved."))
		h.renderForm(c, statusFor(err), p, f, id)
		return
	}

	flashSuccess(c, p.Singular+" saved.")
	c.Redirect(http.StatusSeeOther, "/admin/"+p.Name)
}

// uploadFiles sends every attached file to its upload endpoint and stores
// the returned URL in the field.
func (h *Handler) uploadFiles(c *gin.Context, f *form.Form) {
	ctx := c.Request.Context()
	for _, fd := range f.Fields {
		if fd.Kind != form.File {
			continue
		}
		fh, err := c.FormFile(fd.Name + "_file")
		if err != nil {
			continue
		}
		file, err := fh.Open()
		if err != nil {
			f.AddError(fd.Name, "The file could not be read")
			continue
		}
		var u string
		switch fd.Upload {
		case "brochure":
			u, err = h.api.Uploads.Brochure(ctx, fh.Filename, file)
		case "floor-plan":
			u, err = h.api.Uploads.FloorPlan(ctx, fh.Filename, file)
		default:
			u, err = h.api.Uploads.Image(ctx, fh.Filename, file)
		}
		file.Close()
		if err != nil {
			logging.WithRequest(ctx, h.log).Warn("upload file", zap.String("field", fd.Name), zap.Error(err))
			f.AddError(fd.Name, apiclient.Message(err, "Upload failed"))
			continue
		}
		f.Set(fd.Name, u)
	}
}

// panelAction runs delete, toggle-active and the panel specific actions,
// then returns to the table the request came from.
func (h *Handler) panelAction(c *gin.Context) {
	p, ok := h.panelFor(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	id := c.Param("id")
	in := h.postValues(c)

	back := in.Get("return")
	if !strings.HasPrefix(back, "/admin/"+p.Name) {
		back = "/admin/" + p.Name
	}

	act, ok := p.actions[c.Param("action")]
	if !ok {
		flashError(c, errUnknownAction.Error())
		c.Redirect(http.StatusSeeOther, back)
		return
	}
	msg, err := act(ctx, id, in)
	if err != nil {
		if errors.Is(err, apiclient.ErrUnauthorized) {
			h.fail(c, err, "")
			return
		}
		logging.WithRequest(ctx, h.log).Warn("panel action",
			zap.String("panel", p.Name), zap.String("action", c.Param("action")), zap.String("id", id), zap.Error(err))
		flashError(c, apiclient.Message(err, "The action could not be completed."))
		c.Redirect(http.StatusSeeOther, back)
		return
	}
	flashSuccess(c, msg)
	c.Redirect(http.StatusSeeOther, back)
}
