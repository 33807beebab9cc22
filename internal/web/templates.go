package web

import (
	"embed"
	"html/template"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/landmark-estates/landmark-web/internal/domain"
	"github.com/landmark-estates/landmark-web/internal/web/form"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

func staticFiles() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

func parseTemplates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"cell":     cellHTML,
		"money":    money,
		"humanize": humanize,
		"join":     strings.Join,
		"stat":     statText,
		"date":     formatDate,
		"add":      func(a, b int) int { return a + b },
		"sub":      func(a, b int) int { return a - b },
		"field":    fieldOf,
	}).ParseFS(templateFS, "templates/*.html")
}

func statText(s domain.Statistic) string {
	return s.Prefix + strconv.FormatFloat(s.Value, 'f', -1, 64) + s.Suffix
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2 Jan 2006")
}

// fieldView is one bound input as the "input" template renders it.
type fieldView struct {
	form.Field
	Value string
	Error string
}

func fieldOf(f *form.Form, fd form.Field) fieldView {
	return fieldView{Field: fd, Value: f.Value(fd.Name), Error: f.Error(fd.Name)}
}
