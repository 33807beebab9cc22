package web

import (
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/landmark-estates/landmark-web/internal/table"
)

func badgeOf(key string) func(table.Row) table.Cell {
	return func(r table.Row) table.Cell {
		v := table.Stringify(r[key])
		if v == "" {
			return table.Text("")
		}
		return table.Badge("badge badge-"+v, humanize(v))
	}
}

func activeCell(r table.Row) table.Cell {
	if active, _ := r["isActive"].(bool); active {
		return table.Badge("badge badge-active", "Active")
	}
	return table.Badge("badge badge-inactive", "Hidden")
}

func primaryCell(r table.Row) table.Cell {
	if primary, _ := r["isPrimary"].(bool); primary {
		return table.Badge("badge badge-primary", "Primary")
	}
	return table.Text("")
}

func progressCell(r table.Row) table.Cell {
	if table.Stringify(r["status"]) != "ongoing" {
		return table.Text("")
	}
	return table.Text(table.Stringify(r["progress"]) + "%")
}

func priceRange(r table.Row) table.Cell {
	lo, _ := r["priceMin"].(float64)
	hi, _ := r["priceMax"].(float64)
	switch {
	case lo == 0 && hi == 0:
		return table.Text("")
	case hi == 0 || lo == hi:
		return table.Text(money(lo))
	}
	return table.Group(table.Text(money(lo)), table.Text("to"), table.Text(money(hi)))
}

func moneyCell(key string) func(table.Row) table.Cell {
	return func(r table.Row) table.Cell {
		v, ok := r[key].(float64)
		if !ok {
			return table.Text("")
		}
		return table.Text(money(v))
	}
}

func dateCell(key string) func(table.Row) table.Cell {
	return func(r table.Row) table.Cell {
		s := table.Stringify(r[key])
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return table.Text(s)
		}
		return table.Text(t.Format("2006-01-02"))
	}
}

func yearsCell(r table.Row) table.Cell {
	v := table.Stringify(r["experience"])
	if v == "" {
		return table.Text("")
	}
	return table.Text(v + " yrs")
}

func tagsCell(key string) func(table.Row) table.Cell {
	return func(r table.Row) table.Cell {
		items, _ := r[key].([]any)
		children := make([]table.Cell, 0, len(items))
		for _, it := range items {
			children = append(children, table.Badge("tag", table.Stringify(it)))
		}
		return table.Composite{Class: "tags", Children: children}
	}
}

func statValueCell(r table.Row) table.Cell {
	v, _ := r["value"].(float64)
	return table.Text(table.Stringify(r["prefix"]) + strconv.FormatFloat(v, 'f', -1, 64) + table.Stringify(r["suffix"]))
}

func locationsCell(r table.Row) table.Cell {
	locs, _ := r["displayLocations"].(map[string]any)
	var children []table.Cell
	for _, name := range []string{"home", "about", "footer"} {
		if on, _ := locs[name].(bool); on {
			children = append(children, table.Badge("tag", humanize(name)))
		}
	}
	return table.Composite{Class: "tags", Children: children}
}

// cellHTML renders a cell for templates. Text is escaped; composites become
// spans carrying their class.
func cellHTML(c table.Cell) template.HTML {
	var b strings.Builder
	writeCell(&b, c)
	return template.HTML(b.String())
}

func writeCell(b *strings.Builder, c table.Cell) {
	switch v := c.(type) {
	case table.Text:
		b.WriteString(template.HTMLEscapeString(string(v)))
	case table.Composite:
		b.WriteString(`<span`)
		if v.Class != "" {
			b.WriteString(` class="`)
			b.WriteString(template.HTMLEscapeString(v.Class))
			b.WriteString(`"`)
		}
		b.WriteString(`>`)
		for i, child := range v.Children {
			if i > 0 {
				b.WriteString(" ")
			}
			writeCell(b, child)
		}
		b.WriteString(`</span>`)
	}
}

// money formats an amount with thousands separators.
func money(v float64) string {
	s := strconv.FormatFloat(v, 'f', 0, 64)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// humanize turns "sales_office" or "team-members" into "Sales office".
func humanize(s string) string {
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
