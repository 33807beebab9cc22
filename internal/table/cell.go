package table

import "strings"

// Cell is the rendered content of a table cell. It is either Text or
// Composite; nothing else implements it.
type Cell interface {
	isCell()
}

// Text is a plain text cell.
type Text string

func (Text) isCell() {}

// Composite groups child cells. Class is a presentation hint for templates
// (badge, muted, ...) and never reaches exported data.
type Composite struct {
	Class    string
	Children []Cell
}

func (Composite) isCell() {}

// Badge is shorthand for a single-text composite with a class.
func Badge(class, label string) Composite {
	return Composite{Class: class, Children: []Cell{Text(label)}}
}

// Group builds a composite without a class.
func Group(children ...Cell) Composite {
	return Composite{Children: children}
}

// PlainText flattens a cell to text. Children are joined with a single
// space at every depth; empty children are skipped.
func PlainText(c Cell) string {
	switch v := c.(type) {
	case nil:
		return ""
	case Text:
		return string(v)
	case Composite:
		parts := make([]string, 0, len(v.Children))
		for _, child := range v.Children {
			if s := strings.TrimSpace(PlainText(child)); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}
