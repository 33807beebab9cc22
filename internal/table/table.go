// Package table filters, sorts, paginates and exports in-memory record sets
// for the admin and listing views. Every function is pure: input rows are
// never modified.
package table

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// DefaultPageSize is used when a state carries no usable page size.
const DefaultPageSize = 10

// Row is one record keyed by field name.
type Row map[string]any

// Column describes one visible column.
type Column struct {
	Key        string
	Title      string
	Sortable   bool
	Filterable bool
	// Render overrides how the cell is displayed and exported. Search,
	// filters and sorting always use the raw value at Key.
	Render func(Row) Cell
}

// Direction of a sort.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sort selects the ordering column. An empty Key leaves input order alone.
type Sort struct {
	Key string
	Dir Direction
}

// State is the transient view state a table is rendered with.
type State struct {
	Search   string
	Filters  map[string]string
	Sort     Sort
	Page     int
	PageSize int
}

// ParseState reads a State from query parameters: q, f.<column>, sort, dir,
// page and size.
func ParseState(q url.Values) State {
	st := State{
		Search:  strings.TrimSpace(q.Get("q")),
		Filters: map[string]string{},
		Sort: Sort{
			Key: strings.TrimSpace(q.Get("sort")),
			Dir: Asc,
		},
		Page:     1,
		PageSize: DefaultPageSize,
	}
	if strings.EqualFold(q.Get("dir"), string(Desc)) {
		st.Sort.Dir = Desc
	}
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		st.Page = p
	}
	if s, err := strconv.Atoi(q.Get("size")); err == nil && s > 0 {
		st.PageSize = s
	}
	for key, values := range q {
		col, ok := strings.CutPrefix(key, "f.")
		if !ok || col == "" || len(values) == 0 {
			continue
		}
		if v := strings.TrimSpace(values[0]); v != "" {
			st.Filters[col] = v
		}
	}
	return st
}

// Query encodes the state back into query parameters, the inverse of
// ParseState.
func (s State) Query() url.Values {
	q := url.Values{}
	if s.Search != "" {
		q.Set("q", s.Search)
	}
	for k, v := range s.Filters {
		if v != "" {
			q.Set("f."+k, v)
		}
	}
	if s.Sort.Key != "" {
		q.Set("sort", s.Sort.Key)
		q.Set("dir", string(s.Sort.Dir))
	}
	if s.Page > 1 {
		q.Set("page", strconv.Itoa(s.Page))
	}
	if s.PageSize > 0 && s.PageSize != DefaultPageSize {
		q.Set("size", strconv.Itoa(s.PageSize))
	}
	return q
}

// WithPage returns a copy of the state pointing at page.
func (s State) WithPage(page int) State {
	s.Page = page
	return s
}

// Toggled returns the state the header link of key should lead to: sorting by
// key ascending, or flipping the direction when key is already sorted.
func (s State) Toggled(key string) State {
	next := Sort{Key: key, Dir: Asc}
	if s.Sort.Key == key && s.Sort.Dir == Asc {
		next.Dir = Desc
	}
	s.Sort = next
	s.Page = 1
	return s
}

// Result is the outcome of Apply.
type Result struct {
	// Rows is the visible page.
	Rows []Row
	// Filtered is the full searched, filtered and sorted set.
	Filtered  []Row
	Total     int
	Page      int
	PageSize  int
	PageCount int
	HasPrev   bool
	HasNext   bool
}

// Empty reports whether there is nothing to show.
func (r Result) Empty() bool { return len(r.Rows) == 0 }

// Offset is the index in Filtered of the first visible row.
func (r Result) Offset() int { return (r.Page - 1) * r.PageSize }

// Apply runs search, column filters, a stable sort and pagination.
func Apply(rows []Row, cols []Column, st State) Result {
	size := st.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	page := st.Page
	if page < 1 {
		page = 1
	}

	filtered := search(rows, cols, st.Search)
	filtered = filterColumns(filtered, st.Filters)
	sortRows(filtered, st.Sort)

	n := len(filtered)
	pageCount := (n + size - 1) / size

	start := (page - 1) * size
	end := min(start+size, n)
	var visible []Row
	if start < n {
		visible = filtered[start:end:end]
	}

	return Result{
		Rows:      visible,
		Filtered:  filtered,
		Total:     len(rows),
		Page:      page,
		PageSize:  size,
		PageCount: pageCount,
		HasPrev:   page > 1,
		HasNext:   page < pageCount,
	}
}

// search keeps rows where any column's raw value contains term, case
// insensitively. It always returns a fresh slice.
func search(rows []Row, cols []Column, term string) []Row {
	if term == "" {
		return slices.Clone(rows)
	}
	needle := strings.ToLower(term)
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		for _, col := range cols {
			if strings.Contains(strings.ToLower(Stringify(row[col.Key])), needle) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

func filterColumns(rows []Row, filters map[string]string) []Row {
	active := make(map[string]string, len(filters))
	for k, v := range filters {
		if v != "" {
			active[k] = strings.ToLower(v)
		}
	}
	if len(active) == 0 {
		return rows
	}
	out := rows[:0:0]
	for _, row := range rows {
		keep := true
		for key, needle := range active {
			v, ok := row[key]
			if !ok || isNil(v) || !strings.Contains(strings.ToLower(Stringify(v)), needle) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, row)
		}
	}
	return out
}

func sortRows(rows []Row, s Sort) {
	if s.Key == "" {
		return
	}
	if s.Dir == Desc {
		slices.SortStableFunc(rows, func(a, b Row) int {
			return Compare(b[s.Key], a[s.Key])
		})
		return
	}
	slices.SortStableFunc(rows, func(a, b Row) int {
		return Compare(a[s.Key], b[s.Key])
	})
}

// RowKey is the identity of a row: its id, else _id, else its index in the
// filtered set.
func RowKey(row Row, index int) string {
	if id, ok := RowID(row); ok {
		return id
	}
	return strconv.Itoa(index)
}

// RowID is the record identity carried by the row itself, id else _id. It
// reports false when the row has neither, in which case RowKey falls back to
// a position that names no upstream record.
func RowID(row Row) (string, bool) {
	for _, k := range []string{"id", "_id"} {
		if v, ok := row[k]; ok && !isNil(v) {
			if s := Stringify(v); s != "" {
				return s, true
			}
		}
	}
	return "", false
}

// PageKeys returns the identity keys of the visible page.
func (r Result) PageKeys() []string {
	keys := make([]string, len(r.Rows))
	off := r.Offset()
	for i, row := range r.Rows {
		keys[i] = RowKey(row, off+i)
	}
	return keys
}

// FilteredKeys returns the identity keys of every filtered row.
func (r Result) FilteredKeys() []string {
	keys := make([]string, len(r.Filtered))
	for i, row := range r.Filtered {
		keys[i] = RowKey(row, i)
	}
	return keys
}

// CellFor renders the cell shown for row in col.
func CellFor(col Column, row Row) Cell {
	if col.Render != nil {
		return col.Render(row)
	}
	return Text(Stringify(row[col.Key]))
}
