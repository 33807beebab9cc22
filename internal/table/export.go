package table

import (
	"bufio"
	"io"
	"strings"
	"time"
)

// ExportRows picks the rows an export covers: the selected rows of the
// filtered set when the selection is non-empty, otherwise the whole filtered
// set. Pagination never limits an export.
func ExportRows(r Result, sel *Selection) []Row {
	if sel.Len() == 0 {
		return r.Filtered
	}
	out := make([]Row, 0, sel.Len())
	for i, row := range r.Filtered {
		if sel.Has(RowKey(row, i)) {
			out = append(out, row)
		}
	}
	return out
}

// WriteCSV writes a header line of column titles followed by one line per
// row. Every field is quoted with internal quotes doubled; lines are joined
// with a newline.
func WriteCSV(w io.Writer, cols []Column, rows []Row) error {
	bw := bufio.NewWriter(w)

	fields := make([]string, len(cols))
	for i, col := range cols {
		fields[i] = quote(col.Title)
	}
	if _, err := bw.WriteString(strings.Join(fields, ",")); err != nil {
		return err
	}

	for _, row := range rows {
		for i, col := range cols {
			fields[i] = quote(exportValue(col, row))
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
		if _, err := bw.WriteString(strings.Join(fields, ",")); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ExportFilename names an export taken at t.
func ExportFilename(t time.Time) string {
	return "export_" + t.UTC().Format("2006-01-02") + ".csv"
}

func exportValue(col Column, row Row) string {
	if col.Render != nil {
		return PlainText(col.Render(row))
	}
	return Stringify(row[col.Key])
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
