package table

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV_QuotesEveryField(t *testing.T) {
	cols := []Column{
		{Key: "name", Title: "Name"},
		{Key: "note", Title: `Say "hi"`},
		{Key: "units", Title: "Units"},
	}
	rows := []Row{
		{"name": `The "Grand" Tower`, "note": "a,b", "units": 12},
		{"name": "Plain", "note": nil, "units": 3.5},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, cols, rows))

	want := `"Name","Say ""hi""","Units"` + "\n" +
		`"The ""Grand"" Tower","a,b","12"` + "\n" +
		`"Plain","","3.5"`
	assert.Equal(t, want, buf.String())

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, `Say "hi"`, records[0][1])
	assert.Equal(t, `The "Grand" Tower`, records[1][0])
	assert.Equal(t, "a,b", records[1][1])
	assert.Equal(t, "", records[2][1])
}

func TestWriteCSV_UsesRenderPlainText(t *testing.T) {
	cols := []Column{
		{Key: "status", Title: "Status", Render: func(r Row) Cell {
			return Group(Badge("badge-ok", Stringify(r["status"])), Group(Text("since"), Text("2024")))
		}},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, cols, []Row{{"status": "active"}}))
	assert.Equal(t, "\"Status\"\n\"active since 2024\"", buf.String())
}

func TestExportRows(t *testing.T) {
	rows := numberedRows(23)
	res := Apply(rows, testColumns, State{Page: 2, PageSize: 10})

	assert.Len(t, ExportRows(res, nil), 23, "exports ignore pagination")
	assert.Len(t, ExportRows(res, NewSelection()), 23)

	sel := NewSelection("r05", "r01", "missing")
	got := ExportRows(res, sel)
	require.Len(t, got, 2)
	assert.Equal(t, "r01", got[0]["id"])
	assert.Equal(t, "r05", got[1]["id"])
}

func TestExportFilename(t *testing.T) {
	ts := time.Date(2024, 3, 9, 22, 0, 0, 0, time.UTC)
	assert.Equal(t, "export_2024-03-09.csv", ExportFilename(ts))
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "", PlainText(nil))
	assert.Equal(t, "x", PlainText(Text("x")))
	assert.Equal(t, "a b c", PlainText(Group(Text("a"), Group(Text(""), Group(Text("b"))), Text(" c "))))
}
