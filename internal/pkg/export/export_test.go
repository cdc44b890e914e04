package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
)

func sampleTable() Table {
	return Table{
		Title:   "Projects by Category",
		Columns: []string{"category", "projects", "views"},
		Rows: [][]string{
			{"Interactive Installation", "12", "340"},
			{"Web Experience", "8", "512"},
			{"Physical Computing", "5, with comma", "98"},
		},
	}
}

func TestCSVAndJSONCarrySameContent(t *testing.T) {
	table := sampleTable()

	var csvBuf bytes.Buffer
	if err := WriteCSV(&csvBuf, table); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	records, err := csv.NewReader(&csvBuf).ReadAll()
	if err != nil {
		t.Fatalf("reading csv back: %v", err)
	}

	var jsonBuf bytes.Buffer
	if err := WriteJSON(&jsonBuf, table); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	var doc struct {
		Title   string              `json:"title"`
		Columns []string            `json:"columns"`
		Rows    []map[string]string `json:"rows"`
	}
	if err := json.Unmarshal(jsonBuf.Bytes(), &doc); err != nil {
		t.Fatalf("reading json back: %v", err)
	}

	if len(records) != len(table.Rows)+1 {
		t.Fatalf("csv records = %d, want %d", len(records), len(table.Rows)+1)
	}
	if len(doc.Rows) != len(table.Rows) {
		t.Fatalf("json rows = %d, want %d", len(doc.Rows), len(table.Rows))
	}

	for i, row := range records[1:] {
		for j, col := range table.Columns {
			if doc.Rows[i][col] != row[j] {
				t.Fatalf("row %d column %q: json %q != csv %q", i, col, doc.Rows[i][col], row[j])
			}
		}
	}
}

func TestCSVQuotesCommas(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleTable()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if !strings.Contains(buf.String(), `"5, with comma"`) {
		t.Fatalf("csv output missing quoted field:\n%s", buf.String())
	}
}

func TestPDFRendersNonEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePDF(&buf, sampleTable()); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatalf("pdf output missing header, got %q", buf.Bytes()[:8])
	}
}

func TestPDFPaginatesLongTables(t *testing.T) {
	table := Table{
		Title:   "Monthly Views",
		Columns: []string{"month", "views"},
	}
	for i := 0; i < 200; i++ {
		table.Rows = append(table.Rows, []string{"2026-01", "42"})
	}

	var buf bytes.Buffer
	if err := WritePDF(&buf, table); err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	// A 200 row table cannot fit one A4 page. Page objects show up as
	// "/Type /Page", the page tree as "/Type /Pages".
	pages := bytes.Count(buf.Bytes(), []byte("/Type /Page")) - bytes.Count(buf.Bytes(), []byte("/Type /Pages"))
	if pages < 2 {
		t.Fatalf("pdf pages = %d, want at least 2", pages)
	}
}

func TestParseFormatDefaultsToCSV(t *testing.T) {
	cases := map[string]Format{
		"":        FormatCSV,
		"csv":     FormatCSV,
		"json":    FormatJSON,
		"pdf":     FormatPDF,
		"unknown": FormatCSV,
	}
	for in, want := range cases {
		if got := ParseFormat(in); got != want {
			t.Fatalf("ParseFormat(%q) = %s, want %s", in, got, want)
		}
	}
}
