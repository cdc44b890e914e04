package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
)

// WriteCSV writes the table as RFC 4180 CSV with a header row.
func WriteCSV(w io.Writer, table Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(table.Columns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range table.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// jsonDocument is the JSON export envelope.
type jsonDocument struct {
	Title   string              `json:"title"`
	Columns []string            `json:"columns"`
	Rows    []map[string]string `json:"rows"`
}

// WriteJSON writes the table as a JSON document with one object per row,
// keyed by column name. Row content is identical to the CSV output.
func WriteJSON(w io.Writer, table Table) error {
	doc := jsonDocument{
		Title:   table.Title,
		Columns: table.Columns,
		Rows:    make([]map[string]string, 0, len(table.Rows)),
	}
	for _, row := range table.Rows {
		obj := make(map[string]string, len(table.Columns))
		for i, col := range table.Columns {
			if i < len(row) {
				obj[col] = row[i]
			} else {
				obj[col] = ""
			}
		}
		doc.Rows = append(doc.Rows, obj)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode json export: %w", err)
	}
	return nil
}

// Write renders the table in the requested format.
func Write(w io.Writer, table Table, format Format) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, table)
	case FormatPDF:
		return WritePDF(w, table)
	default:
		return WriteCSV(w, table)
	}
}
