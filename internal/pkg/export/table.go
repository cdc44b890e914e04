// Package export renders tabular analytics data as CSV, JSON, or PDF.
// Every format carries the same rows and columns so a consumer can pick
// by convenience rather than content.
package export

// Format identifies an export output format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatPDF  Format = "pdf"
)

// Table is a format-independent result set. Wide marks tables that need
// landscape orientation in paginated output.
type Table struct {
	Title   string
	Columns []string
	Rows    [][]string
	Wide    bool
}

// ContentType returns the MIME type for a format.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/csv"
	}
}

// Extension returns the file extension for a format, without the dot.
func (f Format) Extension() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatPDF:
		return "pdf"
	default:
		return "csv"
	}
}

// ParseFormat maps a query-string value to a Format, defaulting to CSV.
func ParseFormat(s string) Format {
	switch s {
	case "json":
		return FormatJSON
	case "pdf":
		return FormatPDF
	default:
		return FormatCSV
	}
}
