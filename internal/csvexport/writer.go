package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"nfextract/internal/report"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// Writer wraps csv.Writer for exporting report tables.
type Writer struct {
	out io.Writer
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{out: w, csv: csv.NewWriter(w)}
}

// WriteTable writes the BOM, the header row and every row of t, then flushes.
func (w *Writer) WriteTable(t *report.Table) error {
	if _, err := w.out.Write(BOM); err != nil {
		return fmt.Errorf("csvexport.WriteTable: %w", err)
	}
	if err := w.csv.Write(t.Headers()); err != nil {
		return fmt.Errorf("csvexport.WriteTable: %w", err)
	}
	for _, row := range t.Rows {
		if err := w.csv.Write(row); err != nil {
			return fmt.Errorf("csvexport.WriteTable: %w", err)
		}
	}
	w.csv.Flush()
	return w.csv.Error()
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename replaces non-alphanumeric chars (except - _) with _,
// collapses consecutive underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a Content-Disposition filename of the form
// relatorio_{model}_{YYYY-MM-DD}.{ext}.
func BuildFilename(model, ext string, now time.Time) string {
	return fmt.Sprintf("relatorio_%s_%s.%s", SanitizeFilename(model), now.Format("2006-01-02"), ext)
}
