// Package report serializes search results once processing has finished.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pdfkeyword/pkg/models"
)

const (
	// MatchesPrefix names keyword search reports.
	MatchesPrefix = "paragraphs_found"

	// TextPrefix names full-text OCR dumps.
	TextPrefix = "extracted_text"
)

// FileName derives a report file name from the source PDF:
// <prefix>_<basename without extension>.<ext>.
func FileName(prefix, pdfPath, ext string) string {
	base := filepath.Base(pdfPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return fmt.Sprintf("%s_%s.%s", prefix, base, ext)
}

// WriteText writes the human-readable match report.
func WriteText(w io.Writer, keyword string, records []models.MatchRecord) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Search: '%s'\n", keyword)
	fmt.Fprintf(&b, "Total paragraphs found: %d\n", len(records))
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	for i, rec := range records {
		fmt.Fprintf(&b, "Paragraph %d:\n", i+1)
		fmt.Fprintf(&b, "Page: %d\n", rec.Page)
		if rec.HasLine() {
			fmt.Fprintf(&b, "Keyword line: %d\n", rec.Line)
			fmt.Fprintf(&b, "Context: lines %d-%d\n", rec.ContextStart, rec.ContextEnd)
		}
		b.WriteString(strings.Repeat("-", 40) + "\n")
		b.WriteString(rec.HighlightedText)
		b.WriteString("\n\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// JSONReport is the machine-readable form of a search.
type JSONReport struct {
	Source      string               `json:"source"`
	Keyword     string               `json:"keyword"`
	Total       int                  `json:"total"`
	GeneratedAt time.Time            `json:"generated_at"`
	Matches     []models.MatchRecord `json:"matches"`
}

// WriteJSON writes the records as an indented JSON document.
func WriteJSON(w io.Writer, source, keyword string, records []models.MatchRecord) error {
	if records == nil {
		records = []models.MatchRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(JSONReport{
		Source:      filepath.Base(source),
		Keyword:     keyword,
		Total:       len(records),
		GeneratedAt: time.Now().UTC(),
		Matches:     records,
	})
}

// WritePages writes recognized pages as "Page <n>:" blocks separated by a
// blank line.
func WritePages(w io.Writer, pages []models.PageText) error {
	blocks := make([]string, 0, len(pages))
	for _, p := range pages {
		blocks = append(blocks, fmt.Sprintf("Page %d:\n%s", p.Page, p.Text))
	}
	_, err := io.WriteString(w, strings.Join(blocks, "\n\n"))
	return err
}

// SaveFile renders write into memory and then writes it to path, so nothing
// is created when rendering fails.
func SaveFile(path string, write func(io.Writer) error) error {
	var b strings.Builder
	if err := write(&b); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
