package report

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfkeyword/pkg/models"
)

func TestFileName(t *testing.T) {
	assert.Equal(t, "paragraphs_found_contrato.txt", FileName(MatchesPrefix, "/docs/contrato.pdf", "txt"))
	assert.Equal(t, "extracted_text_scan.v2.txt", FileName(TextPrefix, "scan.v2.PDF", "txt"))
	assert.Equal(t, "paragraphs_found_notes.json", FileName(MatchesPrefix, "notes", "json"))
}

func TestWriteText(t *testing.T) {
	records := []models.MatchRecord{
		{
			Page: 1, Line: 2, ContextStart: 1, ContextEnd: 3,
			Text:            "alpha\nbeta KEYWORD gamma\ndelta",
			HighlightedText: "alpha\nbeta **keyword** gamma\ndelta",
		},
		{
			Page:            4,
			Text:            "A text layer paragraph with keyword.",
			HighlightedText: "A text layer paragraph with **keyword**.",
		},
	}

	var b strings.Builder
	require.NoError(t, WriteText(&b, "keyword", records))

	want := "Search: 'keyword'\n" +
		"Total paragraphs found: 2\n" +
		strings.Repeat("=", 60) + "\n\n" +
		"Paragraph 1:\n" +
		"Page: 1\n" +
		"Keyword line: 2\n" +
		"Context: lines 1-3\n" +
		strings.Repeat("-", 40) + "\n" +
		"alpha\nbeta **keyword** gamma\ndelta\n\n" +
		"Paragraph 2:\n" +
		"Page: 4\n" +
		strings.Repeat("-", 40) + "\n" +
		"A text layer paragraph with **keyword**.\n\n"

	assert.Equal(t, want, b.String())
}

func TestWriteJSON(t *testing.T) {
	var b strings.Builder
	require.NoError(t, WriteJSON(&b, "/tmp/in/contract.pdf", "x", nil))

	var got JSONReport
	require.NoError(t, json.Unmarshal([]byte(b.String()), &got))

	assert.Equal(t, "contract.pdf", got.Source)
	assert.Equal(t, "x", got.Keyword)
	assert.Equal(t, 0, got.Total)
	assert.NotNil(t, got.Matches)
	assert.Contains(t, b.String(), `"matches": []`)
}

func TestWritePages(t *testing.T) {
	var b strings.Builder
	require.NoError(t, WritePages(&b, []models.PageText{
		{Page: 1, Text: "one"},
		{Page: 2, Text: "two"},
	}))
	assert.Equal(t, "Page 1:\none\n\nPage 2:\ntwo", b.String())
}

func TestSaveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")

	require.NoError(t, SaveFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "ção\n")
		return err
	}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ção\n", string(data))

	failing := filepath.Join(t.TempDir(), "never.txt")
	err = SaveFile(failing, func(io.Writer) error { return errors.New("render failed") })
	assert.Error(t, err)
	assert.NoFileExists(t, failing)
}
