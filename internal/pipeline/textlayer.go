package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ledongthuc/pdf"

	"pdfkeyword/internal/keyword"
	"pdfkeyword/internal/logger"
	"pdfkeyword/pkg/models"
)

// TextLayer exposes the embedded text of a PDF page by page. Pages are
// 1-based.
type TextLayer interface {
	NumPage() int
	PageText(page int) (string, error)
	Close() error
}

// TextLayerOpener opens the text layer of a PDF.
type TextLayerOpener func(path string) (TextLayer, error)

type ledongthucLayer struct {
	file   *os.File
	reader *pdf.Reader
}

// OpenTextLayer reads the PDF text layer without rendering.
func OpenTextLayer(path string) (TextLayer, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		if f != nil {
			f.Close()
		}
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	return &ledongthucLayer{file: f, reader: r}, nil
}

func (l *ledongthucLayer) NumPage() int { return l.reader.NumPage() }

// PageText returns the plain text of a page. Malformed content streams can
// make the parser panic; that is reported as an error for the page.
func (l *ledongthucLayer) PageText(page int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page %d: malformed content: %v", page, r)
		}
	}()

	p := l.reader.Page(page)
	if p.V.IsNull() {
		return "", nil
	}
	return p.GetPlainText(nil)
}

func (l *ledongthucLayer) Close() error { return l.file.Close() }

// SearchTextLayer finds blank-line delimited paragraphs containing kw in the
// PDF text layer, case-insensitively. Progress and matches go to out.
func SearchTextLayer(ctx context.Context, open TextLayerOpener, pdfPath, kw string, out io.Writer) ([]models.MatchRecord, error) {
	log := logger.WithComponent("textlayer")
	if out == nil {
		out = io.Discard
	}

	matcher, err := keyword.NewMatcher(kw, 0, false)
	if err != nil {
		return nil, err
	}
	if err := CheckInput(pdfPath); err != nil {
		return nil, err
	}

	layer, err := open(pdfPath)
	if err != nil {
		return nil, err
	}
	defer layer.Close()

	var records []models.MatchRecord
	total := layer.NumPage()
	for page := 1; page <= total; page++ {
		if err := ctx.Err(); err != nil {
			return records, err
		}

		text, err := layer.PageText(page)
		if err != nil {
			log.Warn().Err(err).Int("page", page).Msg("Skipping page")
			continue
		}

		for _, para := range keyword.FindParagraphs(text, kw) {
			rec := models.MatchRecord{
				Page:            page,
				Text:            para,
				HighlightedText: matcher.Highlight(para),
			}
			records = append(records, rec)
			fmt.Fprintf(out, "\nPage %d\n%s\n", page, rec.HighlightedText)
		}
	}

	log.Info().
		Str("file", pdfPath).
		Int("pages", total).
		Int("matches", len(records)).
		Msg("Text layer search finished")

	return records, nil
}
