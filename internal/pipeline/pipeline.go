// Package pipeline runs the per-page render, OCR and keyword search loop.
//
// Pages are processed one at a time in document order. A page's raster is
// dropped as soon as it has been recognized and optionally saved. Failures
// confined to one page are logged and the page is skipped; the context is
// checked between pages.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"pdfkeyword/internal/config"
	"pdfkeyword/internal/keyword"
	"pdfkeyword/internal/logger"
	"pdfkeyword/internal/ocr"
	"pdfkeyword/internal/render"
	"pdfkeyword/pkg/models"
)

var (
	// ErrFileNotFound is returned when the input PDF does not exist.
	ErrFileNotFound = errors.New("PDF file not found")

	// ErrNotAFile is returned when the input path is a directory or device.
	ErrNotAFile = errors.New("path is not a regular file")
)

// Options tunes rendering, recognition and matching.
type Options struct {
	DPI              int
	MaxPixels        int
	Language         string
	FallbackLanguage string
	ContextLines     int
	CaseSensitive    bool
	SaveImages       bool
	ImagesDir        string
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{
		DPI:              config.DefaultDPI,
		MaxPixels:        config.DefaultMaxPixels,
		Language:         config.DefaultLanguage,
		FallbackLanguage: config.DefaultFallbackLanguage,
		ContextLines:     config.DefaultContextLines,
		ImagesDir:        config.DefaultImagesDir,
	}
}

// Processor renders and recognizes PDF pages.
type Processor struct {
	open   render.Opener
	engine ocr.Engine
	opts   Options
	out    io.Writer
	log    zerolog.Logger
}

// New creates a Processor. Progress and matches are written to out as they
// happen; pass io.Discard to silence them.
func New(open render.Opener, engine ocr.Engine, opts Options, out io.Writer) *Processor {
	if out == nil {
		out = io.Discard
	}
	return &Processor{
		open:   open,
		engine: engine,
		opts:   opts,
		out:    out,
		log:    logger.WithComponent("pipeline"),
	}
}

// Search returns the match records for keyword across all pages, in page and
// line order. On cancellation it returns the records found so far together
// with the context error.
func (p *Processor) Search(ctx context.Context, pdfPath, kw string) ([]models.MatchRecord, error) {
	matcher, err := keyword.NewMatcher(kw, p.opts.ContextLines, p.opts.CaseSensitive)
	if err != nil {
		return nil, err
	}

	var records []models.MatchRecord
	err = p.eachPage(ctx, pdfPath, func(page int, res ocr.PageResult) {
		for _, m := range matcher.FindMatches(res.Text) {
			rec := models.MatchRecord{
				Page:            page,
				Line:            m.Line,
				ContextStart:    m.ContextStart,
				ContextEnd:      m.ContextEnd,
				Text:            m.Text,
				HighlightedText: m.Highlighted,
			}
			records = append(records, rec)

			fmt.Fprintf(p.out, "\nPage %d, line %d\n%s\n%s\n", rec.Page, rec.Line, rec.HighlightedText, strings.Repeat("-", 40))
		}
	})

	p.log.Info().
		Str("file", pdfPath).
		Str("keyword", kw).
		Int("matches", len(records)).
		Msg("Keyword search finished")

	return records, err
}

// Extract returns the recognized text of every page, trimmed.
func (p *Processor) Extract(ctx context.Context, pdfPath string) ([]models.PageText, error) {
	var pages []models.PageText
	err := p.eachPage(ctx, pdfPath, func(page int, res ocr.PageResult) {
		text := strings.TrimSpace(res.Text)
		pages = append(pages, models.PageText{Page: page, Text: text, Language: res.Language})

		fmt.Fprintf(p.out, "\n--- Page %d ---\n%s\n", page, text)
	})
	return pages, err
}

func (p *Processor) eachPage(ctx context.Context, pdfPath string, fn func(page int, res ocr.PageResult)) error {
	if err := CheckInput(pdfPath); err != nil {
		return err
	}

	doc, err := p.open(pdfPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := doc.Close(); closeErr != nil {
			p.log.Warn().Err(closeErr).Msg("Failed to close PDF")
		}
	}()

	total := doc.PageCount()
	p.log.Info().
		Str("file", pdfPath).
		Str("engine", p.engine.Name()).
		Int("pages", total).
		Msg("Processing PDF")
	fmt.Fprintf(p.out, "Total pages: %d\n", total)

	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		page := i + 1
		fmt.Fprintf(p.out, "Processing page %d/%d...\r", page, total)

		res, err := p.processPage(ctx, doc, i)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			plog := logger.WithPage("pipeline", page)
			plog.Warn().Err(err).Msg("Skipping page")
			continue
		}
		fn(page, res)
	}
	fmt.Fprintln(p.out)

	return nil
}

func (p *Processor) processPage(ctx context.Context, doc render.Document, index int) (ocr.PageResult, error) {
	page := index + 1
	log := logger.WithPage("pipeline", page)

	geom, err := doc.PageSize(index)
	if err != nil {
		return ocr.PageResult{}, err
	}

	plan := render.NewPlan(geom, p.opts.DPI, p.opts.MaxPixels)
	if plan.ExceedsCeiling {
		log.Warn().
			Float64("dpi", plan.EffectiveDPI).
			Int("max_pixels", p.opts.MaxPixels).
			Msg("Page exceeds pixel ceiling at minimum DPI")
	}

	img, err := doc.Render(index, plan.Scale)
	if err != nil {
		return ocr.PageResult{}, err
	}
	log.Debug().
		Float64("dpi", plan.EffectiveDPI).
		Int("width", img.Bounds().Dx()).
		Int("height", img.Bounds().Dy()).
		Msg("Page rendered")

	if p.opts.SaveImages {
		path, err := render.SavePNG(img, p.opts.ImagesDir, page)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to save page image")
		} else {
			log.Debug().Str("path", path).Msg("Page image saved")
		}
	}

	res, err := ocr.RecognizeWithFallback(ctx, p.engine, img, p.opts.Language, p.opts.FallbackLanguage)
	if res.FellBack {
		fmt.Fprintf(p.out, "\nLanguage '%s' unavailable. Tried '%s'.\n", p.opts.Language, p.opts.FallbackLanguage)
		log.Warn().
			Str("language", p.opts.Language).
			Str("fallback", p.opts.FallbackLanguage).
			Msg("OCR language unavailable, used fallback")
	}
	if err != nil {
		return res, err
	}

	log.Debug().
		Str("language", res.Language).
		Dur("duration", res.Duration).
		Int("text_length", len(res.Text)).
		Msg("Page recognized")

	return res, nil
}

// CheckInput verifies that pdfPath names an existing regular file.
func CheckInput(pdfPath string) error {
	info, err := os.Stat(pdfPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, pdfPath)
		}
		return fmt.Errorf("error accessing PDF file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", ErrNotAFile, pdfPath)
	}
	return nil
}
