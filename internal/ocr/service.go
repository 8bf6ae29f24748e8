// Package ocr recognizes text in rendered PDF page rasters.
//
// Several engines implement the same Engine interface:
//   - tesseract: runs the Tesseract executable found by ResolveExecutable
//   - gosseract: links libtesseract in-process through gosseract
//   - vision: Google Cloud Vision document text detection
//   - documentai: a Google Document AI OCR processor
//
// Engines report a missing or unsupported language as ErrLanguageUnavailable
// so that RecognizeWithFallback can retry a page once with a default
// language before giving up on it.
//
// Engines are configured through explicit Options values; nothing in this
// package reads or mutates process-wide state after construction.
package ocr

import (
	"context"
	"errors"
	"image"
	"time"
)

// Engine recognizes the text in a single raster.
type Engine interface {
	// Name identifies the engine in logs and output.
	Name() string

	// Recognize returns the recognized text, possibly spanning many lines.
	Recognize(ctx context.Context, img image.Image, language string) (string, error)
}

// Closer is implemented by engines holding client connections.
type Closer interface {
	Close() error
}

// PageResult is the outcome of recognizing one page.
type PageResult struct {
	// Text is the recognized text.
	Text string `json:"text"`

	// Language is the language the text was finally recognized with.
	Language string `json:"language"`

	// FellBack is set when the requested language was rejected and the
	// fallback language was used instead.
	FellBack bool `json:"fell_back"`

	// Duration is how long recognition took, retries included.
	Duration time.Duration `json:"duration"`
}

// RecognizeWithFallback runs engine with language and, if the engine reports
// ErrLanguageUnavailable, retries exactly once with fallback. Any other error,
// or a failure of the retry, is returned as is.
func RecognizeWithFallback(ctx context.Context, engine Engine, img image.Image, language, fallback string) (PageResult, error) {
	start := time.Now()

	text, err := engine.Recognize(ctx, img, language)
	if err == nil {
		return PageResult{Text: text, Language: language, Duration: time.Since(start)}, nil
	}
	if !errors.Is(err, ErrLanguageUnavailable) || fallback == "" || fallback == language {
		return PageResult{Language: language, Duration: time.Since(start)}, err
	}

	text, err = engine.Recognize(ctx, img, fallback)
	return PageResult{
		Text:     text,
		Language: fallback,
		FellBack: true,
		Duration: time.Since(start),
	}, err
}

func checkImage(img image.Image) error {
	if img == nil || img.Bounds().Empty() {
		return ErrEmptyImage
	}
	return nil
}
