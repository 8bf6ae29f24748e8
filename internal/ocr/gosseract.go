//go:build gosseract

package ocr

import (
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"pdfkeyword/internal/render"
)

// GosseractEngine recognizes text with libtesseract linked in-process.
type GosseractEngine struct {
	tessdataPrefix string
	clientFactory  func() *gosseract.Client
}

// NewGosseractEngine constructs an in-process Tesseract engine. It needs
// libtesseract at build time and is only compiled with -tags gosseract.
func NewGosseractEngine(tessdataPrefix string) (*GosseractEngine, error) {
	return &GosseractEngine{
		tessdataPrefix: tessdataPrefix,
		clientFactory:  gosseract.NewClient,
	}, nil
}

func (e *GosseractEngine) Name() string { return "gosseract" }

// Recognize runs a fresh client per page so a failed language init does not
// leak into the retry.
func (e *GosseractEngine) Recognize(ctx context.Context, img image.Image, language string) (string, error) {
	const op = "Recognize"

	if err := checkImage(img); err != nil {
		return "", WrapOCRError(op, err, "")
	}
	if err := ctx.Err(); err != nil {
		return "", WrapOCRError(op, err, "")
	}

	data, err := render.EncodePNG(img)
	if err != nil {
		return "", WrapOCRError(op, ErrOCRFailed, err.Error())
	}

	c := e.clientFactory()
	defer c.Close()

	if e.tessdataPrefix != "" {
		c.TessdataPrefix = e.tessdataPrefix
	}
	if err := c.SetLanguage(language); err != nil {
		return "", WrapOCRError(op, ErrLanguageUnavailable, err.Error())
	}
	if err := c.SetImageFromBytes(data); err != nil {
		return "", WrapOCRError(op, ErrOCRFailed, fmt.Sprintf("set image: %v", err))
	}

	text, err := c.Text()
	if err != nil {
		if isInitFailure(err) {
			return "", WrapOCRError(op, ErrLanguageUnavailable, fmt.Sprintf("language %q: %v", language, err))
		}
		return "", WrapOCRError(op, ErrOCRFailed, err.Error())
	}
	return text, nil
}

// isInitFailure reports the error gosseract returns when TessBaseAPI::Init
// cannot load the requested traineddata.
func isInitFailure(err error) bool {
	return strings.Contains(err.Error(), "TessBaseAPI")
}
