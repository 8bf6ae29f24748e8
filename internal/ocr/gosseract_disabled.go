//go:build !gosseract

package ocr

import (
	"context"
	"image"
)

// GosseractEngine is unavailable in builds without the gosseract tag.
type GosseractEngine struct{}

// NewGosseractEngine reports ErrEngineNotFound; rebuild with -tags gosseract
// to link libtesseract.
func NewGosseractEngine(string) (*GosseractEngine, error) {
	return nil, WrapOCRError("NewGosseractEngine", ErrEngineNotFound, "built without the gosseract tag")
}

func (e *GosseractEngine) Name() string { return "gosseract" }

func (e *GosseractEngine) Recognize(context.Context, image.Image, string) (string, error) {
	return "", WrapOCRError("Recognize", ErrEngineNotFound, "built without the gosseract tag")
}
