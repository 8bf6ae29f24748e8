package ocr

import (
	"context"
	"fmt"
)

// Options configures engine construction. It is built once at process start
// and passed explicitly.
type Options struct {
	// Engine is one of tesseract, gosseract, vision, documentai.
	Engine string

	// Discovery locates the tesseract executable for the tesseract engine.
	Discovery Sources

	// TessdataPrefix overrides the traineddata location for local engines.
	TessdataPrefix string

	Credentials GoogleCredentials
	DocumentAI  DocumentAIConfig
}

// New builds the configured engine. For the tesseract engine it resolves the
// executable first and fails with ErrEngineNotFound before any page work.
func New(ctx context.Context, opts Options) (Engine, error) {
	const op = "New"

	switch opts.Engine {
	case "", "tesseract":
		bin, ok := ResolveExecutable(opts.Discovery)
		if !ok {
			return nil, WrapOCRError(op, ErrEngineNotFound, "searched TESSERACT_PATH, install locations, registry and PATH")
		}
		engine, err := NewTesseractEngine(bin, opts.TessdataPrefix)
		if err != nil {
			return nil, err
		}
		return engine, nil
	case "gosseract":
		engine, err := NewGosseractEngine(opts.TessdataPrefix)
		if err != nil {
			return nil, err
		}
		return engine, nil
	case "vision":
		engine, err := NewGoogleVisionEngine(ctx, opts.Credentials)
		if err != nil {
			return nil, err
		}
		return engine, nil
	case "documentai":
		engine, err := NewDocumentAIEngine(ctx, opts.DocumentAI, opts.Credentials)
		if err != nil {
			return nil, err
		}
		return engine, nil
	default:
		return nil, WrapOCRError(op, ErrUnknownEngine, fmt.Sprintf("%q", opts.Engine))
	}
}

// Close releases engine resources when the engine holds any.
func Close(engine Engine) error {
	if c, ok := engine.(Closer); ok {
		return c.Close()
	}
	return nil
}
