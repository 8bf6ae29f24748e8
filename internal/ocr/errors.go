package ocr

import (
	"errors"
	"fmt"
)

// Common OCR processing errors
var (
	// ErrEngineNotFound is returned when the Tesseract executable cannot be
	// located from the override, the well-known install paths, PATH or the
	// platform registry.
	ErrEngineNotFound = errors.New("tesseract OCR engine not found")

	// ErrLanguageUnavailable is returned when the engine rejects the requested
	// language, typically because its traineddata is not installed.
	ErrLanguageUnavailable = errors.New("OCR language unavailable")

	// ErrOCRFailed is returned when the engine fails to process an image.
	ErrOCRFailed = errors.New("OCR processing failed")

	// ErrEmptyImage is returned for rasters without pixels.
	ErrEmptyImage = errors.New("image has no pixels")

	// ErrMissingCredentials is returned when neither GOOGLE_APPLICATION_CREDENTIALS
	// nor GOOGLE_CREDENTIALS is configured for a cloud engine.
	ErrMissingCredentials = errors.New("missing Google Cloud credentials: set GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS environment variable")

	// ErrInvalidConfiguration is returned when an engine is missing required settings.
	ErrInvalidConfiguration = errors.New("invalid OCR engine configuration")

	// ErrUnknownEngine is returned for engine names the factory does not know.
	ErrUnknownEngine = errors.New("unknown OCR engine")
)

// OCRError wraps errors with additional context about the OCR processing failure.
type OCRError struct {
	// Op is the operation that failed (e.g., "Recognize", "NewTesseractEngine").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *OCRError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("ocr: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("ocr: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *OCRError) Unwrap() error {
	return e.Err
}

// NewOCRError creates a new OCRError with the specified operation and underlying error.
func NewOCRError(op string, err error, details string) *OCRError {
	return &OCRError{
		Op:      op,
		Err:     err,
		Details: details,
	}
}

// WrapOCRError wraps an error as an OCRError if it isn't already one.
func WrapOCRError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var ocrErr *OCRError
	if errors.As(err, &ocrErr) {
		return err // Already wrapped
	}

	return NewOCRError(op, err, details)
}
