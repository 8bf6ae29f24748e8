package ocr

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEngine returns canned text per language and records calls.
type fakeEngine struct {
	texts map[string]string
	errs  map[string]error
	calls []string
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Recognize(_ context.Context, _ image.Image, language string) (string, error) {
	f.calls = append(f.calls, language)
	if err, ok := f.errs[language]; ok {
		return "", err
	}
	return f.texts[language], nil
}

func testImage() image.Image {
	return image.NewGray(image.Rect(0, 0, 8, 8))
}

func TestRecognizeWithFallback_PrimarySucceeds(t *testing.T) {
	engine := &fakeEngine{texts: map[string]string{"por": "olá"}}

	res, err := RecognizeWithFallback(context.Background(), engine, testImage(), "por", "eng")
	require.NoError(t, err)

	assert.Equal(t, "olá", res.Text)
	assert.Equal(t, "por", res.Language)
	assert.False(t, res.FellBack)
	assert.Equal(t, []string{"por"}, engine.calls)
}

func TestRecognizeWithFallback_RetriesOnceOnLanguageUnavailable(t *testing.T) {
	engine := &fakeEngine{
		texts: map[string]string{"eng": "hello"},
		errs:  map[string]error{"por": NewOCRError("Recognize", ErrLanguageUnavailable, "por")},
	}

	res, err := RecognizeWithFallback(context.Background(), engine, testImage(), "por", "eng")
	require.NoError(t, err)

	assert.Equal(t, "hello", res.Text)
	assert.Equal(t, "eng", res.Language)
	assert.True(t, res.FellBack)
	assert.Equal(t, []string{"por", "eng"}, engine.calls)
}

func TestRecognizeWithFallback_FallbackAlsoFails(t *testing.T) {
	engine := &fakeEngine{
		errs: map[string]error{
			"por": ErrLanguageUnavailable,
			"eng": ErrLanguageUnavailable,
		},
	}

	res, err := RecognizeWithFallback(context.Background(), engine, testImage(), "por", "eng")
	assert.ErrorIs(t, err, ErrLanguageUnavailable)
	assert.Empty(t, res.Text)
	assert.Equal(t, []string{"por", "eng"}, engine.calls)
}

func TestRecognizeWithFallback_OtherErrorsAreNotRetried(t *testing.T) {
	engine := &fakeEngine{errs: map[string]error{"por": ErrOCRFailed}}

	_, err := RecognizeWithFallback(context.Background(), engine, testImage(), "por", "eng")
	assert.ErrorIs(t, err, ErrOCRFailed)
	assert.Equal(t, []string{"por"}, engine.calls)
}

func TestRecognizeWithFallback_SameLanguageNotRetried(t *testing.T) {
	engine := &fakeEngine{errs: map[string]error{"eng": ErrLanguageUnavailable}}

	_, err := RecognizeWithFallback(context.Background(), engine, testImage(), "eng", "eng")
	assert.ErrorIs(t, err, ErrLanguageUnavailable)
	assert.Len(t, engine.calls, 1)
}

func TestOCRError(t *testing.T) {
	err := WrapOCRError("Recognize", ErrLanguageUnavailable, "language \"xyz\"")

	assert.ErrorIs(t, err, ErrLanguageUnavailable)
	assert.Equal(t, `ocr: Recognize failed: language "xyz": OCR language unavailable`, err.Error())

	// Already wrapped errors are returned untouched.
	assert.Same(t, err, WrapOCRError("Other", err, "ignored"))
	assert.NoError(t, WrapOCRError("Noop", nil, ""))

	var ocrErr *OCRError
	require.True(t, errors.As(err, &ocrErr))
	assert.Equal(t, "Recognize", ocrErr.Op)
}

func TestNew_UnknownEngine(t *testing.T) {
	_, err := New(context.Background(), Options{Engine: "abbyy"})
	assert.ErrorIs(t, err, ErrUnknownEngine)
}

func TestNew_TesseractNotFound(t *testing.T) {
	_, err := New(context.Background(), Options{
		Engine:    "tesseract",
		Discovery: Sources{IsFile: func(string) bool { return false }},
	})
	assert.ErrorIs(t, err, ErrEngineNotFound)
}

func TestNew_TesseractResolved(t *testing.T) {
	engine, err := New(context.Background(), Options{
		Engine: "tesseract",
		Discovery: Sources{
			Override: "/opt/tess/bin/tesseract",
			IsFile:   func(p string) bool { return p == "/opt/tess/bin/tesseract" },
		},
	})
	require.NoError(t, err)

	tess, ok := engine.(*TesseractEngine)
	require.True(t, ok)
	assert.Equal(t, "/opt/tess/bin/tesseract", tess.BinPath())
	assert.NoError(t, Close(engine))
}

func TestNew_DocumentAIRequiresProcessor(t *testing.T) {
	engine, err := New(context.Background(), Options{
		Engine:     "documentai",
		DocumentAI: DocumentAIConfig{ProjectID: "p"},
	})
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
	// assert.Nil would also accept a nil *DocumentAIEngine inside the interface.
	assert.True(t, engine == nil, "engine must be a nil interface, got %#v", engine)
}
