package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"pdfkeyword/internal/logger"
	"pdfkeyword/internal/render"
)

// CommandRunner runs an external command feeding stdin and capturing output.
type CommandRunner interface {
	Run(ctx context.Context, stdin []byte, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = bytes.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// TesseractEngine runs the Tesseract executable on PNG-encoded rasters.
type TesseractEngine struct {
	binPath     string
	tessdataDir string
	runner      CommandRunner
	log         zerolog.Logger
}

// NewTesseractEngine creates an engine for the executable at binPath.
// tessdataDir may be empty to use the engine's built-in data path.
func NewTesseractEngine(binPath, tessdataDir string) (*TesseractEngine, error) {
	return NewTesseractEngineWithRunner(binPath, tessdataDir, execRunner{})
}

// NewTesseractEngineWithRunner creates an engine with an explicit runner (for testing).
func NewTesseractEngineWithRunner(binPath, tessdataDir string, runner CommandRunner) (*TesseractEngine, error) {
	const op = "NewTesseractEngine"

	if binPath == "" {
		return nil, WrapOCRError(op, ErrEngineNotFound, "no executable path")
	}
	return &TesseractEngine{
		binPath:     binPath,
		tessdataDir: tessdataDir,
		runner:      runner,
		log:         logger.WithComponent("tesseract"),
	}, nil
}

func (e *TesseractEngine) Name() string { return "tesseract" }

// BinPath returns the executable the engine runs.
func (e *TesseractEngine) BinPath() string { return e.binPath }

// Recognize pipes the raster to `tesseract stdin stdout -l <language>`.
func (e *TesseractEngine) Recognize(ctx context.Context, img image.Image, language string) (string, error) {
	const op = "Recognize"

	if err := checkImage(img); err != nil {
		return "", WrapOCRError(op, err, "")
	}
	data, err := render.EncodePNG(img)
	if err != nil {
		return "", WrapOCRError(op, ErrOCRFailed, err.Error())
	}

	args := []string{"stdin", "stdout", "-l", language}
	if e.tessdataDir != "" {
		args = append(args, "--tessdata-dir", e.tessdataDir)
	}

	e.log.Debug().
		Str("bin", e.binPath).
		Str("language", language).
		Int("png_bytes", len(data)).
		Msg("Running tesseract")

	stdout, stderr, err := e.runner.Run(ctx, data, e.binPath, args...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", WrapOCRError(op, ctxErr, "tesseract interrupted")
		}
		msg := strings.TrimSpace(string(stderr))
		if isMissingLanguage(msg) {
			return "", WrapOCRError(op, ErrLanguageUnavailable, fmt.Sprintf("language %q: %s", language, firstLine(msg)))
		}
		if msg == "" {
			msg = err.Error()
		}
		return "", WrapOCRError(op, ErrOCRFailed, msg)
	}

	return string(stdout), nil
}

func isMissingLanguage(stderr string) bool {
	s := strings.ToLower(stderr)
	return strings.Contains(s, "failed loading language") ||
		strings.Contains(s, "couldn't load any languages") ||
		strings.Contains(s, "error opening data file")
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
