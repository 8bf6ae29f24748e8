package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"pdfkeyword/internal/config"
	"pdfkeyword/internal/ocr"
	"pdfkeyword/internal/pipeline"
)

// addOCRFlags registers the rendering and recognition flags shared by the
// OCR commands.
func addOCRFlags(c *cobra.Command) {
	f := c.Flags()
	f.Int("dpi", config.DefaultDPI, "Requested rendering resolution (env OCR_DPI)")
	f.StringP("language", "l", config.DefaultLanguage, "Tesseract language code (env OCR_LANGUAGE)")
	f.String("fallback-language", config.DefaultFallbackLanguage, "Language retried when the primary one is unavailable (env OCR_FALLBACK_LANGUAGE)")
	f.Int("max-pixels", config.DefaultMaxPixels, "Pixel ceiling per rendered page (env OCR_MAX_PIXELS)")
	f.BoolP("save-images", "s", false, "Save each rendered page as PNG")
	f.String("images-dir", config.DefaultImagesDir, "Directory for saved page images (env IMAGES_DIR)")
	f.String("engine", config.DefaultEngine, "OCR engine: tesseract, gosseract, vision or documentai (env OCR_ENGINE)")
	f.StringP("output", "o", "", "Report file path (default: derived from the PDF name)")
	f.Int("timeout", 0, "Processing timeout in seconds, 0 for none")
}

// intFlag returns the flag value when set on the command line, fallback
// otherwise.
func intFlag(c *cobra.Command, name string, fallback int) int {
	if !c.Flags().Changed(name) {
		return fallback
	}
	v, _ := c.Flags().GetInt(name)
	return v
}

func stringFlag(c *cobra.Command, name, fallback string) string {
	if !c.Flags().Changed(name) {
		return fallback
	}
	v, _ := c.Flags().GetString(name)
	return v
}

// pipelineOptions merges command line flags over appConfig.
func pipelineOptions(c *cobra.Command, cfg *config.Config) (pipeline.Options, error) {
	opts := pipeline.Options{
		DPI:              intFlag(c, "dpi", cfg.DPI),
		MaxPixels:        intFlag(c, "max-pixels", cfg.MaxPixels),
		Language:         stringFlag(c, "language", cfg.Language),
		FallbackLanguage: stringFlag(c, "fallback-language", cfg.FallbackLanguage),
		ContextLines:     cfg.ContextLines,
		ImagesDir:        stringFlag(c, "images-dir", cfg.ImagesDir),
	}
	opts.SaveImages, _ = c.Flags().GetBool("save-images")

	if c.Flags().Lookup("context") != nil {
		opts.ContextLines = intFlag(c, "context", cfg.ContextLines)
	}
	if c.Flags().Lookup("case-sensitive") != nil {
		opts.CaseSensitive, _ = c.Flags().GetBool("case-sensitive")
	}

	if opts.DPI <= 0 {
		return opts, fmt.Errorf("--dpi must be positive, got %d", opts.DPI)
	}
	if opts.MaxPixels <= 0 {
		return opts, fmt.Errorf("--max-pixels must be positive, got %d", opts.MaxPixels)
	}
	if opts.Language == "" {
		return opts, fmt.Errorf("--language must not be empty")
	}
	if opts.ContextLines < 0 {
		opts.ContextLines = 0
	}
	return opts, nil
}

// engineOptions builds the OCR engine options for engine from cfg.
func engineOptions(cfg *config.Config, engine string) ocr.Options {
	return ocr.Options{
		Engine:         strings.ToLower(engine),
		Discovery:      ocr.DefaultSources(cfg.TesseractPath),
		TessdataPrefix: cfg.TessdataPrefix,
		Credentials: ocr.GoogleCredentials{
			JSON: cfg.GoogleCredentials,
			File: cfg.GoogleApplicationCredentials,
		},
		DocumentAI: ocr.DocumentAIConfig{
			ProjectID:   cfg.GoogleCloudProject,
			Location:    cfg.GoogleCloudLocation,
			ProcessorID: cfg.DocumentAIProcessorID,
		},
	}
}

// createContextWithTimeout creates a context canceled on SIGINT/SIGTERM and,
// when timeoutSecs is positive, after that many seconds.
func createContextWithTimeout(timeoutSecs int, log zerolog.Logger) (context.Context, context.CancelFunc) {
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if timeoutSecs > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), time.Duration(timeoutSecs)*time.Second)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, stopping after the current page")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// handleOCRError provides user-friendly error messages for OCR failures
func handleOCRError(err error, log zerolog.Logger) error {
	log.Error().Err(err).Msg("OCR processing failed")

	errStr := err.Error()

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("OCR processing timed out. Try increasing --timeout or lowering --dpi: %w", err)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("OCR processing was canceled: %w", err)
	case errors.Is(err, pipeline.ErrFileNotFound):
		return err
	case errors.Is(err, ocr.ErrEngineNotFound):
		return fmt.Errorf("%w.\n\n%s", ocr.ErrEngineNotFound, ocr.InstallGuidance)
	case errors.Is(err, ocr.ErrUnknownEngine):
		return fmt.Errorf("unknown OCR engine. Use one of tesseract, gosseract, vision, documentai: %w", err)
	case errors.Is(err, ocr.ErrMissingCredentials):
		return fmt.Errorf("%w. Please set one of:\n\n"+
			"1. Export GOOGLE_APPLICATION_CREDENTIALS with path to service account JSON:\n"+
			"   export GOOGLE_APPLICATION_CREDENTIALS=/path/to/service-account-key.json\n\n"+
			"2. Export GOOGLE_CREDENTIALS with inline JSON:\n"+
			"   export GOOGLE_CREDENTIALS='{\"type\":\"service_account\",\"project_id\":\"your-project\",...}'\n\n"+
			"3. Use Application Default Credentials (if gcloud is configured):\n"+
			"   gcloud auth application-default login", ocr.ErrMissingCredentials)
	case errors.Is(err, ocr.ErrInvalidConfiguration):
		return fmt.Errorf("Document AI is not configured. Set GOOGLE_CLOUD_PROJECT, GOOGLE_CLOUD_LOCATION and DOCUMENT_AI_PROCESSOR_ID: %w", err)
	case strings.Contains(errStr, "Unauthenticated") ||
		strings.Contains(errStr, "invalid_grant") ||
		strings.Contains(errStr, "transport: per-RPC creds failed"):
		return fmt.Errorf("Google Cloud authentication failed. Please check your credentials: %v", err)
	case strings.Contains(errStr, "PERMISSION_DENIED"):
		return fmt.Errorf("permission denied. Please ensure your service account may call the selected OCR API")
	case strings.Contains(errStr, "QUOTA_EXCEEDED") ||
		strings.Contains(errStr, "quota"):
		return fmt.Errorf("Google Cloud quota exceeded. Check your project quotas in the Google Cloud Console")
	default:
		return fmt.Errorf("OCR processing failed: %w", err)
	}
}
