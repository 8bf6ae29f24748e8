package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"pdfkeyword/internal/logger"
	"pdfkeyword/internal/ocr"
	"pdfkeyword/internal/pipeline"
	"pdfkeyword/internal/report"
	"pdfkeyword/pkg/models"
)

// OCROutput represents the JSON output structure when --json flag is used
type OCROutput struct {
	FileName           string            `json:"file_name"`
	Engine             string            `json:"engine"`
	Pages              []models.PageText `json:"pages"`
	ProcessedAt        time.Time         `json:"processed_at"`
	ProcessingDuration string            `json:"processing_duration"`
}

func init() {
	rootCmd.AddCommand(newOCRCmd())
}

func newOCRCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "ocr [pdf-file]",
		Short: "Extract the text of every page of a PDF using OCR",
		Long: `Render every page of a PDF and recognize its text with the configured OCR
engine. The text of each page is printed as it is recognized and the whole
document is saved to extracted_text_<pdf name>.txt unless -o is set.

Rendering and language options are shared with the search command.`,
		Example: `  # Extract text from scan.pdf
  pdfkeyword ocr scan.pdf

  # English OCR, save text to a chosen file
  pdfkeyword ocr scan.pdf -l eng -o scan.txt

  # Output as JSON with per-page language
  pdfkeyword ocr scan.pdf --json -o scan.json`,
		Args: cobra.ExactArgs(1),
		RunE: runOCR,
	}

	addOCRFlags(c)
	c.Flags().Bool("json", false, "Output as JSON")

	return c
}

func runOCR(c *cobra.Command, args []string) error {
	log := logger.WithComponent("ocr")
	out := c.OutOrStdout()
	pdfPath := args[0]

	opts, err := pipelineOptions(c, appConfig)
	if err != nil {
		return err
	}
	jsonOutput, _ := c.Flags().GetBool("json")
	timeoutSecs, _ := c.Flags().GetInt("timeout")

	log.Info().
		Str("file", pdfPath).
		Str("language", opts.Language).
		Int("dpi", opts.DPI).
		Bool("json", jsonOutput).
		Int("timeout", timeoutSecs).
		Msg("Starting OCR processing")

	ctx, cancel := createContextWithTimeout(timeoutSecs, log)
	defer cancel()

	engine, err := newEngine(ctx, c, log)
	if err != nil {
		return err
	}
	defer ocr.Close(engine)

	startTime := time.Now()
	pages, err := pipeline.New(openPDF, engine, opts, out).Extract(ctx, pdfPath)
	if err != nil {
		return handleOCRError(err, log)
	}

	processingDuration := time.Since(startTime)
	log.Info().
		Int("page_count", len(pages)).
		Dur("duration", processingDuration).
		Msg("OCR processing completed successfully")

	ext := "txt"
	if jsonOutput {
		ext = "json"
	}
	path := reportPath(c, report.TextPrefix, pdfPath, ext)

	err = report.SaveFile(path, func(w io.Writer) error {
		if !jsonOutput {
			return report.WritePages(w, pages)
		}
		if pages == nil {
			pages = []models.PageText{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(OCROutput{
			FileName:           filepath.Base(pdfPath),
			Engine:             engine.Name(),
			Pages:              pages,
			ProcessedAt:        time.Now(),
			ProcessingDuration: processingDuration.String(),
		})
	})
	if err != nil {
		log.Error().
			Err(err).
			Str("output_file", path).
			Msg("Failed to write output file")
		return fmt.Errorf("failed to write output file: %w", err)
	}

	log.Info().
		Str("output_file", path).
		Msg("OCR results written to file")

	fmt.Fprintf(out, "\nText saved to: %s\n", path)
	return nil
}
