package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"pdfkeyword/internal/config"
	"pdfkeyword/internal/logger"
	"pdfkeyword/internal/ocr"
	"pdfkeyword/internal/pipeline"
	"pdfkeyword/internal/render"
	"pdfkeyword/internal/report"
	"pdfkeyword/internal/sheets"
	"pdfkeyword/pkg/models"
)

// Collaborators replaced in tests.
var (
	openPDF       render.Opener            = render.OpenFitz
	openTextLayer pipeline.TextLayerOpener = pipeline.OpenTextLayer
	buildEngine                            = ocr.New
	exportMatches                          = exportToSheet
)

func init() {
	rootCmd.AddCommand(newSearchCmd())
}

func newSearchCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "search [pdf-file] [keyword]",
		Short: "Find paragraphs containing a keyword in a scanned PDF",
		Long: `Render every page of a PDF, recognize it with OCR and print each line that
contains the keyword together with the surrounding context lines.

The search is literal: regular expression characters in the keyword have no
special meaning. Matching ignores case unless --case-sensitive is given.
When at least one paragraph is found, a report is written after the last page
to paragraphs_found_<pdf name>.txt (or .json with --json) unless -o is set.

Optional environment variables:
  TESSERACT_PATH - Full path of the tesseract executable
  TESSDATA_PREFIX - Directory holding .traineddata files
  GOOGLE_SHEET_URL - Also append the matches to this Google Sheet`,
		Example: `  # Search a scanned contract for a name
  pdfkeyword search contrato.pdf "Ana Lima"

  # More context, English OCR, save the rendered pages
  pdfkeyword search scan.pdf invoice -c 4 -l eng -s

  # Keyword from a flag, JSON report to a chosen path
  pdfkeyword search scan.pdf --keyword "R$" --json -o matches.json

  # Use Google Cloud Vision instead of Tesseract
  pdfkeyword search scan.pdf lote --engine vision`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runSearch,
	}

	addOCRFlags(c)
	c.Flags().StringP("keyword", "k", "", "Keyword to search for (alternative to the positional argument)")
	c.Flags().IntP("context", "c", config.DefaultContextLines, "Lines of context before and after the keyword line (env CONTEXT_LINES)")
	c.Flags().Bool("case-sensitive", false, "Match the keyword case-sensitively")
	c.Flags().Bool("json", false, "Write the report as JSON")
	c.Flags().String("sheet-url", "", "Append matches to this Google Sheet (env GOOGLE_SHEET_URL)")

	return c
}

// resolveKeyword picks the positional keyword, then --keyword.
func resolveKeyword(c *cobra.Command, args []string) (string, error) {
	kw := ""
	if len(args) > 1 {
		kw = args[1]
	} else {
		kw, _ = c.Flags().GetString("keyword")
	}
	if strings.TrimSpace(kw) == "" {
		return "", fmt.Errorf("no keyword provided: pass it as the second argument or with --keyword")
	}
	return kw, nil
}

// reportPath returns -o when set, the derived report name otherwise.
func reportPath(c *cobra.Command, prefix, pdfPath, ext string) string {
	if out, _ := c.Flags().GetString("output"); out != "" {
		return out
	}
	return report.FileName(prefix, pdfPath, ext)
}

func runSearch(c *cobra.Command, args []string) error {
	log := logger.WithComponent("search")
	cfg := appConfig
	out := c.OutOrStdout()

	pdfPath := args[0]
	kw, err := resolveKeyword(c, args)
	if err != nil {
		return err
	}

	opts, err := pipelineOptions(c, cfg)
	if err != nil {
		return err
	}
	jsonOutput, _ := c.Flags().GetBool("json")
	timeoutSecs, _ := c.Flags().GetInt("timeout")

	log.Info().
		Str("file", pdfPath).
		Str("keyword", kw).
		Str("language", opts.Language).
		Int("dpi", opts.DPI).
		Int("context", opts.ContextLines).
		Bool("case_sensitive", opts.CaseSensitive).
		Msg("Starting keyword search")

	ctx, cancel := createContextWithTimeout(timeoutSecs, log)
	defer cancel()

	engine, err := newEngine(ctx, c, log)
	if err != nil {
		return err
	}
	defer ocr.Close(engine)

	if err := pipeline.CheckInput(pdfPath); err != nil {
		return err
	}

	fmt.Fprintf(out, "Processing file: %s\n", pdfPath)
	fmt.Fprintf(out, "Searching for: '%s'\n", kw)
	fmt.Fprintf(out, "OCR language: %s\n", opts.Language)
	fmt.Fprintf(out, "Context: %d lines\n", opts.ContextLines)
	fmt.Fprintf(out, "Case sensitive: %t\n", opts.CaseSensitive)
	fmt.Fprintln(out, strings.Repeat("-", 50))

	records, err := pipeline.New(openPDF, engine, opts, out).Search(ctx, pdfPath, kw)
	if err != nil {
		if isInterrupted(err) {
			log.Warn().Int("matches", len(records)).Msg("Search interrupted, no report written")
		}
		return handleOCRError(err, log)
	}

	fmt.Fprintln(out, "\nProcessing complete!")

	return finishSearch(ctx, c, out, pdfPath, kw, records, jsonOutput, log)
}

// finishSearch writes the report and the optional sheet export. With no
// records nothing is written.
func finishSearch(ctx context.Context, c *cobra.Command, out io.Writer, pdfPath, kw string, records []models.MatchRecord, jsonOutput bool, log zerolog.Logger) error {
	if len(records) == 0 {
		fmt.Fprintf(out, "No paragraphs containing '%s' were found.\n", kw)
		return nil
	}

	ext := "txt"
	if jsonOutput {
		ext = "json"
	}
	path := reportPath(c, report.MatchesPrefix, pdfPath, ext)

	err := report.SaveFile(path, func(w io.Writer) error {
		if jsonOutput {
			return report.WriteJSON(w, pdfPath, kw, records)
		}
		return report.WriteText(w, kw, records)
	})
	if err != nil {
		log.Error().Err(err).Str("output_file", path).Msg("Failed to write report")
		return fmt.Errorf("failed to write report: %w", err)
	}

	log.Info().
		Str("output_file", path).
		Int("paragraphs", len(records)).
		Msg("Report written")

	fmt.Fprintf(out, "Results saved to: %s\n", path)
	fmt.Fprintf(out, "Total paragraphs found: %d\n", len(records))

	if c.Flags().Lookup("sheet-url") == nil {
		return nil
	}
	sheetURL := stringFlag(c, "sheet-url", appConfig.GoogleSheetURL)
	if sheetURL == "" {
		return nil
	}
	if err := exportMatches(ctx, sheetURL, pdfPath, kw, records); err != nil {
		log.Error().Err(err).Msg("Failed to export matches to Google Sheet")
		return fmt.Errorf("failed to export matches to Google Sheet: %w", err)
	}
	fmt.Fprintf(out, "Matches appended to worksheet '%s'\n", appConfig.GoogleSheetWorksheet)
	return nil
}

func exportToSheet(ctx context.Context, sheetURL, pdfPath, kw string, records []models.MatchRecord) error {
	svc, err := sheets.NewSheetsService(ctx, sheetURL, sheets.Credentials{
		JSON: appConfig.GoogleCredentials,
		File: appConfig.GoogleApplicationCredentials,
	})
	if err != nil {
		return err
	}
	return svc.WriteMatches(ctx, pdfPath, kw, records, appConfig.GoogleSheetWorksheet)
}

// newEngine builds the engine selected by --engine or OCR_ENGINE.
func newEngine(ctx context.Context, c *cobra.Command, log zerolog.Logger) (ocr.Engine, error) {
	name := stringFlag(c, "engine", appConfig.Engine)

	engine, err := buildEngine(ctx, engineOptions(appConfig, name))
	if err != nil {
		return nil, handleOCRError(err, log)
	}

	log.Debug().Str("engine", engine.Name()).Msg("OCR engine created successfully")
	return engine, nil
}

func isInterrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
