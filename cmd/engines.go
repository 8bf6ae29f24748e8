package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"pdfkeyword/internal/logger"
	"pdfkeyword/internal/ocr"
)

// discoverySources is replaced in tests.
var discoverySources = ocr.DefaultSources

func init() {
	rootCmd.AddCommand(newEnginesCmd())
}

func newEnginesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "engines",
		Short: "Show the configured OCR engine and the resolved Tesseract executable",
		Long: `Print the OCR engine selected by OCR_ENGINE and where the Tesseract
executable was found. The executable is looked up in TESSERACT_PATH, the usual
install locations, the Windows registry and finally PATH.

Exits with installation guidance when the tesseract engine is selected and no
executable can be found.`,
		Args: cobra.NoArgs,
		RunE: runEngines,
	}
}

func runEngines(c *cobra.Command, args []string) error {
	log := logger.WithComponent("engines")
	out := c.OutOrStdout()

	fmt.Fprintf(out, "Configured engine: %s\n", appConfig.Engine)
	fmt.Fprintf(out, "OCR language: %s (fallback %s)\n", appConfig.Language, appConfig.FallbackLanguage)

	bin, ok := ocr.ResolveExecutable(discoverySources(appConfig.TesseractPath))
	if ok {
		fmt.Fprintf(out, "Tesseract executable: %s\n", bin)
	} else {
		fmt.Fprintln(out, "Tesseract executable: not found")
	}
	if appConfig.TessdataPrefix != "" {
		fmt.Fprintf(out, "Tessdata directory: %s\n", appConfig.TessdataPrefix)
	}

	log.Debug().
		Str("engine", appConfig.Engine).
		Str("tesseract", bin).
		Bool("found", ok).
		Msg("Engine discovery finished")

	if !ok && appConfig.Engine == "tesseract" {
		return fmt.Errorf("%w.\n\n%s", ocr.ErrEngineNotFound, ocr.InstallGuidance)
	}
	return nil
}
