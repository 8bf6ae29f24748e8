package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pdfkeyword/internal/config"
	"pdfkeyword/internal/logger"
)

var version = "1.0.0"

// appConfig holds the environment configuration. Flags left unset on the
// command line fall back to it.
var appConfig = config.Default()

var rootCmd = &cobra.Command{
	Use:   "pdfkeyword",
	Short: "Find keyword paragraphs in scanned PDFs using OCR",
	Long: `pdfkeyword renders every page of a PDF, recognizes its text with OCR and
prints the paragraphs that contain a keyword together with their surrounding
lines. Results are saved to a report file once all pages are processed.

Rendering resolution is chosen per page so that no raster exceeds the
configured pixel ceiling. OCR runs through the Tesseract executable by
default; in-process Tesseract, Google Cloud Vision and Document AI engines
are available with --engine.`,
	Version:      version,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Debug().
			Str("version", version).
			Msg("pdfkeyword executed without a subcommand")

		fmt.Println("Welcome to pdfkeyword!")
		fmt.Println("Use --help to see available commands and options.")
	},
}

// Execute runs the root command with cfg as the source of flag defaults.
func Execute(cfg *config.Config) {
	log := logger.WithComponent("cmd")

	if cfg != nil {
		appConfig = cfg
	}

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
