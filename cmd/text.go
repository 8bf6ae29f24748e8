package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"pdfkeyword/internal/logger"
	"pdfkeyword/internal/pipeline"
)

func init() {
	rootCmd.AddCommand(newTextCmd())
}

func newTextCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "text [pdf-file] [keyword]",
		Short: "Find paragraphs containing a keyword in the PDF text layer",
		Long: `Search the embedded text of a PDF without OCR. Paragraphs are runs of
non-blank lines; a paragraph is reported when it contains the keyword,
ignoring case.

This is fast but finds nothing in scanned PDFs that have no text layer; use
the search command for those.`,
		Example: `  # Search a digitally generated PDF
  pdfkeyword text relatorio.pdf "prazo de entrega"

  # Save the report to a chosen file
  pdfkeyword text relatorio.pdf prazo -o prazo.txt`,
		Args: cobra.ExactArgs(2),
		RunE: runText,
	}

	c.Flags().StringP("output", "o", "", "Report file path (default: derived from the PDF name)")
	c.Flags().Bool("json", false, "Write the report as JSON")
	c.Flags().Int("timeout", 0, "Processing timeout in seconds, 0 for none")

	return c
}

func runText(c *cobra.Command, args []string) error {
	log := logger.WithComponent("text")
	out := c.OutOrStdout()

	pdfPath := args[0]
	kw, err := resolveKeyword(c, args)
	if err != nil {
		return err
	}
	jsonOutput, _ := c.Flags().GetBool("json")
	timeoutSecs, _ := c.Flags().GetInt("timeout")

	ctx, cancel := createContextWithTimeout(timeoutSecs, log)
	defer cancel()

	fmt.Fprintf(out, "Processing file: %s\n", pdfPath)
	fmt.Fprintf(out, "Searching for: '%s'\n", kw)

	records, err := pipeline.SearchTextLayer(ctx, openTextLayer, pdfPath, kw, out)
	if err != nil {
		log.Error().Err(err).Str("file", pdfPath).Msg("Text layer search failed")
		if isInterrupted(err) {
			return handleOCRError(err, log)
		}
		return err
	}

	return finishSearch(ctx, c, out, pdfPath, kw, records, jsonOutput, log)
}
