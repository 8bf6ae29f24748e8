package models

// MatchRecord is a single reported occurrence of the keyword with its
// surrounding context.
type MatchRecord struct {
	// Page is the 1-based page number in the source PDF.
	Page int `json:"page"`

	// Line is the 1-based line of the page holding the keyword. Zero for
	// text-layer matches, which are located by paragraph, not line.
	Line int `json:"line,omitempty"`

	// ContextStart and ContextEnd are the 1-based inclusive line range of
	// the paragraph. Zero for text-layer matches.
	ContextStart int `json:"context_start,omitempty"`
	ContextEnd   int `json:"context_end,omitempty"`

	// Text is the paragraph as recognized.
	Text string `json:"text"`

	// HighlightedText is Text with every keyword occurrence marked as **keyword**.
	HighlightedText string `json:"highlighted_text"`
}

// HasLine reports whether the record was located by line (OCR path).
func (r MatchRecord) HasLine() bool {
	return r.Line > 0
}

// PageText is the recognized text of one page.
type PageText struct {
	Page     int    `json:"page"`
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}
