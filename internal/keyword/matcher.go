// Package keyword finds literal keyword occurrences in page text and cuts the
// surrounding context out as paragraphs.
package keyword

import (
	"errors"
	"regexp"
	"strings"
)

// ErrEmptyKeyword is returned when a Matcher is built without a keyword.
var ErrEmptyKeyword = errors.New("keyword must not be empty")

// Match is one matching line and its context window. Line numbers are
// 1-based and inclusive.
type Match struct {
	Line         int
	ContextStart int
	ContextEnd   int
	Text         string
	Highlighted  string
}

// Matcher searches page text for a literal keyword.
type Matcher struct {
	keyword       string
	contextLines  int
	caseSensitive bool
	pattern       *regexp.Regexp
}

// NewMatcher compiles keyword as a literal. Negative contextLines count as 0.
func NewMatcher(keyword string, contextLines int, caseSensitive bool) (*Matcher, error) {
	if keyword == "" {
		return nil, ErrEmptyKeyword
	}
	if contextLines < 0 {
		contextLines = 0
	}

	expr := regexp.QuoteMeta(keyword)
	if !caseSensitive {
		expr = "(?i)" + expr
	}

	return &Matcher{
		keyword:       keyword,
		contextLines:  contextLines,
		caseSensitive: caseSensitive,
		pattern:       regexp.MustCompile(expr),
	}, nil
}

func (m *Matcher) Keyword() string { return m.keyword }

// FindMatches scans the lines of pageText and returns one Match per matching
// line, in line order. Windows of nearby matches may overlap; they are not
// merged.
func (m *Matcher) FindMatches(pageText string) []Match {
	lines := SplitLines(pageText)

	var matches []Match
	for i, line := range lines {
		if !m.pattern.MatchString(line) {
			continue
		}

		start := max(0, i-m.contextLines)
		end := min(len(lines)-1, i+m.contextLines)

		text := strings.TrimSpace(strings.Join(lines[start:end+1], "\n"))
		matches = append(matches, Match{
			Line:         i + 1,
			ContextStart: start + 1,
			ContextEnd:   end + 1,
			Text:         text,
			Highlighted:  m.Highlight(text),
		})
	}
	return matches
}

// Highlight wraps every occurrence of the keyword in text as **keyword**.
// The marker carries the keyword as it was typed, not the casing found in
// the text.
func (m *Matcher) Highlight(text string) string {
	return m.pattern.ReplaceAllLiteralString(text, "**"+m.keyword+"**")
}

// Contains reports whether text holds the keyword under the matcher's case
// policy.
func (m *Matcher) Contains(text string) bool {
	return m.pattern.MatchString(text)
}

// FindMatches is a convenience wrapper building a throwaway Matcher. An empty
// keyword yields no matches.
func FindMatches(pageText, keyword string, contextLines int, caseSensitive bool) []Match {
	m, err := NewMatcher(keyword, contextLines, caseSensitive)
	if err != nil {
		return nil
	}
	return m.FindMatches(pageText)
}

// SplitLines trims the OCR output and splits it into lines, accepting both
// \n and \r\n endings.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(strings.TrimSpace(text), "\n")
}
