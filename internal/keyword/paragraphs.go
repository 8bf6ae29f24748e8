package keyword

import "strings"

// FindParagraphs splits text-layer output into paragraphs at blank lines and
// returns those containing keyword, compared case-insensitively. Lines of a
// paragraph are joined with single spaces.
func FindParagraphs(pageText, keyword string) []string {
	if keyword == "" {
		return nil
	}
	needle := strings.ToLower(keyword)

	var (
		found   []string
		current strings.Builder
	)
	flush := func() {
		p := strings.TrimSpace(current.String())
		if p != "" && strings.Contains(strings.ToLower(p), needle) {
			found = append(found, p)
		}
		current.Reset()
	}

	for _, line := range strings.Split(pageText, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current.WriteString(line)
		current.WriteByte(' ')
	}
	flush()

	return found
}
