package ocr

import (
	"strings"

	"golang.org/x/text/language"
	"google.golang.org/api/option"
)

// GoogleCredentials selects how cloud engines authenticate. JSON takes
// precedence over File; with neither, Application Default Credentials are
// attempted.
type GoogleCredentials struct {
	// JSON is an inline service account key (GOOGLE_CREDENTIALS).
	JSON string

	// File is a path to a service account key (GOOGLE_APPLICATION_CREDENTIALS).
	File string
}

func (c GoogleCredentials) clientOptions() []option.ClientOption {
	switch {
	case c.JSON != "":
		return []option.ClientOption{option.WithCredentialsJSON([]byte(c.JSON))}
	case c.File != "":
		return []option.ClientOption{option.WithCredentialsFile(c.File)}
	default:
		return nil
	}
}

// languageHint converts a Tesseract language code ("por", "chi_sim") to the
// BCP-47 form Google APIs expect ("pt", "zh"). Unknown codes pass through.
func languageHint(code string) string {
	base := code
	if i := strings.IndexByte(base, '_'); i >= 0 {
		base = base[:i]
	}
	b, err := language.ParseBase(base)
	if err != nil {
		return code
	}
	return b.String()
}

// isLanguageRejection reports whether a cloud API error message complains
// about the language hint.
func isLanguageRejection(msg string) bool {
	return strings.Contains(strings.ToLower(msg), "language")
}
