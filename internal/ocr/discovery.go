package ocr

import (
	"os"
	"os/exec"
	"runtime"
)

// InstallGuidance is shown when no Tesseract executable can be found.
const InstallGuidance = `Install Tesseract OCR with one of:
  1) UB Mannheim (Windows): https://github.com/UB-Mannheim/tesseract/wiki
  2) winget: winget install --id UB-Mannheim.TesseractOCR -e
  3) Chocolatey: choco install tesseract
  4) Debian/Ubuntu: apt-get install tesseract-ocr tesseract-ocr-por
  5) macOS: brew install tesseract tesseract-lang
Or set TESSERACT_PATH to the full path of the tesseract executable.`

// Sources lists where ResolveExecutable looks for the Tesseract binary, in
// priority order: Override, Candidates, Registry, then LookPath.
type Sources struct {
	// Override is an explicit path, usually TESSERACT_PATH.
	Override string

	// Candidates are well-known install locations.
	Candidates []string

	// Registry returns executable paths recorded by installers. Nil on
	// platforms without a registry.
	Registry func() []string

	// LookPath searches PATH for a command name.
	LookPath func(file string) (string, error)

	// IsFile reports whether path is an existing regular file.
	IsFile func(path string) bool
}

// DefaultSources returns the discovery sources for the running platform.
func DefaultSources(override string) Sources {
	return Sources{
		Override:   override,
		Candidates: wellKnownPaths(runtime.GOOS),
		Registry:   registryCandidates,
		LookPath:   exec.LookPath,
		IsFile:     isFile,
	}
}

// ResolveExecutable returns the first usable Tesseract executable from s.
// An override that does not point at a file is ignored, like any other
// candidate.
func ResolveExecutable(s Sources) (string, bool) {
	isFile := s.IsFile
	if isFile == nil {
		isFile = func(string) bool { return false }
	}

	if s.Override != "" && isFile(s.Override) {
		return s.Override, true
	}
	for _, candidate := range s.Candidates {
		if isFile(candidate) {
			return candidate, true
		}
	}
	if s.Registry != nil {
		for _, candidate := range s.Registry() {
			if candidate != "" && isFile(candidate) {
				return candidate, true
			}
		}
	}
	if s.LookPath != nil {
		if path, err := s.LookPath("tesseract"); err == nil && path != "" {
			return path, true
		}
	}
	return "", false
}

func wellKnownPaths(goos string) []string {
	switch goos {
	case "windows":
		return []string{
			`C:\Program Files\Tesseract-OCR\tesseract.exe`,
			`C:\Program Files (x86)\Tesseract-OCR\tesseract.exe`,
		}
	case "darwin":
		return []string{
			"/opt/homebrew/bin/tesseract",
			"/usr/local/bin/tesseract",
			"/opt/local/bin/tesseract",
		}
	default:
		return []string{
			"/usr/bin/tesseract",
			"/usr/local/bin/tesseract",
		}
	}
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
