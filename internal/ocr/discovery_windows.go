//go:build windows

package ocr

import (
	"path/filepath"

	"golang.org/x/sys/windows/registry"
)

var registryKeys = []string{
	`SOFTWARE\Microsoft\Windows\CurrentVersion\App Paths\tesseract.exe`,
	`SOFTWARE\Tesseract-OCR`,
	`SOFTWARE\WOW6432Node\Tesseract-OCR`,
}

// registryCandidates reads installer entries under HKLM. For each key the
// default value is taken as the executable itself; Path, InstallDir and
// TesseractPath are taken as install directories.
func registryCandidates() []string {
	var out []string
	for _, sub := range registryKeys {
		key, err := registry.OpenKey(registry.LOCAL_MACHINE, sub, registry.QUERY_VALUE)
		if err != nil {
			continue
		}
		if exe, _, err := key.GetStringValue(""); err == nil && exe != "" {
			out = append(out, exe)
		}
		for _, name := range []string{"Path", "InstallDir", "TesseractPath"} {
			if dir, _, err := key.GetStringValue(name); err == nil && dir != "" {
				out = append(out, filepath.Join(dir, "tesseract.exe"))
			}
		}
		key.Close()
	}
	return out
}
