//go:build !windows

package ocr

func registryCandidates() []string { return nil }
