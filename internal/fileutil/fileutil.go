package fileutil

import (
	"path/filepath"
	"strings"
)

// SanitizeStem reduces a filename stem to alphanumerics, spaces, hyphens, and
// underscores. An empty result falls back to the provided default.
func SanitizeStem(name, fallback string) string {
	stem := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	var b strings.Builder
	for _, r := range stem {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	cleaned := strings.TrimSpace(b.String())
	if cleaned == "" {
		return fallback
	}
	return cleaned
}

// SuggestFilename builds an output filename from an optional source name, a
// fallback stem, and a target extension.
func SuggestFilename(source, fallbackStem, ext string) string {
	stem := fallbackStem
	if strings.TrimSpace(source) != "" {
		stem = SanitizeStem(source, fallbackStem)
	}
	return stem + "." + strings.TrimPrefix(ext, ".")
}
