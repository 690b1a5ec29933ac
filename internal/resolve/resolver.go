package resolve

import (
	"os"
	"strings"
)

// Kind discriminates how the media bytes are reachable.
type Kind int

const (
	// KindLocal means the bytes already exist on local storage.
	KindLocal Kind = iota
	// KindRemote means the bytes must be fetched over HTTP.
	KindRemote
)

func (k Kind) String() string {
	switch k {
	case KindLocal:
		return "local"
	case KindRemote:
		return "remote"
	default:
		return "unknown"
	}
}

// Source is the outcome of deciding whether a remote file descriptor maps to
// an already-local path or requires a network fetch. Exactly one of Path and
// URL is meaningful, selected by Kind. A remote source with an empty URL
// means no direct download URL could be derived and the transport's own
// fetch must be used.
type Source struct {
	Kind Kind
	Path string
	URL  string
}

// Resolve maps the raw file path reported by the Bot API to a source.
//
// When a colocated Bot API server shares its cache volume, the reported path
// may embed the cache root; the suffix starting at the root is then a
// candidate absolute path readable without any download. Failing that, an
// existing absolute path is used directly. Everything else resolves to a
// download URL built from the immutable file-URL prefix.
func Resolve(rawPath, cacheRoot, fileURLPrefix string) Source {
	rawPath = strings.TrimSpace(rawPath)

	if rawPath != "" && cacheRoot != "" {
		if idx := strings.Index(rawPath, cacheRoot); idx >= 0 {
			candidate := rawPath[idx:]
			if fileExists(candidate) {
				return Source{Kind: KindLocal, Path: candidate}
			}
		}
	}

	if strings.HasPrefix(rawPath, "/") && fileExists(rawPath) {
		return Source{Kind: KindLocal, Path: rawPath}
	}

	return Source{Kind: KindRemote, URL: directURL(rawPath, fileURLPrefix)}
}

func directURL(rawPath, prefix string) string {
	if rawPath == "" || prefix == "" {
		return ""
	}
	if strings.HasPrefix(rawPath, "http://") || strings.HasPrefix(rawPath, "https://") {
		return rawPath
	}
	if !strings.HasPrefix(rawPath, "/") {
		rawPath = "/" + rawPath
	}
	return prefix + rawPath
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
