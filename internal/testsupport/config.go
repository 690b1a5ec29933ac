package testsupport

import (
	"path/filepath"
	"testing"

	"soundrip/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields, applies any provided options, and finalizes the
// result so derived URL values are populated.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Telegram.Token = "test-token"
	cfg.Telegram.CacheRoot = filepath.Join(base, "botapi-cache")
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.StagingDir = filepath.Join(base, "staging")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.Finalize(); err != nil {
		t.Fatalf("finalize config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithToken sets the bot token on the test config.
func WithToken(token string) ConfigOption {
	return func(c *config.Config) {
		c.Telegram.Token = token
	}
}

// WithFileBaseURL points the config at a self-hosted file endpoint so a
// direct download prefix is derived.
func WithFileBaseURL(url string) ConfigOption {
	return func(c *config.Config) {
		c.Telegram.FileBaseURL = url
	}
}

// WithAudio overrides the target extension and bitrate.
func WithAudio(extension, bitrate string) ConfigOption {
	return func(c *config.Config) {
		c.Audio.Extension = extension
		c.Audio.Bitrate = bitrate
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StagingDir)
}
