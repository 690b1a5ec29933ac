package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Telegram contains bot credentials and transport endpoints.
type Telegram struct {
	// Token authenticates against the Bot API. Falls back to the BOT_TOKEN
	// environment variable when unset.
	Token string `toml:"token"`
	// APIBaseURL points at a self-hosted Bot API server
	// (e.g. http://bot-api:8081). Empty selects the public endpoint.
	APIBaseURL string `toml:"api_base_url"`
	// FileBaseURL serves file downloads on a self-hosted server. Falls back
	// to APIBaseURL when empty.
	FileBaseURL    string  `toml:"file_base_url"`
	AllowedUserIDs []int64 `toml:"allowed_user_ids"`
	// CacheRoot is where a colocated Bot API server stores fetched media.
	// Both containers must mount the same path for local short-circuit reads.
	CacheRoot string `toml:"cache_root"`
}

// Audio contains the target output format for extracted audio.
type Audio struct {
	Extension    string `toml:"extension"`
	Bitrate      string `toml:"bitrate"`
	FFmpegBinary string `toml:"ffmpeg_binary"`
}

// HTTP contains timeout and pool sizing for the download client, tuned for
// large media transfers.
type HTTP struct {
	ConnectTimeout     int `toml:"connect_timeout"`
	ReadTimeout        int `toml:"read_timeout"`
	WriteTimeout       int `toml:"write_timeout"`
	MaxConnections     int `toml:"max_connections"`
	MaxIdleConnections int `toml:"max_idle_connections"`
}

// Transcode contains subprocess execution settings.
type Transcode struct {
	// Timeout bounds one ffmpeg run, in seconds. Zero disables the bound.
	Timeout int `toml:"timeout"`
}

// Cleanup contains the artifact deletion policy.
type Cleanup struct {
	Output      bool `toml:"output"`
	LocalSource bool `toml:"local_source"`
}

// Paths contains directory configuration.
type Paths struct {
	DataDir    string `toml:"data_dir"`
	StagingDir string `toml:"staging_dir"`
	LogDir     string `toml:"log_dir"`
}

// Logging contains log output configuration.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config encapsulates all configuration values for soundrip.
type Config struct {
	Telegram  Telegram  `toml:"telegram"`
	Audio     Audio     `toml:"audio"`
	HTTP      HTTP      `toml:"http"`
	Transcode Transcode `toml:"transcode"`
	Cleanup   Cleanup   `toml:"cleanup"`
	Paths     Paths     `toml:"paths"`
	Logging   Logging   `toml:"logging"`

	// fileURLPrefix is derived once in normalize and read through
	// FileURLPrefix; it is never mutated afterwards.
	fileURLPrefix string
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/soundrip/config.toml")
}

// Load locates, parses, normalizes, and validates a configuration file. The
// returned config has all path fields expanded and derived URL values fixed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// Finalize normalizes a programmatically constructed config, expanding path
// fields and recomputing derived URL values. Load applies it automatically.
func (c *Config) Finalize() error {
	return c.normalize()
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("soundrip.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the daemon needs at runtime.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.StagingDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// APIEndpoint returns the Bot API request endpoint template, or empty when
// the public endpoint should be used.
func (c *Config) APIEndpoint() string {
	base := c.Telegram.APIBaseURL
	if base == "" {
		return ""
	}
	return base + "/bot%s/%s"
}

// FileURLPrefix returns the direct-download prefix
// (<file_base>/bot<token>) computed once during normalization. Empty when no
// self-hosted file endpoint is configured.
func (c *Config) FileURLPrefix() string {
	return c.fileURLPrefix
}

// SampleConfig returns the embedded sample configuration text.
func SampleConfig() string {
	return sampleConfig
}

// WriteSample writes the sample configuration to path, refusing to overwrite
// an existing file.
func WriteSample(path string) (string, error) {
	expanded, err := expandPath(path)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(expanded); err == nil {
		return "", fmt.Errorf("config file already exists at %s", expanded)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("stat config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o644); err != nil {
		return "", fmt.Errorf("write sample config: %w", err)
	}
	return expanded, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
