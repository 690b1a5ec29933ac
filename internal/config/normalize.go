package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTelegram()
	c.normalizeAudio()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		c.Paths.StagingDir = defaultStagingDir
	}
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTelegram() {
	c.Telegram.Token = strings.TrimSpace(c.Telegram.Token)
	if c.Telegram.Token == "" {
		if value, ok := os.LookupEnv("BOT_TOKEN"); ok {
			c.Telegram.Token = strings.TrimSpace(value)
		}
	}

	c.Telegram.APIBaseURL = strings.TrimSuffix(strings.TrimSpace(c.Telegram.APIBaseURL), "/")
	c.Telegram.FileBaseURL = strings.TrimSuffix(strings.TrimSpace(c.Telegram.FileBaseURL), "/")
	if c.Telegram.FileBaseURL == "" {
		c.Telegram.FileBaseURL = c.Telegram.APIBaseURL
	}

	c.Telegram.CacheRoot = strings.TrimSpace(c.Telegram.CacheRoot)
	if c.Telegram.CacheRoot == "" {
		c.Telegram.CacheRoot = defaultCacheRoot
	}
	if !strings.HasSuffix(c.Telegram.CacheRoot, "/") {
		c.Telegram.CacheRoot += "/"
	}

	if c.Telegram.FileBaseURL != "" {
		c.fileURLPrefix = c.Telegram.FileBaseURL + "/file/bot" + c.Telegram.Token
	}
}

func (c *Config) normalizeAudio() {
	c.Audio.Extension = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(c.Audio.Extension), "."))
	if c.Audio.Extension == "" {
		c.Audio.Extension = defaultAudioExtension
	}
	c.Audio.Bitrate = strings.TrimSpace(c.Audio.Bitrate)
	c.Audio.FFmpegBinary = strings.TrimSpace(c.Audio.FFmpegBinary)
	if c.Audio.FFmpegBinary == "" {
		c.Audio.FFmpegBinary = defaultFFmpegBinary
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
}
