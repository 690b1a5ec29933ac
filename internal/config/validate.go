package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTelegram(); err != nil {
		return err
	}
	if err := c.validateAudio(); err != nil {
		return err
	}
	if err := c.validateHTTP(); err != nil {
		return err
	}
	if c.Transcode.Timeout < 0 {
		return errors.New("transcode.timeout must be zero or positive")
	}
	return nil
}

func (c *Config) validateTelegram() error {
	if c.Telegram.Token == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/soundrip/config.toml"
		}
		return fmt.Errorf("telegram.token is required. Set BOT_TOKEN env var or edit %s (create with 'soundrip config init')", defaultPath)
	}
	for _, id := range c.Telegram.AllowedUserIDs {
		if id <= 0 {
			return fmt.Errorf("telegram.allowed_user_ids contains invalid id %d", id)
		}
	}
	return nil
}

func (c *Config) validateAudio() error {
	if c.Audio.Extension == "" {
		return errors.New("audio.extension must be set")
	}
	if strings.ContainsAny(c.Audio.Extension, "/\\ ") {
		return fmt.Errorf("audio.extension %q must be a bare extension", c.Audio.Extension)
	}
	if c.Audio.Bitrate != "" && !validBitrate(c.Audio.Bitrate) {
		return fmt.Errorf("audio.bitrate %q must look like 192k or 128000", c.Audio.Bitrate)
	}
	return nil
}

func (c *Config) validateHTTP() error {
	for name, value := range map[string]int{
		"http.connect_timeout":      c.HTTP.ConnectTimeout,
		"http.read_timeout":         c.HTTP.ReadTimeout,
		"http.write_timeout":        c.HTTP.WriteTimeout,
		"http.max_connections":      c.HTTP.MaxConnections,
		"http.max_idle_connections": c.HTTP.MaxIdleConnections,
	} {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	return nil
}

func validBitrate(value string) bool {
	digits := strings.TrimSuffix(strings.ToLower(value), "k")
	if digits == "" {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
