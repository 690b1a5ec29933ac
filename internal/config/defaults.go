package config

const (
	defaultDataDir    = "~/.local/share/soundrip"
	defaultStagingDir = "~/.local/share/soundrip/staging"
	defaultLogDir     = "~/.local/share/soundrip/logs"

	defaultCacheRoot = "/var/lib/telegram-bot-api/"

	defaultAudioExtension = "mp3"
	defaultAudioBitrate   = "192k"
	defaultFFmpegBinary   = "ffmpeg"

	defaultConnectTimeout     = 30
	defaultReadTimeout        = 600
	defaultWriteTimeout       = 600
	defaultMaxConnections     = 100
	defaultMaxIdleConnections = 20

	defaultLogFormat = ""
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Telegram: Telegram{
			CacheRoot: defaultCacheRoot,
		},
		Audio: Audio{
			Extension:    defaultAudioExtension,
			Bitrate:      defaultAudioBitrate,
			FFmpegBinary: defaultFFmpegBinary,
		},
		HTTP: HTTP{
			ConnectTimeout:     defaultConnectTimeout,
			ReadTimeout:        defaultReadTimeout,
			WriteTimeout:       defaultWriteTimeout,
			MaxConnections:     defaultMaxConnections,
			MaxIdleConnections: defaultMaxIdleConnections,
		},
		Transcode: Transcode{
			Timeout: 0,
		},
		Cleanup: Cleanup{
			Output:      true,
			LocalSource: true,
		},
		Paths: Paths{
			DataDir:    defaultDataDir,
			StagingDir: defaultStagingDir,
			LogDir:     defaultLogDir,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
