package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"soundrip/internal/bot"
	"soundrip/internal/cleanup"
	"soundrip/internal/deps"
	"soundrip/internal/download"
	"soundrip/internal/httpclient"
	"soundrip/internal/journal"
	"soundrip/internal/logging"
	"soundrip/internal/relay"
	"soundrip/internal/transcode"
	"soundrip/internal/transport"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the bot and process updates until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			logger, err := logging.NewFromConfig(cfg.Logging.Level, cfg.Logging.Format, cfg.Paths.LogDir)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			store, err := journal.Open(cfg.Paths.DataDir)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer store.Close()

			client := httpclient.New(httpclient.FromSeconds(
				cfg.HTTP.ConnectTimeout,
				cfg.HTTP.ReadTimeout,
				cfg.HTTP.MaxConnections,
				cfg.HTTP.MaxIdleConnections,
			))

			tg, err := transport.NewTelegram(cfg, client)
			if err != nil {
				return fmt.Errorf("connect to bot api: %w", err)
			}

			invoker, err := transcode.New(cfg.Audio.FFmpegBinary, cfg.Transcode.Timeout)
			if err != nil {
				return fmt.Errorf("init transcoder: %w", err)
			}

			fetcher := download.New(client)
			cleaner := cleanup.NewManager(
				cfg.Telegram.CacheRoot,
				cfg.Telegram.Token,
				cfg.Cleanup.Output,
				cfg.Cleanup.LocalSource,
				logger,
			)

			orchestrator := relay.New(cfg, tg, fetcher, invoker, cleaner,
				relay.WithRecorder(store),
				relay.WithLogger(logging.NewComponentLogger(logger, "relay")),
				relay.WithFFmpegCheck(func() bool {
					return deps.CheckFFmpeg(cfg.Audio.FFmpegBinary).Available
				}),
			)

			b, err := bot.New(cfg, tg, orchestrator, logger)
			if err != nil {
				return err
			}
			return b.Run(signalCtx)
		},
	}
}
