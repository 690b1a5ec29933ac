package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gofrs/flock"

	"soundrip/internal/config"
	"soundrip/internal/logging"
	"soundrip/internal/relay"
	"soundrip/internal/transport"
)

// Transport is the chat surface the bot consumes: the relay messenger plus
// the long-poll update stream.
type Transport interface {
	transport.Messenger
	Username() string
	Updates() tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Converter runs one video conversion end to end. Satisfied by
// relay.Orchestrator.
type Converter interface {
	Handle(ctx context.Context, req relay.Request) relay.Outcome
}

// Bot owns the update loop: it authorizes senders, answers commands, and
// hands video messages to the converter, one goroutine per message. A flock
// file enforces single-instance execution.
type Bot struct {
	cfg       *config.Config
	transport Transport
	converter Converter
	logger    *slog.Logger

	allowed  map[int64]struct{}
	lockPath string
	lock     *flock.Flock

	running  atomic.Bool
	inFlight sync.WaitGroup
}

// New constructs a bot with initialized dependencies.
func New(cfg *config.Config, tp Transport, converter Converter, logger *slog.Logger) (*Bot, error) {
	if cfg == nil || tp == nil || converter == nil || logger == nil {
		return nil, errors.New("bot requires config, transport, converter, and logger")
	}

	allowed := make(map[int64]struct{}, len(cfg.Telegram.AllowedUserIDs))
	for _, id := range cfg.Telegram.AllowedUserIDs {
		allowed[id] = struct{}{}
	}

	lockPath := filepath.Join(cfg.Paths.DataDir, "soundrip.lock")
	return &Bot{
		cfg:       cfg,
		transport: tp,
		converter: converter,
		logger:    logging.NewComponentLogger(logger, "bot"),
		allowed:   allowed,
		lockPath:  lockPath,
		lock:      flock.New(lockPath),
	}, nil
}

// Run acquires the instance lock and consumes updates until the context is
// cancelled or the update channel closes. In-flight conversions are allowed
// to finish before Run returns.
func (b *Bot) Run(ctx context.Context) error {
	if b.running.Load() {
		return errors.New("bot already running")
	}

	ok, err := b.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another soundrip instance is already running")
	}
	defer func() {
		if err := b.lock.Unlock(); err != nil {
			b.logger.Warn("failed to release instance lock", logging.Error(err))
		}
	}()

	b.running.Store(true)
	defer b.running.Store(false)

	b.logger.Info("bot started",
		logging.String("username", b.transport.Username()),
		logging.String("lock", b.lockPath))

	updates := b.transport.Updates()
	for {
		select {
		case <-ctx.Done():
			b.transport.StopReceivingUpdates()
			b.inFlight.Wait()
			b.logger.Info("bot stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				b.inFlight.Wait()
				b.logger.Info("update stream closed")
				return nil
			}
			b.dispatch(ctx, update)
		}
	}
}

// Running reports whether the update loop is active.
func (b *Bot) Running() bool {
	return b.running.Load()
}

func (b *Bot) dispatch(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat == nil {
		return
	}

	userID := msg.From.ID
	if !b.authorized(userID) {
		b.logger.Debug("ignoring unauthorized sender",
			logging.Int64(logging.FieldUserID, userID))
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	video, ok := transport.ExtractVideo(msg)
	if !ok {
		b.logger.Debug("ignoring non-video message",
			logging.Int64(logging.FieldChatID, msg.Chat.ID))
		return
	}

	req := relay.Request{
		ChatID:    msg.Chat.ID,
		MessageID: msg.MessageID,
		UserID:    userID,
		Video:     video,
	}
	b.inFlight.Add(1)
	go func() {
		defer b.inFlight.Done()
		b.converter.Handle(ctx, req)
	}()
}

func (b *Bot) authorized(userID int64) bool {
	if len(b.allowed) == 0 {
		return true
	}
	_, ok := b.allowed[userID]
	return ok
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start", "help":
		if _, err := b.transport.SendReply(ctx, msg.Chat.ID, msg.MessageID, b.helpText()); err != nil {
			b.logger.Warn("help reply failed", logging.Error(err))
		}
	default:
		b.logger.Debug("ignoring unknown command",
			logging.String("command", msg.Command()))
	}
}

func (b *Bot) helpText() string {
	text := fmt.Sprintf("Send me a video and I will extract its audio track as %s",
		b.cfg.Audio.Extension)
	if b.cfg.Audio.Bitrate != "" {
		text += fmt.Sprintf(" at %s", b.cfg.Audio.Bitrate)
	}
	return text + ". Forwarded videos and video documents work too."
}
