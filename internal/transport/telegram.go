package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"soundrip/internal/config"
	"soundrip/internal/services"
)

// Telegram adapts the Bot API client to the Messenger interface.
type Telegram struct {
	api    *tgbotapi.BotAPI
	client *http.Client
	token  string
}

// NewTelegram connects to the Bot API using the shared HTTP client. A
// configured api_base_url selects a self-hosted server; otherwise the public
// endpoint is used.
func NewTelegram(cfg *config.Config, client *http.Client) (*Telegram, error) {
	endpoint := cfg.APIEndpoint()
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	api, err := tgbotapi.NewBotAPIWithClient(cfg.Telegram.Token, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("connect bot api: %w", err)
	}
	return &Telegram{api: api, client: client, token: cfg.Telegram.Token}, nil
}

// Username returns the authenticated bot account name.
func (t *Telegram) Username() string {
	return t.api.Self.UserName
}

// Updates returns the long-polling update channel.
func (t *Telegram) Updates() tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	return t.api.GetUpdatesChan(u)
}

// StopReceivingUpdates halts long polling.
func (t *Telegram) StopReceivingUpdates() {
	t.api.StopReceivingUpdates()
}

func (t *Telegram) FileInfo(_ context.Context, fileID string) (FileInfo, error) {
	file, err := t.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return FileInfo{}, fmt.Errorf("get file %s: %w", fileID, err)
	}
	return FileInfo{RemotePath: file.FilePath, Size: int64(file.FileSize)}, nil
}

func (t *Telegram) SendReply(_ context.Context, chatID int64, replyTo int, text string) (MessageRef, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyToMessageID = replyTo
	sent, err := t.api.Send(msg)
	if err != nil {
		return MessageRef{}, fmt.Errorf("send reply: %w", err)
	}
	return MessageRef{ChatID: chatID, MessageID: sent.MessageID}, nil
}

func (t *Telegram) EditText(_ context.Context, ref MessageRef, text string) error {
	edit := tgbotapi.NewEditMessageText(ref.ChatID, ref.MessageID, text)
	if _, err := t.api.Send(edit); err != nil {
		return fmt.Errorf("edit message %d: %w", ref.MessageID, err)
	}
	return nil
}

func (t *Telegram) Delete(_ context.Context, ref MessageRef) error {
	if _, err := t.api.Request(tgbotapi.NewDeleteMessage(ref.ChatID, ref.MessageID)); err != nil {
		return fmt.Errorf("delete message %d: %w", ref.MessageID, err)
	}
	return nil
}

func (t *Telegram) SendAudio(_ context.Context, chatID int64, replyTo int, path, caption string) error {
	audio := tgbotapi.NewAudio(chatID, tgbotapi.FilePath(path))
	audio.ReplyToMessageID = replyTo
	audio.Caption = caption
	if _, err := t.api.Send(audio); err != nil {
		return services.Wrap(services.ErrSend, "transport", "send audio", "", err)
	}
	return nil
}

func (t *Telegram) SendDocument(_ context.Context, chatID int64, replyTo int, path, caption string) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
	doc.ReplyToMessageID = replyTo
	doc.Caption = caption
	if _, err := t.api.Send(doc); err != nil {
		return services.Wrap(services.ErrSend, "transport", "send document", "", err)
	}
	return nil
}

func (t *Telegram) SendChatAction(_ context.Context, chatID int64, action string) error {
	if _, err := t.api.Request(tgbotapi.NewChatAction(chatID, action)); err != nil {
		return fmt.Errorf("send chat action: %w", err)
	}
	return nil
}

// DownloadToFile fetches remotePath through the public file endpoint. This
// is the non-progress fallback used when no direct URL can be derived.
func (t *Telegram) DownloadToFile(ctx context.Context, remotePath, destPath string) error {
	url := fmt.Sprintf(tgbotapi.FileEndpoint, t.token, remotePath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return services.Wrap(services.ErrDownload, "transport", "build file request", "", err)
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return services.Wrap(services.ErrDownload, "transport", "fetch file", "", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return services.Wrap(services.ErrDownload, "transport", "fetch file",
			fmt.Sprintf("unexpected status %s", resp.Status), nil)
	}

	dest, err := os.OpenFile(destPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return services.Wrap(services.ErrDownload, "transport", "open destination", "", err)
	}
	defer dest.Close()

	if _, err := io.Copy(dest, resp.Body); err != nil {
		return services.Wrap(services.ErrDownload, "transport", "write file", "", err)
	}
	return dest.Close()
}
