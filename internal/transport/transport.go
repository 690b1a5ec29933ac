package transport

import "context"

// MessageRef identifies one sent message so it can be edited or deleted.
type MessageRef struct {
	ChatID    int64
	MessageID int
}

// FileInfo is the metadata the Bot API reports for a stored file.
type FileInfo struct {
	// RemotePath is the raw file path string: a relative API path, an
	// absolute filesystem path on self-hosted servers, or a full URL.
	RemotePath string
	Size       int64
}

// Chat actions understood by SendChatAction.
const (
	ActionTyping         = "typing"
	ActionUploadDocument = "upload_document"
)

// Messenger is the conversation surface the relay needs from the chat
// transport. The Telegram adapter implements it; tests substitute fakes.
type Messenger interface {
	// FileInfo resolves a file identifier to its remote path and size hint.
	FileInfo(ctx context.Context, fileID string) (FileInfo, error)
	// SendReply posts text as a reply and returns a handle for later edits.
	SendReply(ctx context.Context, chatID int64, replyTo int, text string) (MessageRef, error)
	EditText(ctx context.Context, ref MessageRef, text string) error
	Delete(ctx context.Context, ref MessageRef) error
	// SendAudio delivers the file as an audio attachment.
	SendAudio(ctx context.Context, chatID int64, replyTo int, path, caption string) error
	// SendDocument delivers the file as a generic attachment; used as the
	// fallback when SendAudio is rejected.
	SendDocument(ctx context.Context, chatID int64, replyTo int, path, caption string) error
	SendChatAction(ctx context.Context, chatID int64, action string) error
	// DownloadToFile fetches a file through the transport's own endpoint,
	// without progress reporting. Used when no direct URL is derivable.
	DownloadToFile(ctx context.Context, remotePath, destPath string) error
}
