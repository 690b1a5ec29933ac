package transport

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Video describes a video-like payload carried by an inbound message.
type Video struct {
	FileID   string
	FileName string
	Size     int64
	MimeType string
}

// ExtractVideo pulls a video-like attachment from a message: a native video,
// a video note, or a document whose declared media type begins with
// "video/". The second return value is false when the message carries none.
func ExtractVideo(msg *tgbotapi.Message) (Video, bool) {
	if msg == nil {
		return Video{}, false
	}
	switch {
	case msg.Video != nil:
		return Video{
			FileID:   msg.Video.FileID,
			FileName: msg.Video.FileName,
			Size:     int64(msg.Video.FileSize),
			MimeType: msg.Video.MimeType,
		}, true
	case msg.VideoNote != nil:
		return Video{
			FileID: msg.VideoNote.FileID,
			Size:   int64(msg.VideoNote.FileSize),
		}, true
	case msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "video/"):
		return Video{
			FileID:   msg.Document.FileID,
			FileName: msg.Document.FileName,
			Size:     int64(msg.Document.FileSize),
			MimeType: msg.Document.MimeType,
		}, true
	default:
		return Video{}, false
	}
}
