package relay

import (
	"context"
	"log/slog"

	"soundrip/internal/logging"
	"soundrip/internal/transport"
)

// statusNotifier owns the single progress message shown to the user while a
// request runs. Every method is best effort: a failed edit or delete is
// logged at debug level and swallowed so that notification problems can
// never abort a conversion.
type statusNotifier struct {
	messenger transport.Messenger
	logger    *slog.Logger
	ref       transport.MessageRef
	active    bool
}

func newStatusNotifier(messenger transport.Messenger, logger *slog.Logger) *statusNotifier {
	return &statusNotifier{messenger: messenger, logger: logger}
}

// open posts the initial status message. A send failure leaves the notifier
// inactive; later edits and deletes become no-ops.
func (n *statusNotifier) open(ctx context.Context, chatID int64, replyTo int, text string) {
	ref, err := n.messenger.SendReply(ctx, chatID, replyTo, text)
	if err != nil {
		n.logger.Debug("status message send failed", logging.Error(err))
		return
	}
	n.ref = ref
	n.active = true
}

func (n *statusNotifier) edit(ctx context.Context, text string) {
	if !n.active {
		return
	}
	if err := n.messenger.EditText(ctx, n.ref, text); err != nil {
		n.logger.Debug("status message edit failed", logging.Error(err))
	}
}

func (n *statusNotifier) delete(ctx context.Context) {
	if !n.active {
		return
	}
	if err := n.messenger.Delete(ctx, n.ref); err != nil {
		n.logger.Debug("status message delete failed", logging.Error(err))
	}
	n.active = false
}

func (n *statusNotifier) action(ctx context.Context, chatID int64, action string) {
	if err := n.messenger.SendChatAction(ctx, chatID, action); err != nil {
		n.logger.Debug("chat action failed", logging.Error(err))
	}
}
