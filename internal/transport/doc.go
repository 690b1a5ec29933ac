// Package transport adapts the Telegram Bot API to the narrow Messenger
// surface the relay consumes.
//
// The relay never imports the Bot API library directly. File metadata
// lookup, reply/edit/delete, audio and document delivery, chat actions, and
// the non-progress file fetch fallback all go through the Messenger
// interface so tests can substitute a fake conversation.
package transport
