// Package journal persists a history of completed conversion attempts in
// SQLite, surfaced by the history CLI command.
package journal
