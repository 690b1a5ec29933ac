// Package bot runs the long-poll update loop: it enforces single-instance
// execution, filters senders against the allow list, answers commands, and
// dispatches each video message to the conversion pipeline.
package bot
