// Package services defines the error classification shared by pipeline
// components.
//
// Each component wraps failures with one sentinel marker (download,
// transcode, send, precondition) so the orchestrator can pick the terminal
// status text without string matching.
package services
