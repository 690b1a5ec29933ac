// Package download streams large HTTP payloads to disk with throttled
// progress reporting.
//
// Progress callbacks fire at most once per interval, or immediately when a
// whole percentage point is crossed, so a chat status message can be edited
// live without hammering the transport. Transfers are chunked; the response
// body is never held in memory.
package download
