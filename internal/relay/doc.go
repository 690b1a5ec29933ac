// Package relay drives a single video message through resolution, download,
// audio extraction, and delivery, reporting progress through one editable
// status message and cleaning up every transient file on the way out.
package relay
