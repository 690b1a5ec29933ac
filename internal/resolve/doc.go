// Package resolve decides whether a Bot API file reference is readable from
// the shared local cache or must be downloaded, and derives the download URL
// when one exists.
package resolve
