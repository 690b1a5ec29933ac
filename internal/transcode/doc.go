// Package transcode drives ffmpeg to extract an audio track from a video
// file.
//
// The extension-to-codec mapping is fixed; unrecognized extensions fall back
// to the mp3 encoder. Success requires both a zero exit code and the output
// file existing afterwards. Failures carry the tail of ffmpeg's standard
// error as a bounded diagnostic.
package transcode
