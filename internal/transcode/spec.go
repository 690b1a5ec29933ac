package transcode

import "strings"

// Spec is the derived (codec, bitrate, container) triple used to invoke
// ffmpeg for one request.
type Spec struct {
	Codec     string
	Bitrate   string
	Extension string
}

var codecByExtension = map[string]string{
	"mp3":  "libmp3lame",
	"m4a":  "aac",
	"aac":  "aac",
	"opus": "libopus",
	"ogg":  "libopus",
	"oga":  "libopus",
	"flac": "flac",
	"wav":  "pcm_s16le",
}

var bitrateExtensions = map[string]struct{}{
	"mp3":  {},
	"m4a":  {},
	"aac":  {},
	"opus": {},
	"ogg":  {},
}

var vbrExtensions = map[string]struct{}{
	"opus": {},
	"ogg":  {},
}

// SpecFor maps an output extension to its encoder. Unrecognized extensions
// fall back to the mp3 encoder. The bitrate is carried only for
// bitrate-controlled codecs.
func SpecFor(extension, bitrate string) Spec {
	ext := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(extension), "."))
	codec, ok := codecByExtension[ext]
	if !ok {
		codec = "libmp3lame"
	}
	spec := Spec{Codec: codec, Extension: ext}
	if _, ok := bitrateExtensions[ext]; ok {
		spec.Bitrate = strings.TrimSpace(bitrate)
	}
	return spec
}

// Args assembles the ffmpeg argument list: overwrite output, drop the video
// stream, encode with the selected codec.
func (s Spec) Args(inputPath, outputPath string) []string {
	args := []string{"-y", "-i", inputPath, "-vn", "-acodec", s.Codec}
	if s.Bitrate != "" {
		args = append(args, "-b:a", s.Bitrate)
	}
	if _, ok := vbrExtensions[s.Extension]; ok {
		args = append(args, "-vbr", "on")
	}
	return append(args, outputPath)
}
