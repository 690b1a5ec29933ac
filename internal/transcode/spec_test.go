package transcode

import (
	"reflect"
	"testing"
)

func TestSpecForCodecTable(t *testing.T) {
	cases := map[string]string{
		"mp3":  "libmp3lame",
		"m4a":  "aac",
		"aac":  "aac",
		"opus": "libopus",
		"ogg":  "libopus",
		"oga":  "libopus",
		"flac": "flac",
		"wav":  "pcm_s16le",
	}
	for ext, codec := range cases {
		if got := SpecFor(ext, "192k").Codec; got != codec {
			t.Errorf("SpecFor(%q).Codec = %q, want %q", ext, got, codec)
		}
	}
}

func TestSpecForUnknownExtensionFallsBack(t *testing.T) {
	for _, ext := range []string{"wma", "mkv", "", "mp4"} {
		if got := SpecFor(ext, "192k").Codec; got != "libmp3lame" {
			t.Errorf("SpecFor(%q).Codec = %q, want libmp3lame fallback", ext, got)
		}
	}
}

func TestSpecForBitrateOnlyForLossyCodecs(t *testing.T) {
	if got := SpecFor("flac", "192k").Bitrate; got != "" {
		t.Fatalf("flac should not carry a bitrate, got %q", got)
	}
	if got := SpecFor("wav", "192k").Bitrate; got != "" {
		t.Fatalf("wav should not carry a bitrate, got %q", got)
	}
	if got := SpecFor("oga", "192k").Bitrate; got != "" {
		t.Fatalf("oga should not carry a bitrate, got %q", got)
	}
	if got := SpecFor("mp3", "192k").Bitrate; got != "192k" {
		t.Fatalf("mp3 should carry the bitrate, got %q", got)
	}
}

func TestArgsComposition(t *testing.T) {
	cases := []struct {
		name string
		spec Spec
		want []string
	}{
		{
			name: "mp3 with bitrate",
			spec: SpecFor("mp3", "192k"),
			want: []string{"-y", "-i", "in.mp4", "-vn", "-acodec", "libmp3lame", "-b:a", "192k", "out.mp3"},
		},
		{
			name: "opus adds vbr",
			spec: SpecFor("opus", "96k"),
			want: []string{"-y", "-i", "in.mp4", "-vn", "-acodec", "libopus", "-b:a", "96k", "-vbr", "on", "out.mp3"},
		},
		{
			name: "wav uncompressed",
			spec: SpecFor("wav", "192k"),
			want: []string{"-y", "-i", "in.mp4", "-vn", "-acodec", "pcm_s16le", "out.mp3"},
		},
		{
			name: "mp3 without configured bitrate",
			spec: SpecFor("mp3", ""),
			want: []string{"-y", "-i", "in.mp4", "-vn", "-acodec", "libmp3lame", "out.mp3"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.spec.Args("in.mp4", "out.mp3")
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Args = %v, want %v", got, tc.want)
			}
		})
	}
}
