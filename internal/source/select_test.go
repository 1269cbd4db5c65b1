package source

import (
	"errors"
	"testing"
)

func progressiveMP4(rank int) EncodingCandidate {
	return EncodingCandidate{
		Container:   "mp4",
		HasVideo:    true,
		HasAudio:    true,
		QualityRank: rank,
		StreamURL:   "https://example.com/stream",
	}
}

func TestSelect_PrefersProgressiveMP4(t *testing.T) {
	manifest := []EncodingCandidate{
		{Container: "webm", HasVideo: true, HasAudio: true, QualityRank: 1080, StreamURL: "u"},
		progressiveMP4(360),
		{Container: "mp4", HasVideo: true, HasAudio: false, QualityRank: 2160, StreamURL: "u"},
		progressiveMP4(720),
		{Container: "mp4", HasVideo: true, HasAudio: true, Segmented: true, QualityRank: 1440, StreamURL: "u"},
	}

	got, err := Select(manifest)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if got.Container != "mp4" || !got.HasVideo || !got.HasAudio || got.Segmented {
		t.Errorf("Select() chose non-progressive candidate: %+v", got)
	}
	if got.QualityRank != 720 {
		t.Errorf("Select() rank = %d, want 720 (highest progressive)", got.QualityRank)
	}
}

func TestSelect_NeverPicksVideoOnlyOrSegmentedWhenProgressiveExists(t *testing.T) {
	manifest := []EncodingCandidate{
		{Container: "mp4", HasVideo: true, HasAudio: false, QualityRank: 2160, StreamURL: "u"},
		{Container: "mp4", HasVideo: false, HasAudio: true, QualityRank: 2160, StreamURL: "u"},
		{Container: "mp4", HasVideo: true, HasAudio: true, Segmented: true, QualityRank: 2160, StreamURL: "u"},
		progressiveMP4(144),
	}

	got, err := Select(manifest)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if got.QualityRank != 144 {
		t.Errorf("Select() = %+v, want the lone 144p progressive candidate", got)
	}
}

func TestSelect_FallbackToHighestRank(t *testing.T) {
	manifest := []EncodingCandidate{
		{Container: "webm", HasVideo: true, HasAudio: true, QualityRank: 480, StreamURL: "u"},
		{Container: "webm", HasVideo: true, HasAudio: true, QualityRank: 1080, StreamURL: "u"},
		{Container: "mp4", HasVideo: true, HasAudio: false, QualityRank: 720, StreamURL: "u"},
	}

	got, err := Select(manifest)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if got.Container != "webm" || got.QualityRank != 1080 {
		t.Errorf("Select() = %+v, want highest-rank webm 1080", got)
	}
}

func TestSelect_BitrateBreaksTies(t *testing.T) {
	manifest := []EncodingCandidate{
		{Container: "mp4", HasVideo: true, HasAudio: true, QualityRank: 720, Bitrate: 900_000, StreamURL: "u"},
		{Container: "mp4", HasVideo: true, HasAudio: true, QualityRank: 720, Bitrate: 1_500_000, StreamURL: "u"},
	}

	got, err := Select(manifest)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if got.Bitrate != 1_500_000 {
		t.Errorf("Select() bitrate = %d, want 1500000", got.Bitrate)
	}
}

func TestSelect_EmptyManifest(t *testing.T) {
	_, err := Select(nil)
	if !errors.Is(err, ErrNoPlayableFormat) {
		t.Fatalf("Select(nil) error = %v, want ErrNoPlayableFormat", err)
	}
}

func TestSelect_NoRetrievableLocator(t *testing.T) {
	manifest := []EncodingCandidate{
		{Container: "mp4", HasVideo: true, HasAudio: true, QualityRank: 1080},
		{Container: "m3u8", HasVideo: true, HasAudio: true, Segmented: true},
	}

	_, err := Select(manifest)
	if !errors.Is(err, ErrNoPlayableFormat) {
		t.Fatalf("Select() error = %v, want ErrNoPlayableFormat", err)
	}
}
