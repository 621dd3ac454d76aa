package media

import (
	"errors"
	"testing"

	"github.com/emrekir/vidprobe/internal/core/platform"
)

func TestSelectStreamTikTokWatermarkFree(t *testing.T) {
	watermarked := RawStream{FormatID: "download_wm", Ext: "mp4", VCodec: "h265", ACodec: "aac", Height: 1080, Filesize: 9000000}
	clean := RawStream{FormatID: "play_h264", Ext: "mp4", VCodec: "avc1.64001f", ACodec: "aac", Height: 720, Filesize: 5000000}
	webm := RawStream{FormatID: "alt", Ext: "webm", VCodec: "vp9", ACodec: "opus", Height: 1080, Filesize: 8000000}

	// The avc1/mp4 rendition must win regardless of input ordering,
	// even when other streams rank higher by resolution.
	orderings := [][]RawStream{
		{watermarked, clean, webm},
		{clean, watermarked, webm},
		{webm, watermarked, clean},
		{webm, clean, watermarked},
		{watermarked, webm, clean},
		{clean, webm, watermarked},
	}

	for i, streams := range orderings {
		got, err := SelectStream(streams, platform.TikTok)
		if err != nil {
			t.Fatalf("ordering %d: unexpected error: %v", i, err)
		}
		if got.FormatID != "play_h264" {
			t.Errorf("ordering %d: selected %q, want play_h264", i, got.FormatID)
		}
	}
}

func TestSelectStreamTikTokFallbackTiers(t *testing.T) {
	tests := []struct {
		name    string
		streams []RawStream
		wantID  string
	}{
		{
			name: "No avc1, any mp4 wins over larger webm",
			streams: []RawStream{
				{FormatID: "webm_big", Ext: "webm", VCodec: "vp9", Height: 1080},
				{FormatID: "mp4_small", Ext: "mp4", VCodec: "h265", Height: 720},
			},
			wantID: "mp4_small",
		},
		{
			name: "No mp4 at all, best-ranked stream wins",
			streams: []RawStream{
				{FormatID: "webm_small", Ext: "webm", VCodec: "vp9", Height: 480},
				{FormatID: "webm_big", Ext: "webm", VCodec: "vp9", Height: 1080},
			},
			wantID: "webm_big",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectStream(tt.streams, platform.TikTok)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.FormatID != tt.wantID {
				t.Errorf("selected %q, want %q", got.FormatID, tt.wantID)
			}
		})
	}
}

func TestSelectStreamCombinedPreferred(t *testing.T) {
	streams := []RawStream{
		{FormatID: "1440_video_only", Ext: "mp4", VCodec: "avc1", ACodec: "none", Height: 1440},
		{FormatID: "720_combined", Ext: "mp4", VCodec: "avc1", ACodec: "mp4a", Height: 720},
		{FormatID: "1080_combined", Ext: "mp4", VCodec: "avc1", ACodec: "mp4a", Height: 1080},
	}

	got, err := SelectStream(streams, platform.YouTube)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.FormatID != "1080_combined" {
		t.Errorf("selected %q, want 1080_combined", got.FormatID)
	}
}

func TestSelectStreamVideoOnlyFallback(t *testing.T) {
	streams := []RawStream{
		{FormatID: "audio", Ext: "m4a", VCodec: "none", ACodec: "mp4a"},
		{FormatID: "720_video", Ext: "mp4", VCodec: "avc1", ACodec: "none", Height: 720},
		{FormatID: "1080_video", Ext: "mp4", VCodec: "avc1", ACodec: "none", Height: 1080},
	}

	got, err := SelectStream(streams, platform.Instagram)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.FormatID != "1080_video" {
		t.Errorf("selected %q, want 1080_video", got.FormatID)
	}
}

func TestSelectStreamTieBreakByFilesize(t *testing.T) {
	streams := []RawStream{
		{FormatID: "small", Ext: "mp4", VCodec: "avc1", ACodec: "mp4a", Height: 1080, Filesize: 4000000},
		{FormatID: "large", Ext: "mp4", VCodec: "avc1", ACodec: "mp4a", Height: 1080, Filesize: 6000000},
	}

	got, err := SelectStream(streams, platform.YouTube)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.FormatID != "large" {
		t.Errorf("selected %q, want large", got.FormatID)
	}
}

func TestSelectStreamEmpty(t *testing.T) {
	if _, err := SelectStream(nil, platform.YouTube); !errors.Is(err, ErrNoFormat) {
		t.Errorf("expected ErrNoFormat, got %v", err)
	}

	// Audio-only inputs leave nothing selectable for video platforms
	audioOnly := []RawStream{{FormatID: "audio", Ext: "m4a", VCodec: "none", ACodec: "mp4a"}}
	if _, err := SelectStream(audioOnly, platform.Instagram); !errors.Is(err, ErrNoFormat) {
		t.Errorf("expected ErrNoFormat for audio-only input, got %v", err)
	}
}
