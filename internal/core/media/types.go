package media

import (
	"fmt"

	"github.com/emrekir/vidprobe/internal/core/platform"
)

// RawStream is one candidate rendition exactly as the extraction engine
// reported it, normalized defensively at the engine boundary: any field
// the engine omitted is left at its zero value, never guessed.
type RawStream struct {
	FormatID   string
	FormatNote string
	Ext        string
	VCodec     string
	ACodec     string
	Resolution string
	Width      int
	Height     int
	FPS        float64
	Filesize   int64   // bytes, 0 when unreported
	Bitrate    float64 // bits per second, 0 when unreported
	URL        string  // direct fetch URL, may be ephemeral
	Protocol   string
}

// HasVideo reports whether the stream carries a video track.
func (s *RawStream) HasVideo() bool {
	return s.VCodec != "" && s.VCodec != "none"
}

// HasAudio reports whether the stream carries an audio track.
func (s *RawStream) HasAudio() bool {
	return s.ACodec != "" && s.ACodec != "none"
}

// QualityLabel returns a human-readable resolution label
func (s *RawStream) QualityLabel() string {
	if s.Resolution != "" {
		return s.Resolution
	}
	if s.Height > 0 {
		return fmt.Sprintf("%dp", s.Height)
	}
	return "unknown"
}

// Metadata is the descriptive part of an engine probe result.
type Metadata struct {
	Title       string
	Duration    int // seconds
	Thumbnail   string
	Uploader    string
	ViewCount   *int64
	LikeCount   *int64
	Description string
}

// ProbeResult is everything the extraction engine returns for one URL.
type ProbeResult struct {
	Meta    Metadata
	Streams []RawStream
}

// FormatInfo is one rendition as presented to API clients, so they can
// override the automatic selection.
type FormatInfo struct {
	FormatID   string   `json:"format_id"`
	FormatNote string   `json:"format_note,omitempty"`
	Ext        string   `json:"ext"`
	Filesize   int64    `json:"filesize,omitempty"`
	FilesizeMB *float64 `json:"filesize_mb,omitempty"`
	Resolution string   `json:"resolution"`
	FPS        float64  `json:"fps,omitempty"`
	VCodec     string   `json:"vcodec,omitempty"`
	ACodec     string   `json:"acodec,omitempty"`
	URL        string   `json:"url,omitempty"`
}

// VideoInfo is the normalized outward result schema.
type VideoInfo struct {
	Title          string            `json:"title"`
	Duration       int               `json:"duration"`
	DurationString string            `json:"duration_string"`
	Thumbnail      string            `json:"thumbnail,omitempty"`
	DirectURL      string            `json:"direct_url"`
	Platform       platform.Platform `json:"platform"`
	Uploader       string            `json:"uploader,omitempty"`
	ViewCount      *int64            `json:"view_count,omitempty"`
	LikeCount      *int64            `json:"like_count,omitempty"`
	Description    string            `json:"description,omitempty"`
	FilesizeMB     *float64          `json:"filesize_mb,omitempty"`
	SizeEstimated  bool              `json:"size_estimated,omitempty"`
	Resolution     string            `json:"resolution"`
	Ext            string            `json:"ext"`
	Formats        []FormatInfo      `json:"formats"`
}
