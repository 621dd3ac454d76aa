package media

import (
	"fmt"
	"math"

	"github.com/emrekir/vidprobe/internal/core/platform"
)

const (
	// maxFormatList caps the formats list returned to clients
	maxFormatList = 5

	// maxDescriptionRunes truncates overlong upstream descriptions
	maxDescriptionRunes = 500

	bytesPerMB = 1048576
)

// FormatDuration renders seconds as MM:SS, or HH:MM:SS from one hour up.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// FilesizeMB converts a byte count to megabytes rounded to one decimal.
func FilesizeMB(bytes int64) float64 {
	return math.Round(float64(bytes)/bytesPerMB*10) / 10
}

// EstimateSizeMB estimates a stream's size from its average bitrate
// (bits per second) and duration: bitrate*duration/8 bytes, then MB,
// rounded to one decimal. Returns false when either input is unknown.
func EstimateSizeMB(bitrate float64, durationSeconds int) (float64, bool) {
	if bitrate <= 0 || durationSeconds <= 0 {
		return 0, false
	}
	bytes := bitrate * float64(durationSeconds) / 8
	return math.Round(bytes/bytesPerMB*10) / 10, true
}

// Normalize converts a probe result plus the selected stream into the
// stable outward schema. Pure: identical inputs yield identical output.
func Normalize(meta Metadata, selected RawStream, streams []RawStream, p platform.Platform) VideoInfo {
	info := VideoInfo{
		Title:          meta.Title,
		Duration:       meta.Duration,
		DurationString: FormatDuration(meta.Duration),
		Thumbnail:      meta.Thumbnail,
		DirectURL:      selected.URL,
		Platform:       p,
		Uploader:       meta.Uploader,
		ViewCount:      meta.ViewCount,
		LikeCount:      meta.LikeCount,
		Description:    truncateRunes(meta.Description, maxDescriptionRunes),
		Resolution:     selected.QualityLabel(),
		Ext:            selected.Ext,
		Formats:        clientFormats(streams),
	}
	if info.Title == "" {
		info.Title = "Unknown"
	}

	if selected.Filesize > 0 {
		mb := FilesizeMB(selected.Filesize)
		info.FilesizeMB = &mb
	} else if mb, ok := EstimateSizeMB(selected.Bitrate, meta.Duration); ok {
		info.FilesizeMB = &mb
		info.SizeEstimated = true
	}

	return info
}

// clientFormats maps video renditions into the client-facing list,
// skipping audio-only streams and capping the count.
func clientFormats(streams []RawStream) []FormatInfo {
	formats := make([]FormatInfo, 0, maxFormatList)
	for i := range streams {
		s := &streams[i]
		if !s.HasVideo() {
			continue
		}
		f := FormatInfo{
			FormatID:   s.FormatID,
			FormatNote: s.FormatNote,
			Ext:        s.Ext,
			Filesize:   s.Filesize,
			Resolution: s.QualityLabel(),
			FPS:        s.FPS,
			VCodec:     s.VCodec,
			ACodec:     s.ACodec,
			URL:        s.URL,
		}
		if s.Filesize > 0 {
			mb := FilesizeMB(s.Filesize)
			f.FilesizeMB = &mb
		}
		formats = append(formats, f)
		if len(formats) == maxFormatList {
			break
		}
	}
	return formats
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
