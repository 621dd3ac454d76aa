package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/emrekir/vidprobe/internal/core/media"
)

// YtDlp invokes the yt-dlp binary in metadata-only mode (-J). The
// engine may write cache artifacts into ScratchDir; nothing under it is
// ever part of a response.
type YtDlp struct {
	Binary     string
	ScratchDir string
}

// NewYtDlp creates a yt-dlp engine and ensures the scratch dir exists.
func NewYtDlp(binary, scratchDir string) (*YtDlp, error) {
	if binary == "" {
		binary = "yt-dlp"
	}
	if scratchDir != "" {
		if err := os.MkdirAll(scratchDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create scratch directory: %w", err)
		}
	}
	return &YtDlp{Binary: binary, ScratchDir: scratchDir}, nil
}

// Probe runs the engine for one URL. Cancellation of ctx kills the
// subprocess; the context deadline is the hard wall-clock timeout.
func (y *YtDlp) Probe(ctx context.Context, url string, profile Profile) (*media.ProbeResult, error) {
	args := y.buildArgs(url, profile)

	cmd := exec.CommandContext(ctx, y.Binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, NewError(KindTimeout, ctx.Err().Error())
		}
		if errors.Is(err, exec.ErrNotFound) {
			return nil, NewError(KindNetwork, "extraction engine binary not found")
		}
		return nil, classifyEngineFailure(stderr.String())
	}

	result, err := parseProbeOutput(stdout.Bytes())
	if err != nil {
		return nil, NewError(KindUnknown, err.Error())
	}
	return result, nil
}

func (y *YtDlp) buildArgs(url string, profile Profile) []string {
	args := []string{
		"-J",
		"--no-warnings",
	}
	if profile.NoPlaylist {
		args = append(args, "--no-playlist")
	}
	if len(profile.FormatPreference) > 0 {
		args = append(args, "-f", strings.Join(profile.FormatPreference, "/"))
	}
	if profile.SocketTimeoutSeconds > 0 {
		args = append(args, "--socket-timeout", fmt.Sprintf("%d", profile.SocketTimeoutSeconds))
	}
	if profile.Retries > 0 {
		args = append(args, "--retries", fmt.Sprintf("%d", profile.Retries))
	}
	for _, key := range sortedHeaderKeys(profile.HTTPHeaders) {
		args = append(args, "--add-headers", key+":"+profile.HTTPHeaders[key])
	}
	if y.ScratchDir != "" {
		args = append(args, "--cache-dir", y.ScratchDir)
	}
	return append(args, url)
}

func sortedHeaderKeys(headers map[string]string) []string {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	// Deterministic argv regardless of map iteration order
	sort.Strings(keys)
	return keys
}

// classifyEngineFailure maps yt-dlp stderr text onto the closed error
// kind set. The raw text stays in Detail for logs only.
func classifyEngineFailure(stderr string) *Error {
	lower := strings.ToLower(stderr)

	switch {
	// Geo messages are often phrased "not available in your country", so
	// they must be checked before the availability group.
	case strings.Contains(lower, "your country"),
		strings.Contains(lower, "geo restricted"),
		strings.Contains(lower, "403"),
		strings.Contains(lower, "sign in to confirm"),
		strings.Contains(lower, "login required"):
		return NewError(KindForbidden, stderr)

	case strings.Contains(lower, "private video"),
		strings.Contains(lower, "private account"),
		strings.Contains(lower, "video unavailable"),
		strings.Contains(lower, "not available"),
		strings.Contains(lower, "404"),
		strings.Contains(lower, "removed"):
		return NewError(KindNotFound, stderr)

	case strings.Contains(lower, "unsupported url"):
		return NewError(KindUnsupported, stderr)

	case strings.Contains(lower, "429"),
		strings.Contains(lower, "too many requests"),
		strings.Contains(lower, "rate-limit"):
		return NewError(KindSourceLimited, stderr)

	case strings.Contains(lower, "unable to download"),
		strings.Contains(lower, "connection"),
		strings.Contains(lower, "timed out"),
		strings.Contains(lower, "network"),
		strings.Contains(lower, "temporary failure"):
		return NewError(KindNetwork, stderr)
	}

	return NewError(KindUnknown, stderr)
}

// ytdlpJSON mirrors the slice of yt-dlp -J output we rely on. Every
// field is optional; missing values stay zero and are treated as
// "absent" downstream, never as an error.
type ytdlpJSON struct {
	Title       string  `json:"title"`
	Duration    float64 `json:"duration"`
	Thumbnail   string  `json:"thumbnail"`
	Uploader    string  `json:"uploader"`
	Channel     string  `json:"channel"`
	ViewCount   *int64  `json:"view_count"`
	LikeCount   *int64  `json:"like_count"`
	Description string  `json:"description"`
	URL         string  `json:"url"`
	Ext         string  `json:"ext"`
	VCodec      string  `json:"vcodec"`
	ACodec      string  `json:"acodec"`
	Formats     []struct {
		FormatID   string  `json:"format_id"`
		FormatNote string  `json:"format_note"`
		Ext        string  `json:"ext"`
		VCodec     string  `json:"vcodec"`
		ACodec     string  `json:"acodec"`
		Resolution string  `json:"resolution"`
		Width      int     `json:"width"`
		Height     int     `json:"height"`
		FPS        float64 `json:"fps"`
		Filesize   int64   `json:"filesize"`
		FilesizeA  int64   `json:"filesize_approx"`
		TBR        float64 `json:"tbr"` // average bitrate, Kbit/s
		URL        string  `json:"url"`
		Protocol   string  `json:"protocol"`
	} `json:"formats"`
}

func parseProbeOutput(data []byte) (*media.ProbeResult, error) {
	var raw ytdlpJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode engine output: %w", err)
	}

	uploader := raw.Uploader
	if uploader == "" {
		uploader = raw.Channel
	}

	result := &media.ProbeResult{
		Meta: media.Metadata{
			Title:       raw.Title,
			Duration:    int(raw.Duration),
			Thumbnail:   raw.Thumbnail,
			Uploader:    uploader,
			ViewCount:   raw.ViewCount,
			LikeCount:   raw.LikeCount,
			Description: raw.Description,
		},
	}

	for _, f := range raw.Formats {
		size := f.Filesize
		if size == 0 {
			size = f.FilesizeA
		}
		result.Streams = append(result.Streams, media.RawStream{
			FormatID:   f.FormatID,
			FormatNote: f.FormatNote,
			Ext:        f.Ext,
			VCodec:     f.VCodec,
			ACodec:     f.ACodec,
			Resolution: f.Resolution,
			Width:      f.Width,
			Height:     f.Height,
			FPS:        f.FPS,
			Filesize:   size,
			Bitrate:    f.TBR * 1000, // Kbit/s to bits/s
			URL:        f.URL,
			Protocol:   f.Protocol,
		})
	}

	// Single-format extractions report the stream at the top level
	if len(result.Streams) == 0 && raw.URL != "" {
		result.Streams = append(result.Streams, media.RawStream{
			Ext:    raw.Ext,
			VCodec: raw.VCodec,
			ACodec: raw.ACodec,
			URL:    raw.URL,
		})
	}

	return result, nil
}
