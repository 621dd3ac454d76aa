package media

import (
	"errors"
	"sort"
	"strings"

	"github.com/emrekir/vidprobe/internal/core/platform"
)

// ErrNoFormat is returned when no candidate stream survives filtering.
var ErrNoFormat = errors.New("no playable format available")

// SelectStream picks the single best rendition for the platform.
//
// TikTok is evaluated as ordered preference tiers, first match wins:
// mp4 with an avc1 (H.264) video track, then any mp4 with video, then
// the best-ranked stream of any container. The avc1/mp4 rendition is
// the one TikTok serves without the overlay watermark.
//
// Other platforms prefer the highest-resolution stream carrying both
// audio and video; when no combined stream exists, the highest
// video-only stream is chosen and callers can see from the formats list
// that audio comes separately.
//
// Tie-break within a tier: larger height, then larger reported
// filesize, then first-seen engine order.
func SelectStream(streams []RawStream, p platform.Platform) (RawStream, error) {
	if len(streams) == 0 {
		return RawStream{}, ErrNoFormat
	}

	ranked := rankStreams(streams)

	if p == platform.TikTok {
		for _, s := range ranked {
			if s.Ext == "mp4" && s.HasVideo() && strings.HasPrefix(s.VCodec, "avc1") {
				return s, nil
			}
		}
		for _, s := range ranked {
			if s.Ext == "mp4" && s.HasVideo() {
				return s, nil
			}
		}
		return ranked[0], nil
	}

	for _, s := range ranked {
		if s.HasVideo() && s.HasAudio() {
			return s, nil
		}
	}
	for _, s := range ranked {
		if s.HasVideo() {
			return s, nil
		}
	}

	return RawStream{}, ErrNoFormat
}

// rankStreams returns a copy of streams ordered best-first by height
// then filesize. The sort is stable, so equally-ranked streams keep the
// engine's reporting order and selection stays deterministic.
func rankStreams(streams []RawStream) []RawStream {
	ranked := make([]RawStream, len(streams))
	copy(ranked, streams)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Height != ranked[j].Height {
			return ranked[i].Height > ranked[j].Height
		}
		return ranked[i].Filesize > ranked[j].Filesize
	})

	return ranked
}
