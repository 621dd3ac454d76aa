package engine

import "github.com/emrekir/vidprobe/internal/core/platform"

// Profile is the closed option structure handed to the extraction
// engine for one probe. Fields are named and validated at startup
// instead of being assembled as loose untyped dictionaries.
type Profile struct {
	// FormatPreference is an ordered chain of engine format selectors,
	// tried first to last.
	FormatPreference []string

	// HTTPHeaders are sent by the engine when talking to the platform.
	HTTPHeaders map[string]string

	// SocketTimeoutSeconds bounds individual engine network operations.
	SocketTimeoutSeconds int

	// Retries is the engine-level retry count for transient failures.
	Retries int

	// NoPlaylist restricts extraction to a single video.
	NoPlaylist bool
}

const desktopUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

const mobileUserAgent = "Mozilla/5.0 (iPhone; CPU iPhone OS 16_0 like Mac OS X) AppleWebKit/605.1.15"

func baseProfile() Profile {
	return Profile{
		FormatPreference:     []string{"best"},
		SocketTimeoutSeconds: 30,
		Retries:              3,
		NoPlaylist:           true,
	}
}

// tiktokProfile constrains selection toward the H.264/mp4 rendition,
// which TikTok serves without the overlay watermark. Browser-like
// headers avoid the platform's bot gate.
func tiktokProfile() Profile {
	p := baseProfile()
	p.FormatPreference = []string{
		"best[ext=mp4][vcodec^=avc1]",
		"best[ext=mp4]",
		"best",
	}
	p.HTTPHeaders = map[string]string{
		"User-Agent":      desktopUserAgent,
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language": "en-us,en;q=0.5",
		"Sec-Fetch-Mode":  "navigate",
	}
	return p
}

func instagramProfile() Profile {
	p := baseProfile()
	p.FormatPreference = []string{"best[ext=mp4]", "best"}
	p.HTTPHeaders = map[string]string{
		"User-Agent":      mobileUserAgent,
		"Accept":          "*/*",
		"Accept-Language": "en-US,en;q=0.9",
	}
	return p
}

func youtubeProfile() Profile {
	p := baseProfile()
	p.FormatPreference = []string{
		"bestvideo[ext=mp4]+bestaudio[ext=m4a]",
		"best[ext=mp4]",
		"best",
	}
	return p
}

// ProfileFor returns the option profile for a platform. Unknown
// platforms get the base profile; the orchestrator rejects them before
// any probe, so this is only a safety net.
func ProfileFor(p platform.Platform) Profile {
	switch p {
	case platform.TikTok:
		return tiktokProfile()
	case platform.Instagram:
		return instagramProfile()
	case platform.YouTube:
		return youtubeProfile()
	default:
		return baseProfile()
	}
}
