package platform

import (
	"errors"
	"net/url"
	"strings"
)

// Platform identifies the social-media platform a URL belongs to
type Platform string

const (
	Instagram Platform = "instagram"
	TikTok    Platform = "tiktok"
	YouTube   Platform = "youtube"
	Unknown   Platform = "unknown"
)

// ErrInvalidURL is returned when the input is not a well-formed
// absolute http(s) URL. Scheme-less inputs are rejected, not coerced.
var ErrInvalidURL = errors.New("invalid url")

// platformsByHost maps hostnames to their platform.
// Short-link and redirect domains are listed alongside the canonical ones.
var platformsByHost = map[string]Platform{
	"instagram.com": Instagram,
	"instagr.am":    Instagram,
	"tiktok.com":    TikTok,
	"vm.tiktok.com": TikTok,
	"vt.tiktok.com": TikTok,
	"youtube.com":   YouTube,
	"m.youtube.com": YouTube,
	"youtu.be":      YouTube,
}

// Parse validates that raw is an absolute http(s) URL and returns it parsed.
func Parse(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrInvalidURL
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, ErrInvalidURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, ErrInvalidURL
	}
	if u.Hostname() == "" {
		return nil, ErrInvalidURL
	}
	return u, nil
}

// Classify maps a parsed URL to its platform using O(1) hostname lookup.
// Unrecognized hosts yield Unknown; no network access is ever performed.
func Classify(u *url.URL) Platform {
	host := strings.ToLower(u.Hostname())

	if p, ok := platformsByHost[host]; ok {
		return p
	}

	// Try without www. prefix
	if strings.HasPrefix(host, "www.") {
		if p, ok := platformsByHost[host[4:]]; ok {
			return p
		}
	}

	return Unknown
}

// Detect parses and classifies a raw URL in one step.
func Detect(raw string) (Platform, error) {
	u, err := Parse(raw)
	if err != nil {
		return Unknown, err
	}
	return Classify(u), nil
}

// List returns the supported platforms in display order.
func List() []Platform {
	return []Platform{Instagram, TikTok, YouTube}
}
