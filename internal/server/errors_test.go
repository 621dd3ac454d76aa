package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/emrekir/vidprobe/internal/core/engine"
	"github.com/emrekir/vidprobe/internal/core/media"
	"github.com/emrekir/vidprobe/internal/core/platform"
)

func TestTranslate(t *testing.T) {
	tr := newTranslator("en")

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   Kind
	}{
		{"invalid url", platform.ErrInvalidURL, http.StatusBadRequest, KindInvalidURL},
		{"wrapped invalid url", fmt.Errorf("parse: %w", platform.ErrInvalidURL), http.StatusBadRequest, KindInvalidURL},
		{"unsupported platform", errUnsupportedPlatform, http.StatusBadRequest, KindUnsupportedPlatform},
		{"rate limited", errRateLimited, http.StatusTooManyRequests, KindRateLimited},
		{"no format", media.ErrNoFormat, http.StatusBadGateway, KindNoFormatAvailable},
		{"engine timeout", engine.NewError(engine.KindTimeout, "deadline exceeded"), http.StatusGatewayTimeout, KindExtractionTimeout},
		{"engine not found", engine.NewError(engine.KindNotFound, "gone"), http.StatusNotFound, KindExtractionNotFound},
		{"engine forbidden", engine.NewError(engine.KindForbidden, "denied"), http.StatusForbidden, KindExtractionForbidden},
		{"engine unsupported", engine.NewError(engine.KindUnsupported, "no extractor"), http.StatusBadRequest, KindUnsupportedPlatform},
		{"engine source limited", engine.NewError(engine.KindSourceLimited, "slow down"), http.StatusBadGateway, KindUpstreamUnavailable},
		{"engine network", engine.NewError(engine.KindNetwork, "refused"), http.StatusBadGateway, KindUpstreamUnavailable},
		{"engine unknown", engine.NewError(engine.KindUnknown, "???"), http.StatusBadGateway, KindUpstreamUnavailable},
		{"too large", &tooLargeError{sizeMB: 750.3, maxMB: 500}, http.StatusRequestEntityTooLarge, KindFileTooLarge},
		{"anything else", errors.New("disk on fire"), http.StatusInternalServerError, KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, kind, message, detail := tr.translate(tt.err)
			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d", status, tt.wantStatus)
			}
			if kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", kind, tt.wantKind)
			}
			if message == "" {
				t.Error("message is empty")
			}
			if detail == "" {
				t.Error("detail is empty")
			}
		})
	}
}

// Engine stderr must never leak into what a caller sees.
func TestTranslateHidesEngineDetail(t *testing.T) {
	tr := newTranslator("en")
	secret := "/home/svc/.cache/yt-dlp: permission denied"

	_, _, message, detail := tr.translate(engine.NewError(engine.KindForbidden, secret))
	for _, out := range []string{message, detail} {
		if strings.Contains(out, secret) || strings.Contains(out, "/home/svc") {
			t.Fatalf("engine detail leaked into response: %q", out)
		}
	}
}

func TestTranslateLocalized(t *testing.T) {
	en := newTranslator("en")
	tr := newTranslator("tr")

	_, _, enMsg, _ := en.translate(errRateLimited)
	_, _, trMsg, _ := tr.translate(errRateLimited)
	if enMsg == trMsg {
		t.Errorf("expected distinct localized messages, both = %q", enMsg)
	}
}

func TestTranslateUnknownLanguageFallsBack(t *testing.T) {
	tr := newTranslator("xx")
	_, _, message, _ := tr.translate(platform.ErrInvalidURL)
	if message == "" {
		t.Error("fallback language produced empty message")
	}
}
