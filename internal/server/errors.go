package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/emrekir/vidprobe/internal/core/engine"
	"github.com/emrekir/vidprobe/internal/core/i18n"
	"github.com/emrekir/vidprobe/internal/core/media"
	"github.com/emrekir/vidprobe/internal/core/platform"
)

// Kind is the closed set of user-facing error categories. Every
// internal failure maps to exactly one of these at the handler
// boundary; nothing else ever reaches a caller.
type Kind string

const (
	KindInvalidURL          Kind = "invalid_url"
	KindUnsupportedPlatform Kind = "unsupported_platform"
	KindRateLimited         Kind = "rate_limited"
	KindExtractionTimeout   Kind = "extraction_timeout"
	KindExtractionNotFound  Kind = "extraction_not_found"
	KindExtractionForbidden Kind = "extraction_forbidden"
	KindNoFormatAvailable   Kind = "no_format_available"
	KindUpstreamUnavailable Kind = "upstream_unavailable"
	KindFileTooLarge        Kind = "file_too_large"
	KindInternal            Kind = "internal_error"
)

// Sentinel errors raised by the orchestrator itself.
var (
	errUnsupportedPlatform = errors.New("unsupported platform")
	errRateLimited         = errors.New("rate limited")
)

// tooLargeError rejects videos over the configured size cap.
type tooLargeError struct {
	sizeMB float64
	maxMB  int
}

func (e *tooLargeError) Error() string {
	return fmt.Sprintf("video too large: %.1fMB over %dMB cap", e.sizeMB, e.maxMB)
}

// ErrorEnvelope is the outward shape of every failure response.
type ErrorEnvelope struct {
	Success   bool      `json:"success"`
	Error     string    `json:"error"`
	Code      Kind      `json:"code"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// translator maps internal failures to HTTP status, taxonomy kind and
// a fixed localized message.
type translator struct {
	t *i18n.Translations
}

func newTranslator(lang string) *translator {
	return &translator{t: i18n.GetTranslations(lang)}
}

// translate classifies err. The returned detail is safe for the
// response envelope: it names the category, never engine internals,
// secrets or filesystem paths.
func (tr *translator) translate(err error) (status int, kind Kind, message, detail string) {
	msgs := tr.t.Errors

	var engErr *engine.Error
	switch {
	case errors.Is(err, platform.ErrInvalidURL):
		return http.StatusBadRequest, KindInvalidURL, msgs.InvalidURL, "url failed validation"

	case errors.Is(err, errUnsupportedPlatform):
		return http.StatusBadRequest, KindUnsupportedPlatform, msgs.UnsupportedPlatform, "host not in the supported platform table"

	case errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests, KindRateLimited, msgs.RateLimited, "per-client request limit reached"

	case errors.Is(err, media.ErrNoFormat):
		return http.StatusBadGateway, KindNoFormatAvailable, msgs.NoFormat, "engine reported no selectable stream"

	case errors.As(err, &engErr):
		return tr.translateEngine(engErr)
	}

	var tooLarge *tooLargeError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge, KindFileTooLarge, msgs.TooLarge,
			fmt.Sprintf("selected stream is %.1fMB, cap is %dMB", tooLarge.sizeMB, tooLarge.maxMB)
	}

	return http.StatusInternalServerError, KindInternal, msgs.Internal, "unexpected failure"
}

func (tr *translator) translateEngine(err *engine.Error) (int, Kind, string, string) {
	msgs := tr.t.Errors

	switch err.Kind {
	case engine.KindTimeout:
		return http.StatusGatewayTimeout, KindExtractionTimeout, msgs.Timeout, "extraction exceeded the configured timeout"
	case engine.KindNotFound:
		return http.StatusNotFound, KindExtractionNotFound, msgs.NotFound, "source reports the video missing or private"
	case engine.KindForbidden:
		return http.StatusForbidden, KindExtractionForbidden, msgs.Forbidden, "source refused access"
	case engine.KindUnsupported:
		return http.StatusBadRequest, KindUnsupportedPlatform, msgs.UnsupportedPlatform, "engine cannot handle this url"
	case engine.KindSourceLimited, engine.KindNetwork:
		return http.StatusBadGateway, KindUpstreamUnavailable, msgs.Upstream, "source platform unreachable or throttling"
	default:
		return http.StatusBadGateway, KindUpstreamUnavailable, msgs.Upstream, "extraction failed for an unclassified reason"
	}
}

// envelope builds the error response body.
func envelope(kind Kind, message, detail string) ErrorEnvelope {
	return ErrorEnvelope{
		Success:   false,
		Error:     message,
		Code:      kind,
		Detail:    detail,
		Timestamp: time.Now().UTC(),
	}
}
