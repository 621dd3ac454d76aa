package engine

import (
	"context"
	"fmt"

	"github.com/emrekir/vidprobe/internal/core/media"
)

// Engine is the contract with the external extraction engine: given a
// URL and an option profile it returns renditions plus metadata, or a
// classified *Error. Callers never see the engine's internals.
type Engine interface {
	Probe(ctx context.Context, url string, profile Profile) (*media.ProbeResult, error)
}

// ErrorKind classifies an extraction failure. This closed set is the
// only failure information that crosses the engine boundary.
type ErrorKind string

const (
	KindTimeout       ErrorKind = "timeout"
	KindNotFound      ErrorKind = "not_found"      // removed, private, or never existed
	KindForbidden     ErrorKind = "forbidden"      // region-blocked or access denied
	KindUnsupported   ErrorKind = "unsupported"    // engine cannot handle the URL
	KindSourceLimited ErrorKind = "source_limited" // rate-limited by the platform itself
	KindNetwork       ErrorKind = "network"        // upstream unreachable
	KindUnknown       ErrorKind = "unknown"
)

// Error is a classified extraction failure. Detail carries raw engine
// diagnostics for logging only and must never be shown to callers.
type Error struct {
	Kind   ErrorKind
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("extraction failed: %s", e.Kind)
}

// NewError builds a classified extraction error.
func NewError(kind ErrorKind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}
