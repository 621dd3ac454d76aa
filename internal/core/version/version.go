package version

// Version is the current vidprobe release. Overridden at build time via
// -ldflags "-X github.com/emrekir/vidprobe/internal/core/version.Version=..."
var Version = "1.0.0"
