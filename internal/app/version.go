package app

import "fmt"

// Build metadata, overridden via ldflags:
//
//	-X github.com/mlevkov/faqpress-backend/internal/app.Version=1.2.0
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// BuildVersion formats the build metadata for startup logs and the health report.
func BuildVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildTime)
}
