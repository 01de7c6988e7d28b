package version

// Overridden at build time:
// go build -ldflags "-X storefront/internal/version.Version=1.0.0 -X storefront/internal/version.Commit=$(git rev-parse --short HEAD)"
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)
