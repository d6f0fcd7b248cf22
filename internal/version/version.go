package version

// Version information set via ldflags at build time
var (
	Version   = "dev"     // -X 'github.com/otelscope/otelscope/internal/version.Version=...'
	GitCommit = "unknown" // -X 'github.com/otelscope/otelscope/internal/version.GitCommit=...'
	BuildDate = "unknown" // -X 'github.com/otelscope/otelscope/internal/version.BuildDate=...'
)
