// Package version carries build metadata injected at link time.
package version

// Set via -ldflags "-X codehelper/internal/version.Version=..." at build.
var (
	Version   = "dev"
	Commit    = ""
	BuildDate = ""
)
