package app

// Build information set with -ldflags "-X github.com/hyperifyio/textcheck/internal/app.BuildVersion=...".
var (
	BuildVersion = "0.0.0-dev"
	BuildCommit  = "unknown"
	BuildDate    = "unknown"
)

// VersionString is shown by --version.
func VersionString() string {
	return BuildVersion + " (" + BuildCommit + ", " + BuildDate + ")"
}
