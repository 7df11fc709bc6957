package version

// Version is the current version of the udi tools. It is overridden at
// build time with -ldflags "-X github.com/hashicorp-forge/udi/internal/version.Version=...".
var Version = "0.1.0-dev"
