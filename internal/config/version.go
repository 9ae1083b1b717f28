package config

// Version is the traceops binary version.
// Set at build time via: -ldflags "-X github.com/traceopshq/traceops/internal/config.Version=<tag>"
// Defaults to "dev" when built without ldflags.
var Version = "dev"
