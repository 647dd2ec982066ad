// Package build holds build-time version information injected via ldflags.
package build

// Version is the semantic version of the moor binary.
// Overridden at build time via -ldflags "-X go.trai.ch/moor/internal/build.Version=...".
var Version = "dev"

// Commit is the git commit the binary was built from.
var Commit = "none"

// Date is the build timestamp in RFC 3339 format.
var Date = "unknown"
