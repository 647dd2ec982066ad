// Package detector provides environment detection for output mode selection.
package detector

import (
	"os"

	"golang.org/x/term"
)

// OutputMode represents the rendering mode for the application.
type OutputMode int

const (
	// ModeAuto automatically detects the appropriate mode.
	ModeAuto OutputMode = iota
	// ModePretty forces the colored human-readable renderer.
	ModePretty
	// ModePlain forces the plain-text renderer for CI and pipes.
	ModePlain
)

// DetectEnvironment returns the recommended output mode based on the environment.
// It checks if stdout is a TTY and if CI environment variables are set.
func DetectEnvironment() OutputMode {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))

	ci := os.Getenv("CI")
	isCI := ci == "true" || ci == "1"

	if !isTTY || isCI {
		return ModePlain
	}
	return ModePretty
}

// ResolveMode applies user override flag to auto-detection.
// userFlag should be one of: "auto", "pretty", "plain", "ci", or empty.
func ResolveMode(autoDetected OutputMode, userFlag string) OutputMode {
	switch userFlag {
	case "pretty":
		return ModePretty
	case "plain", "ci":
		return ModePlain
	case "auto", "":
		return autoDetected
	default:
		return autoDetected
	}
}
