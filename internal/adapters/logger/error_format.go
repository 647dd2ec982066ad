package logger

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// messager describes an error that can report its own message without the chain.
// This matches the Message() method provided by zerr.Error (go.trai.ch/zerr v0.3.0+).
// If zerr's API changes, errors will gracefully fall back to standard error handling.
type messager interface {
	Message() string
}

// metadataer describes an error carrying structured metadata, matching the
// Metadata() method provided by zerr.Error.
type metadataer interface {
	Metadata() map[string]any
}

// ErrorEntry is one link of a collected error chain: the link's own message
// and any structured metadata attached to it.
type ErrorEntry struct {
	Message  string
	Metadata map[string]any
}

// collectErrorEntries walks the error chain and produces one entry per
// distinct message. Annotation links that repeat the message of the link
// they wrap (as produced by zerr.With) are folded into that link's entry,
// merging their metadata. A standard error terminates the walk with its
// full Error() text and nil metadata.
func collectErrorEntries(err error) []ErrorEntry {
	var entries []ErrorEntry

	current := err
	for current != nil {
		m, ok := current.(messager)
		if !ok {
			entries = append(entries, ErrorEntry{Message: current.Error()})
			break
		}

		entry := ErrorEntry{Message: m.Message(), Metadata: map[string]any{}}
		if md, ok := current.(metadataer); ok {
			maps.Copy(entry.Metadata, md.Metadata())
		}

		// Fold annotation layers carrying the same message into this entry.
		// Outer values win on key collision.
		next := errors.Unwrap(current)
		for next != nil {
			nm, ok := next.(messager)
			if !ok || nm.Message() != entry.Message {
				break
			}
			if md, ok := next.(metadataer); ok {
				for k, v := range md.Metadata() {
					if _, exists := entry.Metadata[k]; !exists {
						entry.Metadata[k] = v
					}
				}
			}
			next = errors.Unwrap(next)
		}

		entries = append(entries, entry)
		current = next
	}

	return entries
}

// formatErrorEntries renders the collected chain hierarchically: the first
// entry under an "Error:" prefix, the remaining entries indented beneath a
// "Caused by:" header. Metadata keys are sorted for deterministic output.
func formatErrorEntries(entries []ErrorEntry) string {
	var formatted []string

	for i, entry := range entries {
		lines := strings.Split(entry.Message, "\n")

		if i == 0 {
			formatted = append(formatted, "Error: "+lines[0])
			// Indent continuation lines to align with "Error: "
			for _, line := range lines[1:] {
				formatted = append(formatted, "       "+line)
			}
			formatted = appendMetadata(formatted, entry.Metadata, "       ")
			continue
		}

		if i == 1 {
			formatted = append(formatted, "", "  Caused by:")
		}
		formatted = append(formatted, "    → "+lines[0])
		// Indent continuation lines to align with the arrow
		for _, line := range lines[1:] {
			formatted = append(formatted, "      "+line)
		}
		formatted = appendMetadata(formatted, entry.Metadata, "      ")
	}

	return strings.Join(formatted, "\n")
}

// appendMetadata renders the entry's metadata as "key: value" lines at the
// given indent, keys in alphabetical order.
func appendMetadata(formatted []string, metadata map[string]any, indent string) []string {
	for _, key := range slices.Sorted(maps.Keys(metadata)) {
		formatted = append(formatted, fmt.Sprintf("%s%s: %v", indent, key, metadata[key]))
	}
	return formatted
}
