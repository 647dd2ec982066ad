package domain

import "unique"

// InternedString is a value object that wraps a unique.Handle[string].
// Organization and module names repeat across every dependency edge of a
// workspace, so interning keeps comparisons cheap and identical values shared.
type InternedString struct {
	h unique.Handle[string]
}

// NewInternedString creates a new InternedString from a string.
func NewInternedString(s string) InternedString {
	return InternedString{
		h: unique.Make(s),
	}
}

// String returns the underlying string value.
func (is InternedString) String() string {
	return is.h.Value()
}

// IsZero reports whether the InternedString was never initialized.
func (is InternedString) IsZero() bool {
	return is.h == unique.Handle[string]{}
}
