package glyph

import "errors"

// Sentinel errors for the glyph package.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("glyph: empty font data")

	// ErrInvalidSize is returned for a non-positive pixel size.
	ErrInvalidSize = errors.New("glyph: size must be positive")
)

// UnknownFontError is returned when a built-in face name is not known.
type UnknownFontError struct {
	Name string
}

func (e *UnknownFontError) Error() string {
	return "glyph: unknown font " + e.Name
}
