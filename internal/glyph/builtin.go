package glyph

import (
	"slices"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

var builtin = map[string][]byte{
	"goregular": goregular.TTF,
	"gomedium":  gomedium.TTF,
	"gobold":    gobold.TTF,
	"gomono":    gomono.TTF,
	"goitalic":  goitalic.TTF,
}

// Builtin returns the TTF bytes of a built-in face.
func Builtin(name string) ([]byte, error) {
	data, ok := builtin[name]
	if !ok {
		return nil, &UnknownFontError{Name: name}
	}
	return data, nil
}

// IsBuiltin reports whether name is a built-in face.
func IsBuiltin(name string) bool {
	_, ok := builtin[name]
	return ok
}

// BuiltinNames returns the built-in face names, sorted.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtin))
	for n := range builtin {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
