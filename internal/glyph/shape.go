package glyph

import (
	"unicode"

	"github.com/go-text/typesetting/di"
	gtfont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/text/cases"
	xlanguage "golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Style controls how a string is laid out.
type Style struct {
	// Tracking is extra spacing between runes in pixels.
	Tracking float64
	// TabularDigits gives every digit the advance of the widest digit.
	TabularDigits bool
	// Uppercase upper-cases the text before shaping.
	Uppercase bool
}

// Run is a laid-out line of text.
type Run struct {
	Runes []rune
	// X holds each rune's pen offset from the run start, in pixels.
	X []float64
	// Advance holds each rune's advance, excluding tracking.
	Advance []float64
	Width   float64
}

var upper = cases.Upper(xlanguage.Und)

// Prepare normalizes text to NFC and applies the style's casing.
func Prepare(text string, st Style) string {
	text = norm.NFC.String(text)
	if st.Uppercase {
		text = upper.String(text)
	}
	return text
}

// Layout prepares and shapes text.
func (f *Face) Layout(text string, st Style) Run {
	runes := []rune(Prepare(text, st))
	run := Run{Runes: runes, X: make([]float64, len(runes)), Advance: make([]float64, len(runes))}
	if len(runes) == 0 {
		return run
	}

	shaped := make([]bool, len(runes))
	for _, g := range f.shape(runes) {
		i := g.TextIndex()
		if i < 0 || i >= len(runes) {
			continue
		}
		run.Advance[i] += fixedToFloat(g.Advance)
		shaped[i] = true
	}
	for i, r := range runes {
		if !shaped[i] {
			run.Advance[i] = f.rasterAdvance(r)
		}
	}

	if st.TabularDigits {
		digit := f.digitAdvance()
		for i, r := range runes {
			if unicode.IsDigit(r) {
				run.Advance[i] = digit
			}
		}
	}

	x := 0.0
	for i := range runes {
		run.X[i] = x
		x += run.Advance[i]
		if i < len(runes)-1 {
			x += st.Tracking
		}
	}
	run.Width = x
	return run
}

// Width returns the laid-out width of text in pixels.
func (f *Face) Width(text string, st Style) float64 {
	return f.Layout(text, st).Width
}

func (f *Face) shape(runes []rune) []shaping.Glyph {
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      gtfont.NewFace(f.shapeFont),
		Size:      floatToFixed(f.size),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}
	var hb shaping.HarfbuzzShaper
	return hb.Shape(input).Glyphs
}

func (f *Face) digitAdvance() float64 {
	widest := 0.0
	for r := '0'; r <= '9'; r++ {
		widest = max(widest, f.rasterAdvance(r))
	}
	return widest
}

// detectScript returns the script of the first non-space rune.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if unicode.IsSpace(r) {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}
