package graph

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidColor is returned when a style color is neither a hex color nor
// a Graphviz color name.
var ErrInvalidColor = errors.New("invalid color")

// Style controls the colors and fonts of the generated document.
type Style struct {
	// MainColor fills the header row and colors field text.
	MainColor string
	// BgColor fills the table body.
	BgColor   string
	FontName  string
	FontSize  int
}

// DefaultStyle returns the classic teal palette with 8pt Helvetica.
func DefaultStyle() Style {
	return Style{
		MainColor: "#0b7285",
		BgColor:   "#e3fafc",
		FontName:  "Helvetica",
		FontSize:  8,
	}
}

var (
	hexColor   = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	namedColor = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*$`)
	fontName   = regexp.MustCompile(`^[A-Za-z0-9 _\-]+$`)
)

// ValidColor reports whether c can be used as a Graphviz color.
func ValidColor(c string) bool {
	return hexColor.MatchString(c) || namedColor.MatchString(c)
}

// Validate checks colors and fonts. Empty fields are filled from
// DefaultStyle by WithDefaults and are not errors here.
func (s Style) Validate() error {
	s = s.WithDefaults()
	if !ValidColor(s.MainColor) {
		return fmt.Errorf("%w: main color %q", ErrInvalidColor, s.MainColor)
	}
	if !ValidColor(s.BgColor) {
		return fmt.Errorf("%w: background color %q", ErrInvalidColor, s.BgColor)
	}
	if !fontName.MatchString(s.FontName) {
		return fmt.Errorf("invalid font name %q", s.FontName)
	}
	if s.FontSize < 1 {
		return fmt.Errorf("invalid font size %d", s.FontSize)
	}
	return nil
}

// WithDefaults returns s with empty fields taken from DefaultStyle.
func (s Style) WithDefaults() Style {
	d := DefaultStyle()
	if s.MainColor == "" {
		s.MainColor = d.MainColor
	}
	if s.BgColor == "" {
		s.BgColor = d.BgColor
	}
	if s.FontName == "" {
		s.FontName = d.FontName
	}
	if s.FontSize == 0 {
		s.FontSize = d.FontSize
	}
	return s
}
