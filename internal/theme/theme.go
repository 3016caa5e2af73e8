// Package theme holds the named palettes used for the diagram colors and for
// styling terminal output. Each Theme pairs a graph palette with lipgloss
// styles so a single --theme flag changes both.
package theme

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds the graph palette and the lipgloss styles of the CLI.
type Theme struct {
	Name string

	// Graph palette, written into the dot document.
	MainColor string
	BgColor   string

	// dot syntax highlighting
	DotKeyword   lipgloss.Style
	DotAttribute lipgloss.Style
	DotString    lipgloss.Style
	DotNumber    lipgloss.Style
	DotComment   lipgloss.Style
	DotOperator  lipgloss.Style
	DotTag       lipgloss.Style

	// Summary output
	Title       lipgloss.Style
	Label       lipgloss.Style
	Value       lipgloss.Style
	Path        lipgloss.Style
	ErrorText   lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	MutedText   lipgloss.Style
}

// ---------------------------------------------------------------------------
// Theme definitions
// ---------------------------------------------------------------------------

// newDefaultTheme builds the teal graph palette with a dark terminal scheme.
func newDefaultTheme() *Theme {
	return &Theme{
		Name:      "default",
		MainColor: "#0b7285",
		BgColor:   "#e3fafc",

		DotKeyword: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#569CD6")).
			Bold(true),
		DotAttribute: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9CDCFE")),
		DotString: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CE9178")),
		DotNumber: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#B5CEA8")),
		DotComment: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6A9955")).
			Italic(true),
		DotOperator: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D4D4D4")),
		DotTag: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4EC9B0")),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#569CD6")),
		Label: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#808080")),
		Value: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D4D4D4")),
		Path: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4EC9B0")).
			Underline(true),
		ErrorText: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F44747")),
		SuccessText: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6A9955")),
		WarningText: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CCA700")),
		MutedText: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#808080")),
	}
}

// newLightTheme builds a blue graph palette for light terminals.
func newLightTheme() *Theme {
	return &Theme{
		Name:      "light",
		MainColor: "#1864ab",
		BgColor:   "#e7f5ff",

		DotKeyword: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0000FF")).
			Bold(true),
		DotAttribute: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#001080")),
		DotString: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A31515")),
		DotNumber: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#098658")),
		DotComment: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#008000")).
			Italic(true),
		DotOperator: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1E1E1E")),
		DotTag: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#267F99")),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#0451A5")),
		Label: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6E6E6E")),
		Value: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1E1E1E")),
		Path: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#267F99")).
			Underline(true),
		ErrorText: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CD3131")),
		SuccessText: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#008000")),
		WarningText: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#BF8803")),
		MutedText: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A0A0A0")),
	}
}

// newMonokaiTheme builds the Monokai scheme. The graph uses a dark body so
// the pink field text stays readable.
func newMonokaiTheme() *Theme {
	return &Theme{
		Name:      "monokai",
		MainColor: "#f92672",
		BgColor:   "#272822",

		DotKeyword: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F92672")).
			Bold(true),
		DotAttribute: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6E22E")),
		DotString: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E6DB74")),
		DotNumber: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AE81FF")),
		DotComment: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#75715E")).
			Italic(true),
		DotOperator: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8F8F2")),
		DotTag: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#66D9EF")),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#A6E22E")),
		Label: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#75715E")),
		Value: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8F8F2")),
		Path: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#66D9EF")).
			Underline(true),
		ErrorText: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F92672")),
		SuccessText: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6E22E")),
		WarningText: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E6DB74")),
		MutedText: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#75715E")),
	}
}

// ---------------------------------------------------------------------------
// Registry and accessors
// ---------------------------------------------------------------------------

// Themes maps theme names to their Theme definitions.
var Themes = map[string]*Theme{
	"default": newDefaultTheme(),
	"light":   newLightTheme(),
	"monokai": newMonokaiTheme(),
}

// Default returns the default theme.
func Default() *Theme {
	return Themes["default"]
}

// Get returns the theme identified by name. If no theme with that name exists
// it falls back to the default theme.
func Get(name string) *Theme {
	if t, ok := Themes[name]; ok {
		return t
	}
	return Default()
}

// Names returns the registered theme names, sorted.
func Names() []string {
	names := make([]string, 0, len(Themes))
	for name := range Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
