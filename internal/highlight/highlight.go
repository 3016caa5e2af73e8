// Package highlight colors dot documents for terminal output.
package highlight

import (
	"io"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/sadopc/schemaviz/internal/theme"
)

// Highlighter tokenises dot text using chroma and renders it with lipgloss
// styles from the active theme.
type Highlighter struct {
	lexer chroma.Lexer
}

// NewHighlighter creates a Highlighter that uses the Graphviz lexer, or the
// plain-text fallback lexer if chroma has none registered.
func NewHighlighter() *Highlighter {
	l := lexers.Get("graphviz")
	if l == nil {
		l = lexers.Get("dot")
	}
	if l == nil {
		l = lexers.Fallback
	}
	l = chroma.Coalesce(l)

	return &Highlighter{lexer: l}
}

// Highlight returns src with each token styled from th. Newlines are
// preserved. A nil theme returns src unchanged.
func (h *Highlighter) Highlight(src string, th *theme.Theme) string {
	if th == nil {
		return src
	}

	iter, err := h.lexer.Tokenise(nil, src)
	if err != nil {
		return src
	}

	var b strings.Builder
	b.Grow(len(src) * 2)

	for _, tok := range iter.Tokens() {
		value := tok.Value
		if value == "" {
			continue
		}

		style, ok := styleFor(tok.Type, th)
		if !ok {
			b.WriteString(value)
			continue
		}

		// Style each line separately so newlines are emitted as-is.
		if strings.Contains(value, "\n") {
			lines := strings.Split(value, "\n")
			for i, line := range lines {
				if line != "" {
					b.WriteString(style.Render(line))
				}
				if i < len(lines)-1 {
					b.WriteByte('\n')
				}
			}
		} else {
			b.WriteString(style.Render(value))
		}
	}

	return b.String()
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Write prints src to w, highlighted when w is a terminal.
func (h *Highlighter) Write(w io.Writer, src string, th *theme.Theme) error {
	if IsTerminal(w) {
		src = h.Highlight(src, th)
	}
	_, err := io.WriteString(w, src)
	return err
}

func styleFor(tt chroma.TokenType, th *theme.Theme) (lipgloss.Style, bool) {
	switch {
	case tt.InCategory(chroma.Keyword):
		return th.DotKeyword, true
	case tt == chroma.NameAttribute:
		return th.DotAttribute, true
	case tt == chroma.NameTag || tt == chroma.NameBuiltin:
		return th.DotTag, true
	case tt.InSubCategory(chroma.LiteralString):
		return th.DotString, true
	case tt.InSubCategory(chroma.LiteralNumber):
		return th.DotNumber, true
	case tt.InCategory(chroma.Comment):
		return th.DotComment, true
	case tt == chroma.Operator || tt == chroma.Punctuation:
		return th.DotOperator, true
	default:
		return lipgloss.Style{}, false
	}
}
