package graph

import (
	"bufio"
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/sadopc/schemaviz/internal/model"
)

// WriteDOT serializes g in the dot language. Output depends only on g and
// style, so the same input always produces the same bytes.
func (g *Graph) WriteDOT(w io.Writer, style Style) error {
	style = style.WithDefaults()
	if err := style.Validate(); err != nil {
		return err
	}
	name := g.Name
	if name == "" {
		name = DefaultName
	}

	bw := bufio.NewWriter(w)
	p := &printer{w: bw}

	font := quoteID(style.FontName)
	p.printf("digraph %s {\n", quoteID(name))
	p.printf("    fontname = %s\n", font)
	p.printf("    fontsize = %d\n", style.FontSize)
	p.printf("    splines = true\n")
	p.printf("    node [\n")
	p.printf("        fontname = %s\n", font)
	p.printf("        fontsize = %d\n", style.FontSize)
	p.printf("        shape = \"plaintext\"\n")
	p.printf("    ]\n")
	p.printf("    edge [\n")
	p.printf("        fontname = %s\n", font)
	p.printf("        fontsize = %d\n", style.FontSize)
	p.printf("    ]\n")

	for _, n := range g.Nodes {
		p.printf("\n")
		writeNode(p, n, style)
	}

	if len(g.Edges) > 0 {
		p.printf("\n")
	}
	for _, e := range g.Edges {
		p.printf("    %s -> %s [label=%s, arrowhead=empty, arrowtail=none, dir=both];\n",
			quoteID(e.From), quoteID(e.To), quoteID(e.Field))
	}
	p.printf("}\n")

	if p.err != nil {
		return fmt.Errorf("writing dot: %w", p.err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing dot: %w", err)
	}
	return nil
}

// DOT returns the document as a string.
func (g *Graph) DOT(style Style) (string, error) {
	var buf bytes.Buffer
	if err := g.WriteDOT(&buf, style); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func writeNode(p *printer, n Node, style Style) {
	p.printf("    %s [label=<\n", quoteID(n.Name))
	p.printf("        <TABLE BGCOLOR=\"%s\" BORDER=\"0\" CELLBORDER=\"0\" CELLSPACING=\"0\">\n", style.BgColor)
	p.printf("        <TR><TD COLSPAN=\"2\" CELLPADDING=\"4\" ALIGN=\"CENTER\" BGCOLOR=\"%s\">"+
		"<FONT FACE=\"%s Bold\" COLOR=\"white\">%s</FONT></TD></TR>\n",
		style.MainColor, style.FontName, html.EscapeString(n.Name))
	for _, f := range n.Fields {
		face := fieldFace(f, style.FontName)
		p.printf("        <TR><TD ALIGN=\"LEFT\" BORDER=\"0\"><FONT COLOR=\"%s\" FACE=\"%s\">%s</FONT></TD>"+
			"<TD ALIGN=\"LEFT\"><FONT COLOR=\"%s\" FACE=\"%s\">%s</FONT></TD></TR>\n",
			style.MainColor, face, html.EscapeString(f.Name),
			style.MainColor, face, html.EscapeString(f.DisplayType()))
	}
	p.printf("        </TABLE>\n")
	p.printf("    >];\n")
}

// fieldFace bolds primary and foreign keys.
func fieldFace(f model.Field, font string) string {
	if f.PrimaryKey || f.IsForeignKey() {
		return font + " Bold"
	}
	return font
}

var idEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", "")

// quoteID renders s as a double-quoted dot identifier.
func quoteID(s string) string {
	return `"` + idEscaper.Replace(s) + `"`
}

// printer keeps the first write error so callers can check once at the end.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
