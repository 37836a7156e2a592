package format

import (
	"io"
	"strings"

	"github.com/dhamidi/jackal/jack/parser"
)

// XMLEncoder writes the tree as nested elements named after each node's
// label. Token text is written as stored: symbols are already escaped by
// the lexer and string constants are passed through unchanged.
type XMLEncoder struct {
	w      io.Writer
	indent string
}

func NewXMLEncoder(w io.Writer, indent string) *XMLEncoder {
	if indent == "" {
		indent = "\t"
	}
	return &XMLEncoder{w: w, indent: indent}
}

func (e *XMLEncoder) Encode(node *parser.Node) error {
	return write(e.w, e.MarshalText, node)
}

func (e *XMLEncoder) MarshalText(node *parser.Node) ([]byte, error) {
	var sb strings.Builder
	e.writeNode(&sb, node, 0)
	return []byte(sb.String()), nil
}

func (e *XMLEncoder) writeNode(sb *strings.Builder, n *parser.Node, depth int) {
	pad := strings.Repeat(e.indent, depth)
	label := n.Label()

	switch {
	case n.Token != nil:
		writeElement(sb, pad, label, n.Token.Text)
	case len(n.Children) == 0:
		// An empty construct holds a single newline, so its closing tag
		// starts a line of its own.
		sb.WriteString(pad + "<" + label + ">\n</" + label + ">\n")
	default:
		sb.WriteString(pad + "<" + label + ">\n")
		for _, child := range n.Children {
			e.writeNode(sb, child, depth+1)
		}
		sb.WriteString(pad + "</" + label + ">\n")
	}
}

func writeElement(sb *strings.Builder, pad, label, text string) {
	sb.WriteString(pad + "<" + label + ">" + text + "</" + label + ">\n")
}
