package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/jackal/jack/parser"
)

type JSONEncoder struct {
	w io.Writer
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(node *parser.Node) error {
	return write(e.w, e.MarshalText, node)
}

func (e *JSONEncoder) MarshalText(node *parser.Node) ([]byte, error) {
	data, err := json.MarshalIndent(nodeToDoc(node), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// docNode is the shared document shape of the JSON and YAML encoders.
type docNode struct {
	Kind     string     `json:"kind" yaml:"kind"`
	Span     *docSpan   `json:"span,omitempty" yaml:"span,omitempty"`
	Token    string     `json:"token,omitempty" yaml:"token,omitempty"`
	Empty    bool       `json:"empty,omitempty" yaml:"empty,omitempty"`
	Children []*docNode `json:"children,omitempty" yaml:"children,omitempty"`
}

type docSpan struct {
	Start docPosition `json:"start" yaml:"start"`
	End   docPosition `json:"end" yaml:"end"`
}

type docPosition struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

func nodeToDoc(n *parser.Node) *docNode {
	dn := &docNode{
		Kind:  n.Label(),
		Empty: n.Empty,
	}

	if n.Span.Start.Line != 0 || n.Span.End.Line != 0 {
		dn.Span = &docSpan{
			Start: docPosition{Line: n.Span.Start.Line, Column: n.Span.Start.Column},
			End:   docPosition{Line: n.Span.End.Line, Column: n.Span.End.Column},
		}
	}

	if n.Token != nil {
		dn.Token = n.Token.Raw()
	}

	if len(n.Children) > 0 {
		dn.Children = make([]*docNode, len(n.Children))
		for i, child := range n.Children {
			dn.Children[i] = nodeToDoc(child)
		}
	}

	return dn
}
