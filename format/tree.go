package format

import (
	"io"

	"github.com/dhamidi/jackal/jack/parser"
)

// TreeEncoder writes the indented debugging dump of parser.Node.
type TreeEncoder struct {
	w         io.Writer
	positions bool
}

func NewTreeEncoder(w io.Writer, positions bool) *TreeEncoder {
	return &TreeEncoder{w: w, positions: positions}
}

func (e *TreeEncoder) Encode(node *parser.Node) error {
	return write(e.w, e.MarshalText, node)
}

func (e *TreeEncoder) MarshalText(node *parser.Node) ([]byte, error) {
	if e.positions {
		return []byte(node.StringWithPositions()), nil
	}
	return []byte(node.String()), nil
}
