package format

import (
	"bytes"
	"io"

	"github.com/dhamidi/jackal/jack/parser"
	"gopkg.in/yaml.v3"
)

type YAMLEncoder struct {
	w io.Writer
}

func NewYAMLEncoder(w io.Writer) *YAMLEncoder {
	return &YAMLEncoder{w: w}
}

func (e *YAMLEncoder) Encode(node *parser.Node) error {
	return write(e.w, e.MarshalText, node)
}

func (e *YAMLEncoder) MarshalText(node *parser.Node) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(nodeToDoc(node)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
