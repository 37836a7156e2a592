// Package format serializes Jack parse trees and token lists.
package format

import (
	"fmt"
	"io"

	"github.com/dhamidi/jackal/jack/parser"
)

type Encoder interface {
	Encode(node *parser.Node) error
	MarshalText(node *parser.Node) ([]byte, error)
}

// Options tune the encoders that support them.
type Options struct {
	// Indent is the unit of nesting for XML and token output.
	Indent string
	// Positions adds source spans to tree output.
	Positions bool
}

var extensions = map[string]string{
	"xml":  ".xml",
	"json": ".json",
	"yaml": ".yaml",
	"tree": ".txt",
}

// Names lists the formats accepted by NewEncoder.
func Names() []string {
	return []string{"xml", "json", "yaml", "tree"}
}

// Extension returns the conventional file extension for a format.
func Extension(name string) string {
	return extensions[name]
}

// Valid reports whether name is a known format.
func Valid(name string) bool {
	_, ok := extensions[name]
	return ok
}

func NewEncoder(name string, w io.Writer, opts Options) (Encoder, error) {
	switch name {
	case "xml":
		return NewXMLEncoder(w, opts.Indent), nil
	case "json":
		return NewJSONEncoder(w), nil
	case "yaml":
		return NewYAMLEncoder(w), nil
	case "tree":
		return NewTreeEncoder(w, opts.Positions), nil
	default:
		return nil, fmt.Errorf("unknown format %q", name)
	}
}

func write(w io.Writer, m func(*parser.Node) ([]byte, error), node *parser.Node) error {
	text, err := m(node)
	if err != nil {
		return err
	}
	_, err = w.Write(text)
	return err
}
