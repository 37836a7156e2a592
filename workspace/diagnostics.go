package workspace

import (
	"errors"
	"strings"

	"github.com/dhamidi/jackal/jack/parser"
)

// Diagnostic is a syntax problem located in a document.
type Diagnostic struct {
	Span    parser.Span
	Message string
}

// Diagnostics returns the problems of the document, empty when it parsed.
func (d *Document) Diagnostics() []Diagnostic {
	if d == nil || d.Err == nil {
		return nil
	}
	return []Diagnostic{diagnosticFor(d.Err)}
}

func diagnosticFor(err error) Diagnostic {
	pos, ok := parser.ErrorPosition(err)
	if !ok {
		pos = parser.Position{Line: 1, Column: 1}
	}
	span := parser.Span{Start: pos, End: pos}
	span.End.Column++

	var syn *parser.SyntaxError
	if errors.As(err, &syn) {
		span.End = syn.Got.End()
	}

	// The message carries the position already shown by the editor.
	msg := strings.TrimPrefix(err.Error(), pos.String()+": ")
	return Diagnostic{Span: span, Message: msg}
}
