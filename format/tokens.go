package format

import (
	"io"
	"strings"

	"github.com/dhamidi/jackal/jack/parser"
)

// TokenEncoder writes a flat <tokens> document with one element per token.
type TokenEncoder struct {
	w      io.Writer
	indent string
}

func NewTokenEncoder(w io.Writer, indent string) *TokenEncoder {
	if indent == "" {
		indent = "\t"
	}
	return &TokenEncoder{w: w, indent: indent}
}

func (e *TokenEncoder) Encode(tokens []parser.Token) error {
	text, err := e.MarshalText(tokens)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TokenEncoder) MarshalText(tokens []parser.Token) ([]byte, error) {
	var sb strings.Builder
	sb.WriteString("<tokens>\n")
	for _, tok := range tokens {
		writeElement(&sb, e.indent, tok.Kind.String(), tok.Text)
	}
	sb.WriteString("</tokens>\n")
	return []byte(sb.String()), nil
}
