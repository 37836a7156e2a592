// Package grammar ships the Jack grammar as an EBNF document and checks
// parser output against it.
//
// Uppercase productions are syntactic and, unless listed as inline, map
// one-to-one onto a parser.NodeKind: the production name with its first
// letter lowered is the node label. Lowercase productions are lexical and
// describe identifier, integer and string constant tokens.
package grammar

import (
	"bytes"
	_ "embed"
	"fmt"
	"sort"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/dhamidi/jackal/jack/parser"
	"golang.org/x/exp/ebnf"
)

//go:embed jack.ebnf
var source []byte

const (
	// File is the name reported in grammar error positions.
	File = "jack.ebnf"
	// Start is the production every other production must be reachable from.
	Start = "Class"
)

// inline productions group alternatives without producing a node of their
// own; their tokens attach to the enclosing construct.
var inline = map[string]bool{
	"Type":            true,
	"Statement":       true,
	"BinaryOp":        true,
	"SubroutineCall":  true,
	"KeywordConstant": true,
	"UnaryOp":         true,
}

// lexical maps token kinds onto the production describing their text.
// Keywords and symbols are literal terminals and have no entry.
var lexical = map[parser.Kind]string{
	parser.Identifier:      "identifier",
	parser.IntegerConstant: "integerConstant",
	parser.StringConstant:  "stringConstant",
}

// Source returns the embedded grammar text.
func Source() string {
	return string(source)
}

// Load parses the embedded grammar and verifies it from Start.
func Load() (ebnf.Grammar, error) {
	g, err := ebnf.Parse(File, bytes.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	if err := ebnf.Verify(g, Start); err != nil {
		return nil, fmt.Errorf("verify grammar: %w", err)
	}
	return g, nil
}

var defaultGrammar = sync.OnceValues(Load)

// Default returns the embedded grammar, loading it on first use.
func Default() (ebnf.Grammar, error) {
	return defaultGrammar()
}

// IsLexical reports whether name is a lexical production.
func IsLexical(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return !unicode.IsUpper(r)
}

// IsInline reports whether the production produces no node of its own.
func IsInline(name string) bool {
	return inline[name]
}

// Production returns the production that builds nodes of the given kind.
func Production(kind parser.NodeKind) string {
	label := kind.String()
	r, size := utf8.DecodeRuneInString(label)
	return string(unicode.ToUpper(r)) + label[size:]
}

// NodeKind returns the node kind built by a production, or false for
// inline and lexical productions.
func NodeKind(name string) (parser.NodeKind, bool) {
	for _, kind := range parser.NodeKinds() {
		if Production(kind) == name {
			return kind, true
		}
	}
	return 0, false
}

// LexicalProduction returns the lexical production for a token kind.
func LexicalProduction(kind parser.Kind) (string, bool) {
	name, ok := lexical[kind]
	return name, ok
}

// Names returns the production names of g in sorted order.
func Names(g ebnf.Grammar) []string {
	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Terminals collects the literal tokens used by the syntactic productions.
func Terminals(g ebnf.Grammar) map[string]bool {
	terms := make(map[string]bool)
	var walk func(ebnf.Expression)
	walk = func(expr ebnf.Expression) {
		switch e := expr.(type) {
		case *ebnf.Token:
			terms[e.String] = true
		case ebnf.Sequence:
			for _, item := range e {
				walk(item)
			}
		case ebnf.Alternative:
			for _, alt := range e {
				walk(alt)
			}
		case *ebnf.Repetition:
			walk(e.Body)
		case *ebnf.Option:
			walk(e.Body)
		case *ebnf.Group:
			walk(e.Body)
		}
	}
	for name, prod := range g {
		if !IsLexical(name) {
			walk(prod.Expr)
		}
	}
	return terms
}
