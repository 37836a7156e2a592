package grammar

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dhamidi/jackal/jack/parser"
	"golang.org/x/exp/ebnf"
)

// memoKey is used for memoization of match results.
type memoKey struct {
	name   string
	offset int
}

// Matcher runs lexical productions against token text. It is not safe
// for concurrent use.
type Matcher struct {
	grammar  ebnf.Grammar
	terms    map[string]bool
	input    string
	memo     map[memoKey]int  // match length or noMatch
	visiting map[memoKey]bool // cycle detection
}

func NewMatcher(g ebnf.Grammar) *Matcher {
	return &Matcher{grammar: g, terms: Terminals(g)}
}

// Match reports whether the production named name derives exactly text.
func (m *Matcher) Match(name, text string) bool {
	if _, ok := m.grammar[name]; !ok {
		return false
	}
	m.input = text
	m.memo = make(map[memoKey]int)
	m.visiting = make(map[memoKey]bool)
	return m.matchName(name, 0) == len(text) && len(text) > 0
}

// MismatchError reports a token the grammar does not derive.
type MismatchError struct {
	Token      parser.Token
	Production string
}

func (e *MismatchError) Error() string {
	if e.Production == "" {
		return fmt.Sprintf("%s: %s '%s' is not a terminal of the grammar", e.Token.Pos, e.Token.Kind, e.Token.Raw())
	}
	return fmt.Sprintf("%s: %s '%s' does not match production %s", e.Token.Pos, e.Token.Kind, e.Token.Raw(), e.Production)
}

// CheckToken verifies one lexer token against the grammar. Keywords and
// symbols must be literal terminals, other kinds must match their lexical
// production.
func (m *Matcher) CheckToken(tok parser.Token) error {
	raw := tok.Raw()
	name, ok := LexicalProduction(tok.Kind)
	if !ok {
		if !m.terms[raw] {
			return &MismatchError{Token: tok}
		}
		return nil
	}
	if !m.Match(name, raw) {
		return &MismatchError{Token: tok, Production: name}
	}
	return nil
}

// CheckTokens verifies every token and returns the first mismatch.
func (m *Matcher) CheckTokens(tokens []parser.Token) error {
	for _, tok := range tokens {
		if err := m.CheckToken(tok); err != nil {
			return err
		}
	}
	return nil
}

// CheckTree verifies that every construct node in the tree has a
// production and every leaf passes CheckToken.
func (m *Matcher) CheckTree(root *parser.Node) error {
	if root.IsLeaf() {
		return m.CheckToken(*root.Token)
	}
	name := Production(root.Kind)
	if _, ok := m.grammar[name]; !ok || IsInline(name) {
		return fmt.Errorf("%s: node %s has no production", root.Span.Start, root.Label())
	}
	for _, child := range root.Children {
		if err := m.CheckTree(child); err != nil {
			return err
		}
	}
	return nil
}

// noMatch is returned by the match functions when expr cannot match at
// offset. A result of 0 is a successful empty match.
const noMatch = -1

// matchExpr returns the length of the longest match of expr at offset,
// or noMatch.
func (m *Matcher) matchExpr(expr ebnf.Expression, offset int) int {
	switch e := expr.(type) {
	case nil:
		return 0

	case *ebnf.Token:
		if strings.HasPrefix(m.input[offset:], e.String) {
			return len(e.String)
		}
		return noMatch

	case *ebnf.Range:
		return m.matchRange(e.Begin.String, e.End.String, offset)

	case ebnf.Sequence:
		total := 0
		for _, item := range e {
			n := m.matchExpr(item, offset+total)
			if n == noMatch {
				return noMatch
			}
			total += n
		}
		return total

	case ebnf.Alternative:
		best := noMatch
		for _, alt := range e {
			if n := m.matchExpr(alt, offset); n > best {
				best = n
			}
		}
		return best

	case *ebnf.Repetition:
		total := 0
		for {
			n := m.matchExpr(e.Body, offset+total)
			// An empty iteration would repeat forever.
			if n <= 0 {
				break
			}
			total += n
		}
		return total

	case *ebnf.Option:
		if n := m.matchExpr(e.Body, offset); n != noMatch {
			return n
		}
		return 0

	case *ebnf.Group:
		return m.matchExpr(e.Body, offset)

	case *ebnf.Name:
		return m.matchName(e.String, offset)

	default:
		return noMatch
	}
}

func (m *Matcher) matchName(name string, offset int) int {
	key := memoKey{name: name, offset: offset}
	if result, ok := m.memo[key]; ok {
		return result
	}
	// Left recursion.
	if m.visiting[key] {
		return noMatch
	}

	prod, ok := m.grammar[name]
	if !ok {
		m.memo[key] = noMatch
		return noMatch
	}

	m.visiting[key] = true
	result := m.matchExpr(prod.Expr, offset)
	delete(m.visiting, key)

	m.memo[key] = result
	return result
}

func (m *Matcher) matchRange(begin, end string, offset int) int {
	if offset >= len(m.input) {
		return noMatch
	}
	lo, _ := utf8.DecodeRuneInString(begin)
	hi, _ := utf8.DecodeRuneInString(end)
	r, size := utf8.DecodeRuneInString(m.input[offset:])
	if r >= lo && r <= hi {
		return size
	}
	return noMatch
}
