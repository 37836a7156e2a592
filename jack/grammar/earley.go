package grammar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dhamidi/jackal/jack/parser"
	"golang.org/x/exp/ebnf"
)

// symbol is one element of a rule's right-hand side. Exactly one field is
// set: a nonterminal, a literal terminal, or a lexical production matched
// by token kind.
type symbol struct {
	name    string
	literal string
	lexical string
}

func (s symbol) terminal() bool {
	return s.name == ""
}

func (s symbol) String() string {
	switch {
	case s.literal != "":
		return "'" + s.literal + "'"
	case s.lexical != "":
		return s.lexical
	default:
		return s.name
	}
}

func (s symbol) matches(tok parser.Token) bool {
	if s.literal != "" {
		return (tok.Kind == parser.Keyword || tok.Kind == parser.Symbol) && tok.Raw() == s.literal
	}
	name, ok := LexicalProduction(tok.Kind)
	return ok && name == s.lexical
}

// item is an Earley item: rule alt of lhs with the dot before rhs[dot],
// started at chart position origin.
type item struct {
	lhs    string
	alt    int
	dot    int
	origin int
}

// itemSet is the set of items at one chart position, in insertion order.
type itemSet struct {
	items []item
	seen  map[item]bool
}

func (s *itemSet) add(it item) {
	if s.seen[it] {
		return
	}
	s.seen[it] = true
	s.items = append(s.items, it)
}

// Recognizer decides whether a token sequence is derivable from a
// production, independently of the hand-written parser. The EBNF is
// lowered to plain rules; groups, options and repetitions become
// generated nonterminals.
type Recognizer struct {
	start    string
	rules    map[string][][]symbol
	nullable map[string]bool
	fresh    int
}

func NewRecognizer(g ebnf.Grammar, start string) (*Recognizer, error) {
	if g[start] == nil {
		return nil, fmt.Errorf("production %q not found in grammar", start)
	}
	r := &Recognizer{
		start:    start,
		rules:    make(map[string][][]symbol),
		nullable: make(map[string]bool),
	}
	for name, prod := range g {
		if IsLexical(name) || prod.Expr == nil {
			continue
		}
		r.rules[name] = r.alternatives(prod.Expr)
	}
	r.computeNullable()
	return r, nil
}

// alternatives lowers expr into the right-hand sides it can expand to.
func (r *Recognizer) alternatives(expr ebnf.Expression) [][]symbol {
	switch e := expr.(type) {
	case nil:
		return [][]symbol{{}}
	case ebnf.Alternative:
		var out [][]symbol
		for _, alt := range e {
			out = append(out, r.alternatives(alt)...)
		}
		return out
	case ebnf.Sequence:
		rhs := make([]symbol, 0, len(e))
		for _, x := range e {
			rhs = append(rhs, r.symbolFor(x))
		}
		return [][]symbol{rhs}
	default:
		return [][]symbol{{r.symbolFor(e)}}
	}
}

func (r *Recognizer) symbolFor(expr ebnf.Expression) symbol {
	switch e := expr.(type) {
	case *ebnf.Token:
		return symbol{literal: e.String}
	case *ebnf.Name:
		if IsLexical(e.String) {
			return symbol{lexical: e.String}
		}
		return symbol{name: e.String}
	case *ebnf.Group:
		return r.generate(r.alternatives(e.Body))
	case *ebnf.Option:
		return r.generate(append(r.alternatives(e.Body), []symbol{}))
	case *ebnf.Repetition:
		// N = ε | body N
		n := r.newName()
		alts := [][]symbol{{}}
		for _, rhs := range r.alternatives(e.Body) {
			alts = append(alts, append(rhs, symbol{name: n}))
		}
		r.rules[n] = alts
		return symbol{name: n}
	default:
		return r.generate(r.alternatives(e))
	}
}

func (r *Recognizer) generate(alts [][]symbol) symbol {
	n := r.newName()
	r.rules[n] = alts
	return symbol{name: n}
}

// Generated names contain a dot so they never collide with productions.
func (r *Recognizer) newName() string {
	r.fresh++
	return fmt.Sprintf(".%d", r.fresh)
}

func (r *Recognizer) computeNullable() {
	for changed := true; changed; {
		changed = false
		for lhs, alts := range r.rules {
			if r.nullable[lhs] {
				continue
			}
			for _, rhs := range alts {
				if r.allNullable(rhs) {
					r.nullable[lhs] = true
					changed = true
					break
				}
			}
		}
	}
}

func (r *Recognizer) allNullable(rhs []symbol) bool {
	for _, s := range rhs {
		if s.terminal() || !r.nullable[s.name] {
			return false
		}
	}
	return true
}

// RejectError reports the first token the grammar cannot accept.
type RejectError struct {
	Pos      parser.Position
	Got      string
	Expected []string
}

func (e *RejectError) Error() string {
	got := "end of input"
	if e.Got != "" {
		got = "'" + e.Got + "'"
	}
	if len(e.Expected) == 0 {
		return fmt.Sprintf("%s: grammar rejects %s", e.Pos, got)
	}
	return fmt.Sprintf("%s: grammar rejects %s, expected %s", e.Pos, got, strings.Join(e.Expected, " or "))
}

// Recognize runs the chart over tokens and returns nil when they form
// one complete derivation of the start production.
func (r *Recognizer) Recognize(tokens []parser.Token) error {
	n := len(tokens)
	chart := make([]itemSet, n+1)
	for i := range chart {
		chart[i].seen = make(map[item]bool)
	}
	for alt := range r.rules[r.start] {
		chart[0].add(item{lhs: r.start, alt: alt})
	}

	furthest := 0
	for i := 0; i <= n; i++ {
		set := &chart[i]
		if len(set.items) > 0 {
			furthest = i
		}
		// Items may be added to set while it is processed.
		for j := 0; j < len(set.items); j++ {
			it := set.items[j]
			rhs := r.rules[it.lhs][it.alt]

			if it.dot == len(rhs) {
				r.complete(chart, i, it)
				continue
			}

			next := rhs[it.dot]
			if next.terminal() {
				if i < n && next.matches(tokens[i]) {
					chart[i+1].add(advance(it))
				}
				continue
			}

			for alt := range r.rules[next.name] {
				set.add(item{lhs: next.name, alt: alt, origin: i})
			}
			// A nullable nonterminal may complete without consuming input.
			if r.nullable[next.name] {
				set.add(advance(it))
			}
		}
	}

	for _, it := range chart[n].items {
		if it.lhs == r.start && it.origin == 0 && it.dot == len(r.rules[it.lhs][it.alt]) {
			return nil
		}
	}
	return r.reject(chart[furthest], tokens, furthest)
}

func (r *Recognizer) complete(chart []itemSet, i int, done item) {
	origin := &chart[done.origin]
	for j := 0; j < len(origin.items); j++ {
		it := origin.items[j]
		rhs := r.rules[it.lhs][it.alt]
		if it.dot < len(rhs) && rhs[it.dot].name == done.lhs {
			chart[i].add(advance(it))
		}
	}
}

func advance(it item) item {
	it.dot++
	return it
}

func (r *Recognizer) reject(set itemSet, tokens []parser.Token, at int) error {
	expected := make(map[string]bool)
	for _, it := range set.items {
		rhs := r.rules[it.lhs][it.alt]
		if it.dot < len(rhs) && rhs[it.dot].terminal() {
			expected[rhs[it.dot].String()] = true
		}
	}
	names := make([]string, 0, len(expected))
	for name := range expected {
		names = append(names, name)
	}
	sort.Strings(names)

	err := &RejectError{Expected: names}
	switch {
	case at < len(tokens):
		err.Pos = tokens[at].Pos
		err.Got = tokens[at].Raw()
	case len(tokens) > 0:
		err.Pos = tokens[len(tokens)-1].End()
	default:
		err.Pos = parser.Position{Line: 1, Column: 1}
	}
	return err
}
