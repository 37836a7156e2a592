package parser

import (
	"bytes"
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"
)

const (
	symbolClass  = `[{}()\[\].,;+\-*/&|<>=~]`
	intPattern   = `\d+`
	strPattern   = `"[^"\n]*"`
	identPattern = `[A-Za-z_]\w*`
)

var keywordPattern = `(?:` + strings.Join(keywordOrder, "|") + `)\b`

// scanPattern tries each token shape in precedence order at every position.
// The group order matches Kind so the matched group index is the kind.
var scanPattern = sync.OnceValue(func() *regexp.Regexp {
	return regexp.MustCompile(
		`(` + keywordPattern + `)` +
			`|(` + symbolClass + `)` +
			`|(` + intPattern + `)` +
			`|(` + strPattern + `)` +
			`|(` + identPattern + `)`)
})

var commentPattern = sync.OnceValue(func() *regexp.Regexp {
	return regexp.MustCompile(`//[^\n]*|/\*[\s\S]*?\*/`)
})

type classifier struct {
	kind    Kind
	pattern *regexp.Regexp
}

var classifiers = sync.OnceValue(func() []classifier {
	anchored := func(p string) *regexp.Regexp {
		return regexp.MustCompile(`^(?:` + p + `)$`)
	}
	return []classifier{
		{Keyword, anchored(keywordPattern)},
		{Symbol, anchored(symbolClass)},
		{IntegerConstant, anchored(intPattern)},
		{StringConstant, anchored(strPattern)},
		{Identifier, anchored(identPattern)},
	}
})

// Classify returns the kind of a single token's text, checking keyword,
// symbol, integer, string and identifier shapes in that order. Escaped
// symbol text is accepted.
func Classify(text string) (Kind, error) {
	if raw, ok := unescapes[text]; ok {
		text = raw
	}
	for _, c := range classifiers() {
		if c.pattern.MatchString(text) {
			return c.kind, nil
		}
	}
	return 0, &UnclassifiableTokenError{Text: text}
}

type Lexer struct {
	input      []byte
	file       string
	lineStarts []int
}

func NewLexer(input []byte, file string) *Lexer {
	l := &Lexer{
		input:      input,
		file:       file,
		lineStarts: []int{0},
	}
	for i, ch := range input {
		if ch == '\n' {
			l.lineStarts = append(l.lineStarts, i+1)
		}
	}
	return l
}

// Tokenize lexes source text that has no associated file name.
func Tokenize(src string) ([]Token, error) {
	return NewLexer([]byte(src), "").Tokenize()
}

func (l *Lexer) positionAt(offset int) Position {
	line := sort.Search(len(l.lineStarts), func(i int) bool {
		return l.lineStarts[i] > offset
	})
	return Position{
		File:   l.file,
		Offset: offset,
		Line:   line,
		Column: offset - l.lineStarts[line-1] + 1,
	}
}

// stripComments blanks every comment, keeping its newlines, so byte offsets
// in the result still point into the original input.
func stripComments(input []byte) []byte {
	return commentPattern().ReplaceAllFunc(input, func(comment []byte) []byte {
		blank := bytes.Repeat([]byte{' '}, len(comment))
		for i, ch := range comment {
			if ch == '\n' {
				blank[i] = '\n'
			}
		}
		return blank
	})
}

func isSpace(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

// Tokenize returns every token of the input in source order.
func (l *Lexer) Tokenize() ([]Token, error) {
	src := stripComments(l.input)
	matches := scanPattern().FindAllSubmatchIndex(src, -1)

	tokens := make([]Token, 0, len(matches))
	pos := 0
	for _, m := range matches {
		if err := l.checkGap(src, pos, m[0]); err != nil {
			return nil, err
		}
		kind, ok := matchedKind(m)
		if !ok {
			return nil, &UnclassifiableTokenError{Text: string(src[m[0]:m[1]])}
		}
		text := string(src[m[0]:m[1]])
		if kind == Symbol {
			text = Escape(text)
		}
		tokens = append(tokens, Token{
			Kind: kind,
			Text: text,
			Pos:  l.positionAt(m[0]),
		})
		pos = m[1]
	}
	if err := l.checkGap(src, pos, len(src)); err != nil {
		return nil, err
	}
	return tokens, nil
}

func matchedKind(m []int) (Kind, bool) {
	for k := Keyword; k <= Identifier; k++ {
		if m[2*int(k)+2] >= 0 {
			return k, true
		}
	}
	return 0, false
}

func (l *Lexer) checkGap(src []byte, from, to int) error {
	for i := from; i < to; i++ {
		if !isSpace(src[i]) {
			ch, _ := utf8.DecodeRune(src[i:])
			return &IllegalCharacterError{Char: ch, Pos: l.positionAt(i)}
		}
	}
	return nil
}
