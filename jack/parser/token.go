package parser

import "fmt"

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Span struct {
	Start Position
	End   Position
}

// Kind classifies a token. The set is closed: every lexable input is
// exactly one of these.
type Kind int

const (
	Keyword Kind = iota
	Symbol
	IntegerConstant
	StringConstant
	Identifier
)

var kindNames = map[Kind]string{
	Keyword:         "keyword",
	Symbol:          "symbol",
	IntegerConstant: "int_const",
	StringConstant:  "str_const",
	Identifier:      "identifier",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// KeywordKind enumerates the reserved words.
type KeywordKind int

const (
	KwNone KeywordKind = iota
	KwClass
	KwConstructor
	KwFunction
	KwMethod
	KwField
	KwStatic
	KwVar
	KwInt
	KwChar
	KwBoolean
	KwVoid
	KwTrue
	KwFalse
	KwNull
	KwThis
	KwLet
	KwDo
	KwIf
	KwElse
	KwWhile
	KwReturn
)

var keywords = map[string]KeywordKind{
	"class":       KwClass,
	"constructor": KwConstructor,
	"function":    KwFunction,
	"method":      KwMethod,
	"field":       KwField,
	"static":      KwStatic,
	"var":         KwVar,
	"int":         KwInt,
	"char":        KwChar,
	"boolean":     KwBoolean,
	"void":        KwVoid,
	"true":        KwTrue,
	"false":       KwFalse,
	"null":        KwNull,
	"this":        KwThis,
	"let":         KwLet,
	"do":          KwDo,
	"if":          KwIf,
	"else":        KwElse,
	"while":       KwWhile,
	"return":      KwReturn,
}

// keywordOrder is the order keywords appear in the scan pattern.
var keywordOrder = []string{
	"class", "constructor", "function", "method", "field", "static", "var",
	"int", "char", "boolean", "void", "true", "false", "null", "this",
	"let", "do", "if", "else", "while", "return",
}

func (k KeywordKind) String() string {
	if k == KwNone {
		return "none"
	}
	return keywordOrder[k-1]
}

// Keywords returns the reserved words in declaration order.
func Keywords() []string {
	out := make([]string, len(keywordOrder))
	copy(out, keywordOrder)
	return out
}

// Symbols returns the single-character symbol set.
func Symbols() []byte {
	return []byte(symbolChars)
}

const symbolChars = "{}()[].,;+-*/&|<>=~"

var escapes = map[string]string{
	"<": "&lt;",
	">": "&gt;",
	`"`: "&quot;",
	"&": "&amp;",
}

var unescapes = map[string]string{
	"&lt;":   "<",
	"&gt;":   ">",
	"&quot;": `"`,
	"&amp;":  "&",
}

// Escape returns the markup-safe form of a symbol's text.
func Escape(text string) string {
	if esc, ok := escapes[text]; ok {
		return esc
	}
	return text
}

type Token struct {
	Kind Kind
	Text string
	Pos  Position
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q", t.Kind, t.Text)
}

// Raw returns the text as it appeared in the source, undoing the
// escaping applied to symbols.
func (t Token) Raw() string {
	if t.Kind == Symbol {
		if raw, ok := unescapes[t.Text]; ok {
			return raw
		}
	}
	return t.Text
}

// Keyword returns the reserved word the token spells, or KwNone.
func (t Token) Keyword() KeywordKind {
	if t.Kind != Keyword {
		return KwNone
	}
	return keywords[t.Text]
}

// Symbol returns the unescaped symbol character, or 0 for non-symbols.
func (t Token) Symbol() byte {
	if t.Kind != Symbol {
		return 0
	}
	raw := t.Raw()
	if len(raw) != 1 {
		return 0
	}
	return raw[0]
}

// IsSymbol reports whether t is the symbol ch.
func (t Token) IsSymbol(ch byte) bool {
	return t.Symbol() == ch
}

// End returns the position just past the token's source text.
func (t Token) End() Position {
	n := len(t.Raw())
	return Position{
		File:   t.Pos.File,
		Offset: t.Pos.Offset + n,
		Line:   t.Pos.Line,
		Column: t.Pos.Column + n,
	}
}
