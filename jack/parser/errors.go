package parser

import (
	"errors"
	"fmt"
)

// EndOfInputError is returned when the parser needs another token but the
// stream is exhausted.
type EndOfInputError struct {
	Expected string
	Pos      Position
}

func (e *EndOfInputError) Error() string {
	if e.Expected == "" {
		return fmt.Sprintf("%s: unexpected end of input", e.Pos)
	}
	return fmt.Sprintf("%s: unexpected end of input, expected %s", e.Pos, e.Expected)
}

// UnclassifiableTokenError reports text that matches none of the token
// shapes. The lexer's own output never triggers it.
type UnclassifiableTokenError struct {
	Text string
}

func (e *UnclassifiableTokenError) Error() string {
	return fmt.Sprintf("unclassifiable token %q", e.Text)
}

// IllegalCharacterError reports a source character outside any token,
// comment or whitespace run.
type IllegalCharacterError struct {
	Char rune
	Pos  Position
}

func (e *IllegalCharacterError) Error() string {
	return fmt.Sprintf("%s: illegal character %q", e.Pos, e.Char)
}

type SyntaxError struct {
	Construct string
	Expected  string
	Got       Token
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: expected %s in %s, got '%s'", e.Got.Pos, e.Expected, e.Construct, e.Got.Raw())
}

// ErrorPosition extracts the source location carried by a lexer or parser
// error, looking through wrapping.
func ErrorPosition(err error) (Position, bool) {
	var eoi *EndOfInputError
	if errors.As(err, &eoi) {
		return eoi.Pos, true
	}
	var syn *SyntaxError
	if errors.As(err, &syn) {
		return syn.Got.Pos, true
	}
	var ill *IllegalCharacterError
	if errors.As(err, &ill) {
		return ill.Pos, true
	}
	return Position{}, false
}
