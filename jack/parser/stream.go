package parser

// TokenSource is what the parser pulls tokens from.
type TokenSource interface {
	HasNext() bool
	// Peek returns the token offset positions past the cursor without
	// consuming it. Offset 0 is the next unconsumed token.
	Peek(offset int) (Token, bool)
	Advance() (Token, error)
}

// TokenStream is a forward-only cursor over a fully materialized token
// slice. The slice is never modified.
type TokenStream struct {
	tokens []Token
	pos    int
	end    Position
}

func NewTokenStream(tokens []Token) *TokenStream {
	s := &TokenStream{tokens: tokens}
	if n := len(tokens); n > 0 {
		s.end = tokens[n-1].End()
	}
	return s
}

func (s *TokenStream) HasNext() bool {
	return s.pos < len(s.tokens)
}

func (s *TokenStream) Peek(offset int) (Token, bool) {
	i := s.pos + offset
	if offset < 0 || i >= len(s.tokens) {
		return Token{}, false
	}
	return s.tokens[i], true
}

func (s *TokenStream) Advance() (Token, error) {
	if s.pos >= len(s.tokens) {
		return Token{}, &EndOfInputError{Pos: s.end}
	}
	tok := s.tokens[s.pos]
	s.pos++
	return tok, nil
}

// Remaining reports how many tokens have not been consumed.
func (s *TokenStream) Remaining() int {
	return len(s.tokens) - s.pos
}
