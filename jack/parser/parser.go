package parser

import (
	"fmt"
	"io"
)

type Option func(*Parser)

// WithFile sets the file name reported in token positions and errors.
func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

// Parser is a recursive-descent parser with one token of lookahead (two
// when a term starts with an identifier). Each grammar production has one
// handler; a handler consumes exactly the tokens of its construct and
// appends the resulting node to the parent it is given.
type Parser struct {
	file string
	src  TokenSource
	last Token
	seen bool
}

func New(src TokenSource, opts ...Option) *Parser {
	p := &Parser{src: src}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse reads a whole compilation unit from r, tokenizes it and parses
// it as a class.
func Parse(r io.Reader, opts ...Option) (*Node, error) {
	p := New(nil, opts...)
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	tokens, err := NewLexer(data, p.file).Tokenize()
	if err != nil {
		return nil, err
	}
	p.src = NewTokenStream(tokens)
	return p.ParseClass()
}

// ParseClass parses the entire token stream as one class. The stream must
// be exhausted by the class's closing brace.
func (p *Parser) ParseClass() (*Node, error) {
	root := p.startNode(KindClass)
	if err := p.parseClass(root); err != nil {
		return nil, err
	}
	if tok, ok := p.peek(); ok {
		return nil, p.syntaxError("class", "end of input", tok)
	}
	return root, nil
}

// ParseStatement parses a single statement of any kind.
func (p *Parser) ParseStatement() (*Node, error) {
	return p.parseInto(func(parent *Node) error {
		tok, ok := p.peek()
		if !ok {
			return p.endOfInput("statement")
		}
		if !startsStatement(tok) {
			return p.syntaxError("statement", "statement", tok)
		}
		return p.parseStatement(parent, tok)
	})
}

func (p *Parser) ParseStatements() (*Node, error) {
	return p.parseInto(p.parseStatements)
}

func (p *Parser) ParseExpression() (*Node, error) {
	return p.parseInto(p.parseExpression)
}

func (p *Parser) ParseTerm() (*Node, error) {
	return p.parseInto(p.parseTerm)
}

func (p *Parser) ParseSubroutine() (*Node, error) {
	return p.parseInto(p.parseSubroutineDec)
}

func (p *Parser) parseInto(handler func(*Node) error) (*Node, error) {
	scratch := &Node{}
	if err := handler(scratch); err != nil {
		return nil, err
	}
	return scratch.Children[0], nil
}

// Token helpers

func (p *Parser) peek() (Token, bool) {
	return p.src.Peek(0)
}

func (p *Parser) peekKeyword() KeywordKind {
	tok, _ := p.peek()
	return tok.Keyword()
}

func (p *Parser) peekSymbol() byte {
	tok, _ := p.peek()
	return tok.Symbol()
}

func (p *Parser) endPosition() Position {
	if !p.seen {
		return Position{File: p.file, Line: 1, Column: 1}
	}
	return p.last.End()
}

func (p *Parser) endOfInput(expected string) error {
	return &EndOfInputError{Expected: expected, Pos: p.endPosition()}
}

func (p *Parser) syntaxError(construct, expected string, got Token) error {
	return &SyntaxError{Construct: construct, Expected: expected, Got: got}
}

// advance moves the next token into node as a leaf.
func (p *Parser) advance(node *Node, expected string) error {
	if !p.src.HasNext() {
		return p.endOfInput(expected)
	}
	tok, err := p.src.Advance()
	if err != nil {
		return err
	}
	p.last = tok
	p.seen = true
	node.AddChild(NewLeaf(tok))
	return nil
}

func (p *Parser) expectSymbol(node *Node, construct string, ch byte) error {
	expected := "'" + string(ch) + "'"
	tok, ok := p.peek()
	if !ok {
		return p.endOfInput(expected)
	}
	if !tok.IsSymbol(ch) {
		return p.syntaxError(construct, expected, tok)
	}
	return p.advance(node, expected)
}

func (p *Parser) expectKeyword(node *Node, construct string, kws ...KeywordKind) error {
	expected := keywordList(kws)
	tok, ok := p.peek()
	if !ok {
		return p.endOfInput(expected)
	}
	for _, kw := range kws {
		if tok.Keyword() == kw {
			return p.advance(node, expected)
		}
	}
	return p.syntaxError(construct, expected, tok)
}

func (p *Parser) expectIdentifier(node *Node, construct string) error {
	tok, ok := p.peek()
	if !ok {
		return p.endOfInput("identifier")
	}
	if tok.Kind != Identifier {
		return p.syntaxError(construct, "identifier", tok)
	}
	return p.advance(node, "identifier")
}

// expectType consumes int, char, boolean or a class name, and void when
// allowVoid is set.
func (p *Parser) expectType(node *Node, construct string, allowVoid bool) error {
	expected := "type"
	if allowVoid {
		expected = "'void' or type"
	}
	tok, ok := p.peek()
	if !ok {
		return p.endOfInput(expected)
	}
	switch tok.Kind {
	case Identifier:
		return p.advance(node, expected)
	case Keyword:
		switch tok.Keyword() {
		case KwInt, KwChar, KwBoolean:
			return p.advance(node, expected)
		case KwVoid:
			if allowVoid {
				return p.advance(node, expected)
			}
		}
	}
	return p.syntaxError(construct, expected, tok)
}

func keywordList(kws []KeywordKind) string {
	out := ""
	for i, kw := range kws {
		switch {
		case i == 0:
		case i == len(kws)-1:
			out += " or "
		default:
			out += ", "
		}
		out += "'" + kw.String() + "'"
	}
	return out
}

// Node helpers

func (p *Parser) startNode(kind NodeKind) *Node {
	node := &Node{Kind: kind}
	if tok, ok := p.peek(); ok {
		node.Span.Start = tok.Pos
	}
	return node
}

// attach appends a finished node to its parent. A node that matched no
// tokens is marked empty.
func (p *Parser) attach(parent, node *Node) {
	if len(node.Children) == 0 {
		node.Empty = true
		end := p.endPosition()
		node.Span = Span{Start: end, End: end}
	}
	parent.AddChild(node)
}

// Program structure

// class: 'class' className '{' classVarDec* subroutineDec* '}'
func (p *Parser) parseClass(node *Node) error {
	if err := p.expectKeyword(node, "class", KwClass); err != nil {
		return err
	}
	if err := p.expectIdentifier(node, "class"); err != nil {
		return err
	}
	if err := p.expectSymbol(node, "class", '{'); err != nil {
		return err
	}
	for {
		kw := p.peekKeyword()
		if kw != KwStatic && kw != KwField {
			break
		}
		if err := p.parseClassVarDec(node); err != nil {
			return err
		}
	}
	for {
		kw := p.peekKeyword()
		if kw != KwConstructor && kw != KwFunction && kw != KwMethod {
			break
		}
		if err := p.parseSubroutineDec(node); err != nil {
			return err
		}
	}
	return p.expectSymbol(node, "class", '}')
}

// classVarDec: ('static'|'field') type varName (',' varName)* ';'
func (p *Parser) parseClassVarDec(parent *Node) error {
	const construct = "classVarDec"
	node := p.startNode(KindClassVarDec)
	if err := p.expectKeyword(node, construct, KwStatic, KwField); err != nil {
		return err
	}
	if err := p.parseNameList(node, construct); err != nil {
		return err
	}
	p.attach(parent, node)
	return nil
}

// parseNameList handles the shared tail of variable declarations:
// type varName (',' varName)* ';'
func (p *Parser) parseNameList(node *Node, construct string) error {
	if err := p.expectType(node, construct, false); err != nil {
		return err
	}
	if err := p.expectIdentifier(node, construct); err != nil {
		return err
	}
	for p.peekSymbol() == ',' {
		if err := p.advance(node, "','"); err != nil {
			return err
		}
		if err := p.expectIdentifier(node, construct); err != nil {
			return err
		}
	}
	return p.expectSymbol(node, construct, ';')
}

// subroutineDec: ('constructor'|'function'|'method') ('void'|type)
// subroutineName '(' parameterList ')' subroutineBody
func (p *Parser) parseSubroutineDec(parent *Node) error {
	const construct = "subroutineDec"
	node := p.startNode(KindSubroutineDec)
	if err := p.expectKeyword(node, construct, KwConstructor, KwFunction, KwMethod); err != nil {
		return err
	}
	if err := p.expectType(node, construct, true); err != nil {
		return err
	}
	if err := p.expectIdentifier(node, construct); err != nil {
		return err
	}
	if err := p.expectSymbol(node, construct, '('); err != nil {
		return err
	}
	if err := p.parseParameterList(node); err != nil {
		return err
	}
	if err := p.expectSymbol(node, construct, ')'); err != nil {
		return err
	}
	if err := p.parseSubroutineBody(node); err != nil {
		return err
	}
	p.attach(parent, node)
	return nil
}

// parameterList: (type varName (',' type varName)*)?
func (p *Parser) parseParameterList(parent *Node) error {
	const construct = "parameterList"
	node := p.startNode(KindParameterList)
	if p.peekSymbol() != ')' {
		if err := p.expectType(node, construct, false); err != nil {
			return err
		}
		if err := p.expectIdentifier(node, construct); err != nil {
			return err
		}
		for p.peekSymbol() == ',' {
			if err := p.advance(node, "','"); err != nil {
				return err
			}
			if err := p.expectType(node, construct, false); err != nil {
				return err
			}
			if err := p.expectIdentifier(node, construct); err != nil {
				return err
			}
		}
	}
	p.attach(parent, node)
	return nil
}

// subroutineBody: '{' varDec* statements '}'
func (p *Parser) parseSubroutineBody(parent *Node) error {
	const construct = "subroutineBody"
	node := p.startNode(KindSubroutineBody)
	if err := p.expectSymbol(node, construct, '{'); err != nil {
		return err
	}
	if p.peekKeyword() != KwVar {
		p.attach(node, p.startNode(KindVarDec))
	}
	for p.peekKeyword() == KwVar {
		if err := p.parseVarDec(node); err != nil {
			return err
		}
	}
	if err := p.parseStatements(node); err != nil {
		return err
	}
	if err := p.expectSymbol(node, construct, '}'); err != nil {
		return err
	}
	p.attach(parent, node)
	return nil
}

// varDec: 'var' type varName (',' varName)* ';'
func (p *Parser) parseVarDec(parent *Node) error {
	const construct = "varDec"
	node := p.startNode(KindVarDec)
	if err := p.expectKeyword(node, construct, KwVar); err != nil {
		return err
	}
	if err := p.parseNameList(node, construct); err != nil {
		return err
	}
	p.attach(parent, node)
	return nil
}

// Statements

func startsStatement(tok Token) bool {
	switch tok.Keyword() {
	case KwLet, KwIf, KwWhile, KwDo, KwReturn:
		return true
	}
	return false
}

// statements: statement*
//
// The loop ends at the first token that cannot start a statement; the
// caller decides whether that token is acceptable.
func (p *Parser) parseStatements(parent *Node) error {
	node := p.startNode(KindStatements)
	for {
		tok, ok := p.peek()
		if !ok || !startsStatement(tok) {
			break
		}
		if err := p.parseStatement(node, tok); err != nil {
			return err
		}
	}
	p.attach(parent, node)
	return nil
}

func (p *Parser) parseStatement(parent *Node, tok Token) error {
	switch tok.Keyword() {
	case KwLet:
		return p.parseLet(parent)
	case KwIf:
		return p.parseIf(parent)
	case KwWhile:
		return p.parseWhile(parent)
	case KwDo:
		return p.parseDo(parent)
	case KwReturn:
		return p.parseReturn(parent)
	}
	return p.syntaxError("statements", "statement", tok)
}

// letStatement: 'let' varName ('[' expression ']')? '=' expression ';'
func (p *Parser) parseLet(parent *Node) error {
	const construct = "letStatement"
	node := p.startNode(KindLetStatement)
	if err := p.expectKeyword(node, construct, KwLet); err != nil {
		return err
	}
	if err := p.expectIdentifier(node, construct); err != nil {
		return err
	}
	if p.peekSymbol() == '[' {
		if err := p.parseIndex(node, construct); err != nil {
			return err
		}
	}
	if err := p.expectSymbol(node, construct, '='); err != nil {
		return err
	}
	if err := p.parseExpression(node); err != nil {
		return err
	}
	if err := p.expectSymbol(node, construct, ';'); err != nil {
		return err
	}
	p.attach(parent, node)
	return nil
}

// ifStatement: 'if' '(' expression ')' '{' statements '}'
// ('else' '{' statements '}')?
func (p *Parser) parseIf(parent *Node) error {
	const construct = "ifStatement"
	node := p.startNode(KindIfStatement)
	if err := p.expectKeyword(node, construct, KwIf); err != nil {
		return err
	}
	if err := p.parseCondition(node, construct); err != nil {
		return err
	}
	if err := p.parseBlock(node, construct); err != nil {
		return err
	}
	if p.peekKeyword() == KwElse {
		if err := p.advance(node, "'else'"); err != nil {
			return err
		}
		if err := p.parseBlock(node, construct); err != nil {
			return err
		}
	}
	p.attach(parent, node)
	return nil
}

// whileStatement: 'while' '(' expression ')' '{' statements '}'
func (p *Parser) parseWhile(parent *Node) error {
	const construct = "whileStatement"
	node := p.startNode(KindWhileStatement)
	if err := p.expectKeyword(node, construct, KwWhile); err != nil {
		return err
	}
	if err := p.parseCondition(node, construct); err != nil {
		return err
	}
	if err := p.parseBlock(node, construct); err != nil {
		return err
	}
	p.attach(parent, node)
	return nil
}

// parseCondition handles '(' expression ')'.
func (p *Parser) parseCondition(node *Node, construct string) error {
	if err := p.expectSymbol(node, construct, '('); err != nil {
		return err
	}
	if err := p.parseExpression(node); err != nil {
		return err
	}
	return p.expectSymbol(node, construct, ')')
}

// parseBlock handles '{' statements '}'.
func (p *Parser) parseBlock(node *Node, construct string) error {
	if err := p.expectSymbol(node, construct, '{'); err != nil {
		return err
	}
	if err := p.parseStatements(node); err != nil {
		return err
	}
	return p.expectSymbol(node, construct, '}')
}

// doStatement: 'do' subroutineCall ';'
//
// The ';' is mandatory. A bare "do f()" with nothing after it fails with
// EndOfInputError rather than yielding a statement; leaving the ';'
// unconsumed would break the enclosing statements block.
func (p *Parser) parseDo(parent *Node) error {
	const construct = "doStatement"
	node := p.startNode(KindDoStatement)
	if err := p.expectKeyword(node, construct, KwDo); err != nil {
		return err
	}
	if err := p.parseSubroutineCall(node, construct); err != nil {
		return err
	}
	if err := p.expectSymbol(node, construct, ';'); err != nil {
		return err
	}
	p.attach(parent, node)
	return nil
}

// returnStatement: 'return' expression? ';'
func (p *Parser) parseReturn(parent *Node) error {
	const construct = "returnStatement"
	node := p.startNode(KindReturnStatement)
	if err := p.expectKeyword(node, construct, KwReturn); err != nil {
		return err
	}
	if tok, ok := p.peek(); ok && !tok.IsSymbol(';') {
		if err := p.parseExpression(node); err != nil {
			return err
		}
	}
	if err := p.expectSymbol(node, construct, ';'); err != nil {
		return err
	}
	p.attach(parent, node)
	return nil
}

// Expressions

func isBinaryOp(ch byte) bool {
	switch ch {
	case '+', '-', '*', '/', '&', '|', '<', '>', '=':
		return true
	}
	return false
}

// expression: term (op term)*
//
// Operators chain strictly left to right with no precedence; grouping is
// only available through parentheses inside a term.
func (p *Parser) parseExpression(parent *Node) error {
	node := p.startNode(KindExpression)
	if err := p.parseTerm(node); err != nil {
		return err
	}
	for isBinaryOp(p.peekSymbol()) {
		if err := p.advance(node, "operator"); err != nil {
			return err
		}
		if err := p.parseTerm(node); err != nil {
			return err
		}
	}
	p.attach(parent, node)
	return nil
}

// term: integerConstant | stringConstant | keywordConstant | varName |
// varName '[' expression ']' | subroutineCall | '(' expression ')' |
// unaryOp term
func (p *Parser) parseTerm(parent *Node) error {
	const construct = "term"
	node := p.startNode(KindTerm)
	tok, ok := p.peek()
	if !ok {
		return p.endOfInput(construct)
	}

	switch tok.Kind {
	case IntegerConstant, StringConstant:
		if err := p.advance(node, construct); err != nil {
			return err
		}
	case Keyword:
		switch tok.Keyword() {
		case KwTrue, KwFalse, KwNull, KwThis:
			if err := p.advance(node, construct); err != nil {
				return err
			}
		default:
			return p.syntaxError(construct, construct, tok)
		}
	case Symbol:
		switch tok.Symbol() {
		case '(':
			if err := p.parseCondition(node, construct); err != nil {
				return err
			}
		case '-', '~':
			if err := p.advance(node, "unary operator"); err != nil {
				return err
			}
			if err := p.parseTerm(node); err != nil {
				return err
			}
		default:
			return p.syntaxError(construct, construct, tok)
		}
	case Identifier:
		// The identifier is only consumed once the following token has
		// decided which alternative applies.
		next, _ := p.src.Peek(1)
		switch next.Symbol() {
		case '(', '.':
			if err := p.parseSubroutineCall(node, construct); err != nil {
				return err
			}
		case '[':
			if err := p.advance(node, "identifier"); err != nil {
				return err
			}
			if err := p.parseIndex(node, construct); err != nil {
				return err
			}
		default:
			if err := p.advance(node, "identifier"); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("term: unhandled token kind %v", tok.Kind)
	}

	p.attach(parent, node)
	return nil
}

// parseIndex handles '[' expression ']'.
func (p *Parser) parseIndex(node *Node, construct string) error {
	if err := p.expectSymbol(node, construct, '['); err != nil {
		return err
	}
	if err := p.parseExpression(node); err != nil {
		return err
	}
	return p.expectSymbol(node, construct, ']')
}

// subroutineCall: subroutineName '(' expressionList ')' |
// (className|varName) '.' subroutineName '(' expressionList ')'
//
// The call contributes its tokens to the enclosing node; it has no node
// of its own.
func (p *Parser) parseSubroutineCall(node *Node, construct string) error {
	if err := p.expectIdentifier(node, construct); err != nil {
		return err
	}
	if p.peekSymbol() == '.' {
		if err := p.advance(node, "'.'"); err != nil {
			return err
		}
		if err := p.expectIdentifier(node, construct); err != nil {
			return err
		}
	}
	if err := p.expectSymbol(node, construct, '('); err != nil {
		return err
	}
	if err := p.parseExpressionList(node); err != nil {
		return err
	}
	return p.expectSymbol(node, construct, ')')
}

// expressionList: (expression (',' expression)*)?
func (p *Parser) parseExpressionList(parent *Node) error {
	node := p.startNode(KindExpressionList)
	if p.peekSymbol() != ')' {
		if err := p.parseExpression(node); err != nil {
			return err
		}
		for p.peekSymbol() == ',' {
			if err := p.advance(node, "','"); err != nil {
				return err
			}
			if err := p.parseExpression(node); err != nil {
				return err
			}
		}
	}
	p.attach(parent, node)
	return nil
}
