// Package parser provides the lexer and recursive-descent parser for Jack,
// a small class-based teaching language.
//
// # Architecture
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Source    │────▶│   Lexer     │────▶│   Parser    │
//	│  (bytes)    │     │  ([]Token)  │     │  (*Node)    │
//	└─────────────┘     └─────────────┘     └─────────────┘
//
// The lexer runs to completion before parsing starts. The parser pulls
// from a TokenSource and never performs I/O.
//
// # Tokens
//
// Every token is one of five kinds, checked in this order:
//
//	keyword     class constructor function method field static var int
//	            char boolean void true false null this let do if else
//	            while return
//	symbol      { } ( ) [ ] . , ; + - * / & | < > = ~
//	int_const   one or more decimal digits
//	str_const   "..." without embedded quotes or newlines
//	identifier  letter or underscore, then letters, digits, underscores
//
// The symbols <, > and & are stored escaped (&lt; &gt; &amp;) so the
// token text can be written into markup unchanged. Token.Raw recovers the
// source character.
//
// Comments (// to end of line, /* ... */ without nesting) are removed
// before scanning, so a comment opener inside a string literal still
// starts a comment: "http://x" leaves an unterminated string and fails
// with *IllegalCharacterError.
//
// # Grammar
//
//	class          → 'class' identifier '{' classVarDec* subroutineDec* '}'
//	classVarDec    → ('static'|'field') type identifier (',' identifier)* ';'
//	subroutineDec  → ('constructor'|'function'|'method') ('void'|type)
//	                 identifier '(' parameterList ')' subroutineBody
//	parameterList  → (type identifier (',' type identifier)*)?
//	subroutineBody → '{' varDec* statements '}'
//	varDec         → 'var' type identifier (',' identifier)* ';'
//	statements     → (let|if|while|do|return statement)*
//	expression     → term (op term)*
//	term           → intConst | strConst | keywordConst | identifier
//	                 | identifier '[' expression ']' | subroutineCall
//	                 | '(' expression ')' | ('-'|'~') term
//	expressionList → (expression (',' expression)*)?
//
// Binary operators have no precedence: a + b * c groups as (a + b) * c.
//
// # Tree Shape
//
// Each non-terminal above becomes one Node whose Kind names it. Tokens are
// leaf nodes with Kind KindToken. parameterList, expressionList, varDec and
// statements nodes that match no tokens are kept and marked Empty, so two
// classes with the same structure always produce the same tree shape.
//
// # Errors
//
// Parsing stops at the first problem. The returned error is one of
// *EndOfInputError, *SyntaxError, *IllegalCharacterError or
// *UnclassifiableTokenError; ErrorPosition extracts its location.
//
// # Example Usage
//
//	tree, err := parser.Parse(f, parser.WithFile("Main.jack"))
//	if err != nil {
//	    return err
//	}
//	fmt.Print(tree.String())
//
// A Parser is not safe for concurrent use. Independent parses need their
// own Parser and TokenStream.
package parser
