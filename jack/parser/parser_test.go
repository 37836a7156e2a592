package parser

import (
	"errors"
	"strings"
	"testing"
)

// tokensOf builds a stream from bare token texts, classifying each one the
// way the lexer would.
func tokensOf(t *testing.T, texts ...string) *TokenStream {
	t.Helper()
	tokens := make([]Token, len(texts))
	for i, text := range texts {
		kind, err := Classify(text)
		if err != nil {
			t.Fatalf("Classify(%q): %v", text, err)
		}
		if kind == Symbol {
			text = Escape(text)
		}
		tokens[i] = Token{Kind: kind, Text: text, Pos: Position{Line: 1, Column: i + 1}}
	}
	return NewTokenStream(tokens)
}

func parseSource(t *testing.T, src string) *Node {
	t.Helper()
	node, err := Parse(strings.NewReader(src), WithFile("Test.jack"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return node
}

// childLabels lists each child's label, with leaf text appended.
func childLabels(n *Node) []string {
	out := make([]string, len(n.Children))
	for i, child := range n.Children {
		if child.Token != nil {
			out[i] = child.Label() + " " + child.Token.Text
		} else {
			out[i] = child.Label()
		}
	}
	return out
}

func assertChildren(t *testing.T, n *Node, want ...string) {
	t.Helper()
	got := childLabels(n)
	if strings.Join(got, " | ") != strings.Join(want, " | ") {
		t.Errorf("%s children:\n got  %q\n want %q", n.Label(), got, want)
	}
}

// shape renders the node labels and nesting without token text.
func shape(n *Node) string {
	var b strings.Builder
	var walk func(*Node)
	walk = func(n *Node) {
		b.WriteString(n.Label())
		if n.Empty {
			b.WriteString("!")
		}
		if len(n.Children) == 0 {
			return
		}
		b.WriteString("(")
		for i, child := range n.Children {
			if i > 0 {
				b.WriteString(" ")
			}
			walk(child)
		}
		b.WriteString(")")
	}
	walk(n)
	return b.String()
}

func TestParseReturnStatement(t *testing.T) {
	p := New(tokensOf(t, "return", "x", ";"))
	node, err := p.ParseStatement()
	if err != nil {
		t.Fatalf("ParseStatement: %v", err)
	}
	if node.Kind != KindReturnStatement {
		t.Fatalf("Kind = %v, want returnStatement", node.Kind)
	}
	assertChildren(t, node, "keyword return", "expression", "symbol ;")

	leaves := node.Leaves()
	if len(leaves) != 3 {
		t.Fatalf("got %d leaves, want 3", len(leaves))
	}
	want := []struct {
		kind Kind
		text string
	}{{Keyword, "return"}, {Identifier, "x"}, {Symbol, ";"}}
	for i, leaf := range leaves {
		if leaf.Kind != want[i].kind || leaf.Text != want[i].text {
			t.Errorf("leaf %d = %v, want %v %q", i, leaf, want[i].kind, want[i].text)
		}
	}
}

func TestParseReturnWithoutValue(t *testing.T) {
	node, err := New(tokensOf(t, "return", ";")).ParseStatement()
	if err != nil {
		t.Fatalf("ParseStatement: %v", err)
	}
	assertChildren(t, node, "keyword return", "symbol ;")
}

func TestParseDoStatement(t *testing.T) {
	tests := []struct {
		name     string
		tokens   []string
		children []string
		args     []string
		empty    bool
	}{
		{
			"no arguments",
			[]string{"do", "someFunc", "(", ")", ";"},
			[]string{"keyword do", "identifier someFunc", "symbol (", "expressionList", "symbol )", "symbol ;"},
			nil,
			true,
		},
		{
			"one argument",
			[]string{"do", "someFunc", "(", "x", ")", ";"},
			[]string{"keyword do", "identifier someFunc", "symbol (", "expressionList", "symbol )", "symbol ;"},
			[]string{"expression"},
			false,
		},
		{
			"several arguments",
			[]string{"do", "someFunc", "(", "x", ",", "y", ",", "3", ")", ";"},
			[]string{"keyword do", "identifier someFunc", "symbol (", "expressionList", "symbol )", "symbol ;"},
			[]string{"expression", "symbol ,", "expression", "symbol ,", "expression"},
			false,
		},
		{
			"qualified call",
			[]string{"do", "game", ".", "dispose", "(", ")", ";"},
			[]string{"keyword do", "identifier game", "symbol .", "identifier dispose", "symbol (", "expressionList", "symbol )", "symbol ;"},
			nil,
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := New(tokensOf(t, tt.tokens...)).ParseStatement()
			if err != nil {
				t.Fatalf("ParseStatement: %v", err)
			}
			if node.Kind != KindDoStatement {
				t.Fatalf("Kind = %v, want doStatement", node.Kind)
			}
			assertChildren(t, node, tt.children...)

			list := node.FirstChildOfKind(KindExpressionList)
			if list.Empty != tt.empty {
				t.Errorf("expressionList Empty = %v, want %v", list.Empty, tt.empty)
			}
			assertChildren(t, list, tt.args...)
		})
	}
}

func TestParseDoStatementWithoutSemicolon(t *testing.T) {
	_, err := New(tokensOf(t, "do", "someFunc", "(", ")")).ParseStatement()
	var eoi *EndOfInputError
	if !errors.As(err, &eoi) {
		t.Fatalf("err = %v, want EndOfInputError", err)
	}
	if eoi.Expected != "';'" {
		t.Errorf("Expected = %q, want ';'", eoi.Expected)
	}
}

func TestParseIfStatement(t *testing.T) {
	node, err := New(tokensOf(t, "if", "(", "x", ">", "4", ")", "{", "}")).ParseStatement()
	if err != nil {
		t.Fatalf("ParseStatement: %v", err)
	}
	if node.Kind != KindIfStatement {
		t.Fatalf("Kind = %v, want ifStatement", node.Kind)
	}
	assertChildren(t, node, "keyword if", "symbol (", "expression", "symbol )", "symbol {", "statements", "symbol }")

	expr := node.FirstChildOfKind(KindExpression)
	assertChildren(t, expr, "term", "symbol &gt;", "term")
	assertChildren(t, expr.Children[0], "identifier x")
	assertChildren(t, expr.Children[2], "int_const 4")

	if stmts := node.FirstChildOfKind(KindStatements); !stmts.Empty {
		t.Error("statements should be marked empty")
	}
}

func TestParseIfElseStatement(t *testing.T) {
	node, err := New(tokensOf(t,
		"if", "(", "done", ")", "{", "return", ";", "}",
		"else", "{", "let", "i", "=", "i", "+", "1", ";", "}",
	)).ParseStatement()
	if err != nil {
		t.Fatalf("ParseStatement: %v", err)
	}
	assertChildren(t, node,
		"keyword if", "symbol (", "expression", "symbol )", "symbol {", "statements", "symbol }",
		"keyword else", "symbol {", "statements", "symbol }")

	blocks := node.ChildrenOfKind(KindStatements)
	assertChildren(t, blocks[0], "returnStatement")
	assertChildren(t, blocks[1], "letStatement")
}

func TestParseWhileStatement(t *testing.T) {
	node, err := New(tokensOf(t,
		"while", "(", "~", "(", "i", "=", "0", ")", ")", "{",
		"do", "Output", ".", "printInt", "(", "i", ")", ";",
		"let", "i", "=", "i", "-", "1", ";",
		"}",
	)).ParseStatement()
	if err != nil {
		t.Fatalf("ParseStatement: %v", err)
	}
	assertChildren(t, node, "keyword while", "symbol (", "expression", "symbol )", "symbol {", "statements", "symbol }")
	assertChildren(t, node.FirstChildOfKind(KindStatements), "doStatement", "letStatement")

	cond := node.FirstChildOfKind(KindExpression).Children[0]
	assertChildren(t, cond, "symbol ~", "term")
	assertChildren(t, cond.Children[1], "symbol (", "expression", "symbol )")
}

func TestParseLetStatement(t *testing.T) {
	tests := []struct {
		name     string
		tokens   []string
		children []string
	}{
		{
			"plain",
			[]string{"let", "x", "=", "1", ";"},
			[]string{"keyword let", "identifier x", "symbol =", "expression", "symbol ;"},
		},
		{
			"indexed",
			[]string{"let", "a", "[", "i", "]", "=", "b", "[", "j", "]", ";"},
			[]string{"keyword let", "identifier a", "symbol [", "expression", "symbol ]", "symbol =", "expression", "symbol ;"},
		},
		{
			"string",
			[]string{"let", "s", "=", `"hi there"`, ";"},
			[]string{"keyword let", "identifier s", "symbol =", "expression", "symbol ;"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := New(tokensOf(t, tt.tokens...)).ParseStatement()
			if err != nil {
				t.Fatalf("ParseStatement: %v", err)
			}
			assertChildren(t, node, tt.children...)
		})
	}
}

func TestParseTerm(t *testing.T) {
	tests := []struct {
		name     string
		tokens   []string
		children []string
	}{
		{"integer", []string{"42"}, []string{"int_const 42"}},
		{"string", []string{`"s"`}, []string{`str_const "s"`}},
		{"true", []string{"true"}, []string{"keyword true"}},
		{"false", []string{"false"}, []string{"keyword false"}},
		{"null", []string{"null"}, []string{"keyword null"}},
		{"this", []string{"this"}, []string{"keyword this"}},
		{"variable", []string{"x", ";"}, []string{"identifier x"}},
		{"variable at end", []string{"x"}, []string{"identifier x"}},
		{"indexed", []string{"x", "[", "1", "+", "2", "]"}, []string{"identifier x", "symbol [", "expression", "symbol ]"}},
		{"call", []string{"f", "(", ")"}, []string{"identifier f", "symbol (", "expressionList", "symbol )"}},
		{"qualified call", []string{"Math", ".", "max", "(", "a", ",", "b", ")"}, []string{"identifier Math", "symbol .", "identifier max", "symbol (", "expressionList", "symbol )"}},
		{"parenthesized", []string{"(", "a", ")"}, []string{"symbol (", "expression", "symbol )"}},
		{"negation", []string{"-", "x"}, []string{"symbol -", "term"}},
		{"not", []string{"~", "done"}, []string{"symbol ~", "term"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := New(tokensOf(t, tt.tokens...)).ParseTerm()
			if err != nil {
				t.Fatalf("ParseTerm: %v", err)
			}
			if node.Kind != KindTerm {
				t.Fatalf("Kind = %v, want term", node.Kind)
			}
			assertChildren(t, node, tt.children...)
		})
	}
}

func TestParseIndexedTerm(t *testing.T) {
	node, err := New(tokensOf(t, "x", "[", "1", "+", "2", "]")).ParseTerm()
	if err != nil {
		t.Fatalf("ParseTerm: %v", err)
	}
	assertChildren(t, node, "identifier x", "symbol [", "expression", "symbol ]")
	index := node.Children[2]
	assertChildren(t, index, "term", "symbol +", "term")
	assertChildren(t, index.Children[0], "int_const 1")
	assertChildren(t, index.Children[2], "int_const 2")
}

func TestTermLookaheadDoesNotConsume(t *testing.T) {
	stream := tokensOf(t, "x", ";")
	p := New(stream)
	if _, err := p.ParseTerm(); err != nil {
		t.Fatalf("ParseTerm: %v", err)
	}
	if stream.Remaining() != 1 {
		t.Fatalf("Remaining = %d, want 1", stream.Remaining())
	}
	if tok, _ := stream.Peek(0); !tok.IsSymbol(';') {
		t.Errorf("next token = %v, want ';'", tok)
	}
}

func TestExpressionIsFlat(t *testing.T) {
	node, err := New(tokensOf(t, "a", "+", "b", "*", "c", "<", "d")).ParseExpression()
	if err != nil {
		t.Fatalf("ParseExpression: %v", err)
	}
	assertChildren(t, node, "term", "symbol +", "term", "symbol *", "term", "symbol &lt;", "term")
	for _, term := range node.ChildrenOfKind(KindTerm) {
		if len(term.Children) != 1 || !term.Children[0].IsLeaf() {
			t.Errorf("term %s should be a single leaf", shape(term))
		}
	}
}

func TestExpressionOperators(t *testing.T) {
	for _, op := range []string{"+", "-", "*", "/", "&", "|", "<", ">", "="} {
		t.Run(op, func(t *testing.T) {
			node, err := New(tokensOf(t, "a", op, "b")).ParseExpression()
			if err != nil {
				t.Fatalf("ParseExpression: %v", err)
			}
			assertChildren(t, node, "term", "symbol "+Escape(op), "term")
		})
	}
}

func TestStatementsStopAtNonStatement(t *testing.T) {
	stream := tokensOf(t, "let", "x", "=", "1", ";", "do", "f", "(", ")", ";", "}", "return")
	node, err := New(stream).ParseStatements()
	if err != nil {
		t.Fatalf("ParseStatements: %v", err)
	}
	assertChildren(t, node, "letStatement", "doStatement")
	if stream.Remaining() != 2 {
		t.Errorf("Remaining = %d, want 2", stream.Remaining())
	}
}

func TestEmptyStatements(t *testing.T) {
	node, err := New(tokensOf(t, "}")).ParseStatements()
	if err != nil {
		t.Fatalf("ParseStatements: %v", err)
	}
	if !node.Empty || len(node.Children) != 0 {
		t.Errorf("statements = %s, want empty", shape(node))
	}
}

func TestParseEmptyFunction(t *testing.T) {
	root := parseSource(t, "class A { function void f() { } }")
	assertChildren(t, root, "keyword class", "identifier A", "symbol {", "subroutineDec", "symbol }")

	sub := root.FirstChildOfKind(KindSubroutineDec)
	assertChildren(t, sub,
		"keyword function", "keyword void", "identifier f", "symbol (", "parameterList", "symbol )", "subroutineBody")

	params := sub.FirstChildOfKind(KindParameterList)
	if !params.Empty {
		t.Error("parameterList should be marked empty")
	}

	body := sub.FirstChildOfKind(KindSubroutineBody)
	assertChildren(t, body, "symbol {", "varDec", "statements", "symbol }")
	if vd := body.FirstChildOfKind(KindVarDec); !vd.Empty {
		t.Error("varDec should be marked empty")
	}
	if st := body.FirstChildOfKind(KindStatements); !st.Empty {
		t.Error("statements should be marked empty")
	}
}

func TestParseClass(t *testing.T) {
	root := parseSource(t, sampleClass)
	if root.Kind != KindClass {
		t.Fatalf("Kind = %v, want class", root.Kind)
	}
	assertChildren(t, root, "keyword class", "identifier Main", "symbol {", "classVarDec", "subroutineDec", "symbol }")
	assertChildren(t, root.FirstChildOfKind(KindClassVarDec),
		"keyword static", "keyword boolean", "identifier test", "symbol ;")

	sub := root.FirstChildOfKind(KindSubroutineDec)
	assertChildren(t, sub.FirstChildOfKind(KindParameterList), "keyword int", "identifier y")

	body := sub.FirstChildOfKind(KindSubroutineBody)
	assertChildren(t, body, "symbol {", "varDec", "varDec", "statements", "symbol }")
	assertChildren(t, body.ChildrenOfKind(KindVarDec)[0],
		"keyword var", "identifier SquareGame", "identifier game", "symbol ;")
	assertChildren(t, body.FirstChildOfKind(KindStatements), "ifStatement", "doStatement", "returnStatement")

	if root.Span.Start.Line != 1 || root.Span.End.Line != 12 {
		t.Errorf("class span = %s-%s, want lines 1-12", root.Span.Start, root.Span.End)
	}
}

func TestParseClassMembers(t *testing.T) {
	src := `class Point {
    field int x, y;
    static Point origin;

    constructor Point new(int ax, int ay) {
        let x = ax;
        let y = ay;
        return this;
    }

    method int dist(Point other) {
        var int dx, dy;
        let dx = x - other.getX();
        let dy = y - other.getY();
        return Math.sqrt((dx * dx) + (dy * dy));
    }

    method char initial(Array names, boolean upper) {
        return names[0];
    }
}`
	root := parseSource(t, src)
	if n := len(root.ChildrenOfKind(KindClassVarDec)); n != 2 {
		t.Errorf("got %d classVarDec nodes, want 2", n)
	}
	subs := root.ChildrenOfKind(KindSubroutineDec)
	if len(subs) != 3 {
		t.Fatalf("got %d subroutineDec nodes, want 3", len(subs))
	}
	assertChildren(t, root.FirstChildOfKind(KindClassVarDec),
		"keyword field", "keyword int", "identifier x", "symbol ,", "identifier y", "symbol ;")
	assertChildren(t, subs[0].FirstChildOfKind(KindParameterList),
		"keyword int", "identifier ax", "symbol ,", "keyword int", "identifier ay")
	assertChildren(t, subs[2].FirstChildOfKind(KindParameterList),
		"identifier Array", "identifier names", "symbol ,", "keyword boolean", "identifier upper")
	assertChildren(t, subs[1].FirstChildOfKind(KindSubroutineBody).FirstChildOfKind(KindVarDec),
		"keyword var", "keyword int", "identifier dx", "symbol ,", "identifier dy", "symbol ;")
}

func TestTreeShapeIsStable(t *testing.T) {
	a := parseSource(t, `class A { field int x; method void f(int p) { var int q; let x = p + q; do g(x); return; } }`)
	b := parseSource(t, `class Zed { field int count; method void run(int n) { var int m; let count = n + m; do step(count); return; } }`)
	if shape(a) != shape(b) {
		t.Errorf("shapes differ:\n%s\n%s", shape(a), shape(b))
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		syntax    bool
		construct string
		contains  string
	}{
		{"empty input", "", false, "", "expected 'class'"},
		{"not a class", "function void f() {}", true, "class", "expected 'class' in class, got 'function'"},
		{"missing name", "class { }", true, "class", "expected identifier in class, got '{'"},
		{"unterminated class", "class A {", false, "", "expected '}'"},
		{"bad member", "class A { let x = 1; }", true, "class", "expected '}' in class, got 'let'"},
		{"bad type", "class A { field void x; }", true, "classVarDec", "expected type"},
		{"missing semicolon", "class A { field int x }", true, "classVarDec", "expected ';' in classVarDec, got '}'"},
		{"bad return type", "class A { function 3 f() {} }", true, "subroutineDec", "expected 'void' or type"},
		{"bad parameter", "class A { function void f(int) {} }", true, "parameterList", "expected identifier"},
		{"bad statement", "class A { function void f() { x = 1; } }", true, "subroutineBody", "expected '}' in subroutineBody, got 'x'"},
		{"bad term", "class A { function void f() { let x = ; } }", true, "term", "expected term in term, got ';'"},
		{"keyword term", "class A { function void f() { let x = while; } }", true, "term", "got 'while'"},
		{"missing bracket", "class A { function void f() { let a[1 = 2; } }", true, "letStatement", "expected ']'"},
		{"missing paren", "class A { function void f() { do g(1; } }", true, "doStatement", "expected ')'"},
		{"symbol error escaped", "class A { function void f() { let x = > 1; } }", true, "term", "got '>'"},
		{"trailing tokens", "class A { } class B { }", true, "class", "expected end of input in class, got 'class'"},
		{"illegal character", "class A { # }", false, "", "illegal character"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := Parse(strings.NewReader(tt.input), WithFile("Bad.jack"))
			if err == nil {
				t.Fatalf("expected error, got tree:\n%s", node)
			}
			if node != nil {
				t.Error("no tree should be returned on error")
			}
			var syn *SyntaxError
			if errors.As(err, &syn) != tt.syntax {
				t.Fatalf("err = %T %v, syntax error = %v", err, err, tt.syntax)
			}
			if tt.syntax && syn.Construct != tt.construct {
				t.Errorf("Construct = %q, want %q", syn.Construct, tt.construct)
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("error %q does not contain %q", err, tt.contains)
			}
			if _, ok := ErrorPosition(err); !ok {
				t.Errorf("ErrorPosition(%v) reported no position", err)
			}
		})
	}
}

func TestSyntaxErrorPosition(t *testing.T) {
	_, err := Parse(strings.NewReader("class A {\n  field int x\n}"), WithFile("A.jack"))
	pos, ok := ErrorPosition(err)
	if !ok {
		t.Fatalf("no position in %v", err)
	}
	if pos.File != "A.jack" || pos.Line != 3 || pos.Column != 1 {
		t.Errorf("position = %s, want A.jack:3:1", pos)
	}
	if !strings.HasPrefix(err.Error(), "A.jack:3:1: ") {
		t.Errorf("error %q should start with the position", err)
	}
}

func TestEndOfInputPosition(t *testing.T) {
	_, err := Parse(strings.NewReader("class A {\n  field int x;"), WithFile("A.jack"))
	var eoi *EndOfInputError
	if !errors.As(err, &eoi) {
		t.Fatalf("err = %v, want EndOfInputError", err)
	}
	if eoi.Pos.Line != 2 || eoi.Pos.Column != 15 {
		t.Errorf("position = %s, want 2:15", eoi.Pos)
	}
}

func TestParseSubroutine(t *testing.T) {
	node, err := New(tokensOf(t, "method", "void", "m", "(", ")", "{", "var", "int", "i", ";", "return", ";", "}")).ParseSubroutine()
	if err != nil {
		t.Fatalf("ParseSubroutine: %v", err)
	}
	if got, want := shape(node), "subroutineDec(keyword keyword identifier symbol parameterList! symbol subroutineBody(symbol varDec(keyword keyword identifier symbol) statements(returnStatement(keyword symbol)) symbol))"; got != want {
		t.Errorf("shape:\n got  %s\n want %s", got, want)
	}
}
