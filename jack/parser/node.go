package parser

import "strings"

type NodeKind int

const (
	KindToken NodeKind = iota

	// Program structure
	KindClass
	KindClassVarDec
	KindSubroutineDec
	KindParameterList
	KindSubroutineBody
	KindVarDec

	// Statements
	KindStatements
	KindLetStatement
	KindIfStatement
	KindWhileStatement
	KindDoStatement
	KindReturnStatement

	// Expressions
	KindExpression
	KindTerm
	KindExpressionList
)

var nodeKindNames = map[NodeKind]string{
	KindToken:           "token",
	KindClass:           "class",
	KindClassVarDec:     "classVarDec",
	KindSubroutineDec:   "subroutineDec",
	KindParameterList:   "parameterList",
	KindSubroutineBody:  "subroutineBody",
	KindVarDec:          "varDec",
	KindStatements:      "statements",
	KindLetStatement:    "letStatement",
	KindIfStatement:     "ifStatement",
	KindWhileStatement:  "whileStatement",
	KindDoStatement:     "doStatement",
	KindReturnStatement: "returnStatement",
	KindExpression:      "expression",
	KindTerm:            "term",
	KindExpressionList:  "expressionList",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// NodeKinds returns every grammar construct kind, excluding KindToken.
func NodeKinds() []NodeKind {
	kinds := make([]NodeKind, 0, len(nodeKindNames)-1)
	for k := KindClass; k <= KindExpressionList; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// Node is either a grammar construct with ordered children or, when Kind
// is KindToken, a leaf carrying one token.
type Node struct {
	Kind     NodeKind
	Span     Span
	Children []*Node
	Token    *Token
	// Empty marks a construct that matched zero tokens. Such nodes stay in
	// the tree so its shape does not depend on optional clauses.
	Empty bool
}

func NewLeaf(tok Token) *Node {
	return &Node{
		Kind:  KindToken,
		Span:  Span{Start: tok.Pos, End: tok.End()},
		Token: &tok,
	}
}

func (n *Node) AddChild(child *Node) {
	if child == nil {
		return
	}
	if len(n.Children) == 0 {
		n.Span.Start = child.Span.Start
	}
	n.Span.End = child.Span.End
	n.Children = append(n.Children, child)
}

// Label is the element name used when the tree is serialized.
func (n *Node) Label() string {
	if n.Token != nil {
		return n.Token.Kind.String()
	}
	return n.Kind.String()
}

func (n *Node) IsLeaf() bool {
	return n.Kind == KindToken
}

func (n *Node) FirstChildOfKind(kind NodeKind) *Node {
	for _, child := range n.Children {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}

func (n *Node) ChildrenOfKind(kind NodeKind) []*Node {
	var result []*Node
	for _, child := range n.Children {
		if child.Kind == kind {
			result = append(result, child)
		}
	}
	return result
}

// Leaves returns the tokens under n in source order.
func (n *Node) Leaves() []Token {
	var out []Token
	var walk func(*Node)
	walk = func(n *Node) {
		if n.Token != nil {
			out = append(out, *n.Token)
			return
		}
		for _, child := range n.Children {
			walk(child)
		}
	}
	walk(n)
	return out
}

func (n *Node) TokenText() string {
	if n.Token != nil {
		return n.Token.Text
	}
	return ""
}

func (n *Node) String() string {
	var b strings.Builder
	n.writeIndent(&b, 0, false)
	return b.String()
}

func (n *Node) StringWithPositions() string {
	var b strings.Builder
	n.writeIndent(&b, 0, true)
	return b.String()
}

func (n *Node) writeIndent(b *strings.Builder, indent int, showPositions bool) {
	b.WriteString(strings.Repeat("  ", indent))
	b.WriteString(n.Label())
	if showPositions && n.Span.Start.Line != 0 {
		b.WriteString(" [" + n.Span.Start.String() + "-" + n.Span.End.String() + "]")
	}
	if n.Token != nil {
		b.WriteString(" " + n.Token.Text)
	}
	if n.Empty {
		b.WriteString(" (empty)")
	}
	b.WriteString("\n")

	for _, child := range n.Children {
		child.writeIndent(b, indent+1, showPositions)
	}
}
