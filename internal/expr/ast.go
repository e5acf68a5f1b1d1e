package expr

import (
	"fmt"
	"strings"
)

// Node is a parsed expression.
type Node interface {
	Pos() int
	String() string
}

type Number struct {
	Value    complex128
	Position int
}

type String struct {
	Value    string
	Position int
}

type Ident struct {
	Name     string
	Position int
}

// List is a bracketed literal such as [0.5, 1, 1.5].
type List struct {
	Items    []Node
	Position int
}

type Unary struct {
	Op       TokenType
	Operand  Node
	Position int
}

type Binary struct {
	Op       TokenType
	Left     Node
	Right    Node
	Position int
}

type Call struct {
	Name     string
	Args     []Node
	Position int
}

func (n *Number) Pos() int { return n.Position }
func (n *String) Pos() int { return n.Position }
func (n *Ident) Pos() int  { return n.Position }
func (n *List) Pos() int   { return n.Position }
func (n *Unary) Pos() int  { return n.Position }
func (n *Binary) Pos() int { return n.Position }
func (n *Call) Pos() int   { return n.Position }

func (n *Number) String() string {
	if imag(n.Value) == 0 {
		return fmt.Sprintf("%g", real(n.Value))
	}
	return fmt.Sprintf("%gj", imag(n.Value))
}

func (n *String) String() string { return fmt.Sprintf("%q", n.Value) }
func (n *Ident) String() string  { return n.Name }
func (n *List) String() string   { return "[" + joinNodes(n.Items) + "]" }
func (n *Unary) String() string  { return "(" + opSymbol(n.Op) + n.Operand.String() + ")" }

func (n *Binary) String() string {
	return "(" + n.Left.String() + " " + opSymbol(n.Op) + " " + n.Right.String() + ")"
}

func (n *Call) String() string { return n.Name + "(" + joinNodes(n.Args) + ")" }

func joinNodes(nodes []Node) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.String()
	}
	return strings.Join(parts, ", ")
}

func opSymbol(op TokenType) string {
	switch op {
	case PLUS:
		return "+"
	case MINUS:
		return "-"
	case ASTERISK:
		return "*"
	case SLASH:
		return "/"
	case POWER:
		return "**"
	default:
		return "?"
	}
}
