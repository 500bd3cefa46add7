// Package stree defines a language-neutral syntax tree and a structural
// comparator over it. A tree is one of three variants: Node for named
// constructs with ordered fields, List for ordered sequences, and Scalar
// for leaf values. Source positions ride along on nodes for diagnostics
// but never participate in equality, so two trees compare equal exactly
// when they describe the same program structure regardless of layout.
package stree

import "strconv"

// ScalarKind discriminates leaf values.
type ScalarKind int

// Scalar kinds.
const (
	ScalarString ScalarKind = iota
	ScalarInt
	ScalarBool
	ScalarNil
	ScalarMissing
)

// Tree is the tagged union over the three tree variants: *Node, List and
// Scalar. The interface is sealed; no other implementations exist.
type Tree interface {
	// render returns the short diagnostic form used in mismatch reports:
	// the kind name for nodes, "list" for lists, the literal text for
	// scalars.
	render() string
}

// Node is a named syntactic construct with ordered fields. Line is the
// 1-based source line the construct starts on, zero when the parser had no
// position for it.
type Node struct {
	Kind   string
	Fields []Field
	Line   int
}

// Field is one named child slot of a Node. Field order follows the parser
// schema for the node's kind and is deterministic.
type Field struct {
	Name  string
	Value Tree
}

// NewNode returns a node with the given kind and line and no fields.
func NewNode(kind string, line int) *Node {
	return &Node{Kind: kind, Line: line}
}

// AddField appends a named child and returns the node for chaining.
func (n *Node) AddField(name string, value Tree) *Node {
	n.Fields = append(n.Fields, Field{Name: name, Value: value})

	return n
}

func (n *Node) render() string { return n.Kind }

// List is an ordered sequence of subtrees. Order always matters, even for
// source constructs with set semantics: element moves are reported as
// differences.
type List []Tree

func (l List) render() string { return "list" }

// Scalar is a leaf value. The Missing kind is the placeholder substituted
// for exhausted positions during lock-step iteration; it compares equal
// only to another Missing, so a genuine empty string never matches a
// placeholder. The Nil kind marks an absent optional child.
type Scalar struct {
	Kind ScalarKind
	Text string
}

// StringScalar returns a string-valued leaf.
func StringScalar(text string) Scalar {
	return Scalar{Kind: ScalarString, Text: text}
}

// IntScalar returns an integer-valued leaf.
func IntScalar(value int) Scalar {
	return Scalar{Kind: ScalarInt, Text: strconv.Itoa(value)}
}

// BoolScalar returns a boolean-valued leaf.
func BoolScalar(value bool) Scalar {
	return Scalar{Kind: ScalarBool, Text: strconv.FormatBool(value)}
}

// NilScalar returns the marker for an absent optional child.
func NilScalar() Scalar {
	return Scalar{Kind: ScalarNil, Text: "nil"}
}

// MissingScalar returns the placeholder filled in for positions past the
// end of the shorter side. It renders as the empty string.
func MissingScalar() Scalar {
	return Scalar{Kind: ScalarMissing}
}

func (s Scalar) render() string { return s.Text }
