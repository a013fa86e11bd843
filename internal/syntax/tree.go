package syntax

import "strings"

// Node is one node of a syntax tree. Leaf nodes carry a token label;
// interior nodes group the tokens enclosed by one bracket pair.
type Node struct {
	// Label is the token class for leaves ("id", "num", a keyword, an
	// operator) or the bracket kind for interior nodes ("paren",
	// "bracket", "brace", "root").
	Label string

	// Children are the nested nodes, in source order. Nil for leaves.
	Children []*Node
}

// Sexpr serializes the tree to an s-expression. The result is a pure
// function of tree shape and labels, which makes downstream fingerprints
// deterministic across runs.
func (n *Node) Sexpr() string {
	var sb strings.Builder
	n.writeSexpr(&sb)
	return sb.String()
}

func (n *Node) writeSexpr(sb *strings.Builder) {
	if len(n.Children) == 0 {
		sb.WriteString(n.Label)
		return
	}
	sb.WriteByte('(')
	sb.WriteString(n.Label)
	for _, child := range n.Children {
		sb.WriteByte(' ')
		child.writeSexpr(sb)
	}
	sb.WriteByte(')')
}

// add appends a child node.
func (n *Node) add(child *Node) {
	n.Children = append(n.Children, child)
}
