package stree

import "fmt"

// State tracks the best-known source line on each side of a comparison.
// Nodes carrying line information overwrite the matching slot on the way
// down; Lists and Scalars leave both untouched. A leaf mismatch therefore
// reports the lines of the nearest enclosing positioned constructs.
type State struct {
	LeftLine  int
	RightLine int
}

// observe records node lines into the state. Zero means the node carried
// no position and the previous value stands.
func (st *State) observe(leftLine, rightLine int) {
	if leftLine > 0 {
		st.LeftLine = leftLine
	}

	if rightLine > 0 {
		st.RightLine = rightLine
	}
}

// mismatch snapshots the current lines into a Mismatch for the two
// differing renderings.
func (st *State) mismatch(leftValue, rightValue string) *Mismatch {
	return &Mismatch{
		LeftLine:   st.LeftLine,
		RightLine:  st.RightLine,
		LeftValue:  leftValue,
		RightValue: rightValue,
	}
}

// Mismatch describes the first structural divergence between two trees.
// LeftValue and RightValue are short renderings of the differing values,
// never whole subtrees. The lines are the best known at the point of
// divergence, zero when no enclosing node carried position info.
type Mismatch struct {
	LeftLine   int
	RightLine  int
	LeftValue  string
	RightValue string
}

// Error implements the error interface.
func (m *Mismatch) Error() string {
	return fmt.Sprintf("different nodes at lines left:%d, and right:%d: %s != %s",
		m.LeftLine, m.RightLine, m.LeftValue, m.RightValue)
}

// Compare reports whether two trees are structurally equivalent. It
// returns nil when they are and a *Mismatch describing the first
// divergence otherwise. Comparison is fail-fast: nothing past the first
// divergence is visited. Each call uses fresh line-tracking state, so
// Compare is safe to call concurrently on unrelated tree pairs.
func Compare(left, right Tree) error {
	return compare(left, right, &State{})
}

//nolint:forcetypeassert // compareKinds guarantees matching variants.
func compare(left, right Tree, state *State) error {
	if err := compareKinds(left, right, state); err != nil {
		return err
	}

	switch leftValue := left.(type) {
	case *Node:
		return compareNodes(leftValue, right.(*Node), state)
	case List:
		return compareLists(leftValue, right.(List), state)
	default:
		return compareScalars(leftValue.(Scalar), right.(Scalar), state)
	}
}

// compareKinds checks the variant tags, and for two nodes the kind names,
// before any contents are examined. The ancestor lines still in state are
// the ones reported, matching where the divergence became visible.
func compareKinds(left, right Tree, state *State) error {
	leftNode, leftIsNode := left.(*Node)
	rightNode, rightIsNode := right.(*Node)

	if leftIsNode && rightIsNode {
		if leftNode.Kind != rightNode.Kind {
			return state.mismatch(leftNode.Kind, rightNode.Kind)
		}

		return nil
	}

	if sameVariant(left, right) {
		return nil
	}

	return state.mismatch(left.render(), right.render())
}

func sameVariant(left, right Tree) bool {
	switch left.(type) {
	case *Node:
		_, ok := right.(*Node)

		return ok
	case List:
		_, ok := right.(List)

		return ok
	default:
		_, ok := right.(Scalar)

		return ok
	}
}

// compareNodes walks the fields of two same-kind nodes in lock step, out
// to the longer field list, substituting an unnamed missing field for the
// exhausted side. Field names are checked before field values.
func compareNodes(left, right *Node, state *State) error {
	state.observe(left.Line, right.Line)

	fieldCount := max(len(left.Fields), len(right.Fields))
	for i := 0; i < fieldCount; i++ {
		leftField := fieldAt(left.Fields, i)
		rightField := fieldAt(right.Fields, i)

		if leftField.Name != rightField.Name {
			return state.mismatch(leftField.Name, rightField.Name)
		}

		if err := compare(leftField.Value, rightField.Value, state); err != nil {
			return err
		}
	}

	return nil
}

func fieldAt(fields []Field, i int) Field {
	if i < len(fields) {
		return fields[i]
	}

	return Field{Name: "", Value: MissingScalar()}
}

// compareLists walks two lists in lock step out to the longer length,
// substituting the missing placeholder for the exhausted side.
func compareLists(left, right List, state *State) error {
	elementCount := max(len(left), len(right))
	for i := 0; i < elementCount; i++ {
		if err := compare(elementAt(left, i), elementAt(right, i), state); err != nil {
			return err
		}
	}

	return nil
}

func elementAt(list List, i int) Tree {
	if i < len(list) {
		return list[i]
	}

	return MissingScalar()
}

func compareScalars(left, right Scalar, state *State) error {
	if left.Kind == right.Kind && left.Text == right.Text {
		return nil
	}

	return state.mismatch(left.render(), right.render())
}
