package testutil

import (
	"testing"

	"github.com/vanderheijden86/arbor/pkg/tree"
)

// TB is the subset of testing.TB the invariant assertions need; *testing.T
// and *rapid.T both satisfy it.
type TB interface {
	Helper()
	Errorf(format string, args ...any)
}

// AssertInvariants verifies the structural invariants of an annotated tree:
// leaves never carry branch flags, a branch is selected iff every child is
// selected and none indeterminate, indeterminate iff not selected but some
// selection exists below, and visible iff any child is visible.
func AssertInvariants[T any](t TB, acc tree.Accessors[T], root *tree.StatefulNode[T]) {
	t.Helper()

	var check func(n *tree.StatefulNode[T])
	check = func(n *tree.StatefulNode[T]) {
		id := acc.ID(n.Node)

		if n.IsLeaf() {
			if n.Indeterminate {
				t.Errorf("leaf %s carries Indeterminate", id)
			}
			if n.Expanded {
				t.Errorf("leaf %s carries Expanded", id)
			}
			return
		}

		var selFound, unselFound, indetFound, visFound bool
		for _, c := range n.Children {
			selFound = selFound || c.Selected
			unselFound = unselFound || !c.Selected
			indetFound = indetFound || c.Indeterminate
			visFound = visFound || c.Visible
		}

		wantSel := !indetFound && !unselFound
		if n.Selected != wantSel {
			t.Errorf("branch %s: Selected=%v, want %v", id, n.Selected, wantSel)
		}
		wantIndet := !wantSel && (indetFound || selFound)
		if n.Indeterminate != wantIndet {
			t.Errorf("branch %s: Indeterminate=%v, want %v", id, n.Indeterminate, wantIndet)
		}
		if n.Visible != visFound {
			t.Errorf("branch %s: Visible=%v, want %v", id, n.Visible, visFound)
		}

		for _, c := range n.Children {
			check(c)
		}
	}
	check(root)
}

// AssertNoDuplicateIDs verifies all node IDs in a raw tree are unique.
func AssertNoDuplicateIDs(t *testing.T, root *Node) {
	t.Helper()
	seen := make(map[string]bool)
	var walk func(n *Node)
	walk = func(n *Node) {
		if seen[n.ID] {
			t.Errorf("duplicate node ID: %s", n.ID)
		}
		seen[n.ID] = true
		for _, k := range n.Kids {
			walk(k)
		}
	}
	walk(root)
}

// FindNode returns the annotated node with the given id, or nil.
func FindNode[T any](acc tree.Accessors[T], root *tree.StatefulNode[T], id string) *tree.StatefulNode[T] {
	var found *tree.StatefulNode[T]
	tree.Walk(root, func(n *tree.StatefulNode[T], _ int) bool {
		if found != nil {
			return false
		}
		if acc.ID(n.Node) == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// CountNodes returns the total number of nodes in an annotated tree.
func CountNodes[T any](root *tree.StatefulNode[T]) int {
	count := 0
	tree.Walk(root, func(*tree.StatefulNode[T], int) bool {
		count++
		return true
	})
	return count
}
