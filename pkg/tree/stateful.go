package tree

// StatefulNode is one node of the annotated tree: the caller's node value
// plus the derived state flags, and its own reconciled children.
//
// Annotated trees are persistent values: a reconciliation never mutates a
// StatefulNode in place. Nodes whose state did not change are shared by
// reference between the previous and the next tree version.
type StatefulNode[T any] struct {
	// Node is the caller's opaque node value.
	Node T

	// Selected is true for a selected leaf, or for a branch whose leaf
	// descendants are all selected with nothing indeterminate below it.
	Selected bool

	// Visible is true for a leaf the visibility function admits, or for a
	// branch with at least one visible leaf descendant.
	Visible bool

	// Indeterminate marks a branch with mixed descendant selection.
	// Always false on leaves.
	Indeterminate bool

	// Expanded marks an open branch. Always false on leaves.
	Expanded bool

	// Children holds the reconciled children, in the caller's order.
	Children []*StatefulNode[T]
}

// IsLeaf reports whether the node has no children.
func (n *StatefulNode[T]) IsLeaf() bool {
	return len(n.Children) == 0
}

// Annotate wraps a raw tree once into an annotated tree with default state:
// unselected, visible, collapsed. It is purely structural and independent of
// selection or search inputs; run it once per raw-tree identity and feed the
// result to Reconcile from then on.
func Annotate[T any](acc Accessors[T], root T) *StatefulNode[T] {
	kids := acc.Children(root)
	if len(kids) == 0 {
		return &StatefulNode[T]{Node: root, Visible: true}
	}
	children := make([]*StatefulNode[T], len(kids))
	for i, k := range kids {
		children[i] = Annotate(acc, k)
	}
	return &StatefulNode[T]{Node: root, Visible: true, Children: children}
}

// MapStatefulNode applies f to every node of the annotated tree bottom-up:
// children are mapped first, then f is called with the original node, the
// mapped children, and whether any child reference changed. f may return the
// original node untouched — that is how identity-stable output falls out
// without a separate equality pass. When no child changed, the original
// children slice is passed through rather than a fresh copy.
func MapStatefulNode[T any](n *StatefulNode[T], f func(prev *StatefulNode[T], children []*StatefulNode[T], childrenChanged bool) *StatefulNode[T]) *StatefulNode[T] {
	if len(n.Children) == 0 {
		return f(n, nil, false)
	}
	changed := false
	mapped := make([]*StatefulNode[T], len(n.Children))
	for i, c := range n.Children {
		mapped[i] = MapStatefulNode(c, f)
		if mapped[i] != c {
			changed = true
		}
	}
	if !changed {
		mapped = n.Children
	}
	return f(n, mapped, changed)
}

// Walk visits every node of the annotated tree top-down in traversal order.
// The visit function returning false skips the node's children.
func Walk[T any](n *StatefulNode[T], visit func(node *StatefulNode[T], depth int) bool) {
	var walk func(cur *StatefulNode[T], depth int)
	walk = func(cur *StatefulNode[T], depth int) {
		if !visit(cur, depth) {
			return
		}
		for _, c := range cur.Children {
			walk(c, depth+1)
		}
	}
	walk(n, 0)
}
