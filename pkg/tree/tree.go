// Package tree implements a generic tree-state reconciliation engine: given a
// caller-defined tree and a declarative set of inputs (selected leaves,
// expanded branches, an active search term, an optional leaf filter list,
// single/multi-pick mode), it computes a fully annotated copy of the tree —
// selection, indeterminate, visibility, and expansion flags on every node —
// while preserving object identity for every subtree that did not change.
//
// The engine neither renders nor styles anything. It consumes two accessor
// callbacks and a search predicate, and produces data for a renderer to walk.
package tree

// Accessors supplies the callbacks the engine uses to traverse a
// caller-defined tree. Both callbacks must be pure and deterministic for a
// given node value: same node in, same answer out, every time. The engine's
// behavior is undefined when that contract is broken.
type Accessors[T any] struct {
	// ID returns a stable, unique identifier for the node.
	ID func(T) string
	// Children returns the node's ordered children. Empty means leaf.
	Children func(T) []T
}

// IsLeaf reports whether the node has no children.
func (a Accessors[T]) IsLeaf(n T) bool {
	return len(a.Children(n)) == 0
}

// Leaves returns every leaf descendant of n in traversal order.
// A leaf node returns itself.
func (a Accessors[T]) Leaves(n T) []T {
	var out []T
	var walk func(T)
	walk = func(cur T) {
		kids := a.Children(cur)
		if len(kids) == 0 {
			out = append(out, cur)
			return
		}
		for _, k := range kids {
			walk(k)
		}
	}
	walk(n)
	return out
}

// Branches returns every non-leaf descendant of n in traversal order,
// including n itself when it is not a leaf.
func (a Accessors[T]) Branches(n T) []T {
	var out []T
	var walk func(T)
	walk = func(cur T) {
		kids := a.Children(cur)
		if len(kids) == 0 {
			return
		}
		out = append(out, cur)
		for _, k := range kids {
			walk(k)
		}
	}
	walk(n)
	return out
}

// LeafIDs returns the ids of every leaf descendant of n in traversal order.
func (a Accessors[T]) LeafIDs(n T) []string {
	leaves := a.Leaves(n)
	ids := make([]string, len(leaves))
	for i, leaf := range leaves {
		ids[i] = a.ID(leaf)
	}
	return ids
}

// BranchIDs returns the ids of every branch descendant of n in traversal
// order, including n itself when it is not a leaf.
func (a Accessors[T]) BranchIDs(n T) []string {
	branches := a.Branches(n)
	ids := make([]string, len(branches))
	for i, b := range branches {
		ids[i] = a.ID(b)
	}
	return ids
}
