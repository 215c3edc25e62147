package tree

import (
	"strings"

	"github.com/vanderheijden86/arbor/pkg/debug"
)

// Flags are the static mode switches of the engine.
type Flags struct {
	// Selectable allows leaves to be selected at all.
	Selectable bool
	// MultiPick allows more than one selected leaf. When false the engine
	// silently truncates the selection to its first entry.
	MultiPick bool
	// Searchable allows the search term to drive visibility and forced
	// expansion. When false the term is ignored.
	Searchable bool
}

// Input is the declarative per-reconciliation input set.
type Input struct {
	// Selected lists the selected leaf ids.
	Selected []string

	// Expanded lists the expanded branch ids. nil selects auto mode, where
	// the engine derives the expansion list itself; a non-nil list — even an
	// empty one — is authoritative (explicit mode).
	Expanded []string

	// Term is the current search term.
	Term string

	// FilterApplied marks an externally applied filter; together with a
	// non-empty term it makes the search active.
	FilterApplied bool
}

// Result is the output of one reconciliation.
type Result[T any] struct {
	// Root is the new annotated tree. It is the identical reference to the
	// previous root iff nothing anywhere changed.
	Root *StatefulNode[T]

	// Expanded is the resolved expansion list: the caller's list echoed back
	// in explicit mode, or the freshly derived list in auto mode.
	Expanded []string
}

// searchActive reports whether the search term or filter flag restricts this
// reconciliation, honoring the Searchable switch.
func (f Flags) searchActive(in Input) bool {
	return f.Searchable && (strings.TrimSpace(in.Term) != "" || in.FilterApplied)
}

// Reconcile computes the next annotated tree from the previous one and the
// current inputs, in one bottom-up pass with maximal reference sharing.
//
// Leaves take their selection from the selected set and their visibility from
// visible. Branches aggregate over their already-reconciled children:
// selected iff no child is unselected or indeterminate; indeterminate iff not
// selected but some selection exists below; visible iff any child is visible.
// A branch is expanded when an active search makes it visible, when the
// explicit expansion list names it, or — in auto mode — when the selection
// under it is "interesting": mixed, or (multi-pick) fully selected while a
// sibling subtree is not, or (single-pick) any selection below.
//
// A node whose own flags and descendants are all unchanged is returned by
// reference; a dirty node is replaced, along with all of its ancestors up to
// the root. Reconciling twice with identical inputs therefore returns the
// same root reference and allocates no nodes.
//
// A nil visible function means everything is visible.
func Reconcile[T any](prev *StatefulNode[T], acc Accessors[T], flags Flags, in Input, visible func(leafID string) bool) Result[T] {
	selected := in.Selected
	if !flags.MultiPick && len(selected) > 1 {
		debug.Log("reconcile: single-pick mode with %d selected ids, keeping %q", len(selected), selected[0])
		selected = selected[:1]
	}
	selectedSet := make(map[string]struct{}, len(selected))
	for _, id := range selected {
		selectedSet[id] = struct{}{}
	}

	explicit := in.Expanded != nil
	var expandedSet map[string]struct{}
	if explicit {
		expandedSet = make(map[string]struct{}, len(in.Expanded))
		for _, id := range in.Expanded {
			expandedSet[id] = struct{}{}
		}
	}

	if visible == nil {
		visible = func(string) bool { return true }
	}
	searchActive := flags.searchActive(in)

	var generated []string

	root := MapStatefulNode(prev, func(n *StatefulNode[T], children []*StatefulNode[T], childrenChanged bool) *StatefulNode[T] {
		id := acc.ID(n.Node)

		if n.IsLeaf() {
			_, inSet := selectedSet[id]
			sel := flags.Selectable && inSet
			vis := visible(id)
			if sel == n.Selected && vis == n.Visible {
				return n
			}
			return &StatefulNode[T]{Node: n.Node, Selected: sel, Visible: vis}
		}

		var selFound, unselFound, indetFound, visFound bool
		for _, c := range children {
			selFound = selFound || c.Selected
			unselFound = unselFound || !c.Selected
			indetFound = indetFound || c.Indeterminate
			visFound = visFound || c.Visible
		}

		sel := !indetFound && !unselFound
		indet := !sel && (indetFound || selFound)
		vis := visFound

		var exp bool
		switch {
		case searchActive && vis:
			exp = true
		case explicit:
			_, exp = expandedSet[id]
		default:
			exp = indetFound || (selFound && (!flags.MultiPick || unselFound))
		}
		if !explicit && exp {
			generated = append(generated, id)
		}

		if sel == n.Selected && indet == n.Indeterminate && vis == n.Visible && exp == n.Expanded && !childrenChanged {
			return n
		}
		return &StatefulNode[T]{
			Node:          n.Node,
			Selected:      sel,
			Visible:       vis,
			Indeterminate: indet,
			Expanded:      exp,
			Children:      children,
		}
	})

	out := in.Expanded
	if !explicit {
		out = generated
	}
	return Result[T]{Root: root, Expanded: out}
}
