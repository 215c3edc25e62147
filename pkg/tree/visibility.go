package tree

import "strings"

// VisibilityQuery describes the inputs that determine which leaves are
// visible: the search term, the caller's match predicate, an optional
// filtered-leaf list, and the external filter-applied flag.
type VisibilityQuery[T any] struct {
	// Term is the current search term. Tokenized with Tokenize before it is
	// handed to Predicate.
	Term string

	// Predicate reports whether a node matches the search tokens. It is only
	// evaluated while the query is active. A nil predicate matches everything.
	Predicate func(node T, tokens []string) bool

	// Filtered restricts the visible set to the listed leaf ids. nil means
	// unset (no restriction); a non-nil empty list means "show nothing".
	Filtered []string

	// FilterApplied marks an externally applied filter, which activates the
	// query even when Term is empty.
	FilterApplied bool
}

// Active reports whether the query restricts visibility through the search
// predicate: true iff the term is non-empty or the external filter flag is
// set.
func (q VisibilityQuery[T]) Active() bool {
	return strings.TrimSpace(q.Term) != "" || q.FilterApplied
}

// ResolveVisibility computes the leaf-visibility function for the query: a
// constant-true function (no tree walk) when the query is inactive and no
// filtered list is set, otherwise an O(1) membership test over a set built in
// a single walk.
//
// During the walk a match propagates strictly downward: a matching branch
// makes every descendant leaf visible regardless of the leaves' own predicate
// result, while a matching leaf does not affect its siblings. A matching leaf
// enters the visible set only if Filtered is unset or contains its id.
func ResolveVisibility[T any](acc Accessors[T], root T, q VisibilityQuery[T]) func(leafID string) bool {
	if !q.Active() && q.Filtered == nil {
		return func(string) bool { return true }
	}

	var allowed map[string]struct{}
	if q.Filtered != nil {
		allowed = make(map[string]struct{}, len(q.Filtered))
		for _, id := range q.Filtered {
			allowed[id] = struct{}{}
		}
	}

	active := q.Active()
	tokens := Tokenize(q.Term)
	visible := make(map[string]struct{})

	var walk func(n T, parentMatches bool)
	walk = func(n T, parentMatches bool) {
		matches := parentMatches
		if !matches {
			switch {
			case !active:
				// No search restriction; the filtered list alone decides.
				matches = true
			case q.Predicate == nil:
				matches = true
			default:
				matches = q.Predicate(n, tokens)
			}
		}

		kids := acc.Children(n)
		if len(kids) == 0 {
			if !matches {
				return
			}
			id := acc.ID(n)
			if allowed != nil {
				if _, ok := allowed[id]; !ok {
					return
				}
			}
			visible[id] = struct{}{}
			return
		}
		for _, k := range kids {
			walk(k, matches)
		}
	}
	walk(root, false)

	return func(leafID string) bool {
		_, ok := visible[leafID]
		return ok
	}
}
