package tree_test

import (
	"strings"
	"testing"

	"github.com/vanderheijden86/arbor/pkg/testutil"
	"github.com/vanderheijden86/arbor/pkg/tree"
)

// labelPredicate matches a node when every token is a substring of its label,
// case-insensitive. This is the typical host-supplied predicate shape.
func labelPredicate(n *testutil.Node, tokens []string) bool {
	label := strings.ToLower(n.Label)
	for _, tok := range tokens {
		if !strings.Contains(label, tok) {
			return false
		}
	}
	return true
}

func TestResolveVisibilityInactiveIsConstantTrue(t *testing.T) {
	acc := testutil.Accessors()
	calls := 0
	root := testutil.Branch("root", testutil.Leaf("l1"), testutil.Leaf("l2"))

	visible := tree.ResolveVisibility(acc, root, tree.VisibilityQuery[*testutil.Node]{
		Predicate: func(n *testutil.Node, tokens []string) bool {
			calls++
			return false
		},
	})

	if calls != 0 {
		t.Errorf("inactive query should not walk the tree, predicate called %d times", calls)
	}
	if !visible("l1") || !visible("anything-at-all") {
		t.Error("inactive query with unset filter list should admit every id")
	}
}

func TestResolveVisibilityLeafMatch(t *testing.T) {
	acc := testutil.Accessors()
	root := testutil.Branch("root",
		testutil.Branch("fruits",
			testutil.Leaf("apple"),
			testutil.Leaf("banana"),
		),
		testutil.Branch("tools",
			testutil.Leaf("hammer"),
		),
	)

	visible := tree.ResolveVisibility(acc, root, tree.VisibilityQuery[*testutil.Node]{
		Term:      "APP",
		Predicate: labelPredicate,
	})

	if !visible("apple") {
		t.Error("apple should be visible")
	}
	if visible("banana") {
		t.Error("banana should not be visible (leaf match does not affect siblings)")
	}
	if visible("hammer") {
		t.Error("hammer should not be visible")
	}
}

func TestResolveVisibilityBranchMatchForcesDescendants(t *testing.T) {
	acc := testutil.Accessors()
	root := testutil.Branch("root",
		testutil.Branch("fruits",
			testutil.Leaf("apple"),
			testutil.Leaf("banana"),
		),
		testutil.Leaf("hammer"),
	)

	// "fruits" matches the branch only; its leaves fail the predicate but
	// must be visible anyway because the match propagates downward.
	visible := tree.ResolveVisibility(acc, root, tree.VisibilityQuery[*testutil.Node]{
		Term:      "fruits",
		Predicate: labelPredicate,
	})

	if !visible("apple") || !visible("banana") {
		t.Error("descendant leaves of a matching branch should all be visible")
	}
	if visible("hammer") {
		t.Error("hammer should not be visible")
	}
}

func TestResolveVisibilityExplicitEmptyFilteredList(t *testing.T) {
	acc := testutil.Accessors()
	root := testutil.Branch("root", testutil.Leaf("l1"), testutil.Leaf("l2"))

	visible := tree.ResolveVisibility(acc, root, tree.VisibilityQuery[*testutil.Node]{
		Filtered: []string{}, // explicit empty: show nothing
	})

	if visible("l1") || visible("l2") {
		t.Error("explicit empty filtered list should yield zero visible leaves")
	}
}

func TestResolveVisibilityFilteredListRestrictsMatches(t *testing.T) {
	acc := testutil.Accessors()
	root := testutil.Branch("root",
		testutil.Leaf("alpha-one"),
		testutil.Leaf("alpha-two"),
		testutil.Leaf("beta"),
	)

	visible := tree.ResolveVisibility(acc, root, tree.VisibilityQuery[*testutil.Node]{
		Term:      "alpha",
		Predicate: labelPredicate,
		Filtered:  []string{"alpha-two", "beta"},
	})

	if visible("alpha-one") {
		t.Error("alpha-one matches the search but is outside the filtered list")
	}
	if !visible("alpha-two") {
		t.Error("alpha-two matches the search and is in the filtered list")
	}
	if visible("beta") {
		t.Error("beta is in the filtered list but fails the search")
	}
}

func TestResolveVisibilityFilteredListWithoutSearch(t *testing.T) {
	acc := testutil.Accessors()
	root := testutil.Branch("root", testutil.Leaf("l1"), testutil.Leaf("l2"), testutil.Leaf("l3"))

	// No term, no filter-applied flag: the filtered list alone decides.
	visible := tree.ResolveVisibility(acc, root, tree.VisibilityQuery[*testutil.Node]{
		Filtered: []string{"l2"},
	})

	if visible("l1") || visible("l3") {
		t.Error("leaves outside the filtered list should not be visible")
	}
	if !visible("l2") {
		t.Error("l2 is in the filtered list and should be visible")
	}
}

func TestResolveVisibilityFilterAppliedActivatesPredicate(t *testing.T) {
	acc := testutil.Accessors()
	root := testutil.Branch("root", testutil.Leaf("match-me"), testutil.Leaf("other"))

	// Empty term but FilterApplied set: predicate runs with no tokens.
	visible := tree.ResolveVisibility(acc, root, tree.VisibilityQuery[*testutil.Node]{
		FilterApplied: true,
		Predicate: func(n *testutil.Node, tokens []string) bool {
			if len(tokens) != 0 {
				t.Errorf("expected no tokens for empty term, got %v", tokens)
			}
			return n.ID == "match-me"
		},
	})

	if !visible("match-me") {
		t.Error("match-me should be visible")
	}
	if visible("other") {
		t.Error("other should not be visible")
	}
}

func TestResolveVisibilityNilPredicateMatchesAll(t *testing.T) {
	acc := testutil.Accessors()
	root := testutil.Branch("root", testutil.Leaf("l1"), testutil.Leaf("l2"))

	visible := tree.ResolveVisibility(acc, root, tree.VisibilityQuery[*testutil.Node]{
		Term: "anything",
	})

	if !visible("l1") || !visible("l2") {
		t.Error("nil predicate should match every node")
	}
}
