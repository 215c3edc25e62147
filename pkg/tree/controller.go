package tree

import (
	"sync"
	"time"

	"github.com/vanderheijden86/arbor/pkg/debounce"
	"github.com/vanderheijden86/arbor/pkg/debug"
)

// ControllerOption configures a Controller.
type ControllerOption[T any] func(*Controller[T])

// WithDebounce sets the quiet period for search-term edits.
func WithDebounce[T any](d time.Duration) ControllerOption[T] {
	return func(c *Controller[T]) {
		c.debounceDuration = d
	}
}

// WithSelectionChanged sets the callback invoked with the final selection
// list after a host-requested selection mutation.
func WithSelectionChanged[T any](fn func(selected []string)) ControllerOption[T] {
	return func(c *Controller[T]) {
		c.onSelection = fn
	}
}

// WithExpansionChanged sets the callback invoked with the final expansion
// list after a host-requested expansion mutation.
func WithExpansionChanged[T any](fn func(expanded []string)) ControllerOption[T] {
	return func(c *Controller[T]) {
		c.onExpansion = fn
	}
}

// WithRecomputed sets the callback invoked after every reconciliation,
// including debounced ones. Useful for hosts that render asynchronously.
func WithRecomputed[T any](fn func(Result[T])) ControllerOption[T] {
	return func(c *Controller[T]) {
		c.onRecomputed = fn
	}
}

// Controller orchestrates when reconciliation runs for one tree instance and
// holds the latest result. Structural, selection, expansion, and filter
// changes recompute immediately; search-term edits are coalesced through a
// debouncer, and any immediate recomputation cancels a pending debounced one
// so a stale result can never land after a newer one.
type Controller[T any] struct {
	mu sync.Mutex

	acc       Accessors[T]
	flags     Flags
	predicate func(node T, tokens []string) bool

	raw     T
	hasTree bool
	base    *StatefulNode[T] // annotated defaults, rebuilt per SetTree

	in          Input
	filteredIDs []string // nil = unset; non-nil empty = show nothing
	visible     func(string) bool
	visDirty    bool
	result      Result[T]

	debounceDuration time.Duration
	deb              *debounce.Debouncer

	onSelection  func([]string)
	onExpansion  func([]string)
	onRecomputed func(Result[T])
}

// NewController creates a Controller for trees traversed through acc. The
// predicate is the host's search matcher; it may be nil, in which case every
// node matches an active search.
func NewController[T any](acc Accessors[T], flags Flags, predicate func(node T, tokens []string) bool, opts ...ControllerOption[T]) *Controller[T] {
	c := &Controller[T]{
		acc:              acc,
		flags:            flags,
		predicate:        predicate,
		debounceDuration: debounce.DefaultDuration,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.deb = debounce.New(c.debounceDuration)
	return c
}

// SetTree installs a new raw tree. The annotated tree is rebuilt from
// defaults; call this only when the raw tree identity actually changes.
// Recomputes immediately.
func (c *Controller[T]) SetTree(root T) {
	c.mu.Lock()
	c.raw = root
	c.hasTree = true
	c.base = Annotate(c.acc, root)
	c.result = Result[T]{Root: c.base}
	c.visDirty = true
	res, cb := c.recomputeNowLocked()
	c.mu.Unlock()
	notifyRecomputed(cb, res)
}

// SetSelection replaces the selection list. Recomputes immediately.
func (c *Controller[T]) SetSelection(ids []string) {
	c.mu.Lock()
	c.in.Selected = ids
	res, cb := c.recomputeNowLocked()
	c.mu.Unlock()
	notifyRecomputed(cb, res)
}

// SetExpansion replaces the expansion list. nil switches the engine to auto
// mode; a non-nil list — even empty — is authoritative. Recomputes
// immediately.
func (c *Controller[T]) SetExpansion(ids []string) {
	c.mu.Lock()
	c.in.Expanded = ids
	res, cb := c.recomputeNowLocked()
	c.mu.Unlock()
	notifyRecomputed(cb, res)
}

// SetFiltered replaces the filtered-leaf list and the filter-applied flag.
// nil means unset; a non-nil empty list means "show nothing". Recomputes
// immediately.
func (c *Controller[T]) SetFiltered(leafIDs []string, applied bool) {
	c.mu.Lock()
	c.filteredIDs = leafIDs
	c.in.FilterApplied = applied
	c.visDirty = true
	res, cb := c.recomputeNowLocked()
	c.mu.Unlock()
	notifyRecomputed(cb, res)
}

// SetSearchTerm records a search-term edit. The recomputation is debounced:
// each edit cancels any pending one and restarts the quiet-period timer, and
// the term current at fire time is the one applied.
func (c *Controller[T]) SetSearchTerm(term string) {
	c.mu.Lock()
	c.in.Term = term
	c.visDirty = true
	c.mu.Unlock()

	c.deb.Trigger(func() {
		c.mu.Lock()
		res, cb := c.recomputeLocked()
		c.mu.Unlock()
		notifyRecomputed(cb, res)
	})
}

// ToggleSelect toggles one leaf's selection. In single-pick mode selecting a
// new leaf replaces the previous selection. Recomputes immediately and
// invokes the selection-changed callback with the final list.
func (c *Controller[T]) ToggleSelect(id string) {
	c.mu.Lock()
	var sel []string
	if c.flags.MultiPick {
		sel = Toggle(c.in.Selected, id)
	} else if len(c.in.Selected) == 1 && c.in.Selected[0] == id {
		sel = []string{}
	} else {
		sel = []string{id}
	}
	c.in.Selected = sel
	res, cb := c.recomputeNowLocked()
	onSel := c.onSelection
	c.mu.Unlock()

	if onSel != nil {
		onSel(sel)
	}
	notifyRecomputed(cb, res)
}

// ToggleExpand toggles one branch's expansion. If the engine was in auto
// mode, the current derived list becomes the explicit baseline. While a
// search is active, manual expand/collapse is suspended in favor of
// visibility-driven forced expansion. Invokes the expansion-changed callback
// with the final list.
func (c *Controller[T]) ToggleExpand(id string) {
	c.mu.Lock()
	if c.flags.searchActive(c.in) {
		debug.Log("controller: ignoring expand toggle for %q during active search", id)
		c.mu.Unlock()
		return
	}
	base := c.in.Expanded
	if base == nil {
		base = c.result.Expanded
	}
	c.in.Expanded = Toggle(base, id)
	res, cb := c.recomputeNowLocked()
	final := res.Expanded
	onExp := c.onExpansion
	c.mu.Unlock()

	if onExp != nil {
		onExp(final)
	}
	notifyRecomputed(cb, res)
}

// SelectAll extends the selection with every currently visible leaf, deduped
// in first-seen order: current selection first, then visible leaves in
// traversal order. A no-op in single-pick mode. Invokes the
// selection-changed callback with the final list.
func (c *Controller[T]) SelectAll() {
	c.mu.Lock()
	if !c.flags.MultiPick || !c.hasTree {
		debug.LogIf(!c.flags.MultiPick, "controller: SelectAll ignored in single-pick mode")
		c.mu.Unlock()
		return
	}
	c.refreshVisibilityLocked()
	vis := c.visible
	sel := FromSlice(c.in.Selected).
		Concat(FromSlice(c.acc.LeafIDs(c.raw)).Filter(vis)).
		Uniq().
		Collect()
	c.in.Selected = sel
	res, cb := c.recomputeNowLocked()
	onSel := c.onSelection
	c.mu.Unlock()

	if onSel != nil {
		onSel(sel)
	}
	notifyRecomputed(cb, res)
}

// SelectNone clears the selection. Invokes the selection-changed callback
// with the final (empty) list.
func (c *Controller[T]) SelectNone() {
	c.mu.Lock()
	sel := []string{}
	c.in.Selected = sel
	res, cb := c.recomputeNowLocked()
	onSel := c.onSelection
	c.mu.Unlock()

	if onSel != nil {
		onSel(sel)
	}
	notifyRecomputed(cb, res)
}

// ExpandAll switches to an explicit expansion list naming every branch.
// Invokes the expansion-changed callback with the final list.
func (c *Controller[T]) ExpandAll() {
	c.mu.Lock()
	if !c.hasTree {
		c.mu.Unlock()
		return
	}
	exp := c.acc.BranchIDs(c.raw)
	c.in.Expanded = exp
	res, cb := c.recomputeNowLocked()
	final := res.Expanded
	onExp := c.onExpansion
	c.mu.Unlock()

	if onExp != nil {
		onExp(final)
	}
	notifyRecomputed(cb, res)
}

// CollapseAll switches to an explicit empty expansion list ("expand none").
// Invokes the expansion-changed callback with the final list.
func (c *Controller[T]) CollapseAll() {
	c.mu.Lock()
	c.in.Expanded = []string{}
	res, cb := c.recomputeNowLocked()
	final := res.Expanded
	onExp := c.onExpansion
	c.mu.Unlock()

	if onExp != nil {
		onExp(final)
	}
	notifyRecomputed(cb, res)
}

// Tree returns the latest annotated tree, or nil before SetTree.
func (c *Controller[T]) Tree() *StatefulNode[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result.Root
}

// Expanded returns the latest resolved expansion list.
func (c *Controller[T]) Expanded() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result.Expanded
}

// Selected returns the current selection list.
func (c *Controller[T]) Selected() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.in.Selected
}

// VisibleLeaf reports whether the leaf id passes the latest visibility
// function. Before any recomputation every leaf is visible.
func (c *Controller[T]) VisibleLeaf(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.visible == nil {
		return true
	}
	return c.visible(id)
}

// SearchTerm returns the most recently set search term, whether or not the
// debounced recomputation for it has fired yet.
func (c *Controller[T]) SearchTerm() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.in.Term
}

// Close cancels any pending debounced recomputation.
func (c *Controller[T]) Close() {
	c.deb.Cancel()
}

// recomputeNowLocked cancels any pending debounced recomputation and runs
// one synchronously. Returns the result and the recomputed callback for the
// caller to invoke after unlocking.
func (c *Controller[T]) recomputeNowLocked() (Result[T], func(Result[T])) {
	c.deb.Cancel()
	return c.recomputeLocked()
}

func (c *Controller[T]) recomputeLocked() (Result[T], func(Result[T])) {
	if !c.hasTree {
		return c.result, nil
	}
	c.refreshVisibilityLocked()
	c.result = Reconcile(c.result.Root, c.acc, c.flags, c.in, c.visible)
	return c.result, c.onRecomputed
}

// refreshVisibilityLocked re-resolves the leaf-visibility function when the
// search term, filtered list, or filter flag changed since it was last built.
func (c *Controller[T]) refreshVisibilityLocked() {
	if !c.visDirty && c.visible != nil {
		return
	}
	term := c.in.Term
	if !c.flags.Searchable {
		term = ""
	}
	c.visible = ResolveVisibility(c.acc, c.raw, VisibilityQuery[T]{
		Term:          term,
		Predicate:     c.predicate,
		Filtered:      c.filteredIDs,
		FilterApplied: c.in.FilterApplied,
	})
	c.visDirty = false
}

func notifyRecomputed[T any](cb func(Result[T]), res Result[T]) {
	if cb != nil {
		cb(res)
	}
}
