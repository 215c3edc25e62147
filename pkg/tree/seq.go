package tree

import "iter"

// Seq is a lazy, finite sequence used to compose id lists (for example
// "current selection ∪ visible leaves, deduped, first-seen order") without
// materializing intermediate slices. It is a thin layer over the standard
// range-over-func iterator shape, so a Seq can be ranged over directly.
type Seq[T comparable] iter.Seq[T]

// FromSlice returns a Seq that yields the elements of s in order.
// The slice is not copied; it must not be mutated while the Seq is in use.
func FromSlice[T comparable](s []T) Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range s {
			if !yield(v) {
				return
			}
		}
	}
}

// Concat returns a Seq yielding all of s followed by each of others in order.
func (s Seq[T]) Concat(others ...Seq[T]) Seq[T] {
	return func(yield func(T) bool) {
		for v := range s {
			if !yield(v) {
				return
			}
		}
		for _, o := range others {
			for v := range o {
				if !yield(v) {
					return
				}
			}
		}
	}
}

// Filter returns a Seq yielding only the elements for which keep is true.
func (s Seq[T]) Filter(keep func(T) bool) Seq[T] {
	return func(yield func(T) bool) {
		for v := range s {
			if !keep(v) {
				continue
			}
			if !yield(v) {
				return
			}
		}
	}
}

// Uniq returns a Seq yielding each distinct element once, keeping the first
// occurrence and its position.
func (s Seq[T]) Uniq() Seq[T] {
	return func(yield func(T) bool) {
		seen := make(map[T]struct{})
		for v := range s {
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			if !yield(v) {
				return
			}
		}
	}
}

// Collect drains the Seq into a slice. A sequence that yields nothing
// returns nil.
func (s Seq[T]) Collect() []T {
	var out []T
	for v := range s {
		out = append(out, v)
	}
	return out
}

// MapSeq returns a Seq yielding f applied to each element of s. It is a
// package function rather than a method because the element type changes.
func MapSeq[T, U comparable](s Seq[T], f func(T) U) Seq[U] {
	return func(yield func(U) bool) {
		for v := range s {
			if !yield(f(v)) {
				return
			}
		}
	}
}
