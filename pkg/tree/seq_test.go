package tree

import (
	"reflect"
	"strings"
	"testing"
)

func TestSeqCollectEmpty(t *testing.T) {
	if got := FromSlice[string](nil).Collect(); got != nil {
		t.Errorf("expected nil from empty seq, got %v", got)
	}
}

func TestSeqConcat(t *testing.T) {
	got := FromSlice([]string{"a", "b"}).
		Concat(FromSlice([]string{"c"}), FromSlice([]string{"d", "e"})).
		Collect()
	want := []string{"a", "b", "c", "d", "e"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Concat = %v, want %v", got, want)
	}
}

func TestSeqUniqKeepsFirstOccurrence(t *testing.T) {
	got := FromSlice([]string{"b", "a", "b", "c", "a"}).Uniq().Collect()
	want := []string{"b", "a", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Uniq = %v, want %v", got, want)
	}
}

func TestSeqFilter(t *testing.T) {
	got := FromSlice([]int{1, 2, 3, 4, 5}).Filter(func(v int) bool { return v%2 == 1 }).Collect()
	want := []int{1, 3, 5}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Filter = %v, want %v", got, want)
	}
}

func TestMapSeq(t *testing.T) {
	got := MapSeq(FromSlice([]string{"a", "b"}), strings.ToUpper).Collect()
	want := []string{"A", "B"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MapSeq = %v, want %v", got, want)
	}
}

// The selection-union composition the engine uses: current selection first,
// then visible leaves, deduped in first-seen order.
func TestSeqSelectionUnion(t *testing.T) {
	selection := []string{"l3", "l1"}
	visibleLeaves := []string{"l1", "l2", "l4"}

	got := FromSlice(selection).
		Concat(FromSlice(visibleLeaves)).
		Uniq().
		Collect()
	want := []string{"l3", "l1", "l2", "l4"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("union = %v, want %v", got, want)
	}
}

func TestSeqIsLazy(t *testing.T) {
	calls := 0
	src := Seq[int](func(yield func(int) bool) {
		for i := 0; i < 100; i++ {
			calls++
			if !yield(i) {
				return
			}
		}
	})

	// Range directly and stop early; the source must not be fully drained.
	for v := range src {
		if v == 2 {
			break
		}
	}
	if calls != 3 {
		t.Errorf("expected 3 yields before early stop, got %d", calls)
	}
}
