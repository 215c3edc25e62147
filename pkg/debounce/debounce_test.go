package debounce

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerCoalescesRapidTriggers(t *testing.T) {
	d := New(50 * time.Millisecond)

	var callCount atomic.Int32

	// Trigger rapidly 10 times
	for i := 0; i < 10; i++ {
		d.Trigger(func() {
			callCount.Add(1)
		})
		time.Sleep(10 * time.Millisecond)
	}

	// Wait for debounce to complete
	time.Sleep(100 * time.Millisecond)

	if count := callCount.Load(); count != 1 {
		t.Errorf("expected 1 callback invocation, got %d", count)
	}
}

func TestDebouncerLastTriggerWins(t *testing.T) {
	d := New(50 * time.Millisecond)

	var got atomic.Int32
	d.Trigger(func() { got.Store(1) })
	d.Trigger(func() { got.Store(2) })

	time.Sleep(100 * time.Millisecond)

	if v := got.Load(); v != 2 {
		t.Errorf("expected the last trigger's callback, got marker %d", v)
	}
}

func TestDebouncerCancel(t *testing.T) {
	d := New(50 * time.Millisecond)

	var called atomic.Bool

	d.Trigger(func() {
		called.Store(true)
	})

	// Cancel before debounce completes
	d.Cancel()

	time.Sleep(100 * time.Millisecond)

	if called.Load() {
		t.Error("callback should not have been invoked after cancel")
	}
}

func TestDebouncerReusableAfterCancel(t *testing.T) {
	d := New(20 * time.Millisecond)

	var called atomic.Bool
	d.Trigger(func() {})
	d.Cancel()
	d.Trigger(func() { called.Store(true) })

	time.Sleep(80 * time.Millisecond)

	if !called.Load() {
		t.Error("debouncer should keep working after Cancel")
	}
}

func TestDebouncerDefaultDuration(t *testing.T) {
	d := New(0)
	if d.Duration() != DefaultDuration {
		t.Errorf("expected default duration %v, got %v", DefaultDuration, d.Duration())
	}
}
