package history

import (
	"errors"
	"sync"
	"testing"

	"github.com/dshills/keymask/internal/engine/selection"
)

func st(value string, caret int) selection.State {
	return selection.State{Value: value, Selection: selection.Caret(caret)}
}

func TestUpdateSeeds(t *testing.T) {
	h := New()
	if _, ok := h.Current(); ok {
		t.Fatal("new history should have no current state")
	}

	h.Update(st("a", 1))
	cur, ok := h.Current()
	if !ok || !cur.Equal(st("a", 1)) {
		t.Errorf("Current() = %v, %v; want a|1", cur, ok)
	}
	if h.CanUndo() {
		t.Error("seeding should not create an undo entry")
	}
}

func TestUpdateCoalescesEqualStates(t *testing.T) {
	h := New()
	h.Update(st("a", 1))
	h.Update(st("a", 1))
	h.Update(st("a", 1))

	if h.UndoCount() != 0 {
		t.Errorf("UndoCount() = %d, want 0", h.UndoCount())
	}
}

func TestUpdateRecordsSelectionChange(t *testing.T) {
	h := New()
	h.Update(st("ab", 2))
	h.Update(st("ab", 0))

	if h.UndoCount() != 1 {
		t.Fatalf("UndoCount() = %d, want 1", h.UndoCount())
	}
	prev, err := h.Undo()
	if err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if !prev.Equal(st("ab", 2)) {
		t.Errorf("Undo() = %v, want ab|2", prev)
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	h := New()
	states := []selection.State{st("", 0), st("(1", 2), st("(12", 3), st("(123", 4)}
	for _, s := range states {
		h.Update(s)
	}

	for i := len(states) - 2; i >= 0; i-- {
		got, err := h.Undo()
		if err != nil {
			t.Fatalf("Undo() error = %v", err)
		}
		if !got.Equal(states[i]) {
			t.Errorf("Undo() = %v, want %v", got, states[i])
		}
	}
	if _, err := h.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("Undo() on empty stack error = %v, want ErrNothingToUndo", err)
	}

	for i := 1; i < len(states); i++ {
		got, err := h.Redo()
		if err != nil {
			t.Fatalf("Redo() error = %v", err)
		}
		if !got.Equal(states[i]) {
			t.Errorf("Redo() = %v, want %v", got, states[i])
		}
	}
	if _, err := h.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("Redo() on empty stack error = %v, want ErrNothingToRedo", err)
	}

	cur, _ := h.Current()
	if !cur.Equal(states[len(states)-1]) {
		t.Errorf("Current() = %v after full redo", cur)
	}
}

func TestUpdateClearsRedo(t *testing.T) {
	h := New()
	h.Update(st("1", 1))
	h.Update(st("12", 2))

	if _, err := h.Undo(); err != nil {
		t.Fatal(err)
	}
	if !h.CanRedo() {
		t.Fatal("expected redo after undo")
	}

	h.Update(st("13", 2))
	if h.CanRedo() {
		t.Error("new state should clear redo stack")
	}
	if h.UndoCount() != 1 {
		t.Errorf("UndoCount() = %d, want 1", h.UndoCount())
	}
}

func TestUpdateSameAsCurrentKeepsRedo(t *testing.T) {
	h := New()
	h.Update(st("1", 1))
	h.Update(st("12", 2))
	prev, _ := h.Undo()

	// Writing the undone state back to the field reports it again.
	h.Update(prev)
	if h.RedoCount() != 1 {
		t.Errorf("RedoCount() = %d, want 1", h.RedoCount())
	}
}

func TestWithLimit(t *testing.T) {
	h := New(WithLimit(2))
	for i, v := range []string{"a", "ab", "abc", "abcd"} {
		h.Update(st(v, i+1))
	}

	if h.UndoCount() != 2 {
		t.Fatalf("UndoCount() = %d, want 2", h.UndoCount())
	}
	h.Undo()
	got, _ := h.Undo()
	if got.Value != "ab" {
		t.Errorf("oldest reachable state = %q, want %q", got.Value, "ab")
	}
	if h.CanUndo() {
		t.Error("oldest entry should have been dropped")
	}
}

func TestWithLimitIgnoresNonPositive(t *testing.T) {
	h := New(WithLimit(0))
	for i := 0; i < 50; i++ {
		h.Update(st(string(rune('a'+i%26)), i%2))
	}
	if h.UndoCount() != 49 {
		t.Errorf("UndoCount() = %d, want 49", h.UndoCount())
	}
}

func TestClear(t *testing.T) {
	h := New()
	h.Update(st("1", 1))
	h.Update(st("12", 2))
	h.Undo()

	h.Clear()
	if h.CanUndo() || h.CanRedo() {
		t.Error("Clear should empty both stacks")
	}
	if _, ok := h.Current(); ok {
		t.Error("Clear should drop the current state")
	}
}

func TestConcurrentUpdates(t *testing.T) {
	h := New()
	h.Update(st("", 0))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				h.Update(st("x", n*100+j))
				h.UndoCount()
			}
		}(i)
	}
	wg.Wait()

	if h.UndoCount() != 1000 {
		t.Errorf("UndoCount() = %d, want 1000", h.UndoCount())
	}
}
