package history

import (
	"errors"
	"sync"

	"github.com/dshills/keymask/internal/engine/selection"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// History manages undo/redo state for a single field.
type History struct {
	mu sync.Mutex

	now    selection.State
	seeded bool

	undoStack []selection.State
	redoStack []selection.State

	// 0 means unbounded.
	limit int
}

// Option configures a History.
type Option func(*History)

// WithLimit caps the undo stack at n entries. n <= 0 leaves it unbounded.
func WithLimit(n int) Option {
	return func(h *History) {
		if n > 0 {
			h.limit = n
		}
	}
}

// New creates an empty history.
func New(opts ...Option) *History {
	h := &History{}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Update records state as the current state.
// The first call only seeds the history.
func (h *History) Update(state selection.State) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.seeded {
		h.now = state
		h.seeded = true
		return
	}
	if state.Equal(h.now) {
		return
	}

	h.pushUndoLocked(h.now)
	h.now = state
	h.redoStack = nil
}

func (h *History) pushUndoLocked(state selection.State) {
	h.undoStack = append(h.undoStack, state)
	if h.limit > 0 && len(h.undoStack) > h.limit {
		excess := len(h.undoStack) - h.limit
		h.undoStack = append(h.undoStack[:0], h.undoStack[excess:]...)
	}
}

// Undo steps back to the previous state and returns it.
func (h *History) Undo() (selection.State, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undoStack) == 0 {
		return selection.State{}, ErrNothingToUndo
	}

	prev := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, h.now)
	h.now = prev
	return prev, nil
}

// Redo re-applies the most recently undone state and returns it.
func (h *History) Redo() (selection.State, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redoStack) == 0 {
		return selection.State{}, ErrNothingToRedo
	}

	next := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.pushUndoLocked(h.now)
	h.now = next
	return next, nil
}

// Current returns the current state and whether one has been recorded.
func (h *History) Current() (selection.State, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.now, h.seeded
}

// CanUndo returns true if there are states to undo.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 0
}

// CanRedo returns true if there are states to redo.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undoable states.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// RedoCount returns the number of redoable states.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack)
}

// Clear drops all recorded states. The next Update seeds again.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.undoStack = nil
	h.redoStack = nil
	h.now = selection.State{}
	h.seeded = false
}
