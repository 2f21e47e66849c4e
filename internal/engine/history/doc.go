// Package history records field states for undo and redo.
//
// A History holds the current state plus two stacks: past states reachable
// with Undo and future states reachable with Redo. Every committed edit is
// reported through Update:
//
//	h := history.New()
//	h.Update(state)   // first call seeds the current state
//	h.Update(edited)  // previous state moves onto the undo stack
//
//	prev, err := h.Undo()
//	if errors.Is(err, history.ErrNothingToUndo) {
//	    // nothing recorded
//	}
//
// Updating with a state equal to the current one (same value and same
// selection) is a no-op, so repeated notifications coalesce. Any other
// update clears the redo stack.
//
// The undo stack is unbounded unless WithLimit is given, in which case the
// oldest entries are discarded first.
//
// History is safe for concurrent use.
package history
