// Package key provides key event types and parsing for masked fields.
//
//   - Key: identifies a keyboard key (editing keys, navigation keys, or runes)
//   - Modifier: the Ctrl, Alt, Shift and Meta modifier bitmask
//   - Event: a single key press with modifiers
//
// Hosts without a native notion of edit intents classify key presses
// themselves; Event reports whether a press produces a character and
// whether it is one of the undo or redo shortcuts.
//
// # Key Specifications
//
// Parse accepts the notation used by tests and configuration files:
//
//   - Simple keys: "a", "A", "1", "Enter", "Backspace"
//   - With modifiers: "Ctrl+Z", "Meta+Shift+Z", "Ctrl+Y"
package key
