// Package intent models the edit intents a text field host delivers before
// and after it mutates a field.
//
// A host announces an edit on one of four channels:
//
//   - KeyDown: a raw key press, always delivered first
//   - BeforeInput: a classified edit intent, before the default action
//   - Paste: clipboard text, for hosts without BeforeInput support
//   - Input: notification that the field has already changed
//
// Listeners receive a *Event and may call PreventDefault to suppress the
// host's default action for that intent. Bus is the in-process Source used
// by the terminal host and by tests.
package intent
