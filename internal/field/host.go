package field

import (
	"github.com/dshills/keymask/internal/engine/selection"
	"github.com/dshills/keymask/internal/input/intent"
	"github.com/dshills/keymask/internal/input/key"
)

// Host drives a Buffer the way a native text field would: every user
// action is announced on the bus, and the default action runs only when no
// listener prevented it, followed by an Input notification.
//
// When the bus does not support BeforeInput the host behaves like an
// environment that only reports key presses and paste data.
type Host struct {
	buf *Buffer
	bus *intent.Bus
}

// NewHost creates a host for buf delivering events on bus.
func NewHost(buf *Buffer, bus *intent.Bus) *Host {
	return &Host{buf: buf, bus: bus}
}

// Buffer returns the host's buffer.
func (h *Host) Buffer() *Buffer {
	return h.buf
}

// State returns the buffer's current state.
func (h *Host) State() selection.State {
	return h.buf.Read()
}

// KeyPress delivers a single key press.
func (h *Host) KeyPress(e key.Event) {
	if h.bus.Dispatch(intent.ChannelKeyDown, intent.NewKeyDown(e)) {
		return
	}

	extend := e.Modifiers.Has(key.ModShift)
	switch e.Key {
	case key.KeyLeft:
		h.buf.MoveCursor(-1, extend)
		return
	case key.KeyRight:
		h.buf.MoveCursor(1, extend)
		return
	case key.KeyHome, key.KeyUp:
		h.buf.MoveTo(0, extend)
		return
	case key.KeyEnd, key.KeyDown:
		h.buf.MoveTo(h.buf.Len(), extend)
		return
	}

	classified, ok := intent.Classify(e, h.buf.Multiline())
	if !ok {
		return
	}
	h.perform(classified)
}

// Press parses spec (e.g. "Ctrl+Z") and delivers it as a key press.
func (h *Host) Press(spec string) error {
	e, err := key.Parse(spec)
	if err != nil {
		return err
	}
	h.KeyPress(e)
	return nil
}

// Type delivers one key press per rune of text.
func (h *Host) Type(text string) {
	for _, r := range text {
		if r == '\n' {
			h.KeyPress(key.NewSpecialEvent(key.KeyEnter, key.ModNone))
			continue
		}
		h.KeyPress(key.NewRuneEvent(r, key.ModNone))
	}
}

// Backspace delivers a Backspace key press.
func (h *Host) Backspace() {
	h.KeyPress(key.NewSpecialEvent(key.KeyBackspace, key.ModNone))
}

// Delete delivers a Delete key press.
func (h *Host) Delete() {
	h.KeyPress(key.NewSpecialEvent(key.KeyDelete, key.ModNone))
}

// Enter delivers an Enter key press.
func (h *Host) Enter() {
	h.KeyPress(key.NewSpecialEvent(key.KeyEnter, key.ModNone))
}

// Select sets the selection directly, as a mouse drag would.
func (h *Host) Select(from, to int) {
	h.buf.SetSelection(selection.NewRange(from, to))
}

// Paste inserts clipboard text at the selection.
func (h *Host) Paste(text string) {
	if h.bus.SupportsBeforeInput() {
		h.perform(intent.NewIntent(intent.KindInsertFromPaste, text))
		return
	}
	if h.bus.Dispatch(intent.ChannelPaste, intent.NewPaste(text)) {
		return
	}
	h.applyDefault(intent.NewIntent(intent.KindInsertFromPaste, text))
}

// Drop inserts dragged text at rune offset at.
func (h *Host) Drop(text string, at int) {
	if h.bus.SupportsBeforeInput() &&
		h.bus.Dispatch(intent.ChannelBeforeInput, intent.NewIntent(intent.KindInsertFromDrop, text)) {
		return
	}
	h.buf.MoveTo(at, false)
	h.applyDefault(intent.NewIntent(intent.KindInsertFromDrop, text))
}

// Cut removes the selection and returns the removed text.
func (h *Host) Cut() string {
	text := h.buf.SelectedText()
	if text == "" {
		return ""
	}
	if h.bus.SupportsBeforeInput() {
		h.perform(intent.NewIntent(intent.KindDeleteByCut, ""))
	} else {
		h.applyDefault(intent.NewIntent(intent.KindDeleteByCut, ""))
	}
	return text
}

func (h *Host) perform(ev *intent.Event) {
	if h.bus.SupportsBeforeInput() && h.bus.Dispatch(intent.ChannelBeforeInput, ev) {
		return
	}
	h.applyDefault(ev)
}

// applyDefault runs the native action for ev and announces the change.
func (h *Host) applyDefault(ev *intent.Event) {
	var changed bool
	switch ev.Kind {
	case intent.KindInsertText, intent.KindInsertFromPaste, intent.KindInsertFromDrop, intent.KindInsertLineBreak:
		changed = h.buf.InsertText(ev.Data)
	case intent.KindDeleteBackward:
		changed = h.buf.Delete(-1)
	case intent.KindDeleteForward, intent.KindDeleteByCut:
		changed = h.buf.Delete(1)
	case intent.KindDeleteWordBackward:
		changed = h.buf.DeleteWord(false)
	case intent.KindDeleteWordForward:
		changed = h.buf.DeleteWord(true)
	}

	if changed {
		h.bus.Dispatch(intent.ChannelInput, &intent.Event{Kind: ev.Kind, Data: ev.Data})
	}
}
