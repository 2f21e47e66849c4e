package field

import (
	"sync"
	"unicode"

	"github.com/dshills/keymask/internal/engine/selection"
)

// Buffer is a rune-indexed, in-memory text field.
// Besides implementing FieldHandle it performs the default actions a plain
// text field applies when nothing suppresses them.
type Buffer struct {
	mu        sync.RWMutex
	content   []rune
	anchor    int
	cursor    int
	multiline bool
}

// BufferOption configures a Buffer.
type BufferOption func(*Buffer)

// WithMultiline makes the buffer accept line breaks.
func WithMultiline() BufferOption {
	return func(b *Buffer) {
		b.multiline = true
	}
}

// NewBuffer creates a buffer holding value with the caret at its end.
func NewBuffer(value string, opts ...BufferOption) *Buffer {
	b := &Buffer{content: []rune(value)}
	b.anchor = len(b.content)
	b.cursor = len(b.content)
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Read implements FieldHandle.
func (b *Buffer) Read() selection.State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return selection.State{
		Value:     string(b.content),
		Selection: selection.NewRange(b.anchor, b.cursor),
	}
}

// Text returns the current value.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return string(b.content)
}

// Cursor returns the caret position (the moving end of the selection).
func (b *Buffer) Cursor() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cursor
}

// SetValue implements FieldHandle.
func (b *Buffer) SetValue(value string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.content = []rune(value)
	b.anchor = b.clampPosition(b.anchor)
	b.cursor = b.clampPosition(b.cursor)
}

// SetSelection implements FieldHandle.
func (b *Buffer) SetSelection(r selection.Range) {
	b.mu.Lock()
	defer b.mu.Unlock()
	r = r.Clamp(len(b.content))
	b.anchor = r.From
	b.cursor = r.To
}

// Multiline implements FieldHandle.
func (b *Buffer) Multiline() bool {
	return b.multiline
}

// SelectedText returns the selected runes as a string.
func (b *Buffer) SelectedText() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	start, end := b.selectionRange()
	return string(b.content[start:end])
}

func (b *Buffer) selectionRange() (int, int) {
	if b.anchor <= b.cursor {
		return b.anchor, b.cursor
	}
	return b.cursor, b.anchor
}

func (b *Buffer) clampPosition(pos int) int {
	return max(0, min(pos, len(b.content)))
}

// replace swaps [start, end) for text and collapses the caret after it.
func (b *Buffer) replace(start, end int, text []rune) {
	tail := append([]rune(nil), b.content[end:]...)
	b.content = append(append(b.content[:start], text...), tail...)
	b.cursor = start + len(text)
	b.anchor = b.cursor
}

// InsertText replaces the selection with text.
func (b *Buffer) InsertText(text string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	start, end := b.selectionRange()
	if start == end && text == "" {
		return false
	}
	b.replace(start, end, []rune(text))
	return true
}

// Delete removes the selection, or count runes next to the caret when the
// selection is empty. count > 0 deletes forward, count < 0 backward.
// It reports whether anything was removed.
func (b *Buffer) Delete(count int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	start, end := b.selectionRange()
	if start == end {
		if count > 0 {
			end = b.clampPosition(start + count)
		} else {
			start = b.clampPosition(start + count)
		}
	}
	if start == end {
		return false
	}
	b.replace(start, end, nil)
	return true
}

// DeleteWord removes the selection, or the word before (forward == false)
// or after the caret.
func (b *Buffer) DeleteWord(forward bool) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	start, end := b.selectionRange()
	if start == end {
		if forward {
			end = b.findWordEnd(end)
		} else {
			start = b.findWordStart(start)
		}
	}
	if start == end {
		return false
	}
	b.replace(start, end, nil)
	return true
}

// MoveCursor moves the caret by delta runes, extending the selection when
// extend is true. Without extend a non-empty selection collapses to the
// side the caret moves towards.
func (b *Buffer) MoveCursor(delta int, extend bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !extend && b.anchor != b.cursor {
		start, end := b.selectionRange()
		if delta < 0 {
			b.cursor = start
		} else {
			b.cursor = end
		}
		b.anchor = b.cursor
		return
	}

	b.cursor = b.clampPosition(b.cursor + delta)
	if !extend {
		b.anchor = b.cursor
	}
}

// MoveTo places the caret at pos, extending the selection when extend is
// true.
func (b *Buffer) MoveTo(pos int, extend bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cursor = b.clampPosition(pos)
	if !extend {
		b.anchor = b.cursor
	}
}

// Len returns the value length in runes.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.content)
}

func (b *Buffer) findWordStart(pos int) int {
	for pos > 0 && unicode.IsSpace(b.content[pos-1]) {
		pos--
	}
	for pos > 0 && !unicode.IsSpace(b.content[pos-1]) {
		pos--
	}
	return pos
}

func (b *Buffer) findWordEnd(pos int) int {
	length := len(b.content)
	for pos < length && unicode.IsSpace(b.content[pos]) {
		pos++
	}
	for pos < length && !unicode.IsSpace(b.content[pos]) {
		pos++
	}
	return pos
}
