package backend

import (
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/keymask/internal/input/key"
)

// Terminal implements Backend using tcell for terminal output.
type Terminal struct {
	screen tcell.Screen
	mu     sync.Mutex

	// pasting is set between the start and end of a bracketed paste.
	pasting bool
	paste   strings.Builder
}

// NewTerminal creates a terminal backend on the controlling terminal.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen}, nil
}

// NewTerminalWithScreen creates a terminal backend drawing on screen, such
// as a tcell.SimulationScreen.
func NewTerminalWithScreen(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.EnablePaste()
	return nil
}

func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Fini()
}

func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
}

// DrawText draws text one grapheme cluster per cell group, so wide and
// combining characters take the columns the terminal gives them.
func (t *Terminal) DrawText(x, y int, text string, style Style) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	st := convertStyle(style)
	width, _ := t.screen.Size()

	g := uniseg.NewGraphemes(text)
	for g.Next() && x < width {
		runes := g.Runes()
		t.screen.SetContent(x, y, runes[0], runes[1:], st)
		x += max(g.Width(), 1)
	}
	return x
}

func (t *Terminal) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Show()
}

func (t *Terminal) ShowCursor(x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.ShowCursor(x, y)
}

func (t *Terminal) HideCursor() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.HideCursor()
}

// PollEvent waits for the next event keymask handles. Key presses inside a
// bracketed paste are collected and reported as one EventPaste.
func (t *Terminal) PollEvent() Event {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return Event{Type: EventClosed}
		}
		if out, ok := t.convertEvent(ev); ok {
			return out
		}
	}
}

func (t *Terminal) convertEvent(ev tcell.Event) (Event, bool) {
	switch e := ev.(type) {
	case *tcell.EventPaste:
		if e.Start() {
			t.pasting = true
			t.paste.Reset()
			return Event{}, false
		}
		t.pasting = false
		return Event{Type: EventPaste, Text: t.paste.String()}, true

	case *tcell.EventKey:
		if t.pasting {
			t.collectPaste(e)
			return Event{}, false
		}
		k, ok := convertKey(e)
		if !ok {
			return Event{}, false
		}
		return Event{Type: EventKey, Key: k}, true

	case *tcell.EventResize:
		w, h := e.Size()
		return Event{Type: EventResize, Width: w, Height: h}, true

	default:
		return Event{}, false
	}
}

func (t *Terminal) collectPaste(e *tcell.EventKey) {
	switch e.Key() {
	case tcell.KeyRune:
		t.paste.WriteRune(e.Rune())
	case tcell.KeyEnter, tcell.KeyCtrlJ:
		t.paste.WriteByte('\n')
	case tcell.KeyTab:
		t.paste.WriteByte('\t')
	}
}

// convertKey converts a tcell key press to a key.Event. Control
// combinations tcell reports as KeyCtrlA..KeyCtrlZ become the letter with
// the Ctrl modifier.
func convertKey(e *tcell.EventKey) (key.Event, bool) {
	mods := convertMod(e.Modifiers())

	switch k := e.Key(); k {
	case tcell.KeyRune:
		return key.NewRuneEvent(e.Rune(), mods&^key.ModShift), true
	case tcell.KeyEscape:
		return key.NewSpecialEvent(key.KeyEscape, mods), true
	case tcell.KeyEnter:
		return key.NewSpecialEvent(key.KeyEnter, mods), true
	case tcell.KeyTab:
		return key.NewSpecialEvent(key.KeyTab, mods), true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return key.NewSpecialEvent(key.KeyBackspace, mods), true
	case tcell.KeyDelete:
		return key.NewSpecialEvent(key.KeyDelete, mods), true
	case tcell.KeyHome:
		return key.NewSpecialEvent(key.KeyHome, mods), true
	case tcell.KeyEnd:
		return key.NewSpecialEvent(key.KeyEnd, mods), true
	case tcell.KeyUp:
		return key.NewSpecialEvent(key.KeyUp, mods), true
	case tcell.KeyDown:
		return key.NewSpecialEvent(key.KeyDown, mods), true
	case tcell.KeyLeft:
		return key.NewSpecialEvent(key.KeyLeft, mods), true
	case tcell.KeyRight:
		return key.NewSpecialEvent(key.KeyRight, mods), true
	default:
		if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
			r := 'a' + rune(k-tcell.KeyCtrlA)
			return key.NewRuneEvent(r, mods|key.ModCtrl), true
		}
		return key.Event{}, false
	}
}

// convertMod converts tcell modifier mask to key modifiers.
func convertMod(m tcell.ModMask) key.Modifier {
	var result key.Modifier
	if m&tcell.ModShift != 0 {
		result |= key.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		result |= key.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		result |= key.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		result |= key.ModMeta
	}
	return result
}

// convertStyle converts Style to tcell.Style.
func convertStyle(s Style) tcell.Style {
	style := tcell.StyleDefault
	switch s {
	case StyleDim:
		style = style.Dim(true)
	case StyleReverse:
		style = style.Reverse(true)
	case StyleError:
		style = style.Foreground(tcell.ColorRed)
	case StyleBold:
		style = style.Bold(true)
	}
	return style
}
