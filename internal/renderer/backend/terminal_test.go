package backend

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keymask/internal/input/key"
)

func newSimTerminal(t *testing.T) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("")
	term := NewTerminalWithScreen(screen)
	if err := term.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	screen.SetSize(20, 3)
	t.Cleanup(term.Shutdown)
	return term, screen
}

func TestTerminal_Keys(t *testing.T) {
	tests := []struct {
		name string
		key  tcell.Key
		r    rune
		mod  tcell.ModMask
		want string
	}{
		{"rune", tcell.KeyRune, '7', tcell.ModNone, "7"},
		{"upper rune", tcell.KeyRune, 'A', tcell.ModNone, "A"},
		{"alt rune", tcell.KeyRune, 'b', tcell.ModAlt, "Alt+b"},
		{"ctrl z", tcell.KeyCtrlZ, 0, tcell.ModCtrl, "Ctrl+z"},
		{"ctrl y", tcell.KeyCtrlY, 0, tcell.ModCtrl, "Ctrl+y"},
		{"backspace", tcell.KeyBackspace2, 0, tcell.ModNone, "Backspace"},
		{"alt backspace", tcell.KeyBackspace2, 0, tcell.ModAlt, "Alt+Backspace"},
		{"delete", tcell.KeyDelete, 0, tcell.ModNone, "Delete"},
		{"enter", tcell.KeyEnter, 0, tcell.ModNone, "Enter"},
		{"shift left", tcell.KeyLeft, 0, tcell.ModShift, "Shift+Left"},
		{"escape", tcell.KeyEscape, 0, tcell.ModNone, "Escape"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term, screen := newSimTerminal(t)
			screen.InjectKey(tt.key, tt.r, tt.mod)

			ev := term.PollEvent()
			if ev.Type != EventKey {
				t.Fatalf("Type = %d, want EventKey", ev.Type)
			}
			if got := ev.Key.String(); got != tt.want {
				t.Errorf("Key = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTerminal_UndoRedoKeys(t *testing.T) {
	term, screen := newSimTerminal(t)

	screen.InjectKey(tcell.KeyCtrlZ, 0, tcell.ModCtrl)
	if ev := term.PollEvent(); !ev.Key.IsUndo() {
		t.Errorf("Ctrl+Z = %s, want undo", ev.Key)
	}

	screen.InjectKey(tcell.KeyCtrlZ, 0, tcell.ModCtrl|tcell.ModShift)
	if ev := term.PollEvent(); !ev.Key.IsRedo() {
		t.Errorf("Ctrl+Shift+Z = %s, want redo", ev.Key)
	}
}

func TestTerminal_Paste(t *testing.T) {
	term, screen := newSimTerminal(t)

	if err := screen.PostEvent(tcell.NewEventPaste(true)); err != nil {
		t.Fatal(err)
	}
	screen.InjectKey(tcell.KeyRune, '5', tcell.ModNone)
	screen.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, '6', tcell.ModNone)
	if err := screen.PostEvent(tcell.NewEventPaste(false)); err != nil {
		t.Fatal(err)
	}
	screen.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)

	ev := term.PollEvent()
	if ev.Type != EventPaste || ev.Text != "5\n6" {
		t.Errorf("PollEvent() = %+v, want paste of %q", ev, "5\n6")
	}

	ev = term.PollEvent()
	if ev.Type != EventKey || ev.Key.Rune != 'x' {
		t.Errorf("PollEvent() after paste = %+v, want key x", ev)
	}
}

func TestTerminal_Resize(t *testing.T) {
	term, screen := newSimTerminal(t)

	if err := screen.PostEvent(tcell.NewEventResize(30, 5)); err != nil {
		t.Fatal(err)
	}
	ev := term.PollEvent()
	if ev.Type != EventResize || ev.Width != 30 || ev.Height != 5 {
		t.Errorf("PollEvent() = %+v, want resize 30x5", ev)
	}
}

func TestTerminal_DrawText(t *testing.T) {
	term, screen := newSimTerminal(t)

	end := term.DrawText(1, 0, "a漢b", StyleNormal)
	if end != 5 {
		t.Errorf("DrawText() = %d, want 5", end)
	}
	term.ShowCursor(end, 0)
	term.Show()

	cells, width, _ := screen.GetContents()
	want := map[int]rune{1: 'a', 2: '漢', 4: 'b'}
	for x, r := range want {
		cell := cells[x]
		if len(cell.Runes) == 0 || cell.Runes[0] != r {
			t.Errorf("cell %d = %q, want %q", x, cell.Runes, r)
		}
	}
	if width != 20 {
		t.Errorf("width = %d, want 20", width)
	}

	x, y, visible := screen.GetCursor()
	if x != 5 || y != 0 || !visible {
		t.Errorf("GetCursor() = %d,%d,%t, want 5,0,true", x, y, visible)
	}
}

func TestTerminal_DrawTextClipsAtEdge(t *testing.T) {
	term, _ := newSimTerminal(t)

	if end := term.DrawText(18, 0, "abcd", StyleDim); end != 20 {
		t.Errorf("DrawText() = %d, want 20", end)
	}
}

func TestConvertKeyIgnoresUnknown(t *testing.T) {
	if _, ok := convertKey(tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone)); ok {
		t.Error("F5 should not convert")
	}
}

var _ Backend = (*Terminal)(nil)

func TestKeyRoundTrip(t *testing.T) {
	k, ok := convertKey(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone))
	if !ok || !k.Equals(key.NewRuneEvent('q', key.ModNone)) {
		t.Errorf("convertKey(q) = %v, %t", k, ok)
	}
}
