package app

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/keymask/internal/engine/mask"
	"github.com/dshills/keymask/internal/field"
	"github.com/dshills/keymask/internal/input/key"
	"github.com/dshills/keymask/internal/renderer/backend"
)

func phoneOptions() field.Options {
	return field.Options{Definition: mask.Static(mask.MustParse("(999) 999-9999"))}
}

func newSimApp(t *testing.T, opts Options) (*Application, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("")
	term := backend.NewTerminalWithScreen(sim)
	require.NoError(t, term.Init())
	sim.SetSize(40, 5)
	t.Cleanup(term.Shutdown)

	app, err := New(term, opts)
	require.NoError(t, err)
	return app, sim
}

func screenRow(sim tcell.SimulationScreen, y int) string {
	cells, width, _ := sim.GetContents()
	var b strings.Builder
	for x := 0; x < width; x++ {
		cell := cells[y*width+x]
		if len(cell.Runes) == 0 {
			b.WriteByte(' ')
			continue
		}
		b.WriteString(string(cell.Runes))
	}
	return strings.TrimRight(b.String(), " ")
}

func injectText(sim tcell.SimulationScreen, text string) {
	for _, r := range text {
		sim.InjectKey(tcell.KeyRune, r, tcell.ModNone)
	}
}

func TestNewValidation(t *testing.T) {
	_, err := New(nil, Options{Field: phoneOptions()})
	assert.ErrorIs(t, err, ErrNoBackend)

	term := backend.NewTerminalWithScreen(tcell.NewSimulationScreen(""))
	_, err = New(term, Options{})
	assert.ErrorIs(t, err, field.ErrNoDefinition)
}

func TestLoopSubmit(t *testing.T) {
	app, sim := newSimApp(t, Options{Label: "Phone", Field: phoneOptions()})

	injectText(sim, "555x123")
	sim.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)

	require.NoError(t, app.loop())
	assert.Equal(t, "(555) 123", app.Value())
}

func TestLoopQuit(t *testing.T) {
	app, sim := newSimApp(t, Options{Field: phoneOptions()})

	injectText(sim, "12")
	sim.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)

	assert.ErrorIs(t, app.loop(), ErrQuit)
	assert.Equal(t, "(12", app.Value())
}

func TestLoopCtrlC(t *testing.T) {
	app, sim := newSimApp(t, Options{Field: phoneOptions()})
	sim.InjectKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)
	assert.ErrorIs(t, app.loop(), ErrQuit)
}

func TestLoopUndo(t *testing.T) {
	app, sim := newSimApp(t, Options{Field: phoneOptions()})

	injectText(sim, "123")
	sim.InjectKey(tcell.KeyCtrlZ, 0, tcell.ModCtrl)
	sim.InjectKey(tcell.KeyCtrlD, 0, tcell.ModCtrl)

	require.NoError(t, app.loop())
	assert.Equal(t, "(12", app.Value())
}

func TestDraw(t *testing.T) {
	app, sim := newSimApp(t, Options{Label: "Phone", Value: "5551", Field: phoneOptions()})

	app.draw()

	assert.Equal(t, "Phone", screenRow(sim, 0))
	assert.Equal(t, "> (555) 1", screenRow(sim, 1))
	assert.Equal(t, "undo 0  redo 0", screenRow(sim, 4))

	x, y, visible := sim.GetCursor()
	assert.True(t, visible)
	assert.Equal(t, 2+len("(555) 1"), x)
	assert.Equal(t, 1, y)
}

func TestRejectedStatus(t *testing.T) {
	app, sim := newSimApp(t, Options{Field: phoneOptions()})

	require.NoError(t, app.handleEvent(backend.Event{Type: backend.EventKey, Key: key.NewRuneEvent('x', key.ModNone)}))
	app.draw()
	assert.Equal(t, "rejected 'x'  |  undo 0  redo 0", screenRow(sim, 4))

	require.NoError(t, app.handleEvent(backend.Event{Type: backend.EventKey, Key: key.NewRuneEvent('5', key.ModNone)}))
	app.draw()
	assert.Equal(t, "undo 1  redo 0", screenRow(sim, 4))
}

func TestPasteEvent(t *testing.T) {
	for _, keysOnly := range []bool{false, true} {
		app, _ := newSimApp(t, Options{Field: phoneOptions(), KeysOnly: keysOnly})

		require.NoError(t, app.handleEvent(backend.Event{Type: backend.EventPaste, Text: "5551234567"}))
		assert.Equal(t, "(555) 123-4567", app.Value(), "keysOnly=%t", keysOnly)
	}
}

func TestKeysOnlyTyping(t *testing.T) {
	app, _ := newSimApp(t, Options{Field: phoneOptions(), KeysOnly: true})

	for _, r := range "12a3" {
		require.NoError(t, app.handleEvent(backend.Event{Type: backend.EventKey, Key: key.NewRuneEvent(r, key.ModNone)}))
	}
	assert.Equal(t, "(123", app.Value())
}

func TestMultilineEnter(t *testing.T) {
	opts := field.Options{Definition: mask.Static(mask.RegExp(mustRegexp(t, `^[a-z\n]*$`)))}
	app, sim := newSimApp(t, Options{Field: opts, Multiline: true})

	for _, k := range []key.Event{
		key.NewRuneEvent('a', key.ModNone),
		key.NewSpecialEvent(key.KeyEnter, key.ModNone),
		key.NewRuneEvent('b', key.ModNone),
	} {
		require.NoError(t, app.handleEvent(backend.Event{Type: backend.EventKey, Key: k}))
	}
	assert.Equal(t, "a\nb", app.Value())

	app.draw()
	assert.Equal(t, "> a", screenRow(sim, 0))
	assert.Equal(t, "  b", screenRow(sim, 1))
	x, y, _ := sim.GetCursor()
	assert.Equal(t, 3, x)
	assert.Equal(t, 1, y)
}

func TestReload(t *testing.T) {
	five := field.Options{Definition: mask.Static(mask.MustParse("99999"))}
	app, _ := newSimApp(t, Options{Value: "12345", Field: five})
	assert.Equal(t, "12345", app.Value())

	app.Reload(field.Options{Definition: mask.Static(mask.MustParse("99-999"))})
	app.applyReload(<-app.reloads)
	assert.Equal(t, "12-345", app.Value())
	assert.Equal(t, "mask reloaded", app.status)

	app.Reload(field.Options{})
	app.applyReload(<-app.reloads)
	assert.True(t, app.statusErr)
	assert.Equal(t, "12-345", app.Value())
}

func TestReloadKeepsLatest(t *testing.T) {
	app, _ := newSimApp(t, Options{Field: phoneOptions()})

	app.Reload(field.Options{})
	latest := field.Options{Definition: mask.Static(mask.MustParse("9"))}
	app.Reload(latest)

	got := <-app.reloads
	assert.NotNil(t, got.Definition)
	assert.Len(t, app.reloads, 0)
}

func TestCaretPosition(t *testing.T) {
	tests := []struct {
		value string
		caret int
		row   int
		col   int
	}{
		{"", 0, 0, 0},
		{"abc", 2, 0, 2},
		{"ab\ncd", 4, 1, 1},
		{"ab\ncd", 3, 1, 0},
		{"漢字", 1, 0, 2},
		{"abc", 9, 0, 3},
	}

	for _, tt := range tests {
		row, col := caretPosition(tt.value, tt.caret)
		assert.Equal(t, tt.row, row, "%q@%d", tt.value, tt.caret)
		assert.Equal(t, tt.col, col, "%q@%d", tt.value, tt.caret)
	}
}

func TestConformLines(t *testing.T) {
	var out bytes.Buffer
	err := ConformLines(strings.NewReader("5551234567\n12\n\n"), &out, phoneOptions())
	require.NoError(t, err)
	assert.Equal(t, "(555) 123-4567\n(12\n\n", out.String())

	err = ConformLines(strings.NewReader("x\n"), &out, field.Options{})
	assert.ErrorIs(t, err, field.ErrNoDefinition)
}

func mustRegexp(t *testing.T, expr string) *regexp.Regexp {
	t.Helper()
	re, err := regexp.Compile(expr)
	require.NoError(t, err)
	return re
}

func TestStop(t *testing.T) {
	app, _ := newSimApp(t, Options{Field: phoneOptions()})

	app.Stop()
	app.Stop()
	assert.ErrorIs(t, app.loop(), ErrQuit)
}

func TestRunTwice(t *testing.T) {
	app, _ := newSimApp(t, Options{Field: phoneOptions()})
	app.running.Store(true)
	assert.ErrorIs(t, app.Run(), ErrAlreadyRunning)
}
