package field

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/keymask/internal/engine/history"
	"github.com/dshills/keymask/internal/engine/mask"
	"github.com/dshills/keymask/internal/engine/selection"
	"github.com/dshills/keymask/internal/input/intent"
	"github.com/dshills/keymask/internal/logging"
)

var phoneOptions = Options{Definition: mask.Static(mask.MustParse("(999) 999-9999"))}

type fixture struct {
	host *Host
	ctl  *Controller
	bus  *intent.Bus
}

func newFixture(t *testing.T, buf *Buffer, opts Options, busOpts ...intent.BusOption) fixture {
	t.Helper()
	bus := intent.NewBus(busOpts...)
	ctl, err := New(buf, bus, opts)
	require.NoError(t, err)
	t.Cleanup(ctl.Destroy)
	return fixture{host: NewHost(buf, bus), ctl: ctl, bus: bus}
}

func assertState(t *testing.T, h *Host, value string, caret int) {
	t.Helper()
	got := h.State()
	assert.Equal(t, value, got.Value)
	assert.Equal(t, selection.Caret(caret), got.Selection, "selection of %q", got.Value)
}

func TestNewValidation(t *testing.T) {
	bus := intent.NewBus()

	_, err := New(nil, bus, phoneOptions)
	assert.ErrorIs(t, err, ErrNilHandle)

	_, err = New(NewBuffer(""), nil, phoneOptions)
	assert.ErrorIs(t, err, ErrNilSource)

	_, err = New(NewBuffer(""), bus, Options{})
	assert.ErrorIs(t, err, ErrNoDefinition)
}

func TestNewConformsInitialValue(t *testing.T) {
	f := newFixture(t, NewBuffer("5551234567"), phoneOptions)
	assertState(t, f.host, "(555) 123-4567", 14)

	_, ok := f.ctl.History().Current()
	assert.True(t, ok)
	assert.False(t, f.ctl.History().CanUndo())
	assert.NotEmpty(t, f.ctl.ID())
}

func TestTypingPhone(t *testing.T) {
	for _, mode := range []struct {
		name string
		opts []intent.BusOption
	}{
		{"beforeinput", nil},
		{"keys only", []intent.BusOption{intent.WithoutBeforeInput()}},
	} {
		t.Run(mode.name, func(t *testing.T) {
			f := newFixture(t, NewBuffer(""), phoneOptions, mode.opts...)
			f.host.Type("5551234567")
			assertState(t, f.host, "(555) 123-4567", 14)

			f.host.Type("8")
			assertState(t, f.host, "(555) 123-4567", 14)
		})
	}
}

func TestRejectedInsertBlocksDefault(t *testing.T) {
	f := newFixture(t, NewBuffer(""), phoneOptions)
	f.host.Type("12")
	assertState(t, f.host, "(12", 3)

	f.host.Type("x")
	assertState(t, f.host, "(12", 3)
}

func TestRejectedInsertsCoalesceHistory(t *testing.T) {
	f := newFixture(t, NewBuffer(""), phoneOptions)
	f.host.Type("ab")

	assertState(t, f.host, "", 0)
	assert.Zero(t, f.ctl.History().UndoCount())
}

func TestLiteralOnlyMaskIsUnchangeable(t *testing.T) {
	f := newFixture(t, NewBuffer(""), Options{Definition: mask.Static(mask.Literal("+7-"))})
	before := f.host.State()
	assert.Equal(t, "+7-", before.Value)

	f.host.Type("17+")
	f.host.Paste("123")
	assert.True(t, f.host.State().Equal(before))
}

func TestBackspaceDeletionFloor(t *testing.T) {
	f := newFixture(t, NewBuffer(""), phoneOptions)
	f.host.Type("123")
	assertState(t, f.host, "(123", 4)

	f.host.Backspace()
	assertState(t, f.host, "(12", 3)

	f.host.Backspace()
	f.host.Backspace()
	assertState(t, f.host, "", 0)
}

func TestBackspaceOverFixedMovesCaretOnly(t *testing.T) {
	f := newFixture(t, NewBuffer(""), phoneOptions)
	f.host.Type("1")
	require.NoError(t, f.host.Press("Left"))
	assertState(t, f.host, "(1", 1)
	undoBefore := f.ctl.History().UndoCount()

	f.host.Backspace()
	assertState(t, f.host, "(1", 0)
	assert.Equal(t, undoBefore+1, f.ctl.History().UndoCount(), "only the caret move is recorded")
}

func TestDeleteForwardOverFixed(t *testing.T) {
	f := newFixture(t, NewBuffer(""), phoneOptions)
	f.host.Type("1234")
	f.host.Select(4, 4)

	f.host.Delete()
	assertState(t, f.host, "(123", 4)
}

func TestBackspaceExtendsAcrossSeparator(t *testing.T) {
	f := newFixture(t, NewBuffer("12-"), Options{Definition: mask.Static(mask.MustParse("99-99"))})
	assertState(t, f.host, "12-", 3)

	f.host.Backspace()
	assertState(t, f.host, "1", 1)
}

func TestTypingSeparatorAutoInserts(t *testing.T) {
	f := newFixture(t, NewBuffer(""), Options{Definition: mask.Static(mask.MustParse("99-99"))})
	f.host.Type("123")
	assertState(t, f.host, "12-3", 4)

	f.host.Backspace()
	assertState(t, f.host, "12", 2)
}

func TestTypingLiteralStepsOverIt(t *testing.T) {
	f := newFixture(t, NewBuffer(""), phoneOptions)
	f.host.Type("1234")
	assertState(t, f.host, "(123) 4", 7)

	for i := 0; i < 3; i++ {
		require.NoError(t, f.host.Press("Left"))
	}
	f.host.Type(")")
	assertState(t, f.host, "(123) 4", 6)
}

func TestPaste(t *testing.T) {
	t.Run("beforeinput", func(t *testing.T) {
		f := newFixture(t, NewBuffer(""), phoneOptions)
		f.host.Paste("5551234567")
		assertState(t, f.host, "(555) 123-4567", 14)
	})

	t.Run("keys only", func(t *testing.T) {
		f := newFixture(t, NewBuffer(""), phoneOptions, intent.WithoutBeforeInput())
		f.host.Paste("5551234567")
		assertState(t, f.host, "(555) 123-4567", 14)
	})

	t.Run("formatted paste is rejected by default", func(t *testing.T) {
		f := newFixture(t, NewBuffer(""), phoneOptions)
		f.host.Paste("555-123-4567")
		assertState(t, f.host, "", 0)
	})

	t.Run("filtered policy keeps placeable runes", func(t *testing.T) {
		opts := phoneOptions
		opts.Policy = mask.InsertFiltered
		f := newFixture(t, NewBuffer(""), opts)
		f.host.Paste("555-123-4567")
		assertState(t, f.host, "(555) 123-4567", 14)
	})
}

func TestDropConformsAfterLanding(t *testing.T) {
	f := newFixture(t, NewBuffer(""), phoneOptions)
	f.host.Drop("123", 0)
	assertState(t, f.host, "(123", 4)
	assert.Equal(t, 1, f.ctl.History().UndoCount())
}

func TestCut(t *testing.T) {
	f := newFixture(t, NewBuffer(""), phoneOptions)
	f.host.Type("123456")
	assertState(t, f.host, "(123) 456", 9)

	f.host.Select(1, 4)
	assert.Equal(t, "123", f.host.Cut())
	assertState(t, f.host, "(456", 1)

	assert.Empty(t, f.host.Cut(), "nothing selected")
}

func TestEnter(t *testing.T) {
	lines := Options{Definition: mask.Static(mask.RegExp(regexp.MustCompile(`^[a-z\n]*$`)))}

	t.Run("multiline inserts line break", func(t *testing.T) {
		f := newFixture(t, NewBuffer("", WithMultiline()), lines)
		f.host.Type("ab")
		f.host.Enter()
		f.host.Type("c")
		assertState(t, f.host, "ab\nc", 4)
	})

	t.Run("single line ignores it", func(t *testing.T) {
		f := newFixture(t, NewBuffer(""), lines)
		f.host.Type("ab")
		f.host.Enter()
		assertState(t, f.host, "ab", 2)
	})

	t.Run("mask rejects line break", func(t *testing.T) {
		f := newFixture(t, NewBuffer("", WithMultiline()), phoneOptions)
		f.host.Type("1")
		f.host.Enter()
		assertState(t, f.host, "(1", 2)
	})
}

func TestUndoRedoRoundTrip(t *testing.T) {
	f := newFixture(t, NewBuffer(""), phoneOptions)
	f.host.Type("123")
	final := f.host.State()

	for i := 0; i < 3; i++ {
		require.NoError(t, f.host.Press("Ctrl+Z"))
	}
	assertState(t, f.host, "", 0)

	require.NoError(t, f.host.Press("Ctrl+Z"))
	assertState(t, f.host, "", 0)

	require.NoError(t, f.host.Press("Ctrl+Y"))
	require.NoError(t, f.host.Press("Meta+Shift+Z"))
	require.NoError(t, f.host.Press("Ctrl+Shift+Z"))
	assert.True(t, f.host.State().Equal(final))

	require.NoError(t, f.host.Press("Ctrl+Y"))
	assert.True(t, f.host.State().Equal(final))
}

func TestUndoRedoMethods(t *testing.T) {
	f := newFixture(t, NewBuffer(""), phoneOptions, intent.WithoutBeforeInput())
	f.host.Type("12")

	require.NoError(t, f.ctl.Undo())
	assertState(t, f.host, "(1", 2)
	require.NoError(t, f.ctl.Undo())
	assertState(t, f.host, "", 0)
	assert.ErrorIs(t, f.ctl.Undo(), history.ErrNothingToUndo)

	require.NoError(t, f.ctl.Redo())
	require.NoError(t, f.ctl.Redo())
	assertState(t, f.host, "(12", 3)
	assert.ErrorIs(t, f.ctl.Redo(), history.ErrNothingToRedo)
}

func TestEditAfterUndoDropsRedo(t *testing.T) {
	f := newFixture(t, NewBuffer(""), phoneOptions)
	f.host.Type("12")
	require.NoError(t, f.ctl.Undo())

	f.host.Type("9")
	assertState(t, f.host, "(19", 3)
	assert.False(t, f.ctl.History().CanRedo())
}

func TestHistoryLimit(t *testing.T) {
	opts := phoneOptions
	opts.HistoryLimit = 2
	f := newFixture(t, NewBuffer(""), opts)
	f.host.Type("1234")

	assert.Equal(t, 2, f.ctl.History().UndoCount())
}

func TestProcessors(t *testing.T) {
	upper := mask.MustParse("XXX", mask.WithToken('X', mask.MustClass("[A-Z]")))

	t.Run("preprocessor rewrites data", func(t *testing.T) {
		f := newFixture(t, NewBuffer(""), Options{
			Definition: mask.Static(upper),
			Preprocessor: func(in mask.ProcessorInput) mask.ProcessorInput {
				in.Data = strings.ToUpper(in.Data)
				return in
			},
		})
		f.host.Type("abc")
		assertState(t, f.host, "ABC", 3)
	})

	t.Run("postprocessor rewrites result", func(t *testing.T) {
		f := newFixture(t, NewBuffer(""), Options{
			Definition: mask.Static(mask.MustParse("aaa")),
			Postprocessor: func(s selection.State) selection.State {
				s.Value = strings.ToUpper(s.Value)
				return s
			},
		})
		f.host.Type("abc")
		assertState(t, f.host, "ABC", 3)
	})

	t.Run("postprocessor output is clamped", func(t *testing.T) {
		f := newFixture(t, NewBuffer(""), Options{
			Definition: mask.Static(mask.MustParse("999")),
			Postprocessor: func(s selection.State) selection.State {
				s.Selection = selection.Range{From: 50, To: 60}
				return s
			},
		})
		f.host.Type("12")
		assertState(t, f.host, "12", 2)
	})
}

func TestDestroy(t *testing.T) {
	f := newFixture(t, NewBuffer(""), phoneOptions)
	f.ctl.Destroy()
	f.ctl.Destroy()

	for _, ch := range []intent.Channel{intent.ChannelKeyDown, intent.ChannelBeforeInput, intent.ChannelPaste, intent.ChannelInput} {
		assert.Zero(t, f.bus.ListenerCount(ch), "channel %s", ch)
	}

	f.host.Type("ab")
	assertState(t, f.host, "ab", 2)
	assert.ErrorIs(t, f.ctl.Undo(), ErrDestroyed)
}

func TestSelectionAlwaysInBounds(t *testing.T) {
	f := newFixture(t, NewBuffer(""), phoneOptions)
	check := func() {
		s := f.host.State()
		n := s.Len()
		require.True(t, 0 <= s.Selection.From && s.Selection.From <= s.Selection.To && s.Selection.To <= n, "bad state %s", s)
	}

	actions := []func(){
		func() { f.host.Type("12345") },
		func() { f.host.Select(2, 9) },
		func() { f.host.Backspace() },
		func() { f.host.Select(0, 0) },
		func() { f.host.Delete() },
		func() { f.host.Paste("99999999999") },
		func() { f.host.Select(20, 1) },
		func() { f.host.Cut() },
		func() { _ = f.ctl.Undo() },
		func() { _ = f.ctl.Redo() },
		func() { f.host.Type("x") },
	}
	for _, act := range actions {
		act()
		check()
	}
}

func TestControllerLogs(t *testing.T) {
	var out bytes.Buffer
	logger := logging.New(logging.Config{Level: logging.LevelDebug, Output: &out})

	bus := intent.NewBus()
	buf := NewBuffer("")
	ctl, err := New(buf, bus, phoneOptions, WithLogger(logger))
	require.NoError(t, err)
	defer ctl.Destroy()

	NewHost(buf, bus).Type("1x")
	log := out.String()
	assert.Contains(t, log, "component=field")
	assert.Contains(t, log, "id="+ctl.ID())
	assert.Contains(t, log, "commit")
	assert.Contains(t, log, `insert "x" rejected`)
}

func TestConform(t *testing.T) {
	got, err := Conform(selection.State{Value: "5551234567", Selection: selection.Caret(10)}, phoneOptions)
	require.NoError(t, err)
	assert.Equal(t, "(555) 123-4567", got.Value)

	_, err = Conform(selection.State{}, Options{})
	assert.ErrorIs(t, err, ErrNoDefinition)
}
