package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/keymask/internal/input/key"
)

func TestBusDispatchOrder(t *testing.T) {
	b := NewBus()
	var got []int
	b.Listen(ChannelBeforeInput, func(*Event) { got = append(got, 1) })
	b.Listen(ChannelBeforeInput, func(e *Event) {
		got = append(got, 2)
		e.PreventDefault()
	})
	b.Listen(ChannelInput, func(*Event) { got = append(got, 99) })

	prevented := b.Dispatch(ChannelBeforeInput, NewIntent(KindInsertText, "a"))
	assert.True(t, prevented)
	assert.Equal(t, []int{1, 2}, got)
}

func TestBusDisposerIdempotent(t *testing.T) {
	b := NewBus()
	calls := 0
	dispose := b.Listen(ChannelInput, func(*Event) { calls++ })
	other := b.Listen(ChannelInput, func(*Event) {})

	dispose()
	dispose()
	assert.Equal(t, 1, b.ListenerCount(ChannelInput))

	b.Dispatch(ChannelInput, &Event{})
	assert.Zero(t, calls)

	other()
	assert.Zero(t, b.ListenerCount(ChannelInput))
}

func TestBusDisposeDuringDispatch(t *testing.T) {
	b := NewBus()
	var second Disposer
	secondCalled := false
	b.Listen(ChannelKeyDown, func(*Event) { second() })
	second = b.Listen(ChannelKeyDown, func(*Event) { secondCalled = true })

	b.Dispatch(ChannelKeyDown, NewKeyDown(key.MustParse("a")))
	assert.False(t, secondCalled)
}

func TestBusBeforeInputSupport(t *testing.T) {
	assert.True(t, NewBus().SupportsBeforeInput())
	assert.False(t, NewBus(WithoutBeforeInput()).SupportsBeforeInput())
}

func TestClassify(t *testing.T) {
	tests := []struct {
		spec      string
		multiline bool
		kind      Kind
		data      string
		ok        bool
	}{
		{"a", false, KindInsertText, "a", true},
		{"Space", false, KindInsertText, " ", true},
		{"Backspace", false, KindDeleteBackward, "", true},
		{"Alt+Backspace", false, KindDeleteWordBackward, "", true},
		{"Delete", false, KindDeleteForward, "", true},
		{"Ctrl+Delete", false, KindDeleteWordForward, "", true},
		{"Enter", true, KindInsertLineBreak, "\n", true},
		{"Enter", false, KindNone, "", false},
		{"Ctrl+Z", false, KindHistoryUndo, "", true},
		{"Ctrl+Y", false, KindHistoryRedo, "", true},
		{"Left", false, KindNone, "", false},
		{"Ctrl+A", false, KindNone, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			ev, ok := Classify(key.MustParse(tt.spec), tt.multiline)
			require.Equal(t, tt.ok, ok)
			if !ok {
				assert.Nil(t, ev)
				return
			}
			assert.Equal(t, tt.kind, ev.Kind)
			assert.Equal(t, tt.data, ev.Data)
		})
	}
}

func TestKindPredicates(t *testing.T) {
	assert.True(t, KindInsertFromPaste.IsInsert())
	assert.False(t, KindDeleteByCut.IsInsert())
	assert.True(t, KindDeleteByCut.IsDelete())
	assert.True(t, KindDeleteWordForward.IsForward())
	assert.False(t, KindDeleteByCut.IsForward())
	assert.Equal(t, "deleteContentBackward", KindDeleteBackward.String())
	assert.Equal(t, "paste", ChannelPaste.String())
}
