package intent

import (
	"fmt"

	"github.com/dshills/keymask/internal/input/key"
)

// Channel identifies the stage at which a host delivers an event.
type Channel uint8

const (
	ChannelKeyDown Channel = iota
	ChannelBeforeInput
	ChannelPaste
	ChannelInput
)

// String returns the channel name.
func (c Channel) String() string {
	switch c {
	case ChannelKeyDown:
		return "keydown"
	case ChannelBeforeInput:
		return "beforeinput"
	case ChannelPaste:
		return "paste"
	case ChannelInput:
		return "input"
	default:
		return fmt.Sprintf("Channel(%d)", c)
	}
}

// Event is a single edit intent.
// Handlers receive a pointer so that PreventDefault is visible to the host.
type Event struct {
	// Kind classifies BeforeInput events. Other channels may leave it unset.
	Kind Kind

	// Data is the text carried by insert and paste intents.
	Data string

	// Key is set on KeyDown events.
	Key key.Event

	prevented bool
}

// NewKeyDown creates a KeyDown event.
func NewKeyDown(k key.Event) *Event {
	return &Event{Key: k}
}

// NewIntent creates a BeforeInput event.
func NewIntent(kind Kind, data string) *Event {
	return &Event{Kind: kind, Data: data}
}

// NewPaste creates a Paste event.
func NewPaste(data string) *Event {
	return &Event{Kind: KindInsertFromPaste, Data: data}
}

// PreventDefault suppresses the host's default action for the event.
func (e *Event) PreventDefault() {
	e.prevented = true
}

// DefaultPrevented returns true once any handler called PreventDefault.
func (e *Event) DefaultPrevented() bool {
	return e.prevented
}

// String returns a debug representation of the event.
func (e *Event) String() string {
	if e.Kind == KindNone {
		return fmt.Sprintf("key(%s)", e.Key)
	}
	return fmt.Sprintf("%s(%q)", e.Kind, e.Data)
}
