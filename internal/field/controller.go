package field

import (
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/keymask/internal/engine/history"
	"github.com/dshills/keymask/internal/engine/mask"
	"github.com/dshills/keymask/internal/engine/selection"
	"github.com/dshills/keymask/internal/input/intent"
	"github.com/dshills/keymask/internal/logging"
)

// Controller keeps one field conformed to its mask.
//
// Intents are handled synchronously on the goroutine that dispatches them.
// A Controller must not receive intents from more than one goroutine.
type Controller struct {
	id      string
	handle  FieldHandle
	opts    Options
	history *history.History
	log     *logging.Logger

	disposers []intent.Disposer
	destroy   sync.Once
	destroyed bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger. The controller adds its own component and id
// fields.
func WithLogger(l *logging.Logger) Option {
	return func(c *Controller) {
		c.log = l
	}
}

// New conforms the field's current value, seeds the history with it and
// starts listening to source.
func New(handle FieldHandle, source intent.Source, opts Options, options ...Option) (*Controller, error) {
	if handle == nil {
		return nil, ErrNilHandle
	}
	if source == nil {
		return nil, ErrNilSource
	}
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	c := &Controller{
		id:      uuid.NewString(),
		handle:  handle,
		opts:    opts,
		history: history.New(history.WithLimit(opts.HistoryLimit)),
		log:     logging.Nop(),
	}
	for _, opt := range options {
		opt(c)
	}
	c.log = c.log.WithComponent("field").WithField("id", c.id)

	c.conformValueToMask()
	c.history.Update(c.read())

	c.disposers = append(c.disposers, source.Listen(intent.ChannelKeyDown, c.handleShortcut))
	if source.SupportsBeforeInput() {
		c.disposers = append(c.disposers, source.Listen(intent.ChannelBeforeInput, c.handleBeforeInput))
	} else {
		c.disposers = append(c.disposers,
			source.Listen(intent.ChannelKeyDown, c.handleKeyDown),
			source.Listen(intent.ChannelPaste, c.handlePaste),
		)
	}
	c.disposers = append(c.disposers, source.Listen(intent.ChannelInput, c.handleInput))

	c.log.Debug("attached (beforeinput=%t)", source.SupportsBeforeInput())
	return c, nil
}

// ID returns the controller's unique id.
func (c *Controller) ID() string {
	return c.id
}

// History returns the controller's history.
func (c *Controller) History() *history.History {
	return c.history
}

// Destroy detaches every listener. The field is left as it is.
// Calling Destroy more than once is a no-op.
func (c *Controller) Destroy() {
	c.destroy.Do(func() {
		c.destroyed = true
		for _, dispose := range c.disposers {
			dispose()
		}
		c.disposers = nil
		c.log.Debug("destroyed")
	})
}

// Undo restores the previous committed state of the field.
func (c *Controller) Undo() error {
	if c.destroyed {
		return ErrDestroyed
	}
	state, err := c.history.Undo()
	if err != nil {
		return err
	}
	c.writeState(state)
	return nil
}

// Redo re-applies the most recently undone state.
func (c *Controller) Redo() error {
	if c.destroyed {
		return ErrDestroyed
	}
	state, err := c.history.Redo()
	if err != nil {
		return err
	}
	c.writeState(state)
	return nil
}

func (c *Controller) read() selection.State {
	return c.handle.Read().Clamp()
}

func (c *Controller) handleShortcut(e *intent.Event) {
	switch {
	case e.Key.IsRedo():
		e.PreventDefault()
		c.logHistoryError(c.Redo())
	case e.Key.IsUndo():
		e.PreventDefault()
		c.logHistoryError(c.Undo())
	}
}

// handleKeyDown classifies raw key presses for sources without
// BeforeInput. Word deletions cannot be told apart there and are handled
// as single-character deletions.
func (c *Controller) handleKeyDown(e *intent.Event) {
	if c.destroyed || e.DefaultPrevented() {
		return
	}
	classified, ok := intent.Classify(e.Key, c.handle.Multiline())
	if !ok {
		return
	}

	switch kind := classified.Kind; {
	case kind.IsDelete():
		c.handleDelete(e, kind.IsForward())
	case kind == intent.KindInsertLineBreak:
		c.handleEnter(e)
	case kind == intent.KindInsertText:
		c.handleInsert(e, classified.Data)
	}
}

func (c *Controller) handlePaste(e *intent.Event) {
	if c.destroyed {
		return
	}
	c.handleInsert(e, e.Data)
}

func (c *Controller) handleBeforeInput(e *intent.Event) {
	if c.destroyed {
		return
	}
	c.history.Update(c.read())

	switch e.Kind {
	case intent.KindHistoryUndo:
		e.PreventDefault()
		c.logHistoryError(c.Undo())
	case intent.KindHistoryRedo:
		e.PreventDefault()
		c.logHistoryError(c.Redo())
	case intent.KindDeleteBackward, intent.KindDeleteWordBackward, intent.KindDeleteByCut:
		c.handleDelete(e, false)
	case intent.KindDeleteForward, intent.KindDeleteWordForward:
		c.handleDelete(e, true)
	case intent.KindInsertFromDrop:
		// The drop position is unknown until the content lands; the
		// following Input notification conforms it.
	case intent.KindInsertLineBreak:
		c.handleEnter(e)
	default:
		c.handleInsert(e, e.Data)
	}
}

func (c *Controller) handleInput(*intent.Event) {
	if c.destroyed {
		return
	}
	c.conformValueToMask()
	c.history.Update(c.read())
}

func (c *Controller) conformValueToMask() {
	in := c.opts.Preprocessor(mask.ProcessorInput{State: c.read()})
	c.writeState(c.opts.postprocess(c.opts.model(in.State.Clamp())))
}

func (c *Controller) handleDelete(e *intent.Event, forward bool) {
	raw := c.read()
	in := c.opts.Preprocessor(mask.ProcessorInput{State: raw})
	state := in.State.Clamp()

	model := c.opts.model(state)
	model.DeleteCharacters(mask.ExtendDeletion(state, c.opts.Definition, forward))
	next := c.opts.postprocess(model)

	// The default action removes one rune from the unprocessed field.
	native := selection.ExtendToNotEmpty(raw.Selection, forward, raw.Len())
	if selection.Splice(raw.Value, native, "") == next.Value {
		return
	}
	e.PreventDefault()

	if selection.ValuesEqual(raw, state, model.State(), next) {
		// Only fixed characters were in the way: step over them.
		caret := native.From
		if forward {
			caret = native.To
		}
		c.updateSelection(selection.Caret(caret))
		return
	}

	c.commit(next)
}

func (c *Controller) handleInsert(e *intent.Event, data string) {
	raw := c.read()
	in := c.opts.Preprocessor(mask.ProcessorInput{Data: data, State: raw})
	state := in.State.Clamp()

	model := c.opts.model(state)
	if err := model.AddCharacters(state.Selection, in.Data); err != nil {
		c.log.Debug("insert %q rejected at %s", in.Data, state.Selection)
		e.PreventDefault()
		return
	}

	next := c.opts.postprocess(model)
	if selection.Splice(raw.Value, raw.Selection, data) != next.Value {
		e.PreventDefault()
		c.commit(next)
	}
}

func (c *Controller) handleEnter(e *intent.Event) {
	if c.handle.Multiline() {
		c.handleInsert(e, "\n")
	}
}

func (c *Controller) commit(state selection.State) {
	c.writeState(state)
	c.history.Update(state)
	c.log.Debug("commit %s", state)
}

func (c *Controller) writeState(state selection.State) {
	c.updateValue(state.Value)
	c.updateSelection(state.Selection)
}

func (c *Controller) updateValue(value string) {
	if c.handle.Read().Value != value {
		c.handle.SetValue(value)
	}
}

func (c *Controller) updateSelection(r selection.Range) {
	if !c.handle.Read().Selection.Equals(r) {
		c.handle.SetSelection(r)
	}
}

func (c *Controller) logHistoryError(err error) {
	if err != nil {
		c.log.Debug("history: %v", err)
	}
}
