package app

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rivo/uniseg"

	"github.com/dshills/keymask/internal/engine/selection"
	"github.com/dshills/keymask/internal/field"
	"github.com/dshills/keymask/internal/input/intent"
	"github.com/dshills/keymask/internal/input/key"
	"github.com/dshills/keymask/internal/logging"
	"github.com/dshills/keymask/internal/renderer/backend"
)

// prompt precedes the field on screen.
const prompt = "> "

// Options configures the application.
type Options struct {
	// Label is drawn above the field.
	Label string

	// Value is the field's initial content.
	Value string

	// Field configures the mask.
	Field field.Options

	// Multiline lets Enter insert line breaks. Ctrl+D submits.
	Multiline bool

	// KeysOnly delivers raw key presses instead of edit intents, as an
	// environment without BeforeInput would.
	KeysOnly bool

	// Logger receives controller and application logs.
	Logger *logging.Logger
}

// Application drives one masked field on a terminal backend.
type Application struct {
	mu sync.Mutex

	backend backend.Backend
	opts    Options
	log     *logging.Logger

	buf  *field.Buffer
	bus  *intent.Bus
	host *field.Host
	ctrl *field.Controller

	status    string
	statusErr bool

	running  atomic.Bool
	reloads  chan field.Options
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// New creates an application drawing on b.
func New(b backend.Backend, opts Options) (*Application, error) {
	if b == nil {
		return nil, ErrNoBackend
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}

	var bufOpts []field.BufferOption
	if opts.Multiline {
		bufOpts = append(bufOpts, field.WithMultiline())
	}
	var busOpts []intent.BusOption
	if opts.KeysOnly {
		busOpts = append(busOpts, intent.WithoutBeforeInput())
	}

	app := &Application{
		backend: b,
		opts:    opts,
		log:     opts.Logger.WithComponent("app"),
		buf:     field.NewBuffer(opts.Value, bufOpts...),
		bus:     intent.NewBus(busOpts...),
		reloads: make(chan field.Options, 1),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	app.host = field.NewHost(app.buf, app.bus)

	if err := app.attach(opts.Field); err != nil {
		return nil, err
	}
	return app, nil
}

func (app *Application) attach(opts field.Options) error {
	ctrl, err := field.New(app.buf, app.bus, opts, field.WithLogger(app.opts.Logger))
	if err != nil {
		return err
	}
	app.ctrl = ctrl
	return nil
}

// Value returns the field's current value.
func (app *Application) Value() string {
	return app.buf.Text()
}

// State returns the field's current value and selection.
func (app *Application) State() selection.State {
	return app.buf.Read()
}

// Reload replaces the mask. The current value is re-conformed to it and
// the undo history starts over. Safe to call from any goroutine.
func (app *Application) Reload(opts field.Options) {
	select {
	case app.reloads <- opts:
	default:
		// A newer reload replaces one that has not been applied yet.
		select {
		case <-app.reloads:
		default:
		}
		app.reloads <- opts
	}
}

// Stop makes Run return ErrQuit. Safe to call from any goroutine and more
// than once.
func (app *Application) Stop() {
	app.stopOnce.Do(func() {
		close(app.stop)
	})
}

// Run initializes the backend and processes events until the user submits
// (nil) or quits (ErrQuit).
func (app *Application) Run() error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	if err := app.backend.Init(); err != nil {
		app.running.Store(false)
		return fmt.Errorf("init backend: %w", err)
	}
	defer app.backend.Shutdown()

	return app.loop()
}

func (app *Application) loop() error {
	defer close(app.done)
	app.draw()

	events := app.startInputPolling()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return ErrQuit
			}
			if err := app.handleEvent(ev); err != nil {
				if errors.Is(err, errSubmit) {
					app.log.Info("submitted %q", app.Value())
					return nil
				}
				return err
			}
		case opts := <-app.reloads:
			app.applyReload(opts)
		case <-app.stop:
			return ErrQuit
		}
		app.draw()
	}
}

func (app *Application) startInputPolling() <-chan backend.Event {
	events := make(chan backend.Event, 16)

	go func() {
		defer close(events)
		for {
			ev := app.backend.PollEvent()
			if ev.Type == backend.EventClosed {
				return
			}
			select {
			case events <- ev:
			case <-app.done:
				return
			}
		}
	}()

	return events
}

func (app *Application) applyReload(opts field.Options) {
	app.mu.Lock()
	defer app.mu.Unlock()

	if opts.Definition == nil {
		app.log.Warn("reload: %v", field.ErrNoDefinition)
		app.setStatus(true, "reload failed: %v", field.ErrNoDefinition)
		return
	}

	app.ctrl.Destroy()
	if err := app.attach(opts); err != nil {
		app.log.Error("reload: %v", err)
		return
	}
	app.opts.Field = opts
	app.log.Info("mask reloaded")
	app.setStatus(false, "mask reloaded")
}

func (app *Application) handleEvent(ev backend.Event) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	switch ev.Type {
	case backend.EventKey:
		return app.handleKey(ev.Key)
	case backend.EventPaste:
		before := app.buf.Read()
		app.host.Paste(ev.Text)
		app.reportEdit(before, fmt.Sprintf("paste %q", ev.Text))
	}
	return nil
}

func (app *Application) handleKey(k key.Event) error {
	switch {
	case k.Key == key.KeyEscape, k.IsRune() && k.Rune == 'c' && k.Modifiers == key.ModCtrl:
		return ErrQuit
	case k.IsRune() && k.Rune == 'd' && k.Modifiers == key.ModCtrl:
		return errSubmit
	case k.Key == key.KeyEnter && k.Modifiers == key.ModNone && !app.opts.Multiline:
		return errSubmit
	}

	before := app.buf.Read()
	app.host.KeyPress(k)
	if k.IsProducingCharacter() {
		app.reportEdit(before, fmt.Sprintf("%q", k.Rune))
	} else {
		app.setStatus(false, "")
	}
	return nil
}

func (app *Application) reportEdit(before selection.State, what string) {
	if app.buf.Read().Value == before.Value {
		app.setStatus(true, "rejected %s", what)
		return
	}
	app.setStatus(false, "")
}

func (app *Application) setStatus(isErr bool, format string, args ...any) {
	app.status = fmt.Sprintf(format, args...)
	app.statusErr = isErr
}

// draw renders the label, the field and the status line, and places the
// terminal cursor at the caret.
func (app *Application) draw() {
	app.mu.Lock()
	defer app.mu.Unlock()

	b := app.backend
	_, height := b.Size()
	b.Clear()

	row := 0
	if app.opts.Label != "" {
		b.DrawText(0, row, app.opts.Label, backend.StyleBold)
		row++
	}

	state := app.buf.Read()
	lines := strings.Split(state.Value, "\n")
	for i, line := range lines {
		x := 0
		if i == 0 {
			x = b.DrawText(0, row+i, prompt, backend.StyleDim)
		} else {
			x = uniseg.StringWidth(prompt)
		}
		b.DrawText(x, row+i, line, backend.StyleNormal)
	}

	caretRow, caretCol := caretPosition(state.Value, app.buf.Cursor())
	b.ShowCursor(uniseg.StringWidth(prompt)+caretCol, row+caretRow)

	if height > 0 {
		style := backend.StyleDim
		if app.statusErr {
			style = backend.StyleError
		}
		b.DrawText(0, height-1, app.statusLine(), style)
	}
	b.Show()
}

func (app *Application) statusLine() string {
	h := app.ctrl.History()
	line := fmt.Sprintf("undo %d  redo %d", h.UndoCount(), h.RedoCount())
	if app.status != "" {
		line = app.status + "  |  " + line
	}
	return line
}

// caretPosition returns the row and display column of rune offset caret.
func caretPosition(value string, caret int) (row, col int) {
	runes := []rune(value)
	caret = max(0, min(caret, len(runes)))
	before := string(runes[:caret])

	if i := strings.LastIndex(before, "\n"); i >= 0 {
		row = strings.Count(before, "\n")
		before = before[i+1:]
	}
	return row, uniseg.StringWidth(before)
}
