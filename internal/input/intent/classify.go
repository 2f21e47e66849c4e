package intent

import "github.com/dshills/keymask/internal/input/key"

// Classify maps a key press to the edit intent a native field would perform
// for it. ok is false for presses that do not edit, such as navigation keys
// and Enter in a single-line field.
func Classify(e key.Event, multiline bool) (ev *Event, ok bool) {
	word := e.Modifiers.HasAny(key.ModAlt | key.ModCtrl)

	switch {
	case e.IsUndo():
		return NewIntent(KindHistoryUndo, ""), true
	case e.IsRedo():
		return NewIntent(KindHistoryRedo, ""), true
	case e.Key == key.KeyBackspace && word:
		return NewIntent(KindDeleteWordBackward, ""), true
	case e.Key == key.KeyBackspace:
		return NewIntent(KindDeleteBackward, ""), true
	case e.Key == key.KeyDelete && word:
		return NewIntent(KindDeleteWordForward, ""), true
	case e.Key == key.KeyDelete:
		return NewIntent(KindDeleteForward, ""), true
	case e.Key == key.KeyEnter:
		if !multiline {
			return nil, false
		}
		return NewIntent(KindInsertLineBreak, "\n"), true
	case e.IsProducingCharacter():
		return NewIntent(KindInsertText, string(e.Rune)), true
	}
	return nil, false
}
