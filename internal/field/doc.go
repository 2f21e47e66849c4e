// Package field binds a mask to an editable text field.
//
// A Controller listens to the edit intents a host delivers for one field
// and keeps the field conformed to its mask: it blocks inserts the mask
// rejects, rewrites inserts and deletions whose native result would break
// the mask, and records committed states for undo and redo.
//
// The field itself is reached only through the FieldHandle interface.
// Buffer is an in-memory FieldHandle that also performs the native default
// actions of a plain text field, and Host drives a Buffer the way a
// terminal or test harness would, delivering events on an intent.Bus:
//
//	buf := field.NewBuffer("")
//	bus := intent.NewBus()
//	ctl, err := field.New(buf, bus, field.Options{
//	    Definition: mask.Static(mask.MustParse("(999) 999-9999")),
//	})
//	if err != nil {
//	    return err
//	}
//	defer ctl.Destroy()
//
//	host := field.NewHost(buf, bus)
//	host.Type("5551234567") // buf now holds "(555) 123-4567"
package field
