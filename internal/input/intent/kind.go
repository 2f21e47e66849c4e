package intent

import "fmt"

// Kind identifies what an edit intent asks the field to do.
type Kind uint8

const (
	// KindNone is an unclassified intent.
	KindNone Kind = iota

	KindInsertText
	KindInsertFromPaste
	KindInsertFromDrop
	KindInsertLineBreak

	KindDeleteBackward
	KindDeleteForward
	KindDeleteWordBackward
	KindDeleteWordForward
	KindDeleteByCut

	KindHistoryUndo
	KindHistoryRedo
)

var kindNames = [...]string{
	KindNone:               "none",
	KindInsertText:         "insertText",
	KindInsertFromPaste:    "insertFromPaste",
	KindInsertFromDrop:     "insertFromDrop",
	KindInsertLineBreak:    "insertLineBreak",
	KindDeleteBackward:     "deleteContentBackward",
	KindDeleteForward:      "deleteContentForward",
	KindDeleteWordBackward: "deleteWordBackward",
	KindDeleteWordForward:  "deleteWordForward",
	KindDeleteByCut:        "deleteByCut",
	KindHistoryUndo:        "historyUndo",
	KindHistoryRedo:        "historyRedo",
}

// String returns the input type name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// IsInsert returns true for intents that add text.
func (k Kind) IsInsert() bool {
	return k >= KindInsertText && k <= KindInsertLineBreak
}

// IsDelete returns true for intents that remove text.
func (k Kind) IsDelete() bool {
	return k >= KindDeleteBackward && k <= KindDeleteByCut
}

// IsForward returns true for deletions that remove text after the caret.
func (k Kind) IsForward() bool {
	return k == KindDeleteForward || k == KindDeleteWordForward
}
