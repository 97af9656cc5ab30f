package canvas

import "github.com/mfujita/mapnotes/internal/domain"

// EditAction is a typed choice from the marker edit menu.
type EditAction int

const (
	EditChangeType EditAction = iota + 1
	EditChangeNote
	EditDelete
)

// Prompter is the request-response seam for user interaction. It decouples
// the edit flows from any particular input mechanism: the web shell backs it
// with form fields, tests with a stub. ok reports whether the user answered
// rather than cancelling.
type Prompter interface {
	// Note asks for an optional free-text note, pre-filled with initial.
	Note(initial string) (note string, ok bool)
	// EditAction presents the edit menu for m.
	EditAction(m domain.Marker) (action EditAction, ok bool)
	// MarkerType asks for a new type, pre-selected with current.
	MarkerType(current domain.MarkerType) (t domain.MarkerType, ok bool)
	// ConfirmDelete asks whether m should really be removed.
	ConfirmDelete(m domain.Marker) bool
}
