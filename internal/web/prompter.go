package web

import (
	"github.com/mfujita/mapnotes/internal/canvas"
	"github.com/mfujita/mapnotes/internal/domain"
)

// formPrompter answers the canvas prompter from fields posted with the
// request. Unlike an interactive prompter it has all answers up front; a
// field the form did not carry reads as a cancelled prompt.
type formPrompter struct {
	note       string
	noteSet    bool
	action     canvas.EditAction
	actionSet  bool
	markerType domain.MarkerType
	typeSet    bool
	confirmed  bool
}

func (p *formPrompter) Note(initial string) (string, bool) {
	return p.note, p.noteSet
}

func (p *formPrompter) EditAction(m domain.Marker) (canvas.EditAction, bool) {
	return p.action, p.actionSet
}

func (p *formPrompter) MarkerType(current domain.MarkerType) (domain.MarkerType, bool) {
	return p.markerType, p.typeSet
}

func (p *formPrompter) ConfirmDelete(m domain.Marker) bool {
	return p.confirmed
}
