// Package vision proposes markers for a course map image using a vision
// model. Suggestions go through the same validation as hand-placed markers.
package vision

import (
	"context"

	"github.com/mfujita/mapnotes/internal/domain"
)

// SuggestPrompt is the shared prompt used by all vision adapters.
const SuggestPrompt = `This is a top-down racing-game course map. Identify spots a player
would annotate: item boxes, shortcuts, hazards, coins and boost pads.
Respond in plain text, one spot per line, format: type | x | y | note
where type is one of itemBox, shortcut, hazard, coin, boost and x and y
are coordinates between 0 and 1 measured from the image's top-left.
Reply with the lines only.`

type Analyzer interface {
	Suggest(ctx context.Context, image []byte, mimeType string) ([]Suggestion, error)
}

// Suggestion is one proposed marker placement.
type Suggestion struct {
	Type domain.MarkerType
	X    float64
	Y    float64
	Note string
}
