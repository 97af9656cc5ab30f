package vision

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mfujita/mapnotes/internal/domain"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected *Suggestion
	}{
		{
			name:     "full suggestion",
			line:     "itemBox | 0.25 | 0.75 | double stack before the jump",
			expected: &Suggestion{Type: domain.MarkerItemBox, X: 0.25, Y: 0.75, Note: "double stack before the jump"},
		},
		{
			name:     "no note",
			line:     "coin | 0.5 | 0.5",
			expected: &Suggestion{Type: domain.MarkerCoin, X: 0.5, Y: 0.5},
		},
		{
			name:     "coordinates clamped",
			line:     "boost | 1.4 | -0.2 | ",
			expected: &Suggestion{Type: domain.MarkerBoost, X: 1, Y: 0},
		},
		{
			name:     "unknown type dropped",
			line:     "banana | 0.5 | 0.5 | slippery",
			expected: nil,
		},
		{
			name:     "unparsable coordinate dropped",
			line:     "hazard | left | 0.5",
			expected: nil,
		},
		{
			name:     "missing coordinates dropped",
			line:     "hazard | 0.5",
			expected: nil,
		},
		{
			name:     "preamble skipped",
			line:     "Here are the notable spots:",
			expected: nil,
		},
		{
			name:     "empty line",
			line:     "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLine(tt.line))
		})
	}
}

func TestParseResponse(t *testing.T) {
	raw := `Here are the notable spots:
itemBox | 0.2 | 0.3 | triple row
hazard | 0.8 | 0.1 | thwomp
not a suggestion at all
shortcut | 0.55 | 0.9 | cut across the grass`

	suggestions := ParseResponse(raw)
	assert.Len(t, suggestions, 3)
	assert.Equal(t, domain.MarkerItemBox, suggestions[0].Type)
	assert.Equal(t, domain.MarkerHazard, suggestions[1].Type)
	assert.Equal(t, "cut across the grass", suggestions[2].Note)
}
