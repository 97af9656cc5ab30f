package vision

import (
	"strconv"
	"strings"

	"github.com/mfujita/mapnotes/internal/domain"
)

// ParseResponse parses a vision model response in format: type | x | y | note
// One suggestion per line; malformed lines are dropped.
func ParseResponse(raw string) []Suggestion {
	lines := strings.Split(raw, "\n")
	suggestions := make([]Suggestion, 0, len(lines))
	for _, line := range lines {
		if s := ParseLine(line); s != nil {
			suggestions = append(suggestions, *s)
		}
	}
	return suggestions
}

// ParseLine parses a single suggestion line, or returns nil when the line is
// empty, preamble, or fails validation (unknown type, unparsable
// coordinates). Coordinates are clamped to [0,1].
func ParseLine(line string) *Suggestion {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	// Skip common headers or non-suggestion lines.
	if strings.HasPrefix(line, "Here") || strings.HasPrefix(line, "I see") || strings.HasPrefix(line, "Based on") {
		return nil
	}

	parts := strings.Split(line, "|")
	if len(parts) < 3 {
		return nil
	}

	markerType, err := domain.ParseMarkerType(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
	if err != nil {
		return nil
	}

	s := &Suggestion{
		Type: markerType,
		X:    domain.Clamp01(x),
		Y:    domain.Clamp01(y),
	}
	if len(parts) >= 4 {
		s.Note = strings.TrimSpace(parts[3])
	}
	return s
}
