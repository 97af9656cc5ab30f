package domain

import (
	"fmt"
	"time"
)

// MarkerType is the closed set of annotations a course map supports.
type MarkerType string

const (
	MarkerItemBox  MarkerType = "itemBox"
	MarkerShortcut MarkerType = "shortcut"
	MarkerHazard   MarkerType = "hazard"
	MarkerCoin     MarkerType = "coin"
	MarkerBoost    MarkerType = "boost"
)

// MarkerTypes returns all marker types in display order.
func MarkerTypes() []MarkerType {
	return []MarkerType{MarkerItemBox, MarkerShortcut, MarkerHazard, MarkerCoin, MarkerBoost}
}

// ParseMarkerType validates s against the enumeration. Unrecognized values
// are rejected at the boundary rather than stored.
func ParseMarkerType(s string) (MarkerType, error) {
	t := MarkerType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown marker type %q", s)
	}
	return t, nil
}

func (t MarkerType) Valid() bool {
	switch t {
	case MarkerItemBox, MarkerShortcut, MarkerHazard, MarkerCoin, MarkerBoost:
		return true
	}
	return false
}

// Icon returns the display glyph for the type.
func (t MarkerType) Icon() string {
	switch t {
	case MarkerItemBox:
		return "📦"
	case MarkerShortcut:
		return "⭐"
	case MarkerHazard:
		return "⚠️"
	case MarkerCoin:
		return "🪙"
	case MarkerBoost:
		return "➡️"
	}
	return "❓"
}

// Course is an annotatable course map. The image is embedded as a data URL so
// it stays available without any network fetch.
type Course struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Series       string    `json:"series,omitempty"`
	ImageDataURL string    `json:"imageDataUrl"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Marker is a typed annotation at a normalized position on a course image.
// X and Y are in [0,1] relative to the image's native width and height.
type Marker struct {
	ID        string     `json:"id"`
	CourseID  string     `json:"courseId"`
	X         float64    `json:"x"`
	Y         float64    `json:"y"`
	Type      MarkerType `json:"type"`
	Note      string     `json:"note,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Clamp01 limits v to [0,1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ClampPosition enforces the coordinate invariant in place.
func (m *Marker) ClampPosition() {
	m.X = Clamp01(m.X)
	m.Y = Clamp01(m.Y)
}
