// Package canvas implements the map editor's interaction logic: mapping
// pointer coordinates to normalized image space under pan and zoom, placing
// and dragging markers, and prompter-driven marker edits.
package canvas

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/mfujita/mapnotes/internal/domain"
)

// Zoom factor bounds.
const (
	MinScale = 0.5
	MaxScale = 4.0
)

const (
	zoomInFactor  = 1.1
	zoomOutFactor = 0.9
)

// Point is a position in screen pixels or normalized image space.
type Point struct {
	X float64
	Y float64
}

// Rect is the rendered image's bounding box in screen pixels. It must be
// re-measured whenever pan or zoom changes.
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// ScreenToNormalized maps a screen point to normalized image coordinates.
// ok is false when the point falls outside the rendered image; such clicks
// are ignored.
func ScreenToNormalized(p Point, rect Rect) (Point, bool) {
	if rect.Width <= 0 || rect.Height <= 0 {
		return Point{}, false
	}
	n := Point{
		X: (p.X - rect.Left) / rect.Width,
		Y: (p.Y - rect.Top) / rect.Height,
	}
	if n.X < 0 || n.X > 1 || n.Y < 0 || n.Y > 1 {
		return Point{}, false
	}
	return n, true
}

// NormalizedToScreen is the inverse mapping for a point inside the image.
func NormalizedToScreen(n Point, rect Rect) Point {
	return Point{
		X: rect.Left + n.X*rect.Width,
		Y: rect.Top + n.Y*rect.Height,
	}
}

// MarkerScreenPosition computes where a marker renders for the current pan
// offset and zoom scale. Recompute on every render: offset and scale change
// continuously while panning and zooming.
func MarkerScreenPosition(offset Point, scale float64, m domain.Marker, nativeWidth, nativeHeight int) Point {
	return Point{
		X: offset.X + m.X*float64(nativeWidth)*scale,
		Y: offset.Y + m.Y*float64(nativeHeight)*scale,
	}
}

// markerRepository is the subset of repository.Repository the controller
// requires.
type markerRepository interface {
	ListMarkersByCourse(ctx context.Context, courseID string) ([]domain.Marker, error)
	UpsertMarker(ctx context.Context, m domain.Marker) error
	DeleteMarker(ctx context.Context, id string) error
}

// Controller drives one editing session over a single course. The in-memory
// marker slice is a cache of the store's state, patched optimistically after
// every successful write.
type Controller struct {
	repo     markerRepository
	prompter Prompter
	course   domain.Course
	markers  []domain.Marker

	scale       float64
	offset      Point
	addMode     bool
	currentType domain.MarkerType

	panning   bool
	panAnchor Point

	now   func() time.Time
	newID func() string
}

func NewController(repo markerRepository, prompter Prompter, course domain.Course) *Controller {
	return &Controller{
		repo:        repo,
		prompter:    prompter,
		course:      course,
		scale:       1,
		addMode:     true,
		currentType: domain.MarkerItemBox,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// Load fetches the course's markers into the in-memory cache.
func (c *Controller) Load(ctx context.Context) error {
	markers, err := c.repo.ListMarkersByCourse(ctx, c.course.ID)
	if err != nil {
		return err
	}
	c.markers = markers
	return nil
}

// Markers returns a copy of the in-memory marker cache.
func (c *Controller) Markers() []domain.Marker {
	out := make([]domain.Marker, len(c.markers))
	copy(out, c.markers)
	return out
}

func (c *Controller) Scale() float64 { return c.scale }
func (c *Controller) Offset() Point  { return c.offset }

func (c *Controller) AddMode() bool        { return c.addMode }
func (c *Controller) SetAddMode(on bool)   { c.addMode = on }
func (c *Controller) CurrentType() domain.MarkerType { return c.currentType }

// SetCurrentType selects the type used for new placements, rejecting values
// outside the enumeration.
func (c *Controller) SetCurrentType(t domain.MarkerType) error {
	if !t.Valid() {
		return fmt.Errorf("unknown marker type %q", t)
	}
	c.currentType = t
	return nil
}

// Zoom multiplies the scale by 0.9 (delta > 0, zoom out) or 1.1 (zoom in),
// clamped to [MinScale, MaxScale]. Anchored at the image's top-left, not at
// the cursor.
func (c *Controller) Zoom(delta float64) {
	factor := zoomInFactor
	if delta > 0 {
		factor = zoomOutFactor
	}
	c.scale = math.Min(MaxScale, math.Max(MinScale, c.scale*factor))
}

// PanStart captures the anchor so that PanMove keeps the grab point under
// the pointer.
func (c *Controller) PanStart(p Point) {
	c.panning = true
	c.panAnchor = Point{X: p.X - c.offset.X, Y: p.Y - c.offset.Y}
}

func (c *Controller) PanMove(p Point) {
	if !c.panning {
		return
	}
	c.offset = Point{X: p.X - c.panAnchor.X, Y: p.Y - c.panAnchor.Y}
}

func (c *Controller) PanEnd() {
	c.panning = false
}

// CanvasClick places a marker of the current type at the clicked position.
// Returns (nil, nil) when add mode is off or the click misses the image.
// A cancelled note prompt leaves the note empty; the marker is still placed.
func (c *Controller) CanvasClick(ctx context.Context, p Point, rect Rect) (*domain.Marker, error) {
	if !c.addMode {
		return nil, nil
	}
	pos, ok := ScreenToNormalized(p, rect)
	if !ok {
		return nil, nil
	}

	note, _ := c.prompter.Note("")
	now := c.now()
	m := domain.Marker{
		ID:        c.newID(),
		CourseID:  c.course.ID,
		X:         pos.X,
		Y:         pos.Y,
		Type:      c.currentType,
		Note:      note,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.repo.UpsertMarker(ctx, m); err != nil {
		return nil, err
	}
	c.markers = append(c.markers, m)
	return &m, nil
}

// MarkerEdit runs the prompter-driven edit flow for one marker: change type,
// change note, or delete. Non-delete edits refresh updatedAt.
func (c *Controller) MarkerEdit(ctx context.Context, markerID string) error {
	idx := c.indexOf(markerID)
	if idx < 0 {
		return fmt.Errorf("marker %s not found", markerID)
	}
	m := c.markers[idx]

	action, ok := c.prompter.EditAction(m)
	if !ok {
		return nil
	}

	switch action {
	case EditChangeType:
		t, ok := c.prompter.MarkerType(m.Type)
		if !ok {
			return nil
		}
		if !t.Valid() {
			return fmt.Errorf("unknown marker type %q", t)
		}
		m.Type = t
	case EditChangeNote:
		// A cancelled prompt clears the note, matching the editor's
		// prompt-or-empty behavior.
		note, _ := c.prompter.Note(m.Note)
		m.Note = note
	case EditDelete:
		if !c.prompter.ConfirmDelete(m) {
			return nil
		}
		if err := c.repo.DeleteMarker(ctx, m.ID); err != nil {
			return err
		}
		c.markers = append(c.markers[:idx], c.markers[idx+1:]...)
		return nil
	default:
		return fmt.Errorf("unknown edit action %d", action)
	}

	m.UpdatedAt = c.now()
	if err := c.repo.UpsertMarker(ctx, m); err != nil {
		return err
	}
	c.markers[idx] = m
	return nil
}

func (c *Controller) indexOf(markerID string) int {
	for i := range c.markers {
		if c.markers[i].ID == markerID {
			return i
		}
	}
	return -1
}
