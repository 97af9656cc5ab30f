package canvas

import (
	"context"
	"fmt"

	"github.com/mfujita/mapnotes/internal/domain"
)

// Drag is one marker-drag gesture. Move updates the in-memory position only;
// End persists the final position as a single write. Callers must End (or
// drop) the drag on every exit path, including the pointer leaving the
// window, so move handlers do not leak.
type Drag struct {
	c    *Controller
	id   string
	done bool
}

// BeginDrag starts dragging the identified marker.
func (c *Controller) BeginDrag(markerID string) (*Drag, error) {
	if c.indexOf(markerID) < 0 {
		return nil, fmt.Errorf("marker %s not found", markerID)
	}
	return &Drag{c: c, id: markerID}, nil
}

// Move recomputes the marker's normalized position from the current image
// rect. The rect must be re-measured by the caller each move since pan or
// zoom may have shifted the image. Positions are clamped to [0,1] rather
// than rejected, so dragging past an edge pins the marker to it.
func (d *Drag) Move(p Point, rect Rect) {
	if d.done || rect.Width <= 0 || rect.Height <= 0 {
		return
	}
	idx := d.c.indexOf(d.id)
	if idx < 0 {
		return
	}
	d.c.markers[idx].X = domain.Clamp01((p.X - rect.Left) / rect.Width)
	d.c.markers[idx].Y = domain.Clamp01((p.Y - rect.Top) / rect.Height)
}

// End persists the marker at its final position with a refreshed updatedAt.
// Exactly one write happens per gesture regardless of how many moves
// preceded it. End is a no-op after the first call.
func (d *Drag) End(ctx context.Context) error {
	if d.done {
		return nil
	}
	d.done = true

	idx := d.c.indexOf(d.id)
	if idx < 0 {
		return fmt.Errorf("marker %s not found", d.id)
	}
	m := d.c.markers[idx]
	m.UpdatedAt = d.c.now()
	if err := d.c.repo.UpsertMarker(ctx, m); err != nil {
		return err
	}
	d.c.markers[idx] = m
	return nil
}
