// Package backup serializes the full course and marker state to a versioned
// JSON document and restores it.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mfujita/mapnotes/internal/domain"
)

// Version is the only backup document version this build reads and writes.
const Version = 1

// ErrUnsupportedVersion is returned when a document's version field is not
// Version. Import aborts before any mutation.
var ErrUnsupportedVersion = errors.New("unsupported backup version")

// Document is the backup wire format.
type Document struct {
	Version    int             `json:"version"`
	ExportedAt time.Time       `json:"exportedAt"`
	Courses    []domain.Course `json:"courses"`
	Markers    []domain.Marker `json:"markers"`
}

// stateRepository is the subset of repository.Repository the codec requires.
type stateRepository interface {
	ListCourses(ctx context.Context) ([]domain.Course, error)
	ListMarkers(ctx context.Context) ([]domain.Marker, error)
	SaveCourses(ctx context.Context, courses []domain.Course) error
	SaveMarkers(ctx context.Context, markers []domain.Marker) error
}

type Codec struct {
	repo stateRepository
	now  func() time.Time
}

func NewCodec(repo stateRepository) *Codec {
	return &Codec{repo: repo, now: time.Now}
}

// Export produces an indented JSON snapshot of both collections. The two
// reads are not wrapped in a transaction; with a single user there is no
// interleaved writer to race against.
func (c *Codec) Export(ctx context.Context) (string, error) {
	courses, err := c.repo.ListCourses(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to export courses: %w", err)
	}
	markers, err := c.repo.ListMarkers(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to export markers: %w", err)
	}

	doc := Document{
		Version:    Version,
		ExportedAt: c.now().UTC(),
		Courses:    courses,
		Markers:    markers,
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode backup: %w", err)
	}
	return string(raw), nil
}

// Import parses and validates text fully before touching the store, so a bad
// document leaves existing state unchanged. The final state is always exactly
// the document's collections regardless of wipe: both saves are full
// overwrites. wipe only inserts a guaranteed-empty intermediate write, which
// matters solely to an observer reading between the steps.
func (c *Codec) Import(ctx context.Context, text string, wipe bool) error {
	var doc Document
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return fmt.Errorf("failed to parse backup: %w", err)
	}
	if doc.Version != Version {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}
	if err := validate(doc); err != nil {
		return err
	}

	if wipe {
		if err := c.repo.SaveCourses(ctx, nil); err != nil {
			return fmt.Errorf("failed to wipe courses: %w", err)
		}
		if err := c.repo.SaveMarkers(ctx, nil); err != nil {
			return fmt.Errorf("failed to wipe markers: %w", err)
		}
	}

	if err := c.repo.SaveCourses(ctx, doc.Courses); err != nil {
		return fmt.Errorf("failed to restore courses: %w", err)
	}
	if err := c.repo.SaveMarkers(ctx, doc.Markers); err != nil {
		return fmt.Errorf("failed to restore markers: %w", err)
	}
	return nil
}

func validate(doc Document) error {
	for i, course := range doc.Courses {
		if course.ID == "" {
			return fmt.Errorf("invalid backup: course %d has no id", i)
		}
		if course.Name == "" {
			return fmt.Errorf("invalid backup: course %q has no name", course.ID)
		}
	}
	for i, m := range doc.Markers {
		if m.ID == "" {
			return fmt.Errorf("invalid backup: marker %d has no id", i)
		}
		if m.CourseID == "" {
			return fmt.Errorf("invalid backup: marker %q has no course id", m.ID)
		}
		if !m.Type.Valid() {
			return fmt.Errorf("invalid backup: marker %q has unknown type %q", m.ID, m.Type)
		}
	}
	return nil
}
