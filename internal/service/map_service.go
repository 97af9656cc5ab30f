package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mfujita/mapnotes/internal/domain"
	"github.com/mfujita/mapnotes/internal/imagedata"
	"github.com/mfujita/mapnotes/internal/vision"
)

// ErrSuggestionsDisabled is returned by SuggestMarkers when no vision
// backend is configured.
var ErrSuggestionsDisabled = errors.New("marker suggestions are not configured")

const maxCourseNameLen = 200

// courseRepository is the subset of repository.Repository that MapService
// requires.
type courseRepository interface {
	ListCourses(ctx context.Context) ([]domain.Course, error)
	UpsertCourse(ctx context.Context, c domain.Course) error
	DeleteCourse(ctx context.Context, id string) error
	ListMarkersByCourse(ctx context.Context, courseID string) ([]domain.Marker, error)
	UpsertMarker(ctx context.Context, m domain.Marker) error
}

type MapService struct {
	repo     courseRepository
	analyzer vision.Analyzer // nil disables suggestions
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
}

func NewMapService(repo courseRepository, analyzer vision.Analyzer, logger *slog.Logger) *MapService {
	return &MapService{
		repo:     repo,
		analyzer: analyzer,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

func (s *MapService) ListCourses(ctx context.Context) ([]domain.Course, error) {
	return s.repo.ListCourses(ctx)
}

// CourseSummary bundles a course with its marker count for list rendering.
type CourseSummary struct {
	domain.Course
	MarkerCount int
}

func (s *MapService) ListCoursesWithMarkerCounts(ctx context.Context) ([]CourseSummary, error) {
	courses, err := s.repo.ListCourses(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]CourseSummary, 0, len(courses))
	for _, course := range courses {
		markers, err := s.repo.ListMarkersByCourse(ctx, course.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count markers for course %s: %w", course.ID, err)
		}
		summaries = append(summaries, CourseSummary{Course: course, MarkerCount: len(markers)})
	}
	return summaries, nil
}

// GetCourse returns the course with the given id, or nil when absent.
func (s *MapService) GetCourse(ctx context.Context, id string) (*domain.Course, error) {
	courses, err := s.repo.ListCourses(ctx)
	if err != nil {
		return nil, err
	}
	for i := range courses {
		if courses[i].ID == id {
			return &courses[i], nil
		}
	}
	return nil, nil
}

// CreateCourse embeds the image as a data URL and stores a new course. An
// empty name is a caller error; the UI treats it as a cancelled action.
func (s *MapService) CreateCourse(ctx context.Context, name string, image []byte, mimeType string) (*domain.Course, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("course name required")
	}
	if len(name) > maxCourseNameLen {
		return nil, fmt.Errorf("course name too long")
	}
	if !imagedata.SupportedMIME(mimeType) {
		return nil, fmt.Errorf("unsupported image type %q", mimeType)
	}
	if len(image) == 0 {
		return nil, fmt.Errorf("course image required")
	}

	now := s.now()
	course := domain.Course{
		ID:           s.newID(),
		Name:         name,
		ImageDataURL: imagedata.Encode(mimeType, image),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.UpsertCourse(ctx, course); err != nil {
		return nil, err
	}
	s.logger.Info("course created", "course_id", course.ID, "name", course.Name, "image_bytes", len(image))
	return &course, nil
}

// DeleteCourse removes the course and all of its markers.
func (s *MapService) DeleteCourse(ctx context.Context, id string) error {
	if err := s.repo.DeleteCourse(ctx, id); err != nil {
		return err
	}
	s.logger.Info("course deleted", "course_id", id)
	return nil
}

// SuggestMarkers analyzes the course image and persists one marker per
// suggestion. The parse boundary already enforced the type enumeration and
// coordinate range.
func (s *MapService) SuggestMarkers(ctx context.Context, courseID string) ([]domain.Marker, error) {
	if s.analyzer == nil {
		return nil, ErrSuggestionsDisabled
	}

	course, err := s.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, fmt.Errorf("course %s not found", courseID)
	}

	mimeType, image, err := imagedata.Parse(course.ImageDataURL)
	if err != nil {
		return nil, fmt.Errorf("failed to read course image: %w", err)
	}

	s.logger.Info("marker suggestion started", "course_id", courseID)
	suggestions, err := s.analyzer.Suggest(ctx, image, mimeType)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze course image: %w", err)
	}
	s.logger.Info("marker suggestion complete", "course_id", courseID, "suggestions", len(suggestions))

	markers := make([]domain.Marker, 0, len(suggestions))
	for _, sg := range suggestions {
		now := s.now()
		m := domain.Marker{
			ID:        s.newID(),
			CourseID:  courseID,
			X:         sg.X,
			Y:         sg.Y,
			Type:      sg.Type,
			Note:      sg.Note,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.repo.UpsertMarker(ctx, m); err != nil {
			s.logger.Error("failed to store suggested marker", "course_id", courseID, "error", err)
			continue
		}
		markers = append(markers, m)
	}
	return markers, nil
}
