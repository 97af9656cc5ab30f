package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfujita/mapnotes/internal/domain"
	"github.com/mfujita/mapnotes/internal/imagedata"
	"github.com/mfujita/mapnotes/internal/vision"
)

type fakeRepo struct {
	courses []domain.Course
	markers []domain.Marker
	err     error
}

func (f *fakeRepo) ListCourses(ctx context.Context) ([]domain.Course, error) {
	return f.courses, f.err
}

func (f *fakeRepo) UpsertCourse(ctx context.Context, c domain.Course) error {
	if f.err != nil {
		return f.err
	}
	f.courses = append(f.courses, c)
	return nil
}

func (f *fakeRepo) DeleteCourse(ctx context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	kept := f.courses[:0]
	for _, c := range f.courses {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	f.courses = kept
	return nil
}

func (f *fakeRepo) ListMarkersByCourse(ctx context.Context, courseID string) ([]domain.Marker, error) {
	var out []domain.Marker
	for _, m := range f.markers {
		if m.CourseID == courseID {
			out = append(out, m)
		}
	}
	return out, f.err
}

func (f *fakeRepo) UpsertMarker(ctx context.Context, m domain.Marker) error {
	if f.err != nil {
		return f.err
	}
	f.markers = append(f.markers, m)
	return nil
}

type fakeAnalyzer struct {
	suggestions []vision.Suggestion
	err         error
}

func (f *fakeAnalyzer) Suggest(ctx context.Context, image []byte, mimeType string) ([]vision.Suggestion, error) {
	return f.suggestions, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCreateCourse(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewMapService(repo, nil, testLogger())

	course, err := svc.CreateCourse(context.Background(), "  Cliffside Run  ", []byte{1, 2, 3}, "image/png")
	require.NoError(t, err)

	assert.Equal(t, "Cliffside Run", course.Name)
	assert.NotEmpty(t, course.ID)
	assert.Equal(t, imagedata.Encode("image/png", []byte{1, 2, 3}), course.ImageDataURL)
	assert.False(t, course.CreatedAt.IsZero())
	assert.Len(t, repo.courses, 1)
}

func TestCreateCourseValidation(t *testing.T) {
	svc := NewMapService(&fakeRepo{}, nil, testLogger())
	ctx := context.Background()

	_, err := svc.CreateCourse(ctx, "   ", []byte{1}, "image/png")
	assert.Error(t, err, "empty name")

	_, err = svc.CreateCourse(ctx, "Name", nil, "image/png")
	assert.Error(t, err, "empty image")

	_, err = svc.CreateCourse(ctx, "Name", []byte{1}, "image/tiff")
	assert.Error(t, err, "unsupported MIME")
}

func TestGetCourse(t *testing.T) {
	repo := &fakeRepo{courses: []domain.Course{{ID: "c1", Name: "One"}, {ID: "c2", Name: "Two"}}}
	svc := NewMapService(repo, nil, testLogger())
	ctx := context.Background()

	course, err := svc.GetCourse(ctx, "c2")
	require.NoError(t, err)
	require.NotNil(t, course)
	assert.Equal(t, "Two", course.Name)

	missing, err := svc.GetCourse(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestListCoursesWithMarkerCounts(t *testing.T) {
	repo := &fakeRepo{
		courses: []domain.Course{{ID: "c1"}, {ID: "c2"}},
		markers: []domain.Marker{
			{ID: "m1", CourseID: "c1"},
			{ID: "m2", CourseID: "c1"},
			{ID: "m3", CourseID: "c2"},
		},
	}
	svc := NewMapService(repo, nil, testLogger())

	summaries, err := svc.ListCoursesWithMarkerCounts(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, 2, summaries[0].MarkerCount)
	assert.Equal(t, 1, summaries[1].MarkerCount)
}

func TestSuggestMarkersDisabled(t *testing.T) {
	svc := NewMapService(&fakeRepo{}, nil, testLogger())

	_, err := svc.SuggestMarkers(context.Background(), "c1")
	assert.ErrorIs(t, err, ErrSuggestionsDisabled)
}

func TestSuggestMarkersPersistsSuggestions(t *testing.T) {
	repo := &fakeRepo{courses: []domain.Course{{
		ID:           "c1",
		Name:         "One",
		ImageDataURL: imagedata.Encode("image/png", []byte{1, 2, 3}),
	}}}
	analyzer := &fakeAnalyzer{suggestions: []vision.Suggestion{
		{Type: domain.MarkerItemBox, X: 0.2, Y: 0.3, Note: "triple row"},
		{Type: domain.MarkerHazard, X: 0.8, Y: 0.1},
	}}
	svc := NewMapService(repo, analyzer, testLogger())

	markers, err := svc.SuggestMarkers(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, markers, 2)
	assert.Equal(t, "c1", markers[0].CourseID)
	assert.Equal(t, domain.MarkerItemBox, markers[0].Type)
	assert.Len(t, repo.markers, 2)
}

func TestSuggestMarkersUnknownCourse(t *testing.T) {
	svc := NewMapService(&fakeRepo{}, &fakeAnalyzer{}, testLogger())

	_, err := svc.SuggestMarkers(context.Background(), "nope")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrSuggestionsDisabled)
}

func TestSuggestMarkersAnalyzerError(t *testing.T) {
	repo := &fakeRepo{courses: []domain.Course{{
		ID:           "c1",
		ImageDataURL: imagedata.Encode("image/png", []byte{1}),
	}}}
	svc := NewMapService(repo, &fakeAnalyzer{err: errors.New("model offline")}, testLogger())

	_, err := svc.SuggestMarkers(context.Background(), "c1")
	assert.Error(t, err)
	assert.Empty(t, repo.markers)
}
