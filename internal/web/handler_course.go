package web

import (
	"io"
	"math"
	"net/http"
	"strconv"

	"github.com/mfujita/mapnotes/internal/canvas"
	"github.com/mfujita/mapnotes/internal/domain"
	"github.com/mfujita/mapnotes/internal/imagedata"
	"github.com/mfujita/mapnotes/internal/render"
)

const maxUploadBytes = 32 << 20

func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.service.ListCoursesWithMarkerCounts(r.Context())
	if err != nil {
		s.logger.Error("failed to list courses", "error", err)
		http.Error(w, "failed to list courses", http.StatusInternalServerError)
		return
	}

	data := map[string]any{
		"Courses": summaries,
	}
	if err := s.renderPage(w, data, "base.html", "pages/courses.html", "partials/course_card.html"); err != nil {
		s.logger.Error("failed to render courses page", "error", err)
	}
}

func (s *Server) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "course image required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read image", http.StatusBadRequest)
		return
	}

	course, err := s.service.CreateCourse(r.Context(), r.FormValue("name"), image, header.Header.Get("Content-Type"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	http.Redirect(w, r, s.href("/courses/"+course.ID), http.StatusSeeOther)
}

func (s *Server) handleCourseDetail(w http.ResponseWriter, r *http.Request) {
	course, ok := s.courseOr404(w, r)
	if !ok {
		return
	}

	markers, err := s.repo.ListMarkersByCourse(r.Context(), course.ID)
	if err != nil {
		s.logger.Error("failed to list markers", "course_id", course.ID, "error", err)
		http.Error(w, "failed to list markers", http.StatusInternalServerError)
		return
	}

	width, height, err := imagedata.NativeSize(course.ImageDataURL)
	if err != nil {
		s.logger.Error("failed to read course image size", "course_id", course.ID, "error", err)
		http.Error(w, "course image unreadable", http.StatusInternalServerError)
		return
	}

	scale, offset := viewParams(r)
	data := map[string]any{
		"Course":       course,
		"Markers":      markers,
		"NativeWidth":  width,
		"NativeHeight": height,
		"Scale":        scale,
		"OffsetX":      offset.X,
		"OffsetY":      offset.Y,
	}
	if err := s.renderPage(w, data, "base.html", "pages/editor.html", "partials/marker_row.html"); err != nil {
		s.logger.Error("failed to render editor page", "error", err)
	}
}

func (s *Server) handleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteCourse(r.Context(), r.PathValue("id")); err != nil {
		s.logger.Error("failed to delete course", "error", err)
		http.Error(w, "failed to delete course", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleMapImage serves the annotated course map as PNG for the requested
// view transform.
func (s *Server) handleMapImage(w http.ResponseWriter, r *http.Request) {
	course, ok := s.courseOr404(w, r)
	if !ok {
		return
	}

	markers, err := s.repo.ListMarkersByCourse(r.Context(), course.ID)
	if err != nil {
		http.Error(w, "failed to list markers", http.StatusInternalServerError)
		return
	}

	scale, offset := viewParams(r)
	img, err := render.AnnotatedMap(*course, markers, scale, offset)
	if err != nil {
		s.logger.Error("failed to render map", "course_id", course.ID, "error", err)
		http.Error(w, "failed to render map", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(img)
}

func (s *Server) courseOr404(w http.ResponseWriter, r *http.Request) (*domain.Course, bool) {
	course, err := s.service.GetCourse(r.Context(), r.PathValue("id"))
	if err != nil {
		s.logger.Error("failed to load course", "error", err)
		http.Error(w, "failed to load course", http.StatusInternalServerError)
		return nil, false
	}
	if course == nil {
		http.Error(w, "course not found", http.StatusNotFound)
		return nil, false
	}
	return course, true
}

// viewParams reads the scale and pan offset query parameters, clamping scale
// to the editor's zoom bounds.
func viewParams(r *http.Request) (float64, canvas.Point) {
	scale := queryFloat(r, "scale", 1)
	scale = math.Min(canvas.MaxScale, math.Max(canvas.MinScale, scale))
	return scale, canvas.Point{
		X: queryFloat(r, "ox", 0),
		Y: queryFloat(r, "oy", 0),
	}
}

func queryFloat(r *http.Request, key string, fallback float64) float64 {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}
