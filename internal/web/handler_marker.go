package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/mfujita/mapnotes/internal/canvas"
	"github.com/mfujita/mapnotes/internal/domain"
	"github.com/mfujita/mapnotes/internal/service"
)

// handlePlaceMarker places a new marker at the posted screen position. The
// form carries the pointer coordinates and the image's current bounding rect
// so the same pan-and-zoom math applies that an interactive canvas would use.
func (s *Server) handlePlaceMarker(w http.ResponseWriter, r *http.Request) {
	course, ok := s.courseOr404(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	ctrl := canvas.NewController(s.repo, &formPrompter{
		note:    r.FormValue("note"),
		noteSet: true,
	}, *course)
	if t := r.FormValue("type"); t != "" {
		if err := ctrl.SetCurrentType(domain.MarkerType(t)); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	if err := ctrl.Load(r.Context()); err != nil {
		http.Error(w, "failed to load markers", http.StatusInternalServerError)
		return
	}

	marker, err := ctrl.CanvasClick(r.Context(), formPoint(r), formRect(r))
	if err != nil {
		s.logger.Error("failed to place marker", "course_id", course.ID, "error", err)
		http.Error(w, "failed to place marker", http.StatusInternalServerError)
		return
	}
	if marker == nil {
		// Outside the rendered image; the click is ignored, not an error.
		writeJSON(w, http.StatusOK, map[string]any{"placed": false})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"placed": true, "marker": marker})
}

// handleMoveMarker applies a completed drag gesture: the client sends only
// the final pointer position, and exactly one write lands in the store.
func (s *Server) handleMoveMarker(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	ctrl, ok := s.controllerForMarker(w, r, &formPrompter{})
	if !ok {
		return
	}

	drag, err := ctrl.BeginDrag(r.PathValue("id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	drag.Move(formPoint(r), formRect(r))
	if err := drag.End(r.Context()); err != nil {
		s.logger.Error("failed to move marker", "marker_id", r.PathValue("id"), "error", err)
		http.Error(w, "failed to move marker", http.StatusInternalServerError)
		return
	}

	for _, m := range ctrl.Markers() {
		if m.ID == r.PathValue("id") {
			writeJSON(w, http.StatusOK, map[string]any{"marker": m})
			return
		}
	}
	http.Error(w, "marker not found", http.StatusNotFound)
}

// handleEditMarker runs one edit menu action against a marker. The action
// field selects type, note, or delete; delete posts are their own
// confirmation since the browser confirms before sending.
func (s *Server) handleEditMarker(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	prompter := &formPrompter{actionSet: true}
	switch r.FormValue("action") {
	case "type":
		prompter.action = canvas.EditChangeType
		prompter.markerType = domain.MarkerType(r.FormValue("value"))
		prompter.typeSet = true
	case "note":
		prompter.action = canvas.EditChangeNote
		prompter.note = r.FormValue("value")
		prompter.noteSet = true
	case "delete":
		prompter.action = canvas.EditDelete
		prompter.confirmed = true
	default:
		http.Error(w, "unknown action", http.StatusBadRequest)
		return
	}

	ctrl, ok := s.controllerForMarker(w, r, prompter)
	if !ok {
		return
	}
	if err := ctrl.MarkerEdit(r.Context(), r.PathValue("id")); err != nil {
		s.logger.Error("failed to edit marker", "marker_id", r.PathValue("id"), "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSuggestMarkers(w http.ResponseWriter, r *http.Request) {
	markers, err := s.service.SuggestMarkers(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrSuggestionsDisabled) {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		s.logger.Error("failed to suggest markers", "course_id", r.PathValue("id"), "error", err)
		http.Error(w, "failed to suggest markers", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"markers": markers})
}

// controllerForMarker resolves the marker's course and returns a loaded
// controller for it.
func (s *Server) controllerForMarker(w http.ResponseWriter, r *http.Request, prompter canvas.Prompter) (*canvas.Controller, bool) {
	marker, err := s.findMarker(r)
	if err != nil {
		http.Error(w, "failed to load marker", http.StatusInternalServerError)
		return nil, false
	}
	if marker == nil {
		http.Error(w, "marker not found", http.StatusNotFound)
		return nil, false
	}

	course, err := s.service.GetCourse(r.Context(), marker.CourseID)
	if err != nil || course == nil {
		http.Error(w, "failed to load course", http.StatusInternalServerError)
		return nil, false
	}

	ctrl := canvas.NewController(s.repo, prompter, *course)
	if err := ctrl.Load(r.Context()); err != nil {
		http.Error(w, "failed to load markers", http.StatusInternalServerError)
		return nil, false
	}
	return ctrl, true
}

func (s *Server) findMarker(r *http.Request) (*domain.Marker, error) {
	markers, err := s.repo.ListMarkers(r.Context())
	if err != nil {
		return nil, fmt.Errorf("failed to list markers: %w", err)
	}
	id := r.PathValue("id")
	for i := range markers {
		if markers[i].ID == id {
			return &markers[i], nil
		}
	}
	return nil, nil
}

func formPoint(r *http.Request) canvas.Point {
	return canvas.Point{
		X: formFloat(r, "x"),
		Y: formFloat(r, "y"),
	}
}

func formRect(r *http.Request) canvas.Rect {
	return canvas.Rect{
		Left:   formFloat(r, "rectLeft"),
		Top:    formFloat(r, "rectTop"),
		Width:  formFloat(r, "rectWidth"),
		Height: formFloat(r, "rectHeight"),
	}
}

func formFloat(r *http.Request, key string) float64 {
	v, err := strconv.ParseFloat(r.FormValue(key), 64)
	if err != nil {
		return 0
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
