package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mfujita/mapnotes/internal/backup"
)

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	text, err := s.codec.Export(r.Context())
	if err != nil {
		s.logger.Error("failed to export backup", "error", err)
		http.Error(w, "failed to export backup", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("mapnotes-backup-%s.json", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = io.WriteString(w, text)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "backup file required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	text, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read backup file", http.StatusBadRequest)
		return
	}

	wipe := r.FormValue("wipe") == "on"
	if err := s.codec.Import(r.Context(), string(text), wipe); err != nil {
		if errors.Is(err, backup.ErrUnsupportedVersion) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.logger.Error("failed to import backup", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.logger.Info("backup imported", "wipe", wipe, "bytes", len(text))
	http.Redirect(w, r, s.href("/courses"), http.StatusSeeOther)
}
