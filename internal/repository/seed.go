package repository

import (
	"time"

	"github.com/mfujita/mapnotes/internal/domain"
)

// Placeholder course art, embedded so the seed set works offline. Users
// replace these by creating courses with their own map images.
const (
	seedImageGreen = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAEAAAAAwCAIAAAAuKetIAAAAZUlEQVR4nO3PQQ0AIBDAsBPFEy34l4EIHg3JkgnoZp39dcMFDWhBA1rQgBY0oAUNaEEDWtCAFjSgBQ1oQQNa0IAWNKAFDWhBA1rQgBY0oAUNaEEDWtCAFjSgBQ1oQQNa0IAWPHYBwX+oiG1GoZMAAAAASUVORK5CYII="
	seedImageBlue  = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAEAAAAAwCAIAAAAuKetIAAAAZUlEQVR4nO3PQQ0AIBDAsFPECz34l4EIHg3JkgnoZu3zdcMFDWhBA1rQgBY0oAUNaEEDWtCAFjSgBQ1oQQNa0IAWNKAFDWhBA1rQgBY0oAUNaEEDWtCAFjSgBQ1oQQNa0IAWPHYBb0EAiNpcy28AAAAASUVORK5CYII="
)

// SeedCourses returns the fixed default course set written into an empty
// store on first read. IDs are preassigned so markers and backups stay
// stable across installs.
func SeedCourses() []domain.Course {
	now := time.Now().UTC()
	return []domain.Course{
		{
			ID:           "course-1",
			Name:         "Acorn Treehouse",
			ImageDataURL: seedImageGreen,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		{
			ID:           "course-2",
			Name:         "Ghost Cinema Circuit",
			ImageDataURL: seedImageBlue,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
	}
}
