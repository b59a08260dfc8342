package handler

import (
	"net/http"

	"github.com/bcnelson/stackex/internal/domain"
)

// Catalog returns the technology catalog and presets.
func Catalog(w http.ResponseWriter, r *http.Request) {
	if CheckIfNoneMatch(r, catalogETag) {
		respondNotModified(w, catalogETag)
		return
	}
	SetETagHeader(w, catalogETag)
	respondJSON(w, http.StatusOK, domain.Catalog())
}
