package handler

import (
	"log"
	"net/http"

	"github.com/bcnelson/stackex/internal/auth"
	"github.com/bcnelson/stackex/internal/domain"
	"github.com/bcnelson/stackex/internal/service"
)

// PopularHandler serves the trending stacks list.
type PopularHandler struct {
	cache *service.PopularCache
}

// NewPopularHandler creates a new PopularHandler.
func NewPopularHandler(cache *service.PopularCache) *PopularHandler {
	return &PopularHandler{cache: cache}
}

// List returns the popular stacks of the caller's browse session.
func (h *PopularHandler) List(w http.ResponseWriter, r *http.Request) {
	stacks, err := h.cache.Get(r.Context(), auth.BrowseSessionFromContext(r.Context()))
	if err != nil {
		log.Printf("Fetching popular stacks failed: %v", err)
		respondError(w, http.StatusInternalServerError, domain.MsgPopularStacksFailed)
		return
	}
	respondJSON(w, http.StatusOK, &domain.PopularStacksResponse{PopularStacks: stacks})
}
