package handler

import (
	"net/http"

	"github.com/bcnelson/stackex/internal/domain"
	"github.com/bcnelson/stackex/internal/service"
	"github.com/bcnelson/stackex/internal/validation"
	"github.com/go-chi/chi/v5"
)

// StackHandler handles saved stack endpoints.
type StackHandler struct {
	stacks *service.StackService
}

// NewStackHandler creates a new StackHandler.
func NewStackHandler(stacks *service.StackService) *StackHandler {
	return &StackHandler{stacks: stacks}
}

// Create saves a stack for the signed-in user.
func (h *StackHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.SaveStackRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if errs := validation.ValidateSaveRequest(&req); errs.HasErrors() {
		respondValidationErrors(w, errs.Error(), errs)
		return
	}

	record, err := h.stacks.Save(r.Context(), currentUserID(r), req.Stacks)
	if err != nil {
		handleError(w, err, domain.MsgSaveFailed)
		return
	}

	respondJSON(w, http.StatusCreated, &domain.SaveStackResponse{
		ID:      record.ID,
		Message: "Stack saved successfully",
	})
}

// List lists the signed-in user's saved stacks, newest first.
func (h *StackHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r)
	records, err := h.stacks.List(r.Context(), userID)
	if err != nil {
		handleError(w, err, domain.MsgFetchFailed)
		return
	}

	etag := SavedStacksETag(userID, records)
	if CheckIfNoneMatch(r, etag) {
		respondNotModified(w, etag)
		return
	}
	SetETagHeader(w, etag)
	respondJSON(w, http.StatusOK, &domain.ListStacksResponse{Stacks: records})
}

// Delete deletes one of the signed-in user's saved stacks.
func (h *StackHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "id is required")
		return
	}

	if err := h.stacks.Delete(r.Context(), currentUserID(r), id); err != nil {
		handleError(w, err, domain.MsgDeleteFailed)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
