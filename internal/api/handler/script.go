package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/bcnelson/stackex/internal/domain"
	"github.com/bcnelson/stackex/internal/service"
	"github.com/bcnelson/stackex/internal/validation"
)

// ScriptHandler handles script generation.
type ScriptHandler struct {
	scripts *service.ScriptService
}

// NewScriptHandler creates a new ScriptHandler.
func NewScriptHandler(scripts *service.ScriptService) *ScriptHandler {
	return &ScriptHandler{scripts: scripts}
}

// Generate validates the stack and returns an installation script.
func (h *ScriptHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req domain.GenerateScriptRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, domain.MsgMissingFields)
		return
	}

	if errs := validation.ValidateGenerateRequest(&req); errs.HasErrors() {
		respondValidationErrors(w, domain.MsgMissingFields, errs)
		return
	}

	os, err := domain.ParseOS(req.OS)
	if err != nil {
		respondError(w, http.StatusBadRequest, domain.MsgMissingFields)
		return
	}

	artifact, err := h.scripts.Generate(r.Context(), domain.StackRequest{Input: req.Stack.Input, OS: os})
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, &domain.GenerateScriptResponse{Script: artifact.Body})
	case errors.Is(err, domain.ErrInvalidStack):
		respondError(w, http.StatusBadRequest, domain.MsgInvalidStack)
	case errors.Is(err, domain.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, domain.MsgMissingFields)
	default:
		log.Printf("Script generation failed: %v", err)
		respondError(w, http.StatusInternalServerError, domain.UpstreamMessage(err))
	}
}
