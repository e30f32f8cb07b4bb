package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"thesisvault/internal/auth"
	"thesisvault/internal/domain"
	"thesisvault/internal/repository"
	"thesisvault/internal/service"
)

type ThesisHandler struct {
	workflowService *service.WorkflowService
	documentService *service.DocumentService
	authClient      *auth.Client
}

type CreateThesisRequest struct {
	Title     string   `json:"title"`
	Abstract  string   `json:"abstract"`
	Authors   []string `json:"authors"`
	AdviserID *string  `json:"adviser_id,omitempty"`
}

type TransitionRequestBody struct {
	Status   domain.ThesisStatus `json:"status"`
	Comments *string             `json:"comments,omitempty"`
	Score    *int                `json:"score,omitempty"`
}

// TransitionResponse — применённый переход и мягкое предупреждение, если есть
type TransitionResponse struct {
	Thesis  *domain.Thesis `json:"thesis"`
	Warning string         `json:"warning,omitempty"`
}

func NewThesisHandler(
	workflowService *service.WorkflowService,
	documentService *service.DocumentService,
	authClient *auth.Client,
) *ThesisHandler {
	return &ThesisHandler{
		workflowService: workflowService,
		documentService: documentService,
		authClient:      authClient,
	}
}

// CreateThesis создает черновик работы
func (h *ThesisHandler) CreateThesis(w http.ResponseWriter, r *http.Request) {
	principal, err := h.authClient.Resolve(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateThesisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Title == "" {
		http.Error(w, "Title is required", http.StatusBadRequest)
		return
	}

	thesis, err := h.workflowService.CreateDraft(
		r.Context(), req.Title, req.Abstract, req.Authors, req.AdviserID, *principal)
	if err != nil {
		writeThesisError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(thesis)
}

// GetThesis возвращает работу; непубличные видны только аутентифицированным
func (h *ThesisHandler) GetThesis(w http.ResponseWriter, r *http.Request) {
	thesisID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid thesis id", http.StatusBadRequest)
		return
	}

	thesis, err := h.workflowService.Get(r.Context(), thesisID)
	if err != nil {
		writeThesisError(w, err)
		return
	}

	if !thesis.IsPublic {
		if _, err := h.authClient.Resolve(r); err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(thesis)
}

// TransitionThesis выполняет переход статуса работы
func (h *ThesisHandler) TransitionThesis(w http.ResponseWriter, r *http.Request) {
	principal, err := h.authClient.Resolve(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	thesisID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid thesis id", http.StatusBadRequest)
		return
	}

	var body TransitionRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.workflowService.Transition(r.Context(), thesisID, service.TransitionRequest{
		To:       body.Status,
		Comments: body.Comments,
		Score:    body.Score,
	}, *principal)
	if err != nil {
		writeThesisError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(TransitionResponse{Thesis: result.Thesis, Warning: result.Warning})
}

// DeleteThesis удаляет работу вместе с документами
func (h *ThesisHandler) DeleteThesis(w http.ResponseWriter, r *http.Request) {
	principal, err := h.authClient.Resolve(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	thesisID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid thesis id", http.StatusBadRequest)
		return
	}

	if err := h.documentService.DeleteThesis(r.Context(), thesisID, *principal); err != nil {
		writeThesisError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeThesisError(w http.ResponseWriter, err error) {
	var invalid *service.InvalidTransitionError

	switch {
	case errors.As(err, &invalid):
		http.Error(w, invalid.Error(), http.StatusConflict)
	case errors.Is(err, repository.ErrVersionConflict):
		http.Error(w, "Thesis was modified concurrently, retry", http.StatusConflict)
	case errors.Is(err, repository.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, service.ErrAccessDenied):
		http.Error(w, "Access denied", http.StatusForbidden)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
