package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"thesisvault/internal/auth"
	"thesisvault/internal/domain"
	"thesisvault/internal/repository"
	"thesisvault/internal/service"
	"thesisvault/internal/service/storage"
)

type DocumentHandler struct {
	documentService *service.DocumentService
	resolverService *service.ResolverService
	authClient      *auth.Client
}

// UploadResponse представляет ответ на загрузку документа
type UploadResponse struct {
	Status   string                 `json:"status"`
	Document *domain.DocumentRecord `json:"document,omitempty"`
	Message  string                 `json:"message,omitempty"`
}

func NewDocumentHandler(
	documentService *service.DocumentService,
	resolverService *service.ResolverService,
	authClient *auth.Client,
) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		resolverService: resolverService,
		authClient:      authClient,
	}
}

// UploadDocument обрабатывает загрузку документа дипломной работы
func (h *DocumentHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
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

	if err := r.ParseMultipartForm(100 << 20); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	kind := domain.DocumentKind(r.FormValue("kind"))
	if kind == "" {
		kind = domain.DocumentKindMain
	}

	// Переносим содержимое в staging-файл: бэкенды работают с путём
	staging, err := writeStagingFile(file)
	if err != nil {
		log.Error().Err(err).Msg("failed to write staging file")
		http.Error(w, "Failed to accept file", http.StatusInternalServerError)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	doc, err := h.documentService.Upload(r.Context(), thesisID, storage.UploadInput{
		OriginalName: header.Filename,
		MIMEType:     contentType,
		SizeBytes:    header.Size,
		StagingPath:  staging,
	}, kind, *principal)
	if err != nil {
		os.Remove(staging)
		writeDocumentError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(UploadResponse{Status: "ok", Document: doc})
}

// ResolveDocument отдаёт документ для просмотра или скачивания
func (h *DocumentHandler) ResolveDocument(w http.ResponseWriter, r *http.Request) {
	docID, err := uuid.Parse(chi.URLParam(r, "uuid"))
	if err != nil {
		http.Error(w, "Invalid document id", http.StatusBadRequest)
		return
	}

	doc, err := h.documentService.Get(r.Context(), docID)
	if err != nil {
		writeDocumentError(w, err)
		return
	}

	// Непубличные работы доступны только аутентифицированным пользователям
	public, err := h.documentService.IsPubliclyAccessible(r.Context(), doc)
	if err != nil {
		writeDocumentError(w, err)
		return
	}
	if !public {
		if _, err := h.authClient.Resolve(r); err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
	}

	intent := service.IntentView
	if r.URL.Query().Get("intent") == string(service.IntentDownload) {
		intent = service.IntentDownload
	}

	res, err := h.resolverService.Resolve(r.Context(), doc, intent)
	if err != nil {
		writeDocumentError(w, err)
		return
	}

	if res.RedirectURL != "" {
		http.Redirect(w, r, res.RedirectURL, http.StatusFound)
		return
	}

	w.Header().Set("Content-Type", doc.MIMEType)
	if intent == service.IntentDownload {
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", doc.OriginalName))
	}
	http.ServeFile(w, r, res.LocalPath)
}

// DeleteDocument удаляет документ
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	principal, err := h.authClient.Resolve(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	docID, err := uuid.Parse(chi.URLParam(r, "uuid"))
	if err != nil {
		http.Error(w, "Invalid document id", http.StatusBadRequest)
		return
	}

	existed, err := h.documentService.Delete(r.Context(), docID, *principal)
	if err != nil {
		writeDocumentError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"deleted": existed})
}

// writeStagingFile сохраняет multipart-поток во временный файл
func writeStagingFile(src io.Reader) (string, error) {
	tmp, err := os.CreateTemp("", "thesisvault-upload-*")
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}

	return tmp.Name(), nil
}

// writeDocumentError переводит ошибки сервисов в HTTP-статусы
func writeDocumentError(w http.ResponseWriter, err error) {
	var notFound *service.NotFoundError
	var integrity *service.IntegrityError

	switch {
	case errors.As(err, &notFound):
		http.Error(w, notFound.Error(), http.StatusNotFound)
	case errors.Is(err, repository.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.As(err, &integrity):
		// Битые байты не отдаются никогда
		http.Error(w, "Document failed integrity verification", http.StatusInternalServerError)
	case errors.Is(err, service.ErrAccessDenied):
		http.Error(w, "Access denied", http.StatusForbidden)
	case errors.Is(err, service.ErrFileTooLarge), errors.Is(err, service.ErrInvalidFile):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, storage.ErrUnconfigured):
		http.Error(w, "Storage backend is not configured", http.StatusServiceUnavailable)
	default:
		log.Error().Err(err).Msg("document operation failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
