package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"thesisvault/internal/auth"
	"thesisvault/internal/domain"
	"thesisvault/internal/repository"
	"thesisvault/internal/service"
)

type EventHandler struct {
	scheduleService *service.ScheduleService
	authClient      *auth.Client
}

type EventRequest struct {
	Title      string     `json:"title"`
	Department string     `json:"department"`
	StartTime  time.Time  `json:"start_time"`
	EndTime    *time.Time `json:"end_time,omitempty"`
	Status     string     `json:"status,omitempty"`
}

// EventResponse — созданное/обновлённое событие и список пересечений.
// Конфликты — предупреждение, операция к этому моменту уже выполнена.
type EventResponse struct {
	Event     *domain.CalendarEvent  `json:"event"`
	Conflicts []domain.CalendarEvent `json:"conflicts,omitempty"`
}

func NewEventHandler(scheduleService *service.ScheduleService, authClient *auth.Client) *EventHandler {
	return &EventHandler{scheduleService: scheduleService, authClient: authClient}
}

// CreateEvent создает событие календаря и сообщает о пересечениях
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	principal, err := h.authClient.Resolve(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Title == "" || req.StartTime.IsZero() {
		http.Error(w, "Title and start_time are required", http.StatusBadRequest)
		return
	}

	department := req.Department
	if department == "" {
		department = principal.Department
	}

	event := &domain.CalendarEvent{
		Title:      req.Title,
		Department: department,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Status:     domain.EventStatus(req.Status),
	}

	created, conflicts, err := h.scheduleService.CreateEvent(r.Context(), event)
	if err != nil {
		http.Error(w, "Failed to create event", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(EventResponse{Event: created, Conflicts: conflicts})
}

// UpdateEvent обновляет событие календаря
func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	principal, err := h.authClient.Resolve(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid event id", http.StatusBadRequest)
		return
	}

	var req EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	department := req.Department
	if department == "" {
		department = principal.Department
	}

	event := &domain.CalendarEvent{
		ID:         id,
		Title:      req.Title,
		Department: department,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Status:     domain.EventStatus(req.Status),
	}
	if event.Status == "" {
		event.Status = domain.EventStatusScheduled
	}

	updated, conflicts, err := h.scheduleService.UpdateEvent(r.Context(), event)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to update event", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(EventResponse{Event: updated, Conflicts: conflicts})
}

// FindOverlaps возвращает пересечения для интервала-кандидата без записи
func (h *EventHandler) FindOverlaps(w http.ResponseWriter, r *http.Request) {
	if _, err := h.authClient.Resolve(r); err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	department := r.URL.Query().Get("department")
	startRaw := r.URL.Query().Get("start")
	if department == "" || startRaw == "" {
		http.Error(w, "department and start are required", http.StatusBadRequest)
		return
	}

	start, err := time.Parse(time.RFC3339, startRaw)
	if err != nil {
		http.Error(w, "Invalid start time", http.StatusBadRequest)
		return
	}

	candidate := domain.CalendarEvent{
		Department: department,
		StartTime:  start,
		Status:     domain.EventStatusScheduled,
	}
	if endRaw := r.URL.Query().Get("end"); endRaw != "" {
		end, err := time.Parse(time.RFC3339, endRaw)
		if err != nil {
			http.Error(w, "Invalid end time", http.StatusBadRequest)
			return
		}
		candidate.EndTime = &end
	}

	conflicts, err := h.scheduleService.FindOverlaps(r.Context(), candidate, 0)
	if err != nil {
		http.Error(w, "Failed to find overlaps", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"conflicts": conflicts})
}
