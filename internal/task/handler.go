package task

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/taskpilot/taskpilot-api/internal/config"
	googlecalendar "github.com/taskpilot/taskpilot-api/internal/google_calendar"
)

type Handler struct {
	service TaskService
}

func NewHandler(service TaskService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto CreateTaskDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Error("Invalid request body for task creation")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	t, err := h.service.CreateTask(r.Context(), dto)
	if err != nil {
		h.writeError(w, r, err, "Failed to create task")
		return
	}

	config.JSON(w, http.StatusCreated, t)
}

func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.service.FindAllByUser(r.Context())
	if err != nil {
		h.writeError(w, r, err, "Failed to list tasks")
		return
	}
	if tasks == nil {
		tasks = []*Task{}
	}

	config.JSON(w, http.StatusOK, TaskListResponse{Tasks: tasks})
}

func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	t, err := h.service.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err, "Failed to find task")
		return
	}

	config.JSON(w, http.StatusOK, t)
}

func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	var dto UpdateTaskDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		log.WithError(err).Error("Invalid request body for task update")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	t, err := h.service.UpdateTask(r.Context(), chi.URLParam(r, "id"), dto)
	if err != nil {
		h.writeError(w, r, err, "Failed to update task")
		return
	}

	config.JSON(w, http.StatusOK, t)
}

func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteByID(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err, "Failed to delete task")
		return
	}

	config.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	log := config.WithContext(r.Context())

	switch {
	case errors.Is(err, ErrUnauthorized):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	case errors.Is(err, ErrTitleRequired):
		http.Error(w, "title is required", http.StatusBadRequest)
	case errors.Is(err, ErrInvalidID):
		http.Error(w, "invalid task id", http.StatusBadRequest)
	case errors.Is(err, ErrInvalidStatus):
		http.Error(w, "invalid task status", http.StatusBadRequest)
	case errors.Is(err, ErrTaskNotFound):
		http.Error(w, "task not found", http.StatusNotFound)
	case errors.Is(err, googlecalendar.ErrProvider):
		log.WithError(err).Error(msg)
		http.Error(w, "calendar sync failed", http.StatusBadGateway)
	default:
		log.WithError(err).Error(msg)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
