package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/sabdelkhalek/studyplanner/internal/apperror"
	"github.com/sabdelkhalek/studyplanner/internal/repository"
	"github.com/sabdelkhalek/studyplanner/internal/service"
)

// TaskHandler manages CRUD operations for tasks and exams.
type TaskHandler struct {
	svc    *service.TaskService
	logger *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(svc *service.TaskService, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{svc: svc, logger: logger}
}

// taskRequest is the writable subset of a task. Dates are RFC 3339.
type taskRequest struct {
	SubjectID   *int64    `json:"subject_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date"`
	Priority    int       `json:"priority"`
	Status      string    `json:"status"`
}

func (req taskRequest) toInput() service.TaskInput {
	return service.TaskInput{
		SubjectID:   req.SubjectID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
		Status:      req.Status,
	}
}

// HandleList returns the user's tasks ordered by due date.
//
// HTTP: GET /api/tasks?status=todo&subject_id=3&limit=20&offset=0
//
// QUERY PARAMETERS:
// All filters are optional. Unknown status values are a 400; non-numeric
// subject_id/limit/offset are a 400 rather than being silently ignored.
func (h *TaskHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}

	filter := repository.TaskFilter{Status: r.URL.Query().Get("status")}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, h.logger, apperror.ValidationFailed("limit", "must be a number"))
			return
		}
		filter.Limit = n
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, h.logger, apperror.ValidationFailed("offset", "must be a number"))
			return
		}
		filter.Offset = n
	}

	if raw := r.URL.Query().Get("subject_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, h.logger, apperror.ValidationFailed("subject_id", "must be a numeric ID"))
			return
		}
		filter.SubjectID = &id
	}

	tasks, err := h.svc.List(r.Context(), userID, filter)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

// HandleCreate adds a task.
//
// HTTP: POST /api/tasks
// REQUEST BODY:
//
//	{"title":"Révisions analyse","due_date":"2026-01-15T00:00:00Z",
//	 "priority":3,"status":"todo","subject_id":2}
func (h *TaskHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}

	var req taskRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	task, err := h.svc.Create(r.Context(), userID, req.toInput())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

// HandleGetByID returns one task.
//
// HTTP: GET /api/tasks/{id}
func (h *TaskHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	task, err := h.svc.GetByID(r.Context(), userID, id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// HandleUpdate replaces a task's writable fields.
//
// HTTP: PUT /api/tasks/{id}
func (h *TaskHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req taskRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	task, err := h.svc.Update(r.Context(), userID, id, req.toInput())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// HandleDelete removes a task.
//
// HTTP: DELETE /api/tasks/{id}
func (h *TaskHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.svc.Delete(r.Context(), userID, id); err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
