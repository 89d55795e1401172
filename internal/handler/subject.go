package handler

import (
	"log/slog"
	"net/http"

	"github.com/sabdelkhalek/studyplanner/internal/service"
)

// SubjectHandler manages CRUD operations for study subjects.
type SubjectHandler struct {
	svc    *service.SubjectService
	logger *slog.Logger
}

// NewSubjectHandler creates a new SubjectHandler.
func NewSubjectHandler(svc *service.SubjectService, logger *slog.Logger) *SubjectHandler {
	return &SubjectHandler{svc: svc, logger: logger}
}

// subjectRequest is the writable subset of a subject.
type subjectRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

func (req subjectRequest) toInput() service.SubjectInput {
	return service.SubjectInput{
		Title:       req.Title,
		Description: req.Description,
		Color:       req.Color,
	}
}

// HandleList returns all of the user's subjects.
//
// HTTP: GET /api/subjects
func (h *SubjectHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}

	subjects, err := h.svc.List(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, subjects)
}

// HandleCreate adds a subject.
//
// HTTP: POST /api/subjects
// REQUEST BODY: {"title":"Maths","description":"...","color":"#ff8800"}
func (h *SubjectHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}

	var req subjectRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	subject, err := h.svc.Create(r.Context(), userID, req.toInput())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, subject)
}

// HandleGetByID returns one subject.
//
// HTTP: GET /api/subjects/{id}
func (h *SubjectHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	subject, err := h.svc.GetByID(r.Context(), userID, id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, subject)
}

// HandleUpdate replaces a subject's writable fields.
//
// HTTP: PUT /api/subjects/{id}
func (h *SubjectHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req subjectRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	subject, err := h.svc.Update(r.Context(), userID, id, req.toInput())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, subject)
}

// HandleDelete removes a subject. Tasks that referenced it keep existing
// with no subject.
//
// HTTP: DELETE /api/subjects/{id}
func (h *SubjectHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
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
