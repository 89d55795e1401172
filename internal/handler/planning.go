package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/sabdelkhalek/studyplanner/internal/service"
)

// PlanningHandler manages study plannings and their sessions.
type PlanningHandler struct {
	svc    *service.PlanningService
	logger *slog.Logger
}

// NewPlanningHandler creates a new PlanningHandler.
func NewPlanningHandler(svc *service.PlanningService, logger *slog.Logger) *PlanningHandler {
	return &PlanningHandler{svc: svc, logger: logger}
}

// HandleList returns all of the user's plannings with their sessions.
//
// HTTP: GET /api/plannings
func (h *PlanningHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}

	plannings, err := h.svc.List(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, plannings)
}

// HandleCreate stores a planning with its study sessions.
//
// HTTP: POST /api/plannings
// REQUEST BODY:
//
//	{"title":"Révisions partiels","start_date":"2026-01-05T00:00:00Z",
//	 "end_date":"2026-01-18T00:00:00Z","sessions":[
//	   {"date":"2026-01-05T00:00:00Z","start_time":"18:00","end_time":"20:00",
//	    "subject":"Analyse","task_id":4}]}
func (h *PlanningHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}

	var req struct {
		Title     string    `json:"title"`
		StartDate time.Time `json:"start_date"`
		EndDate   time.Time `json:"end_date"`
		Sessions  []struct {
			TaskID      *int64    `json:"task_id"`
			Date        time.Time `json:"date"`
			StartTime   string    `json:"start_time"`
			EndTime     string    `json:"end_time"`
			Subject     string    `json:"subject"`
			Description string    `json:"description"`
		} `json:"sessions"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	in := service.PlanningInput{
		Title:     req.Title,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Sessions:  make([]service.SessionInput, 0, len(req.Sessions)),
	}
	for _, s := range req.Sessions {
		in.Sessions = append(in.Sessions, service.SessionInput{
			TaskID:      s.TaskID,
			Date:        s.Date,
			StartTime:   s.StartTime,
			EndTime:     s.EndTime,
			Subject:     s.Subject,
			Description: s.Description,
		})
	}

	planning, err := h.svc.Create(r.Context(), userID, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, planning)
}

// HandleGetByID returns one planning with its sessions.
//
// HTTP: GET /api/plannings/{id}
func (h *PlanningHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	planning, err := h.svc.GetByID(r.Context(), userID, id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, planning)
}

// HandleDelete removes a planning and all its sessions.
//
// HTTP: DELETE /api/plannings/{id}
func (h *PlanningHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
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

// HandleCompleteSession marks a study session done (or undoes it).
//
// HTTP: PUT /api/plannings/{id}/sessions/{sessionID}/complete
// REQUEST BODY: {"completed": true}
func (h *PlanningHandler) HandleCompleteSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}
	planningID, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	sessionID, err := pathID(r, "sessionID")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req struct {
		Completed bool `json:"completed"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.svc.SetSessionCompleted(r.Context(), userID, planningID, sessionID, req.Completed); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"completed": req.Completed})
}
