package handler

import (
	"log/slog"
	"net/http"

	"github.com/sabdelkhalek/studyplanner/internal/service"
)

// ScheduleHandler manages imported class timetables.
type ScheduleHandler struct {
	svc    *service.ScheduleService
	logger *slog.Logger
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(svc *service.ScheduleService, logger *slog.Logger) *ScheduleHandler {
	return &ScheduleHandler{svc: svc, logger: logger}
}

// HandleList returns all of the user's schedules with their courses.
//
// HTTP: GET /api/schedules
func (h *ScheduleHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}

	schedules, err := h.svc.List(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, schedules)
}

// HandleImport stores a schedule with its extracted courses.
//
// HTTP: POST /api/schedules
// REQUEST BODY:
//
//	{"source_file":"edt-s1.pdf","courses":[
//	  {"day":"lundi","start_time":"08:00","end_time":"10:00",
//	   "subject":"Analyse","room":"B204","teacher":"M. Girard"}]}
//
// The timetable file itself is parsed client-side; this endpoint receives
// the already-structured course list.
func (h *ScheduleHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}

	var req struct {
		SourceFile string `json:"source_file"`
		Courses    []struct {
			Day       string `json:"day"`
			StartTime string `json:"start_time"`
			EndTime   string `json:"end_time"`
			Subject   string `json:"subject"`
			Room      string `json:"room"`
			Teacher   string `json:"teacher"`
		} `json:"courses"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	courses := make([]service.CourseInput, 0, len(req.Courses))
	for _, c := range req.Courses {
		courses = append(courses, service.CourseInput{
			Day:       c.Day,
			StartTime: c.StartTime,
			EndTime:   c.EndTime,
			Subject:   c.Subject,
			Room:      c.Room,
			Teacher:   c.Teacher,
		})
	}

	schedule, err := h.svc.Import(r.Context(), userID, req.SourceFile, courses)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, schedule)
}

// HandleGetByID returns one schedule with its courses.
//
// HTTP: GET /api/schedules/{id}
func (h *ScheduleHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	schedule, err := h.svc.GetByID(r.Context(), userID, id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, schedule)
}

// HandleDelete removes a schedule and all its courses.
//
// HTTP: DELETE /api/schedules/{id}
func (h *ScheduleHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
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
