package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/sabdelkhalek/studyplanner/internal/service"
)

// NotificationHandler manages per-user notifications.
type NotificationHandler struct {
	svc    *service.NotificationService
	logger *slog.Logger
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(svc *service.NotificationService, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{svc: svc, logger: logger}
}

// HandleList returns the user's notifications, newest first.
//
// HTTP: GET /api/notifications?unread=true
func (h *NotificationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"

	notifications, err := h.svc.List(r.Context(), userID, unreadOnly)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, notifications)
}

// HandleCreate queues a notification for the authenticated user.
//
// HTTP: POST /api/notifications
// REQUEST BODY: {"kind":"reminder","message":"Partiel d'analyse demain",
// "send_at":"2026-01-14T18:00:00Z"}
//
// send_at is optional and defaults to now.
func (h *NotificationHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}

	var req struct {
		Kind    string    `json:"kind"`
		Message string    `json:"message"`
		SendAt  time.Time `json:"send_at"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	notification, err := h.svc.Create(r.Context(), userID, req.Kind, req.Message, req.SendAt)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, notification)
}

// HandleMarkRead marks one notification as read.
//
// HTTP: PUT /api/notifications/{id}/read
func (h *NotificationHandler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r, h.logger)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.svc.MarkRead(r.Context(), userID, id); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"read": true})
}

// HandleDelete removes a notification.
//
// HTTP: DELETE /api/notifications/{id}
func (h *NotificationHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
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
