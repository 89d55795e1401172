package server_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sabdelkhalek/studyplanner/internal/config"
	"github.com/sabdelkhalek/studyplanner/internal/server"
)

// =========================================================================
// TEST HARNESS
// =========================================================================

// newTestServer builds the full server against an in-memory database so
// tests exercise the real router, middleware, handlers, services and
// repositories end to end.
func newTestServer(t *testing.T) *server.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	cfg := config.Config{
		Port:            0,
		DBPath:          ":memory:",
		JWTSecret:       "integration-test-secret-32-chars",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 30 * 24 * time.Hour,
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		t.Fatalf("server.New: %v", err)
	}
	t.Cleanup(func() { srv.Close() })
	return srv
}

// do sends a JSON request through the router. token may be empty.
func do(t *testing.T, srv *server.Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(dst); err != nil {
		t.Fatalf("decoding response %q: %v", rr.Body.String(), err)
	}
}

type authBody struct {
	User struct {
		ID       int64  `json:"id"`
		Name     string `json:"name"`
		Email    string `json:"email"`
		Language string `json:"language"`
	} `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// register creates an account and returns its tokens.
func register(t *testing.T, srv *server.Server, email string) authBody {
	t.Helper()

	rr := do(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Dupont",
		"email":    email,
		"password": "secret1",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d, body %s", email, rr.Code, rr.Body.String())
	}

	var body authBody
	decode(t, rr, &body)
	return body
}

// =========================================================================
// AUTH FLOW
// =========================================================================

func TestAuthFlow(t *testing.T) {
	srv := newTestServer(t)

	// Register
	reg := register(t, srv, "marie@example.com")
	assert.NotZero(t, reg.User.ID)
	assert.NotEmpty(t, reg.AccessToken)
	assert.NotEmpty(t, reg.RefreshToken)
	assert.Equal(t, "fr", reg.User.Language, "language defaults to fr")

	// The stored hash never leaks through the JSON
	rr := do(t, srv, http.MethodGet, "/api/auth/me", reg.AccessToken, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "password")

	// Duplicate email conflicts
	rr = do(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Martin",
		"email":    "marie@example.com",
		"password": "secret2",
	})
	assert.Equal(t, http.StatusConflict, rr.Code)

	// Login works, wrong password doesn't
	rr = do(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "marie@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "marie@example.com", "password": "wrong99",
	})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// Unknown email gives the exact same response as wrong password
	rr2 := do(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "nobody@example.com", "password": "secret1",
	})
	assert.Equal(t, rr.Code, rr2.Code)
	assert.Equal(t, rr.Body.String(), rr2.Body.String())

	// Change password: wrong old password rejected, then success
	rr = do(t, srv, http.MethodPost, "/api/auth/change-password", reg.AccessToken, map[string]string{
		"old_password": "wrong99", "new_password": "abcdef",
	})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = do(t, srv, http.MethodPost, "/api/auth/change-password", reg.AccessToken, map[string]string{
		"old_password": "secret1", "new_password": "abcdef",
	})
	assert.Equal(t, http.StatusOK, rr.Code)

	// Old password no longer logs in, new one does
	rr = do(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "marie@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = do(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "marie@example.com", "password": "abcdef",
	})
	assert.Equal(t, http.StatusOK, rr.Code)

	// Logout acknowledges
	rr = do(t, srv, http.MethodPost, "/api/auth/logout", reg.AccessToken, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestTokenDiscipline(t *testing.T) {
	srv := newTestServer(t)
	reg := register(t, srv, "marie@example.com")

	t.Run("refresh token issues new access token", func(t *testing.T) {
		rr := do(t, srv, http.MethodPost, "/api/auth/refresh", reg.RefreshToken, nil)
		assert.Equal(t, http.StatusOK, rr.Code)

		var body struct {
			AccessToken string `json:"access_token"`
		}
		decode(t, rr, &body)
		assert.NotEmpty(t, body.AccessToken)

		// The new access token is usable
		rr = do(t, srv, http.MethodGet, "/api/auth/me", body.AccessToken, nil)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("access token rejected on refresh route", func(t *testing.T) {
		rr := do(t, srv, http.MethodPost, "/api/auth/refresh", reg.AccessToken, nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("refresh token rejected on protected routes", func(t *testing.T) {
		rr := do(t, srv, http.MethodGet, "/api/auth/me", reg.RefreshToken, nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("no token rejected", func(t *testing.T) {
		rr := do(t, srv, http.MethodGet, "/api/subjects", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestUpdateProfile(t *testing.T) {
	srv := newTestServer(t)
	reg := register(t, srv, "marie@example.com")

	rr := do(t, srv, http.MethodPut, "/api/auth/me", reg.AccessToken, map[string]string{
		"name": "Durand", "level": "Master 1", "language": "en",
	})
	assert.Equal(t, http.StatusOK, rr.Code)

	var user struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Level    string `json:"level"`
		Language string `json:"language"`
	}
	decode(t, rr, &user)
	assert.Equal(t, "Durand", user.Name)
	assert.Equal(t, "Master 1", user.Level)
	assert.Equal(t, "marie@example.com", user.Email, "email never changes via profile update")

	// Unknown fields (like email) are silently ignored, not rejected
	rr = do(t, srv, http.MethodPut, "/api/auth/me", reg.AccessToken, map[string]string{
		"name":  "Dupont",
		"email": "new@example.com",
	})
	assert.Equal(t, http.StatusOK, rr.Code)
	decode(t, rr, &user)
	assert.Equal(t, "Dupont", user.Name)
	assert.Equal(t, "marie@example.com", user.Email, "extra email key has no effect")
}

// =========================================================================
// DOMAIN ROUTES
// =========================================================================

func TestSubjectAndTaskRoutes(t *testing.T) {
	srv := newTestServer(t)
	reg := register(t, srv, "marie@example.com")

	// Create a subject
	rr := do(t, srv, http.MethodPost, "/api/subjects", reg.AccessToken, map[string]string{
		"title": "Analyse",
	})
	assert.Equal(t, http.StatusCreated, rr.Code)

	var subject struct {
		ID    int64  `json:"id"`
		Color string `json:"color"`
	}
	decode(t, rr, &subject)
	assert.NotZero(t, subject.ID)
	assert.NotEmpty(t, subject.Color, "color gets a default")

	// Create a task linked to it
	rr = do(t, srv, http.MethodPost, "/api/tasks", reg.AccessToken, map[string]any{
		"title":      "Révisions chapitre 3",
		"due_date":   time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339),
		"subject_id": subject.ID,
		"priority":   3,
	})
	assert.Equal(t, http.StatusCreated, rr.Code)

	var task struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	decode(t, rr, &task)
	assert.Equal(t, "todo", task.Status, "status defaults to todo")

	// List with filters
	rr = do(t, srv, http.MethodGet, fmt.Sprintf("/api/tasks?status=todo&subject_id=%d", subject.ID), reg.AccessToken, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	var tasks []json.RawMessage
	decode(t, rr, &tasks)
	assert.Len(t, tasks, 1)

	// Unknown status filter is a 400
	rr = do(t, srv, http.MethodGet, "/api/tasks?status=bogus", reg.AccessToken, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// A task can't reference a subject the user doesn't own
	rr = do(t, srv, http.MethodPost, "/api/tasks", reg.AccessToken, map[string]any{
		"title":      "Orphan",
		"due_date":   time.Now().Add(time.Hour).UTC().Format(time.RFC3339),
		"subject_id": 9999,
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

// Other users' rows must read as 404, never 403 — the API doesn't reveal
// that the row exists at all.
func TestOwnershipIsolation(t *testing.T) {
	srv := newTestServer(t)
	marie := register(t, srv, "marie@example.com")
	paul := register(t, srv, "paul@example.com")

	rr := do(t, srv, http.MethodPost, "/api/subjects", marie.AccessToken, map[string]string{
		"title": "Analyse",
	})
	assert.Equal(t, http.StatusCreated, rr.Code)
	var subject struct {
		ID int64 `json:"id"`
	}
	decode(t, rr, &subject)

	path := fmt.Sprintf("/api/subjects/%d", subject.ID)

	rr = do(t, srv, http.MethodGet, path, paul.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, srv, http.MethodDelete, path, paul.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// Marie still sees it
	rr = do(t, srv, http.MethodGet, path, marie.AccessToken, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestScheduleRoutes(t *testing.T) {
	srv := newTestServer(t)
	reg := register(t, srv, "marie@example.com")

	course := map[string]string{
		"day": "lundi", "start_time": "08:00", "end_time": "10:00",
		"subject": "Analyse", "room": "B204",
	}

	rr := do(t, srv, http.MethodPost, "/api/schedules", reg.AccessToken, map[string]any{
		"source_file": "edt-s1.pdf",
		"courses":     []map[string]string{course},
	})
	assert.Equal(t, http.StatusCreated, rr.Code)

	var schedule struct {
		ID      int64 `json:"id"`
		Courses []struct {
			Subject string `json:"subject"`
		} `json:"courses"`
	}
	decode(t, rr, &schedule)
	assert.Len(t, schedule.Courses, 1)

	// Bad time format is a 400
	bad := map[string]string{
		"day": "mardi", "start_time": "8h00", "end_time": "10:00", "subject": "Algèbre",
	}
	rr = do(t, srv, http.MethodPost, "/api/schedules", reg.AccessToken, map[string]any{
		"courses": []map[string]string{bad},
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// Empty course list is a 400
	rr = do(t, srv, http.MethodPost, "/api/schedules", reg.AccessToken, map[string]any{
		"courses": []map[string]string{},
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, srv, http.MethodDelete, fmt.Sprintf("/api/schedules/%d", schedule.ID), reg.AccessToken, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestPlanningRoutes(t *testing.T) {
	srv := newTestServer(t)
	reg := register(t, srv, "marie@example.com")

	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	rr := do(t, srv, http.MethodPost, "/api/plannings", reg.AccessToken, map[string]any{
		"start_date": start.Format(time.RFC3339),
		"end_date":   start.Add(14 * 24 * time.Hour).Format(time.RFC3339),
		"sessions": []map[string]any{
			{
				"date":       start.Format(time.RFC3339),
				"start_time": "18:00",
				"end_time":   "20:00",
				"subject":    "Analyse",
			},
		},
	})
	assert.Equal(t, http.StatusCreated, rr.Code)

	var planning struct {
		ID       int64  `json:"id"`
		Title    string `json:"title"`
		Sessions []struct {
			ID        int64 `json:"id"`
			Completed bool  `json:"completed"`
		} `json:"sessions"`
	}
	decode(t, rr, &planning)
	assert.NotEmpty(t, planning.Title, "title gets a default")
	assert.Len(t, planning.Sessions, 1)
	assert.False(t, planning.Sessions[0].Completed)

	// Mark the session complete
	path := fmt.Sprintf("/api/plannings/%d/sessions/%d/complete", planning.ID, planning.Sessions[0].ID)
	rr = do(t, srv, http.MethodPut, path, reg.AccessToken, map[string]bool{"completed": true})
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, srv, http.MethodGet, fmt.Sprintf("/api/plannings/%d", planning.ID), reg.AccessToken, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	decode(t, rr, &planning)
	assert.True(t, planning.Sessions[0].Completed)

	// End before start is a 400
	rr = do(t, srv, http.MethodPost, "/api/plannings", reg.AccessToken, map[string]any{
		"start_date": start.Format(time.RFC3339),
		"end_date":   start.Add(-24 * time.Hour).Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestNotificationRoutes(t *testing.T) {
	srv := newTestServer(t)
	reg := register(t, srv, "marie@example.com")

	rr := do(t, srv, http.MethodPost, "/api/notifications", reg.AccessToken, map[string]string{
		"kind": "reminder", "message": "Partiel d'analyse demain",
	})
	assert.Equal(t, http.StatusCreated, rr.Code)

	var notification struct {
		ID   int64 `json:"id"`
		Read bool  `json:"read"`
	}
	decode(t, rr, &notification)
	assert.False(t, notification.Read)

	// Unknown kind is a 400
	rr = do(t, srv, http.MethodPost, "/api/notifications", reg.AccessToken, map[string]string{
		"kind": "carrier-pigeon", "message": "hello",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// Unread filter
	rr = do(t, srv, http.MethodGet, "/api/notifications?unread=true", reg.AccessToken, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	var list []json.RawMessage
	decode(t, rr, &list)
	assert.Len(t, list, 1)

	// Mark read, then the unread filter is empty
	rr = do(t, srv, http.MethodPut, fmt.Sprintf("/api/notifications/%d/read", notification.ID), reg.AccessToken, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, srv, http.MethodGet, "/api/notifications?unread=true", reg.AccessToken, nil)
	decode(t, rr, &list)
	assert.Empty(t, list)

	rr = do(t, srv, http.MethodDelete, fmt.Sprintf("/api/notifications/%d", notification.ID), reg.AccessToken, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

// =========================================================================
// ERROR SHAPE
// =========================================================================

func TestErrorBodiesAreUniform(t *testing.T) {
	srv := newTestServer(t)
	reg := register(t, srv, "marie@example.com")

	cases := []struct {
		name       string
		rr         *httptest.ResponseRecorder
		wantStatus int
		wantCode   string
	}{
		{"validation", do(t, srv, http.MethodPost, "/api/subjects", reg.AccessToken, map[string]string{"title": ""}), http.StatusBadRequest, "validation_failed"},
		{"not found", do(t, srv, http.MethodGet, "/api/subjects/9999", reg.AccessToken, nil), http.StatusNotFound, "not_found"},
		{"bad id", do(t, srv, http.MethodGet, "/api/subjects/abc", reg.AccessToken, nil), http.StatusBadRequest, "validation_failed"},
		{"malformed json", do(t, srv, http.MethodPost, "/api/subjects", reg.AccessToken, nil), http.StatusBadRequest, "validation_failed"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.wantStatus, tc.rr.Code)

			var body struct {
				Error   string `json:"error"`
				Message string `json:"message"`
			}
			decode(t, tc.rr, &body)
			assert.Equal(t, tc.wantCode, body.Error)
			assert.NotEmpty(t, body.Message)
		})
	}
}
