package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sabdelkhalek/studyplanner/internal/apperror"
	"github.com/sabdelkhalek/studyplanner/internal/model"
)

func createTestPlanning(t *testing.T, plannings *PlanningDB, userID int64) *model.Planning {
	t.Helper()

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	planning := &model.Planning{
		UserID:    userID,
		Title:     "Révisions partiels",
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 14),
		Active:    true,
		Sessions: []model.StudySession{
			{Date: start, StartTime: "18:00", EndTime: "20:00", Subject: "Analyse"},
			{Date: start.AddDate(0, 0, 1), StartTime: "09:00", EndTime: "11:00", Subject: "Compilation"},
		},
	}
	if err := plannings.Create(context.Background(), planning); err != nil {
		t.Fatalf("creating test planning: %v", err)
	}
	return planning
}

func TestPlanningCreate_WithSessions(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "marie@example.com")
	plannings := db.Plannings()

	planning := createTestPlanning(t, plannings, user.ID)
	if planning.ID == 0 {
		t.Fatal("Create() did not set planning.ID")
	}

	got, err := plannings.GetByID(context.Background(), user.ID, planning.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if len(got.Sessions) != 2 {
		t.Fatalf("GetByID() returned %d sessions, want 2", len(got.Sessions))
	}
	if !got.Active {
		t.Error("planning should be active")
	}
	// Sessions come back ordered by date then start time
	if got.Sessions[0].Subject != "Analyse" {
		t.Errorf("first session = %+v", got.Sessions[0])
	}
}

func TestPlanningSetSessionCompleted(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "marie@example.com")
	plannings := db.Plannings()

	planning := createTestPlanning(t, plannings, user.ID)
	session := planning.Sessions[0]

	if err := plannings.SetSessionCompleted(context.Background(), user.ID, planning.ID, session.ID, true); err != nil {
		t.Fatalf("SetSessionCompleted() error = %v", err)
	}

	got, err := plannings.GetByID(context.Background(), user.ID, planning.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if !got.Sessions[0].Completed {
		t.Error("session should be completed")
	}
	if got.Sessions[1].Completed {
		t.Error("other session should be untouched")
	}
}

func TestPlanningSetSessionCompleted_OtherUsersPlanning(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner@example.com")
	intruder := createTestUser(t, db, "intruder@example.com")
	plannings := db.Plannings()

	planning := createTestPlanning(t, plannings, owner.ID)

	err := plannings.SetSessionCompleted(context.Background(), intruder.ID, planning.ID, planning.Sessions[0].ID, true)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("SetSessionCompleted() for foreign planning: error = %v, want ErrNotFound", err)
	}
}

func TestPlanningDelete_CascadesToSessions(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "marie@example.com")
	plannings := db.Plannings()

	planning := createTestPlanning(t, plannings, user.ID)

	if err := plannings.Delete(context.Background(), user.ID, planning.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	var count int
	err := db.conn.QueryRow(`SELECT COUNT(*) FROM study_sessions WHERE planning_id = ?`, planning.ID).Scan(&count)
	if err != nil {
		t.Fatalf("counting sessions: %v", err)
	}
	if count != 0 {
		t.Errorf("%d session rows survived the planning delete", count)
	}
}
