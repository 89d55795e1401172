package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sabdelkhalek/studyplanner/internal/apperror"
	"github.com/sabdelkhalek/studyplanner/internal/model"
	"github.com/sabdelkhalek/studyplanner/internal/repository"
)

func createTestTask(t *testing.T, tasks *TaskDB, userID int64, title, status string) *model.Task {
	t.Helper()

	task := &model.Task{
		UserID:   userID,
		Title:    title,
		DueDate:  time.Now().Add(48 * time.Hour),
		Priority: 3,
		Status:   status,
	}
	if err := tasks.Create(context.Background(), task); err != nil {
		t.Fatalf("creating test task: %v", err)
	}
	return task
}

func TestTaskCreateAndGet(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "marie@example.com")
	tasks := db.Tasks()

	task := createTestTask(t, tasks, user.ID, "Réviser analyse", model.TaskStatusTodo)
	if task.ID == 0 {
		t.Fatal("Create() did not set task.ID")
	}

	got, err := tasks.GetByID(context.Background(), user.ID, task.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Title != "Réviser analyse" {
		t.Errorf("Title = %q", got.Title)
	}
	if got.SubjectID != nil {
		t.Errorf("SubjectID = %v, want nil", got.SubjectID)
	}
}

func TestTaskGetByID_OtherUsersTask(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner@example.com")
	intruder := createTestUser(t, db, "intruder@example.com")
	tasks := db.Tasks()

	task := createTestTask(t, tasks, owner.ID, "Private", model.TaskStatusTodo)

	// Another user's task must look like it doesn't exist
	_, err := tasks.GetByID(context.Background(), intruder.ID, task.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() for foreign task: error = %v, want ErrNotFound", err)
	}
}

func TestTaskList_FilterByStatus(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "marie@example.com")
	tasks := db.Tasks()

	createTestTask(t, tasks, user.ID, "a", model.TaskStatusTodo)
	createTestTask(t, tasks, user.ID, "b", model.TaskStatusDone)
	createTestTask(t, tasks, user.ID, "c", model.TaskStatusTodo)

	got, err := tasks.List(context.Background(), user.ID, repository.TaskFilter{
		Status: model.TaskStatusTodo,
		Limit:  20,
	})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("List(status=todo) returned %d tasks, want 2", len(got))
	}
	for _, task := range got {
		if task.Status != model.TaskStatusTodo {
			t.Errorf("task %q has status %q", task.Title, task.Status)
		}
	}
}

func TestTaskList_OrderedByDueDate(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "marie@example.com")
	tasks := db.Tasks()

	later := &model.Task{UserID: user.ID, Title: "later", DueDate: time.Now().Add(72 * time.Hour), Priority: 1, Status: model.TaskStatusTodo}
	sooner := &model.Task{UserID: user.ID, Title: "sooner", DueDate: time.Now().Add(2 * time.Hour), Priority: 1, Status: model.TaskStatusTodo}
	for _, task := range []*model.Task{later, sooner} {
		if err := tasks.Create(context.Background(), task); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	got, err := tasks.List(context.Background(), user.ID, repository.TaskFilter{Limit: 20})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("List() returned %d tasks, want 2", len(got))
	}
	if got[0].Title != "sooner" {
		t.Errorf("first task = %q, want the nearest deadline first", got[0].Title)
	}
}

func TestTaskUpdate(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "marie@example.com")
	tasks := db.Tasks()

	task := createTestTask(t, tasks, user.ID, "Réviser", model.TaskStatusTodo)
	task.Status = model.TaskStatusDone
	task.Priority = 5

	if err := tasks.Update(context.Background(), task); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := tasks.GetByID(context.Background(), user.ID, task.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Status != model.TaskStatusDone || got.Priority != 5 {
		t.Errorf("updated task = %+v", got)
	}
}

func TestTaskDelete(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "marie@example.com")
	tasks := db.Tasks()

	task := createTestTask(t, tasks, user.ID, "Réviser", model.TaskStatusTodo)

	if err := tasks.Delete(context.Background(), user.ID, task.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := tasks.GetByID(context.Background(), user.ID, task.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() after delete: error = %v, want ErrNotFound", err)
	}

	// Deleting again reports not found
	if err := tasks.Delete(context.Background(), user.ID, task.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

// Deleting a subject must null out task references, not delete the tasks —
// the FK is ON DELETE SET NULL.
func TestTaskKeptWhenSubjectDeleted(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "marie@example.com")
	subjects := db.Subjects()
	tasks := db.Tasks()

	subject := &model.Subject{UserID: user.ID, Title: "Analyse", Color: model.DefaultSubjectColor}
	if err := subjects.Create(context.Background(), subject); err != nil {
		t.Fatalf("creating subject: %v", err)
	}

	task := &model.Task{
		UserID:    user.ID,
		SubjectID: &subject.ID,
		Title:     "Réviser chapitre 3",
		DueDate:   time.Now().Add(24 * time.Hour),
		Priority:  3,
		Status:    model.TaskStatusTodo,
	}
	if err := tasks.Create(context.Background(), task); err != nil {
		t.Fatalf("creating task: %v", err)
	}

	if err := subjects.Delete(context.Background(), user.ID, subject.ID); err != nil {
		t.Fatalf("deleting subject: %v", err)
	}

	got, err := tasks.GetByID(context.Background(), user.ID, task.ID)
	if err != nil {
		t.Fatalf("GetByID() after subject delete: %v", err)
	}
	if got.SubjectID != nil {
		t.Errorf("SubjectID = %v, want nil after subject deletion", got.SubjectID)
	}
}
