package task_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/taskpilot/taskpilot-api/internal/auth"
	"github.com/taskpilot/taskpilot-api/internal/task"
)

func testRouter(repo *fakeTaskRepository, rec *fakeReconciler, userID uuid.UUID) http.Handler {
	handler := task.NewHandler(task.NewService(repo, rec))

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := auth.WithClaims(req.Context(), &auth.UserClaims{UserID: userID.String()})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Mount("/tasks", task.Routes(handler))
	return r
}

func TestCreateTaskHandler(t *testing.T) {
	userID := uuid.New()

	t.Run("MissingTitle", func(t *testing.T) {
		repo := newFakeTaskRepository()
		rec := &fakeReconciler{}
		router := testRouter(repo, rec, userID)

		req := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(`{}`))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusBadRequest {
			t.Errorf("want 400, got %d", recorder.Code)
		}
		if len(repo.tasks) != 0 {
			t.Error("no task may be created without a title")
		}
		if len(rec.upserts) != 0 {
			t.Error("no calendar event may be created without a title")
		}
	})

	t.Run("Created", func(t *testing.T) {
		repo := newFakeTaskRepository()
		rec := &fakeReconciler{nextID: "evt-1"}
		router := testRouter(repo, rec, userID)

		body := `{"title":"write report","due_date":"2026-09-01T10:00:00","timezone":"America/New_York","calendar_sync":true}`
		req := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(body))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusCreated {
			t.Fatalf("want 201, got %d: %s", recorder.Code, recorder.Body.String())
		}

		var created task.Task
		if err := json.NewDecoder(recorder.Body).Decode(&created); err != nil {
			t.Fatalf("response is not a task: %v", err)
		}
		if created.Title != "write report" {
			t.Errorf("wrong title: %q", created.Title)
		}
		if created.CalendarEventID != "evt-1" {
			t.Errorf("wrong event id: %q", created.CalendarEventID)
		}
	})

	t.Run("InvalidBody", func(t *testing.T) {
		router := testRouter(newFakeTaskRepository(), &fakeReconciler{}, userID)

		req := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(`{not json`))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusBadRequest {
			t.Errorf("want 400, got %d", recorder.Code)
		}
	})
}

func TestListTasksHandler(t *testing.T) {
	userID := uuid.New()
	repo := newFakeTaskRepository()
	router := testRouter(repo, &fakeReconciler{}, userID)

	t.Run("EmptyList", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Fatalf("want 200, got %d", recorder.Code)
		}

		var resp task.TaskListResponse
		if err := json.NewDecoder(recorder.Body).Decode(&resp); err != nil {
			t.Fatalf("response does not decode: %v", err)
		}
		if resp.Tasks == nil {
			t.Error("tasks must be an empty array, not null")
		}
	})

	t.Run("ReturnsOwnTasks", func(t *testing.T) {
		body := `{"title":"write report"}`
		req := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(body))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)
		if recorder.Code != http.StatusCreated {
			t.Fatalf("seed create failed: %d", recorder.Code)
		}

		req = httptest.NewRequest(http.MethodGet, "/tasks", nil)
		recorder = httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		var resp task.TaskListResponse
		if err := json.NewDecoder(recorder.Body).Decode(&resp); err != nil {
			t.Fatalf("response does not decode: %v", err)
		}
		if len(resp.Tasks) != 1 {
			t.Fatalf("want 1 task, got %d", len(resp.Tasks))
		}
		if resp.Tasks[0].Title != "write report" {
			t.Errorf("wrong title: %q", resp.Tasks[0].Title)
		}
	})
}

func TestDeleteTaskHandler(t *testing.T) {
	userID := uuid.New()
	repo := newFakeTaskRepository()
	router := testRouter(repo, &fakeReconciler{}, userID)

	body := `{"title":"write report"}`
	req := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(body))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusCreated {
		t.Fatalf("seed create failed: %d", recorder.Code)
	}
	var created task.Task
	if err := json.NewDecoder(recorder.Body).Decode(&created); err != nil {
		t.Fatalf("seed response does not decode: %v", err)
	}

	t.Run("Deleted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/tasks/"+created.ID.String(), nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Fatalf("want 200, got %d", recorder.Code)
		}
		var resp map[string]bool
		if err := json.NewDecoder(recorder.Body).Decode(&resp); err != nil {
			t.Fatalf("response does not decode: %v", err)
		}
		if !resp["ok"] {
			t.Errorf("want {\"ok\":true}, got %v", resp)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/tasks/"+uuid.New().String(), nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusNotFound {
			t.Errorf("want 404, got %d", recorder.Code)
		}
	})

	t.Run("InvalidID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/tasks/not-a-uuid", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusBadRequest {
			t.Errorf("want 400, got %d", recorder.Code)
		}
	})
}
