package task

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/taskpilot/taskpilot-api/internal/auth"
	"github.com/taskpilot/taskpilot-api/internal/config"
	googlecalendar "github.com/taskpilot/taskpilot-api/internal/google_calendar"
	util "github.com/taskpilot/taskpilot-api/internal/utils"
)

var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrTitleRequired = errors.New("title is required")
	ErrInvalidID     = errors.New("invalid id format")
	ErrInvalidStatus = errors.New("invalid task status")
)

type TaskService interface {
	CreateTask(ctx context.Context, dto CreateTaskDTO) (*Task, error)
	FindAllByUser(ctx context.Context) ([]*Task, error)
	FindByID(ctx context.Context, id string) (*Task, error)
	UpdateTask(ctx context.Context, id string, dto UpdateTaskDTO) (*Task, error)
	DeleteByID(ctx context.Context, id string) error
}

type taskService struct {
	repo       TaskRepository
	reconciler googlecalendar.Reconciler
}

func NewService(repo TaskRepository, reconciler googlecalendar.Reconciler) TaskService {
	return &taskService{
		repo:       repo,
		reconciler: reconciler,
	}
}

func getUserIDFromContext(ctx context.Context, log logrus.FieldLogger, action string) (uuid.UUID, error) {
	claims, err := auth.GetUserClaimsFromContext(ctx)
	if err != nil {
		log.WithError(err).Warnf("Attempt to %s without authentication", action)
		return uuid.Nil, ErrUnauthorized
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		log.WithError(err).Warn("Authenticated claims carry an invalid user id")
		return uuid.Nil, ErrUnauthorized
	}
	return userID, nil
}

func parseUUID(log logrus.FieldLogger, id string, entityName string) (uuid.UUID, error) {
	parsedID, err := uuid.Parse(id)
	if err != nil {
		log.WithError(err).Warnf("Invalid %s ID", entityName)
		return uuid.Nil, ErrInvalidID
	}
	return parsedID, nil
}

func syncTask(t *Task) *googlecalendar.SyncTask {
	return &googlecalendar.SyncTask{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     util.ToTimePtr(t.DueDate),
		Timezone:    t.Timezone,
		EventID:     t.CalendarEventID,
	}
}

func (s *taskService) CreateTask(ctx context.Context, dto CreateTaskDTO) (*Task, error) {
	log := config.WithContext(ctx)
	userID, err := getUserIDFromContext(ctx, log, "create task")
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(dto.Title) == "" {
		return nil, ErrTitleRequired
	}

	now := time.Now()
	t := &Task{
		ID:           uuid.New(),
		UserID:       userID,
		Title:        dto.Title,
		Description:  dto.Description,
		Status:       TODO,
		DueDate:      dto.DueDate,
		Timezone:     dto.Timezone,
		CalendarSync: dto.CalendarSync != nil && *dto.CalendarSync,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(t); err != nil {
		log.WithError(err).Error("Failed to create task")
		return nil, err
	}

	if t.CalendarSync && t.DueDate != nil {
		// The row is already written; the event id is patched in with a
		// second write once reconciliation succeeds.
		eventID, err := s.reconciler.Upsert(ctx, userID, syncTask(t))
		if err != nil {
			log.WithError(err).Errorf("Failed to sync task %s to Google Calendar", t.ID)
			return nil, err
		}
		if eventID != "" {
			t.CalendarEventID = eventID
			if err := s.repo.Update(t); err != nil {
				log.WithError(err).Error("Failed to update task with calendar event ID")
				return nil, err
			}
		}
	}

	log.WithField("task_id", t.ID).Info("Task created successfully")
	return t, nil
}

func (s *taskService) FindAllByUser(ctx context.Context) ([]*Task, error) {
	log := config.WithContext(ctx)
	userID, err := getUserIDFromContext(ctx, log, "list tasks")
	if err != nil {
		return nil, err
	}

	tasks, err := s.repo.ListByUser(userID)
	if err != nil {
		log.WithError(err).Error("Failed to list tasks by user")
		return nil, err
	}
	return tasks, nil
}

func (s *taskService) FindByID(ctx context.Context, id string) (*Task, error) {
	log := config.WithContext(ctx)
	userID, err := getUserIDFromContext(ctx, log, "find task")
	if err != nil {
		return nil, err
	}

	taskID, err := parseUUID(log, id, "task")
	if err != nil {
		return nil, err
	}

	t, err := s.repo.FindByIdAndUserId(taskID, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.WithFields(logrus.Fields{
				"task_id": id,
				"user_id": userID,
			}).Warn("Task not found or does not belong to user")
			return nil, ErrTaskNotFound
		}
		log.WithError(err).Error("Error finding task by ID")
		return nil, err
	}
	return t, nil
}

func (s *taskService) UpdateTask(ctx context.Context, id string, dto UpdateTaskDTO) (*Task, error) {
	log := config.WithContext(ctx)
	userID, err := getUserIDFromContext(ctx, log, "update task")
	if err != nil {
		return nil, err
	}

	taskID, err := parseUUID(log, id, "task")
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByIdAndUserId(taskID, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.WithFields(logrus.Fields{
				"task_id": id,
				"user_id": userID,
			}).Warn("Task not found for update")
			return nil, ErrTaskNotFound
		}
		log.WithError(err).Error("Error finding task for update")
		return nil, err
	}

	syncFieldsTouched := false

	if dto.Title != nil {
		if strings.TrimSpace(*dto.Title) == "" {
			return nil, ErrTitleRequired
		}
		if existing.Title != *dto.Title {
			existing.Title = *dto.Title
			syncFieldsTouched = true
		}
	}
	if dto.Description != nil && existing.Description != *dto.Description {
		existing.Description = *dto.Description
		syncFieldsTouched = true
	}
	if dto.DueDate != nil && (existing.DueDate == nil || !dto.DueDate.Equal(*existing.DueDate)) {
		existing.DueDate = dto.DueDate
		syncFieldsTouched = true
	}
	if dto.Timezone != nil && existing.Timezone != *dto.Timezone {
		existing.Timezone = *dto.Timezone
		syncFieldsTouched = true
	}
	if dto.Status != nil {
		if !dto.Status.IsValid() {
			return nil, ErrInvalidStatus
		}
		existing.Status = *dto.Status
	}

	syncRequested := false
	if dto.CalendarSync != nil {
		existing.CalendarSync = *dto.CalendarSync
		syncRequested = *dto.CalendarSync
	}

	existing.UpdatedAt = time.Now()

	// Disabling sync only stops calendar calls; an existing remote event is
	// left in place.
	if existing.CalendarSync && existing.DueDate != nil && (syncFieldsTouched || syncRequested) {
		eventID, err := s.reconciler.Upsert(ctx, userID, syncTask(existing))
		if err != nil {
			log.WithError(err).Errorf("Failed to sync task %s to Google Calendar on update", existing.ID)
			return nil, err
		}
		if eventID != "" {
			existing.CalendarEventID = eventID
		}
	}

	if err := s.repo.Update(existing); err != nil {
		log.WithError(err).Error("Failed to update task")
		return nil, err
	}

	log.WithField("task_id", existing.ID).Info("Task updated successfully")
	return existing, nil
}

func (s *taskService) DeleteByID(ctx context.Context, id string) error {
	log := config.WithContext(ctx)
	userID, err := getUserIDFromContext(ctx, log, "delete task")
	if err != nil {
		return err
	}

	taskID, err := parseUUID(log, id, "task")
	if err != nil {
		return err
	}

	existing, err := s.repo.FindByIdAndUserId(taskID, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.WithFields(logrus.Fields{
				"task_id": id,
				"user_id": userID,
			}).Warn("Task not found or does not belong to user for deletion")
			return ErrTaskNotFound
		}
		log.WithError(err).Error("Error finding task before deletion")
		return err
	}

	// The remote event is a derived artifact; its deletion never blocks the
	// task delete.
	if existing.CalendarEventID != "" {
		if err := s.reconciler.Delete(ctx, userID, existing.CalendarEventID); err != nil {
			log.WithError(err).Warnf("Failed to delete Google Calendar event %s for task %s", existing.CalendarEventID, id)
		}
	}

	if err := s.repo.Delete(taskID, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrTaskNotFound
		}
		log.WithError(err).Error("Failed to delete task")
		return err
	}

	log.WithField("task_id", id).Info("Task deleted successfully")
	return nil
}
