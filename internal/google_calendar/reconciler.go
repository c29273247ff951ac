package googlecalendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/taskpilot/taskpilot-api/internal/config"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
)

// SyncTask carries the task fields relevant to calendar reconciliation.
type SyncTask struct {
	ID          uuid.UUID
	Title       string
	Description string
	DueDate     *time.Time
	Timezone    string
	EventID     string
}

// Reconciler keeps a task and its remote calendar event in sync: Upsert
// creates or updates the event for the task's current due date, Delete is the
// best-effort removal used on the task-delete path.
type Reconciler interface {
	Upsert(ctx context.Context, userID uuid.UUID, task *SyncTask) (string, error)
	Delete(ctx context.Context, userID uuid.UUID, eventID string) error
}

type reconciler struct {
	service CalendarService
}

func NewReconciler(service CalendarService) Reconciler {
	return &reconciler{service: service}
}

func (r *reconciler) Upsert(ctx context.Context, userID uuid.UUID, task *SyncTask) (string, error) {
	log := config.WithContext(ctx)

	if task.DueDate == nil {
		return task.EventID, nil
	}

	capability, err := r.service.Resolve(ctx, userID)
	if errors.Is(err, ErrNotConnected) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	event := buildEvent(task)

	if task.EventID != "" {
		if err := capability.UpdateEvent(ctx, task.EventID, event); err != nil {
			log.WithError(err).Warnf("Failed to update calendar event for task %s", task.ID)
			return "", fmt.Errorf("%w: %w", ErrProvider, err)
		}
		return task.EventID, nil
	}

	created, err := capability.InsertEvent(ctx, event)
	if err != nil {
		log.WithError(err).Warnf("Failed to create calendar event for task %s", task.ID)
		return "", fmt.Errorf("%w: %w", ErrProvider, err)
	}

	log.Infof("Created calendar event %s for task %s", created.Id, task.ID)
	return created.Id, nil
}

func (r *reconciler) Delete(ctx context.Context, userID uuid.UUID, eventID string) error {
	if eventID == "" {
		return nil
	}

	log := config.WithContext(ctx)

	capability, err := r.service.Resolve(ctx, userID)
	if errors.Is(err, ErrNotConnected) {
		log.Warnf("Skipping calendar deletion for event %s, user not connected", eventID)
		return nil
	}
	if err != nil {
		return err
	}

	if err := capability.DeleteEvent(ctx, eventID); err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
			log.Warnf("Calendar event %s not found on Google, considering deleted", eventID)
			return nil
		}
		log.WithError(err).Warnf("Failed to delete calendar event %s", eventID)
		return fmt.Errorf("%w: %w", ErrProvider, err)
	}

	return nil
}

// buildEvent maps a task to the calendar block shown to the user: the due
// date interpreted in the task's timezone, with a fixed window so the event
// has a visible, non-zero length.
func buildEvent(task *SyncTask) *gcal.Event {
	loc := config.DefaultTimezone()
	if task.Timezone != "" {
		if l, err := time.LoadLocation(task.Timezone); err == nil {
			loc = l
		}
	}

	// The stored instant can arrive represented in any location (request
	// decoding vs a DB re-read), so pin it to the default timezone first: that
	// is the wall clock the client sees, and the one we restate in loc.
	due := task.DueDate.In(config.DefaultTimezone())
	start := time.Date(due.Year(), due.Month(), due.Day(), due.Hour(), due.Minute(), due.Second(), 0, loc)
	end := start.Add(config.DefaultEventDuration)

	return &gcal.Event{
		Summary:     task.Title,
		Description: task.Description,
		Start: &gcal.EventDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: loc.String(),
		},
		End: &gcal.EventDateTime{
			DateTime: end.Format(time.RFC3339),
			TimeZone: loc.String(),
		},
		Reminders: &gcal.EventReminders{
			UseDefault: false,
		},
	}
}
