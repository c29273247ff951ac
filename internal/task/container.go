package task

import (
	googlecalendar "github.com/taskpilot/taskpilot-api/internal/google_calendar"
	"gorm.io/gorm"
)

type TaskContainer struct {
	Handler *Handler
	Service TaskService
}

func NewTaskContainer(db *gorm.DB, reconciler googlecalendar.Reconciler) *TaskContainer {
	repo := NewRepository(db)
	service := NewService(repo, reconciler)
	handler := NewHandler(service)

	return &TaskContainer{
		Handler: handler,
		Service: service,
	}
}
