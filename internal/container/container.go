package container

import (
	"context"
	"log"
	"os"

	"github.com/taskpilot/taskpilot-api/internal/auth"
	"github.com/taskpilot/taskpilot-api/internal/config"
	"github.com/taskpilot/taskpilot-api/internal/credential"
	googlecalendar "github.com/taskpilot/taskpilot-api/internal/google_calendar"
	"github.com/taskpilot/taskpilot-api/internal/task"
)

type Container struct {
	TaskContainer           *task.TaskContainer
	GoogleCalendarContainer *googlecalendar.GoogleCalendarContainer
}

func New() *Container {
	config.Init()
	auth.Init()
	config.InitCrypto()

	dsn := os.Getenv("DATABASE_DSN")
	if err := config.Connect(context.Background(), dsn); err != nil {
		log.Fatalf("failed to connect to DB: %v", err)
	}

	if err := config.DB.AutoMigrate(&task.Task{}, &credential.SyncCredential{}); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	credRepo := credential.NewRepository(config.DB)
	calendarContainer := googlecalendar.NewGoogleCalendarContainer(credRepo)
	taskContainer := task.NewTaskContainer(config.DB, calendarContainer.Reconciler)

	return &Container{
		TaskContainer:           taskContainer,
		GoogleCalendarContainer: calendarContainer,
	}
}
