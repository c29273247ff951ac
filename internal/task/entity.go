package task

import (
	"time"

	"github.com/google/uuid"
	util "github.com/taskpilot/taskpilot-api/internal/utils"
)

type Task struct {
	ID              uuid.UUID           `gorm:"type:uuid;default:uuid_generate_v4()" json:"id"`
	UserID          uuid.UUID           `gorm:"column:user_id;not null;index" json:"user_id"`
	Title           string              `json:"title"`
	Description     string              `json:"description,omitempty"`
	Status          TaskStatus          `json:"status"`
	DueDate         *util.LocalDateTime `json:"due_date,omitempty"`
	Timezone        string              `json:"timezone,omitempty"`
	CalendarSync    bool                `json:"calendar_sync"`
	CalendarEventID string              `json:"calendar_event_id,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}
