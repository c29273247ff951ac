package task

import (
	util "github.com/taskpilot/taskpilot-api/internal/utils"
)

type CreateTaskDTO struct {
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	DueDate      *util.LocalDateTime `json:"due_date"`
	Timezone     string              `json:"timezone"`
	CalendarSync *bool               `json:"calendar_sync"`
}

type UpdateTaskDTO struct {
	Title        *string             `json:"title"`
	Description  *string             `json:"description"`
	Status       *TaskStatus         `json:"status"`
	DueDate      *util.LocalDateTime `json:"due_date"`
	Timezone     *string             `json:"timezone"`
	CalendarSync *bool               `json:"calendar_sync"`
}

type TaskListResponse struct {
	Tasks []*Task `json:"tasks"`
}
