package http

import (
	"time"

	"github.com/tsirionantsoa/taskhub/internal/platform/dates"
	"github.com/tsirionantsoa/taskhub/internal/tasks/domain"
	"github.com/tsirionantsoa/taskhub/internal/tasks/service"
)

// Handler bundles the dependencies for task endpoints.
type Handler struct {
	taskService *service.TaskService
}

func New(taskService *service.TaskService) *Handler {
	return &Handler{taskService: taskService}
}

// TaskView is the public shape of a task. It names its project by id only.
type TaskView struct {
	ID           int64     `json:"id"`
	Title        string    `json:"titre"`
	Priority     string    `json:"priorite"`
	DueDate      *string   `json:"echeance"`
	Status       string    `json:"status"`
	DateCreated  time.Time `json:"dateCreation"`
	DateModified time.Time `json:"dateModification"`
	ProjectID    int64     `json:"projetId"`
}

func ToView(t *domain.Task) TaskView {
	return TaskView{
		ID:           t.ID,
		Title:        t.Title,
		Priority:     t.Priority,
		DueDate:      dates.Format(t.DueDate),
		Status:       t.Status,
		DateCreated:  t.CreatedAt,
		DateModified: t.UpdatedAt,
		ProjectID:    t.ProjectID,
	}
}

// StatsView keeps the counters' historical names.
type StatsView struct {
	Completed  int64 `json:"termine"`
	InProgress int64 `json:"en_cours"`
}

type taskReq struct {
	Title    string `json:"titre"`
	Priority string `json:"priorite"`
	DueDate  string `json:"echeance"`
	Status   string `json:"status"`
}

func (r taskReq) input() domain.Input {
	return domain.Input{
		Title:    r.Title,
		Priority: r.Priority,
		DueDate:  r.DueDate,
		Status:   r.Status,
	}
}
