package http

import (
	"time"

	"github.com/tsirionantsoa/taskhub/internal/platform/dates"
	"github.com/tsirionantsoa/taskhub/internal/projects/domain"
	"github.com/tsirionantsoa/taskhub/internal/projects/service"
)

// Handler bundles the dependencies for projects HTTP endpoints.
type Handler struct {
	projectService *service.ProjectService
}

func New(projectService *service.ProjectService) *Handler {
	return &Handler{projectService: projectService}
}

// ProjectView is the public shape of a project. It names its owner by id only.
type ProjectView struct {
	ID          int64     `json:"id"`
	Name        string    `json:"nom"`
	Description string    `json:"description"`
	StartDate   *string   `json:"dateDebut"`
	EndDate     *string   `json:"dateFin"`
	DateCreated time.Time `json:"dateCreation"`
	OwnerID     int64     `json:"utilisateurId"`
}

func ToView(p *domain.Project) ProjectView {
	return ProjectView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		StartDate:   dates.Format(p.StartDate),
		EndDate:     dates.Format(p.EndDate),
		DateCreated: p.CreatedAt,
		OwnerID:     p.OwnerID,
	}
}

type projectReq struct {
	Name        string `json:"nom"`
	Description string `json:"description"`
	StartDate   string `json:"dateDebut"`
	EndDate     string `json:"dateFin"`
}

func (r projectReq) input() domain.Input {
	return domain.Input{
		Name:        r.Name,
		Description: r.Description,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
	}
}
