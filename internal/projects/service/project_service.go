package service

import (
	"context"
	"strings"
	"time"

	"github.com/tsirionantsoa/taskhub/internal/platform/dates"
	"github.com/tsirionantsoa/taskhub/internal/platform/validation"
	"github.com/tsirionantsoa/taskhub/internal/projects/domain"
)

// ProjectStore is the persistence the registry needs.
type ProjectStore interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id int64) (*domain.Project, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id int64) (bool, error)
}

// OwnerChecker reports whether a user exists.
type OwnerChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// StatsInvalidator drops cached task counts for an owner.
type StatsInvalidator interface {
	InvalidateOwner(ctx context.Context, ownerID int64)
}

// ProjectService handles project-related business logic
type ProjectService struct {
	repo   ProjectStore
	owners OwnerChecker
	stats  StatsInvalidator
	now    func() time.Time
}

type Option func(*ProjectService)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *ProjectService) { s.now = now }
}

// WithStatsInvalidator registers the task count cache.
func WithStatsInvalidator(inv StatsInvalidator) Option {
	return func(s *ProjectService) { s.stats = inv }
}

// NewProjectService creates a new project service
func NewProjectService(repo ProjectStore, owners OwnerChecker, opts ...Option) *ProjectService {
	s := &ProjectService{
		repo:   repo,
		owners: owners,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func parseDate(field, value string) (*time.Time, error) {
	d, err := dates.Parse(value)
	if err != nil {
		return nil, validation.InvalidDate(field, err)
	}
	return d, nil
}

// Create registers a project under ownerID.
func (s *ProjectService) Create(ctx context.Context, ownerID int64, in domain.Input) (*domain.Project, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, validation.Required("nom", "project name is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, validation.Required("description", "project description is required")
	}

	ok, err := s.owners.Exists(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrOwnerNotFound
	}

	start, err := parseDate("dateDebut", in.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("dateFin", in.EndDate)
	if err != nil {
		return nil, err
	}

	p := &domain.Project{
		OwnerID:     ownerID,
		Name:        in.Name,
		Description: in.Description,
		StartDate:   start,
		EndDate:     end,
		CreatedAt:   s.now().UTC().Truncate(time.Microsecond),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ListByOwner returns all projects for a user
func (s *ProjectService) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Project, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *ProjectService) FindByID(ctx context.Context, id int64) (*domain.Project, error) {
	return s.repo.GetByID(ctx, id)
}

// OwnerOf returns the owner of a project. The task registry resolves
// project references through it.
func (s *ProjectService) OwnerOf(ctx context.Context, id int64) (int64, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return p.OwnerID, nil
}

// Update replaces name and description when non-blank. Dates are always
// rewritten: a blank value clears the stored date.
func (s *ProjectService) Update(ctx context.Context, id int64, in domain.Input) (*domain.Project, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(in.Name) != "" {
		p.Name = in.Name
	}
	if strings.TrimSpace(in.Description) != "" {
		p.Description = in.Description
	}
	if p.StartDate, err = parseDate("dateDebut", in.StartDate); err != nil {
		return nil, err
	}
	if p.EndDate, err = parseDate("dateFin", in.EndDate); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes the project and its tasks.
func (s *ProjectService) Delete(ctx context.Context, id int64) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrProjectNotFound
	}
	if s.stats != nil {
		s.stats.InvalidateOwner(ctx, p.OwnerID)
	}
	return nil
}
