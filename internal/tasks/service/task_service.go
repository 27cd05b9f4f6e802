package service

import (
	"context"
	"errors"
	"time"

	"github.com/tsirionantsoa/taskhub/internal/platform/dates"
	"github.com/tsirionantsoa/taskhub/internal/platform/validation"
	projectdomain "github.com/tsirionantsoa/taskhub/internal/projects/domain"
	"github.com/tsirionantsoa/taskhub/internal/tasks/domain"
)

const (
	DefaultStatusDone       = "TERMINÉ"
	DefaultStatusInProgress = "EN_COURS"
)

// TaskStore is the persistence the registry needs.
type TaskStore interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id int64) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID int64) ([]domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id int64) (bool, error)
	CountByOwnerAndStatus(ctx context.Context, ownerID int64, status string) (int64, error)
}

// ProjectLookup resolves the owner of a project.
type ProjectLookup interface {
	OwnerOf(ctx context.Context, projectID int64) (int64, error)
}

// CountCache memoizes status counts per owner. Get hands out the owner's
// generation on a miss; Set drops the count if the owner was invalidated since.
type CountCache interface {
	Get(ctx context.Context, ownerID int64, status string) (n, gen int64, ok bool)
	Set(ctx context.Context, ownerID, gen int64, status string, n int64)
	InvalidateOwner(ctx context.Context, ownerID int64)
}

// TaskService handles task business logic and status counts.
type TaskService struct {
	repo             TaskStore
	projects         ProjectLookup
	cache            CountCache
	now              func() time.Time
	statusDone       string
	statusInProgress string
}

type Option func(*TaskService)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *TaskService) { s.now = now }
}

// WithCache puts a count cache in front of CountByOwnerAndStatus.
func WithCache(c CountCache) Option {
	return func(s *TaskService) { s.cache = c }
}

// WithStatuses sets the literal statuses Stats reports on.
func WithStatuses(done, inProgress string) Option {
	return func(s *TaskService) {
		s.statusDone = done
		s.statusInProgress = inProgress
	}
}

func NewTaskService(repo TaskStore, projects ProjectLookup, opts ...Option) *TaskService {
	s := &TaskService{
		repo:             repo,
		projects:         projects,
		now:              time.Now,
		statusDone:       DefaultStatusDone,
		statusInProgress: DefaultStatusInProgress,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TaskService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func (s *TaskService) invalidate(ctx context.Context, ownerID int64) {
	if s.cache != nil {
		s.cache.InvalidateOwner(ctx, ownerID)
	}
}

func (s *TaskService) ownerOf(ctx context.Context, projectID int64) (int64, error) {
	owner, err := s.projects.OwnerOf(ctx, projectID)
	if errors.Is(err, projectdomain.ErrProjectNotFound) {
		return 0, domain.ErrProjectNotFound
	}
	return owner, err
}

func parseDueDate(value string) (*time.Time, error) {
	d, err := dates.Parse(value)
	if err != nil {
		return nil, validation.InvalidDate("echeance", err)
	}
	return d, nil
}

// Create adds a task to projectID. Title, priority and status are stored as given.
func (s *TaskService) Create(ctx context.Context, projectID int64, in domain.Input) (*domain.Task, error) {
	ownerID, err := s.ownerOf(ctx, projectID)
	if err != nil {
		return nil, err
	}

	due, err := parseDueDate(in.DueDate)
	if err != nil {
		return nil, err
	}

	now := s.timestamp()
	t := &domain.Task{
		ProjectID: projectID,
		Title:     in.Title,
		Priority:  in.Priority,
		DueDate:   due,
		Status:    in.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	s.invalidate(ctx, ownerID)
	return t, nil
}

func (s *TaskService) FindByID(ctx context.Context, id int64) (*domain.Task, error) {
	return s.repo.GetByID(ctx, id)
}

// ListByProject returns the tasks of one project.
func (s *TaskService) ListByProject(ctx context.Context, projectID int64) ([]domain.Task, error) {
	return s.repo.ListByProject(ctx, projectID)
}

// Update overwrites the editable fields and bumps UpdatedAt.
// Status is not changed here.
func (s *TaskService) Update(ctx context.Context, id int64, in domain.Input) (*domain.Task, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	due, err := parseDueDate(in.DueDate)
	if err != nil {
		return nil, err
	}

	t.Title = in.Title
	t.Priority = in.Priority
	t.DueDate = due
	t.UpdatedAt = s.timestamp()

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, id int64) error {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	ownerID, err := s.ownerOf(ctx, t.ProjectID)
	if err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrTaskNotFound
	}
	s.invalidate(ctx, ownerID)
	return nil
}

// CountByOwnerAndStatus counts ownerID's tasks whose status equals status exactly.
func (s *TaskService) CountByOwnerAndStatus(ctx context.Context, ownerID int64, status string) (int64, error) {
	if s.cache == nil {
		return s.repo.CountByOwnerAndStatus(ctx, ownerID, status)
	}

	n, gen, ok := s.cache.Get(ctx, ownerID, status)
	if ok {
		return n, nil
	}

	n, err := s.repo.CountByOwnerAndStatus(ctx, ownerID, status)
	if err != nil {
		return 0, err
	}
	s.cache.Set(ctx, ownerID, gen, status, n)
	return n, nil
}

// Stats reports ownerID's completed and in-progress counts.
func (s *TaskService) Stats(ctx context.Context, ownerID int64) (*domain.Stats, error) {
	done, err := s.CountByOwnerAndStatus(ctx, ownerID, s.statusDone)
	if err != nil {
		return nil, err
	}
	inProgress, err := s.CountByOwnerAndStatus(ctx, ownerID, s.statusInProgress)
	if err != nil {
		return nil, err
	}
	return &domain.Stats{Completed: done, InProgress: inProgress}, nil
}
