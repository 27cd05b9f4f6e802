package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/tsirionantsoa/taskhub/internal/credential"
	"github.com/tsirionantsoa/taskhub/internal/platform/validation"
	"github.com/tsirionantsoa/taskhub/internal/users/domain"
)

// UserStore is the persistence the directory needs.
type UserStore interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Exists(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// StatsInvalidator drops cached task counts for an owner.
type StatsInvalidator interface {
	InvalidateOwner(ctx context.Context, ownerID int64)
}

// UserService is the user directory: registration, lookups, updates and
// cascading deletes.
type UserService struct {
	repo   UserStore
	hasher credential.Hasher
	stats  StatsInvalidator
	now    func() time.Time
}

type Option func(*UserService)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *UserService) { s.now = now }
}

// WithStatsInvalidator registers the task count cache.
func WithStatsInvalidator(inv StatsInvalidator) Option {
	return func(s *UserService) { s.stats = inv }
}

func NewUserService(repo UserStore, hasher credential.Hasher, opts ...Option) *UserService {
	s := &UserService{
		repo:   repo,
		hasher: hasher,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *UserService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// Register creates a user with a hashed password. Role defaults to USER.
func (s *UserService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.User, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, validation.Required("nom", "name is required")
	}
	if strings.TrimSpace(req.Email) == "" {
		return nil, validation.Required("email", "email is required")
	}
	if req.Password == "" {
		return nil, validation.Required("motDePasse", "password is required")
	}

	_, err := s.repo.GetByEmail(ctx, req.Email)
	if err == nil {
		return nil, &domain.DuplicateEmailError{Email: req.Email}
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hashed, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashed,
		Role:         req.Role,
		CreatedAt:    s.timestamp(),
	}
	if user.Role == "" {
		user.Role = domain.RoleUser
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) hashPassword(password string) (string, error) {
	hashed, err := s.hasher.Hash(password)
	if errors.Is(err, credential.ErrSecretTooLong) {
		return "", &validation.Error{Field: "motDePasse", Message: err.Error(), Err: err}
	}
	return hashed, err
}

// FindByEmail retrieves a user by exact email.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.repo.GetByEmail(ctx, email)
}

// FindByID retrieves a user by ID.
func (s *UserService) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all users.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

// Exists is the owner check used when creating projects.
func (s *UserService) Exists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Exists(ctx, id)
}

// Count returns the number of users.
func (s *UserService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// Update applies name and email when given and re-hashes a non-empty
// password. Email uniqueness is left to the storage constraint.
func (s *UserService) Update(ctx context.Context, id int64, req *domain.UpdateRequest) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Password != nil && *req.Password != "" {
		hashed, err := s.hashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hashed
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes the user together with its projects and their tasks.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrUserNotFound
	}
	if s.stats != nil {
		s.stats.InvalidateOwner(ctx, id)
	}
	return nil
}
