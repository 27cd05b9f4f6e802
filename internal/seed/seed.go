// Package seed creates the default administrator and any accounts listed in
// a YAML seed file.
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tsirionantsoa/taskhub/config"
	"github.com/tsirionantsoa/taskhub/internal/platform/logging"
	"github.com/tsirionantsoa/taskhub/internal/users/domain"
)

// Directory is the part of the user directory seeding needs.
type Directory interface {
	Register(ctx context.Context, req *domain.RegisterRequest) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Account is one seeded user.
type Account struct {
	Name     string `yaml:"nom"`
	Email    string `yaml:"email"`
	Password string `yaml:"motDePasse"`
	Role     string `yaml:"role"`
}

// File is the seed file layout.
type File struct {
	Users []Account `yaml:"users"`
}

type Seeder struct {
	users Directory
}

func New(users Directory) *Seeder {
	return &Seeder{users: users}
}

// EnsureAdmin creates the configured ADMIN account unless its email exists.
// Without a password nothing is created.
func (s *Seeder) EnsureAdmin(ctx context.Context, cfg config.SeedConfig) (bool, error) {
	logger := logging.NewLogger(ctx)
	if cfg.AdminPassword == "" {
		logger.LogWarn("seed.admin", "ADMIN_PASSWORD not set, default admin not created")
		return false, nil
	}

	created, err := s.ensure(ctx, Account{
		Name:     cfg.AdminName,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
		Role:     domain.RoleAdmin,
	})
	if err != nil {
		return false, err
	}
	if created {
		logger.LogInfof("seed.admin", "default admin created email=%s", cfg.AdminEmail)
	} else {
		logger.LogInfof("seed.admin", "default admin already present email=%s", cfg.AdminEmail)
	}
	return created, nil
}

// LoadFile reads and decodes a seed file.
func LoadFile(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return &f, nil
}

// Apply registers every account whose email is not taken yet and returns
// how many were created.
func (s *Seeder) Apply(ctx context.Context, f *File) (int, error) {
	created := 0
	for i, acc := range f.Users {
		ok, err := s.ensure(ctx, acc)
		if err != nil {
			return created, fmt.Errorf("seed user %d (%s): %w", i, acc.Email, err)
		}
		if ok {
			created++
		}
	}
	logging.NewLogger(ctx).LogInfof("seed.file", "seeded users=%d skipped=%d", created, len(f.Users)-created)
	return created, nil
}

// ApplyFile is LoadFile followed by Apply.
func (s *Seeder) ApplyFile(ctx context.Context, path string) (int, error) {
	f, err := LoadFile(path)
	if err != nil {
		return 0, err
	}
	return s.Apply(ctx, f)
}

func (s *Seeder) ensure(ctx context.Context, acc Account) (bool, error) {
	_, err := s.users.FindByEmail(ctx, acc.Email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return false, err
	}

	_, err = s.users.Register(ctx, &domain.RegisterRequest{
		Name:     acc.Name,
		Email:    acc.Email,
		Password: acc.Password,
		Role:     acc.Role,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
