package service

import (
	"context"
	"errors"

	"github.com/tsirionantsoa/taskhub/internal/auth/domain"
	"github.com/tsirionantsoa/taskhub/internal/credential"
	"github.com/tsirionantsoa/taskhub/internal/platform/logging"
	userdomain "github.com/tsirionantsoa/taskhub/internal/users/domain"
)

// Directory is the part of the user directory the gateway calls.
type Directory interface {
	Register(ctx context.Context, req *userdomain.RegisterRequest) (*userdomain.User, error)
	FindByEmail(ctx context.Context, email string) (*userdomain.User, error)
}

// AuthService is the sign-up and sign-in entry point. It issues no tokens.
type AuthService struct {
	users     Directory
	hasher    credential.Hasher
	dummyHash string
}

func NewAuthService(users Directory, hasher credential.Hasher) *AuthService {
	// unknown emails are verified against this so both failures cost one comparison
	dummy, _ := hasher.Hash("taskhub-login-placeholder")
	return &AuthService{
		users:     users,
		hasher:    hasher,
		dummyHash: dummy,
	}
}

// Register creates the account and echoes it back with a welcome message.
func (s *AuthService) Register(ctx context.Context, req *userdomain.RegisterRequest) (*domain.Registration, error) {
	u, err := s.users.Register(ctx, req)
	if err != nil {
		return nil, err
	}

	logging.NewLogger(ctx).LogInfof("auth.register", "user registered id=%d", u.ID)
	return &domain.Registration{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		Message:      domain.MessageRegistered,
	}, nil
}

// Login checks the credentials. Any failure is ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Profile, error) {
	logger := logging.NewLogger(ctx)

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, userdomain.ErrUserNotFound) {
		return nil, err
	}

	if u == nil {
		s.hasher.Verify(password, s.dummyHash)
		logger.LogWarn("auth.login", "login rejected")
		return nil, domain.ErrUnauthorized
	}
	if !s.hasher.Verify(password, u.PasswordHash) {
		logger.LogWarn("auth.login", "login rejected")
		return nil, domain.ErrUnauthorized
	}

	logger.LogInfof("auth.login", "login ok id=%d", u.ID)
	return &domain.Profile{
		ID:      u.ID,
		Name:    u.Name,
		Email:   u.Email,
		Role:    u.Role,
		Message: domain.MessageLoggedIn,
	}, nil
}
