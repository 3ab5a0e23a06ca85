package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/snippetbin/internal/apperror"
	"github.com/sakif/snippetbin/internal/model"
	"github.com/sakif/snippetbin/internal/repository"
)

// UserService serves the read-only user endpoints: the user directory and
// individual profiles, each listing the ids of the snippets they own.
//
// Account mutation (register, login, delete) lives in AuthService — this
// split mirrors the routes: /api/users/* is public and read-only,
// /auth/* and /api/me touch credentials and sessions.
type UserService struct {
	users  repository.UserRepository
	logger *slog.Logger
}

// NewUserService creates a UserService.
func NewUserService(users repository.UserRepository, logger *slog.Logger) *UserService {
	return &UserService{
		users:  users,
		logger: logger,
	}
}

// List returns all users, oldest account first.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		s.logger.Error("failed to list users", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

// GetByID returns a single user profile.
func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "user ID is required")
	}

	return s.users.GetUserByID(ctx, id)
}
