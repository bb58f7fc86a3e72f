package service

import (
	"context"

	"github.com/bugloop/issue-tracker/internal/domain/models"
	"github.com/bugloop/issue-tracker/internal/domain/repository"
)

// UserService exposes profile lookups for authenticated users.
type UserService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) Me(ctx context.Context, userID int64) (*models.User, error) {
	return s.users.FindByID(ctx, userID)
}
