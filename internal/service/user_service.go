package service

import (
	"context"
	"strings"

	"shareit/internal/apperrors"
	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type UserService struct {
	store  domain.Store
	logger *zerolog.Logger
}

func NewUserService(store domain.Store, logger *zerolog.Logger) *UserService {
	return &UserService{store: store, logger: logger}
}

func (s *UserService) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if strings.TrimSpace(user.Email) == "" {
		return nil, apperrors.Validation("email is required")
	}

	taken, err := s.store.UserExistsByEmail(ctx, user.Email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.Conflict("email %s is already in use", user.Email)
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Email != nil {
		newEmail := *patch.Email
		if strings.TrimSpace(newEmail) == "" {
			return nil, apperrors.Validation("email cannot be blank")
		}
		taken, err := s.store.UserExistsByEmail(ctx, newEmail, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperrors.Conflict("email %s is already in use", newEmail)
		}
		user.Email = newEmail
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return s.store.GetUser(ctx, id)
}

func (s *UserService) GetAll(ctx context.Context) ([]*models.User, error) {
	return s.store.GetAllUsers(ctx)
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	return s.store.DeleteUser(ctx, id)
}
