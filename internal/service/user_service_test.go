package service

import (
	"context"
	"testing"

	"shareit/internal/apperrors"
	"shareit/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newUserService(store *mockStore) *UserService {
	logger := zerolog.Nop()
	return NewUserService(store, &logger)
}

func TestUserCreateRequiresEmail(t *testing.T) {
	store := &mockStore{}
	svc := newUserService(store)

	_, err := svc.Create(context.Background(), &models.User{Name: "Вася"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	store.AssertNotCalled(t, "CreateUser")
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	store := &mockStore{}
	svc := newUserService(store)
	ctx := context.Background()

	store.On("UserExistsByEmail", ctx, "vasya@example.com", int64(0)).Return(true, nil)

	_, err := svc.Create(ctx, &models.User{Name: "Вася", Email: "vasya@example.com"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestUserCreateSuccess(t *testing.T) {
	store := &mockStore{}
	svc := newUserService(store)
	ctx := context.Background()

	store.On("UserExistsByEmail", ctx, "vasya@example.com", int64(0)).Return(false, nil)
	store.On("CreateUser", ctx, mock.AnythingOfType("*models.User")).Return(nil)

	user, err := svc.Create(ctx, &models.User{Name: "Вася", Email: "vasya@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "vasya@example.com", user.Email)
}

func TestUserUpdatePatchSemantics(t *testing.T) {
	store := &mockStore{}
	svc := newUserService(store)
	ctx := context.Background()

	store.On("GetUser", ctx, int64(1)).Return(&models.User{ID: 1, Name: "Вася", Email: "vasya@example.com"}, nil)
	store.On("UpdateUser", ctx, mock.AnythingOfType("*models.User")).Return(nil)

	name := "Пётр"
	user, err := svc.Update(ctx, 1, models.UserPatch{Name: &name})
	require.NoError(t, err)

	assert.Equal(t, "Пётр", user.Name)
	assert.Equal(t, "vasya@example.com", user.Email, "email без патча не меняется")
}

func TestUserUpdateBlankEmail(t *testing.T) {
	store := &mockStore{}
	svc := newUserService(store)
	ctx := context.Background()

	store.On("GetUser", ctx, int64(1)).Return(&models.User{ID: 1, Email: "vasya@example.com"}, nil)

	blank := "  "
	_, err := svc.Update(ctx, 1, models.UserPatch{Email: &blank})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	store.AssertNotCalled(t, "UpdateUser")
}

func TestUserUpdateEmailTakenByOther(t *testing.T) {
	store := &mockStore{}
	svc := newUserService(store)
	ctx := context.Background()

	store.On("GetUser", ctx, int64(1)).Return(&models.User{ID: 1, Email: "vasya@example.com"}, nil)
	store.On("UserExistsByEmail", ctx, "petya@example.com", int64(1)).Return(true, nil)

	email := "petya@example.com"
	_, err := svc.Update(ctx, 1, models.UserPatch{Email: &email})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestUserUpdateKeepOwnEmail(t *testing.T) {
	store := &mockStore{}
	svc := newUserService(store)
	ctx := context.Background()

	// Собственный email не конфликтует сам с собой.
	store.On("GetUser", ctx, int64(1)).Return(&models.User{ID: 1, Email: "vasya@example.com"}, nil)
	store.On("UserExistsByEmail", ctx, "vasya@example.com", int64(1)).Return(false, nil)
	store.On("UpdateUser", ctx, mock.AnythingOfType("*models.User")).Return(nil)

	email := "vasya@example.com"
	_, err := svc.Update(ctx, 1, models.UserPatch{Email: &email})
	assert.NoError(t, err)
}
