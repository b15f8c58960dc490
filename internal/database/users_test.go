package database

import (
	"context"
	"testing"

	"shareit/internal/apperrors"
	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserCRUD(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "Вася", "vasya@example.com")
	assert.NotZero(t, user.ID)

	got, err := db.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Вася", got.Name)
	assert.Equal(t, "vasya@example.com", got.Email)

	got.Name = "Пётр"
	require.NoError(t, db.UpdateUser(ctx, got))

	updated, err := db.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Пётр", updated.Name)

	require.NoError(t, db.DeleteUser(ctx, user.ID))
	_, err = db.GetUser(ctx, user.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUserNotFound(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	_, err := db.GetUser(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	err = db.UpdateUser(ctx, &models.User{ID: 999, Name: "x", Email: "x@example.com"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	err = db.DeleteUser(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUserEmailUniqueCaseInsensitive(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	createTestUser(t, db, "Вася", "Vasya@Example.com")

	taken, err := db.UserExistsByEmail(ctx, "vasya@example.com", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	// Вставка дубликата с другим регистром бьётся об уникальный индекс.
	err = db.CreateUser(ctx, &models.User{Name: "Другой", Email: "VASYA@EXAMPLE.COM"})
	assert.Error(t, err)
}

func TestUserExistsByEmailExcludesSelf(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "Вася", "vasya@example.com")

	taken, err := db.UserExistsByEmail(ctx, "vasya@example.com", user.ID)
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestGetAllUsersOrdered(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	first := createTestUser(t, db, "А", "a@example.com")
	second := createTestUser(t, db, "Б", "b@example.com")

	users, err := db.GetAllUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, first.ID, users[0].ID)
	assert.Equal(t, second.ID, users[1].ID)
}
