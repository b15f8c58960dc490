package service

import (
	"context"
	"testing"
	"time"

	"shareit/internal/apperrors"
	"shareit/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newRequestService(store *mockStore) *RequestService {
	logger := zerolog.Nop()
	return NewRequestService(store, &logger)
}

func TestRequestCreateRequiresDescription(t *testing.T) {
	store := &mockStore{}
	svc := newRequestService(store)

	_, err := svc.Create(context.Background(), 1, "  ")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	store.AssertNotCalled(t, "CreateItemRequest")
}

func TestRequestCreateSuccess(t *testing.T) {
	store := &mockStore{}
	svc := newRequestService(store)
	ctx := context.Background()

	store.On("GetUser", ctx, int64(1)).Return(&models.User{ID: 1}, nil)
	store.On("CreateItemRequest", ctx, mock.AnythingOfType("*models.ItemRequest")).Return(nil)

	request, err := svc.Create(ctx, 1, "нужна дрель")
	require.NoError(t, err)
	assert.Equal(t, int64(1), request.RequesterID)
	assert.NotNil(t, request.Items, "items сериализуется как [], не null")
}

func TestRequestGetOwnFillsItems(t *testing.T) {
	store := &mockStore{}
	svc := newRequestService(store)
	ctx := context.Background()
	now := time.Now()

	store.On("GetUser", ctx, int64(1)).Return(&models.User{ID: 1}, nil)
	store.On("GetRequestsByRequester", ctx, int64(1)).Return([]*models.ItemRequest{
		{ID: 3, RequesterID: 1, Created: now},
		{ID: 4, RequesterID: 1, Created: now.Add(-time.Hour)},
	}, nil)
	store.On("GetItemsByRequestIDs", ctx, []int64{3, 4}).Return([]*models.Item{
		{ID: 10, Name: "Дрель", RequestID: 3},
		{ID: 11, Name: "Шуруповёрт", RequestID: 3},
	}, nil)

	requests, err := svc.GetOwn(ctx, 1)
	require.NoError(t, err)
	require.Len(t, requests, 2)

	assert.Len(t, requests[0].Items, 2)
	assert.Empty(t, requests[1].Items)
	assert.NotNil(t, requests[1].Items)
}

func TestRequestGetAllChecksUser(t *testing.T) {
	store := &mockStore{}
	svc := newRequestService(store)
	ctx := context.Background()

	store.On("GetUser", ctx, int64(9)).Return(nil, apperrors.NotFound("user 9 not found"))

	_, err := svc.GetAll(ctx, 9)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	store.AssertNotCalled(t, "GetRequestsExcludingRequester")
}

func TestRequestGetByID(t *testing.T) {
	store := &mockStore{}
	svc := newRequestService(store)
	ctx := context.Background()

	store.On("GetUser", ctx, int64(2)).Return(&models.User{ID: 2}, nil)
	store.On("GetItemRequest", ctx, int64(3)).Return(&models.ItemRequest{ID: 3, RequesterID: 1}, nil)
	store.On("GetItemsByRequestIDs", ctx, []int64{3}).Return([]*models.Item{{ID: 10, RequestID: 3}}, nil)

	request, err := svc.GetByID(ctx, 2, 3)
	require.NoError(t, err)
	assert.Len(t, request.Items, 1)
}
