package service

import (
	"context"
	"strings"
	"time"

	"shareit/internal/apperrors"
	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type RequestService struct {
	store  domain.Store
	logger *zerolog.Logger
}

func NewRequestService(store domain.Store, logger *zerolog.Logger) *RequestService {
	return &RequestService{store: store, logger: logger}
}

func (s *RequestService) Create(ctx context.Context, requesterID int64, description string) (*models.ItemRequest, error) {
	if strings.TrimSpace(description) == "" {
		return nil, apperrors.Validation("request description is required")
	}
	if _, err := s.store.GetUser(ctx, requesterID); err != nil {
		return nil, err
	}

	request := &models.ItemRequest{
		Description: description,
		RequesterID: requesterID,
		Created:     time.Now(),
		Items:       []models.Item{},
	}
	if err := s.store.CreateItemRequest(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

// GetOwn возвращает запросы самого пользователя, новые сверху.
func (s *RequestService) GetOwn(ctx context.Context, requesterID int64) ([]*models.ItemRequest, error) {
	if _, err := s.store.GetUser(ctx, requesterID); err != nil {
		return nil, err
	}
	requests, err := s.store.GetRequestsByRequester(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	return s.fillItems(ctx, requests)
}

// GetAll возвращает чужие запросы, новые сверху.
func (s *RequestService) GetAll(ctx context.Context, requesterID int64) ([]*models.ItemRequest, error) {
	if _, err := s.store.GetUser(ctx, requesterID); err != nil {
		return nil, err
	}
	requests, err := s.store.GetRequestsExcludingRequester(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	return s.fillItems(ctx, requests)
}

func (s *RequestService) GetByID(ctx context.Context, userID, requestID int64) (*models.ItemRequest, error) {
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	request, err := s.store.GetItemRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	filled, err := s.fillItems(ctx, []*models.ItemRequest{request})
	if err != nil {
		return nil, err
	}
	return filled[0], nil
}

func (s *RequestService) fillItems(ctx context.Context, requests []*models.ItemRequest) ([]*models.ItemRequest, error) {
	if len(requests) == 0 {
		return requests, nil
	}

	ids := make([]int64, 0, len(requests))
	for _, r := range requests {
		r.Items = []models.Item{}
		ids = append(ids, r.ID)
	}

	items, err := s.store.GetItemsByRequestIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byRequest := make(map[int64][]models.Item)
	for _, item := range items {
		byRequest[item.RequestID] = append(byRequest[item.RequestID], *item)
	}
	for _, r := range requests {
		if answered, ok := byRequest[r.ID]; ok {
			r.Items = answered
		}
	}
	return requests, nil
}
