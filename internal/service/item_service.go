package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"shareit/internal/apperrors"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type ItemService struct {
	store    domain.Store
	cache    domain.ProjectionCache
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewItemService(store domain.Store, cache domain.ProjectionCache, eventBus domain.EventPublisher, logger *zerolog.Logger) *ItemService {
	return &ItemService{
		store:    store,
		cache:    cache,
		eventBus: eventBus,
		logger:   logger,
	}
}

func (s *ItemService) Create(ctx context.Context, ownerID int64, item *models.Item) (*models.Item, error) {
	if strings.TrimSpace(item.Name) == "" {
		return nil, apperrors.Validation("item name is required")
	}

	if _, err := s.store.GetUser(ctx, ownerID); err != nil {
		return nil, err
	}
	if item.RequestID != 0 {
		if _, err := s.store.GetItemRequest(ctx, item.RequestID); err != nil {
			return nil, err
		}
	}

	item.OwnerID = ownerID
	if err := s.store.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Update применяет частичное обновление. Редактировать вещь может только её
// владелец.
func (s *ItemService) Update(ctx context.Context, ownerID, itemID int64, patch models.ItemPatch) (*models.Item, error) {
	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != ownerID {
		return nil, apperrors.Forbidden("only the owner may edit the item")
	}

	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.Available != nil {
		item.Available = *patch.Available
	}

	if err := s.store.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// GetByID returns the item with its comments. The last/next booking
// projection is filled only for the owner; other viewers never see it.
func (s *ItemService) GetByID(ctx context.Context, requesterID, itemID int64) (*models.ItemView, error) {
	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	view := &models.ItemView{Item: *item}
	if item.OwnerID == requesterID {
		if err := s.fillProjection(ctx, view); err != nil {
			return nil, err
		}
	}

	comments, err := s.store.GetCommentsByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	view.Comments = comments
	return view, nil
}

// GetByOwner returns the owner's items, each with projection and comments.
func (s *ItemService) GetByOwner(ctx context.Context, ownerID int64) ([]*models.ItemView, error) {
	items, err := s.store.GetItemsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	views := make([]*models.ItemView, 0, len(items))
	for _, item := range items {
		view := &models.ItemView{Item: *item}
		if err := s.fillProjection(ctx, view); err != nil {
			return nil, err
		}
		comments, err := s.store.GetCommentsByItem(ctx, item.ID)
		if err != nil {
			return nil, err
		}
		view.Comments = comments
		views = append(views, view)
	}
	return views, nil
}

// Search ищет по подстроке среди доступных вещей; пустой запрос — пустой
// результат.
func (s *ItemService) Search(ctx context.Context, text string) ([]*models.Item, error) {
	if strings.TrimSpace(text) == "" {
		return []*models.Item{}, nil
	}
	return s.store.SearchItems(ctx, text)
}

// AddComment creates a comment if the author ever had a booking of the item
// whose end has passed. Approval status is not part of the check.
func (s *ItemService) AddComment(ctx context.Context, authorID, itemID int64, text string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.Validation("comment text is required")
	}

	author, err := s.store.GetUser(ctx, authorID)
	if err != nil {
		return nil, err
	}
	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	eligible, err := s.store.HasFinishedBooking(ctx, authorID, itemID, now)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, apperrors.Validation("commenting requires a finished booking of the item")
	}

	comment := &models.Comment{
		Text:       text,
		ItemID:     itemID,
		AuthorID:   authorID,
		AuthorName: author.Name,
		Created:    now,
	}
	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	s.publishCommentEvent(comment, item)
	s.enqueueCommentNotification(ctx, comment, item)

	return comment, nil
}

func (s *ItemService) fillProjection(ctx context.Context, view *models.ItemView) error {
	now := time.Now()

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, view.ID)
		if err != nil {
			s.logger.Error().Err(err).Int64("item_id", view.ID).Msg("projection cache read failed")
		} else if cached != nil {
			view.LastBooking = cached.Last
			view.NextBooking = cached.Next
			return nil
		}
	}

	last, err := s.store.LastBookingForItem(ctx, view.ID, now)
	if err != nil {
		return err
	}
	next, err := s.store.NextBookingForItem(ctx, view.ID, now)
	if err != nil {
		return err
	}
	view.LastBooking = last
	view.NextBooking = next

	if s.cache != nil {
		if err := s.cache.Set(ctx, view.ID, &domain.ItemProjection{Last: last, Next: next}); err != nil {
			s.logger.Error().Err(err).Int64("item_id", view.ID).Msg("projection cache write failed")
		}
	}
	return nil
}

func (s *ItemService) publishCommentEvent(comment *models.Comment, item *models.Item) {
	if s.eventBus == nil {
		return
	}

	payload := events.CommentEventPayload{
		CommentID: comment.ID,
		ItemID:    item.ID,
		OwnerID:   item.OwnerID,
		AuthorID:  comment.AuthorID,
		Created:   comment.Created,
	}
	if err := s.eventBus.PublishJSON(events.EventCommentAdded, payload); err != nil {
		s.logger.Error().Err(err).Int64("comment_id", comment.ID).Msg("publish event error")
	}
}

func (s *ItemService) enqueueCommentNotification(ctx context.Context, comment *models.Comment, item *models.Item) {
	payload, err := json.Marshal(events.CommentEventPayload{
		CommentID: comment.ID,
		ItemID:    item.ID,
		OwnerID:   item.OwnerID,
		AuthorID:  comment.AuthorID,
		Created:   comment.Created,
	})
	if err != nil {
		s.logger.Error().Err(err).Int64("comment_id", comment.ID).Msg("encode notification payload error")
		return
	}

	task := &models.NotifyTask{
		TaskType:    events.EventCommentAdded,
		RecipientID: item.OwnerID,
		Payload:     string(payload),
		Status:      "pending",
	}
	if err := s.store.CreateNotifyTask(ctx, task); err != nil {
		s.logger.Error().Err(err).Int64("comment_id", comment.ID).Msg("notify enqueue error")
	}
}
