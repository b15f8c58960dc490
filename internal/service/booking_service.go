package service

import (
	"context"
	"encoding/json"
	"time"

	"shareit/internal/apperrors"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

// BookingService owns the booking lifecycle: creation validation, the
// WAITING -> APPROVED/REJECTED decision, requester-scoped reads and the
// view-bucketed listings.
type BookingService struct {
	store    domain.Store
	cache    domain.ProjectionCache
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewBookingService(store domain.Store, cache domain.ProjectionCache, eventBus domain.EventPublisher, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		store:    store,
		cache:    cache,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Create validates the request and persists a WAITING booking.
// Пересечение с существующими бронированиями намеренно не проверяется.
func (s *BookingService) Create(ctx context.Context, bookerID, itemID int64, start, end time.Time) (*models.Booking, error) {
	if start.IsZero() || end.IsZero() || !end.After(start) {
		return nil, apperrors.Validation("booking interval is invalid")
	}

	if _, err := s.store.GetUser(ctx, bookerID); err != nil {
		return nil, err
	}
	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if item.OwnerID == bookerID {
		return nil, apperrors.Forbidden("cannot book your own item")
	}
	if !item.Available {
		return nil, apperrors.Validation("item %d is not available for booking", itemID)
	}

	booking := &models.Booking{
		Start:    start,
		End:      end,
		ItemID:   itemID,
		BookerID: bookerID,
		Status:   models.StatusWaiting,
	}
	if err := s.store.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	s.invalidateProjection(ctx, itemID)
	s.publishBookingEvent(events.EventBookingCreated, booking, item)
	s.enqueueNotification(ctx, events.EventBookingCreated, item.OwnerID, booking, item)

	return booking, nil
}

// Decide approves or rejects a WAITING booking. The transition is a single
// compare-and-swap on status, so of two concurrent decisions exactly one wins.
func (s *BookingService) Decide(ctx context.Context, requesterID, bookingID int64, approved bool) (*models.Booking, error) {
	booking, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	item, err := s.store.GetItem(ctx, booking.ItemID)
	if err != nil {
		return nil, err
	}

	if err := assertCanApprove(requesterID, item); err != nil {
		return nil, err
	}

	if booking.Status != models.StatusWaiting {
		return nil, apperrors.Conflict("booking %d is already decided", bookingID)
	}

	status := models.StatusRejected
	eventType := events.EventBookingRejected
	if approved {
		status = models.StatusApproved
		eventType = events.EventBookingApproved
	}

	ok, err := s.store.DecideBooking(ctx, bookingID, status)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Проиграли гонку с параллельным решением.
		return nil, apperrors.Conflict("booking %d is already decided", bookingID)
	}

	booking, err = s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	s.invalidateProjection(ctx, booking.ItemID)
	s.publishBookingEvent(eventType, booking, item)
	s.enqueueNotification(ctx, eventType, booking.BookerID, booking, item)

	return booking, nil
}

// GetByID returns the booking to its booker or the item's owner.
func (s *BookingService) GetByID(ctx context.Context, requesterID, bookingID int64) (*models.Booking, error) {
	booking, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	item, err := s.store.GetItem(ctx, booking.ItemID)
	if err != nil {
		return nil, err
	}

	if err := assertCanView(requesterID, booking, item); err != nil {
		return nil, err
	}
	return booking, nil
}

// GetForBooker lists the requester's own bookings bucketed by view.
func (s *BookingService) GetForBooker(ctx context.Context, bookerID int64, view string) ([]*models.Booking, error) {
	if _, err := s.store.GetUser(ctx, bookerID); err != nil {
		return nil, err
	}
	bookings, err := s.store.GetBookingsByBooker(ctx, bookerID)
	if err != nil {
		return nil, err
	}
	return FilterByView(bookings, view, time.Now()), nil
}

// GetForOwner lists bookings on the requester's items bucketed by view.
func (s *BookingService) GetForOwner(ctx context.Context, ownerID int64, view string) ([]*models.Booking, error) {
	if _, err := s.store.GetUser(ctx, ownerID); err != nil {
		return nil, err
	}
	bookings, err := s.store.GetBookingsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return FilterByView(bookings, view, time.Now()), nil
}

func (s *BookingService) invalidateProjection(ctx context.Context, itemID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, itemID); err != nil {
		s.logger.Error().Err(err).Int64("item_id", itemID).Msg("projection cache invalidation failed")
	}
}

func (s *BookingService) publishBookingEvent(eventType string, booking *models.Booking, item *models.Item) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID: booking.ID,
		ItemID:    item.ID,
		ItemName:  item.Name,
		OwnerID:   item.OwnerID,
		BookerID:  booking.BookerID,
		Status:    booking.Status,
		Start:     booking.Start,
		End:       booking.End,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}

func (s *BookingService) enqueueNotification(ctx context.Context, taskType string, recipientID int64, booking *models.Booking, item *models.Item) {
	payload, err := json.Marshal(events.BookingEventPayload{
		BookingID: booking.ID,
		ItemID:    item.ID,
		ItemName:  item.Name,
		OwnerID:   item.OwnerID,
		BookerID:  booking.BookerID,
		Status:    booking.Status,
		Start:     booking.Start,
		End:       booking.End,
	})
	if err != nil {
		s.logger.Error().Err(err).Int64("booking_id", booking.ID).Msg("encode notification payload error")
		return
	}

	task := &models.NotifyTask{
		TaskType:    taskType,
		RecipientID: recipientID,
		Payload:     string(payload),
		Status:      "pending",
	}
	if err := s.store.CreateNotifyTask(ctx, task); err != nil {
		s.logger.Error().Err(err).Int64("booking_id", booking.ID).Str("task", taskType).Msg("notify enqueue error")
	}
}
