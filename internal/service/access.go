package service

import (
	"shareit/internal/apperrors"
	"shareit/internal/models"
)

// assertCanApprove: решение принимает только владелец вещи.
func assertCanApprove(requesterID int64, item *models.Item) error {
	if item.OwnerID != requesterID {
		return apperrors.Forbidden("only the item owner may decide booking requests")
	}
	return nil
}

// assertCanView: бронирование видят владелец вещи и автор бронирования.
func assertCanView(requesterID int64, booking *models.Booking, item *models.Item) error {
	if item.OwnerID != requesterID && booking.BookerID != requesterID {
		return apperrors.Forbidden("access denied")
	}
	return nil
}
