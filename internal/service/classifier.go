package service

import (
	"sort"
	"time"

	"shareit/internal/models"
)

// matchesView — предикатная таблица представлений. Временные корзины
// (CURRENT/PAST/FUTURE) не зависят от статуса, статусные — от времени.
func matchesView(b *models.Booking, view string, now time.Time) bool {
	switch view {
	case models.ViewAll:
		return true
	case models.ViewCurrent:
		return !b.Start.After(now) && !b.End.Before(now)
	case models.ViewPast:
		return b.End.Before(now)
	case models.ViewFuture:
		return b.Start.After(now)
	case models.ViewWaiting:
		return b.Status == models.StatusWaiting
	case models.ViewRejected:
		return b.Status == models.StatusRejected
	case models.ViewCanceled:
		return b.Status == models.StatusCanceled
	}
	return false
}

// FilterByView returns the bookings matching the view, ordered by start
// descending with ties broken by id descending (newest first).
func FilterByView(bookings []*models.Booking, view string, now time.Time) []*models.Booking {
	filtered := make([]*models.Booking, 0, len(bookings))
	for _, b := range bookings {
		if matchesView(b, view, now) {
			filtered = append(filtered, b)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if !filtered[i].Start.Equal(filtered[j].Start) {
			return filtered[i].Start.After(filtered[j].Start)
		}
		return filtered[i].ID > filtered[j].ID
	})

	return filtered
}
