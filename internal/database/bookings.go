package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shareit/internal/apperrors"
	"shareit/internal/models"
)

const bookingColumns = `id, start_date, end_date, item_id, booker_id, status, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (*models.Booking, error) {
	b := &models.Booking{}
	err := row.Scan(
		&b.ID, &b.Start, &b.End, &b.ItemID, &b.BookerID, &b.Status,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	query := `INSERT INTO bookings (start_date, end_date, item_id, booker_id, status, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?)`
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx, query,
		booking.Start.UTC(), booking.End.UTC(), booking.ItemID, booking.BookerID, booking.Status, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	booking.ID = id
	booking.CreatedAt = now
	booking.UpdatedAt = now
	return nil
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	booking, err := scanBooking(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("booking %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

// DecideBooking переводит бронирование из WAITING в указанный статус одним
// compare-and-swap запросом. Возвращает false, если решение уже принято
// другим вызовом.
func (db *DB) DecideBooking(ctx context.Context, id int64, status string) (bool, error) {
	query := `UPDATE bookings SET status = ?, updated_at = ? WHERE id = ? AND status = ?`
	result, err := db.ExecContext(ctx, query, status, time.Now().UTC(), id, models.StatusWaiting)
	if err != nil {
		return false, fmt.Errorf("failed to decide booking: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (db *DB) GetBookingsByBooker(ctx context.Context, bookerID int64) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
              WHERE booker_id = ?
              ORDER BY start_date DESC, id DESC`
	return db.queryBookings(ctx, query, bookerID)
}

func (db *DB) GetBookingsByOwner(ctx context.Context, ownerID int64) ([]*models.Booking, error) {
	query := `SELECT b.id, b.start_date, b.end_date, b.item_id, b.booker_id, b.status, b.created_at, b.updated_at
              FROM bookings b
              JOIN items i ON i.id = b.item_id
              WHERE i.owner_id = ?
              ORDER BY b.start_date DESC, b.id DESC`
	return db.queryBookings(ctx, query, ownerID)
}

// LastBookingForItem возвращает бронирование вещи с start <= now и самым
// поздним end. Ничья разрешается по id.
func (db *DB) LastBookingForItem(ctx context.Context, itemID int64, now time.Time) (*models.BookingShort, error) {
	query := `SELECT id, booker_id, start_date, end_date FROM bookings
              WHERE item_id = ? AND start_date <= ?
              ORDER BY end_date DESC, id DESC LIMIT 1`
	return db.queryBookingShort(ctx, query, itemID, now.UTC())
}

// NextBookingForItem возвращает бронирование вещи с самым ранним start > now.
func (db *DB) NextBookingForItem(ctx context.Context, itemID int64, now time.Time) (*models.BookingShort, error) {
	query := `SELECT id, booker_id, start_date, end_date FROM bookings
              WHERE item_id = ? AND start_date > ?
              ORDER BY start_date ASC, id ASC LIMIT 1`
	return db.queryBookingShort(ctx, query, itemID, now.UTC())
}

// HasFinishedBooking проверяет, что у пары (booker, item) есть бронирование с
// истёкшим end. Статус бронирования намеренно не учитывается.
func (db *DB) HasFinishedBooking(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE booker_id = ? AND item_id = ? AND end_date <= ?`
	var count int
	if err := db.QueryRowContext(ctx, query, bookerID, itemID, now.UTC()).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check finished booking: %w", err)
	}
	return count > 0, nil
}

func (db *DB) queryBookingShort(ctx context.Context, query string, args ...any) (*models.BookingShort, error) {
	short := &models.BookingShort{}
	err := db.QueryRowContext(ctx, query, args...).Scan(&short.ID, &short.BookerID, &short.Start, &short.End)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking projection: %w", err)
	}
	return short, nil
}

func (db *DB) queryBookings(ctx context.Context, query string, args ...any) ([]*models.Booking, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
