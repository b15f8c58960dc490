package domain

import (
	"context"
	"time"

	"shareit/internal/models"
)

// Store is the persistent storage handle. Passed explicitly into each
// component; no package-level singletons.
type Store interface {
	// Users
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
	UserExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)

	// Items
	CreateItem(ctx context.Context, item *models.Item) error
	UpdateItem(ctx context.Context, item *models.Item) error
	GetItem(ctx context.Context, id int64) (*models.Item, error)
	GetItemsByOwner(ctx context.Context, ownerID int64) ([]*models.Item, error)
	SearchItems(ctx context.Context, text string) ([]*models.Item, error)
	GetItemsByRequestIDs(ctx context.Context, requestIDs []int64) ([]*models.Item, error)

	// Bookings
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	DecideBooking(ctx context.Context, id int64, status string) (bool, error)
	GetBookingsByBooker(ctx context.Context, bookerID int64) ([]*models.Booking, error)
	GetBookingsByOwner(ctx context.Context, ownerID int64) ([]*models.Booking, error)
	LastBookingForItem(ctx context.Context, itemID int64, now time.Time) (*models.BookingShort, error)
	NextBookingForItem(ctx context.Context, itemID int64, now time.Time) (*models.BookingShort, error)
	HasFinishedBooking(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error)

	// Comments
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentsByItem(ctx context.Context, itemID int64) ([]models.Comment, error)

	// Item requests
	CreateItemRequest(ctx context.Context, request *models.ItemRequest) error
	GetItemRequest(ctx context.Context, id int64) (*models.ItemRequest, error)
	GetRequestsByRequester(ctx context.Context, requesterID int64) ([]*models.ItemRequest, error)
	GetRequestsExcludingRequester(ctx context.Context, requesterID int64) ([]*models.ItemRequest, error)

	// Notification outbox
	CreateNotifyTask(ctx context.Context, task *models.NotifyTask) error
	GetPendingNotifyTasks(ctx context.Context, limit int) ([]models.NotifyTask, error)
	UpdateNotifyTaskStatus(ctx context.Context, id int64, status, errMsg string, nextRetryAt *time.Time) error
}

// ItemProjection is the cached owner-view pair for a single item.
type ItemProjection struct {
	Last *models.BookingShort `json:"last,omitempty"`
	Next *models.BookingShort `json:"next,omitempty"`
}

// ProjectionCache keeps last/next booking pairs keyed by item id.
// Get returns (nil, nil) on a miss.
type ProjectionCache interface {
	Get(ctx context.Context, itemID int64) (*ItemProjection, error)
	Set(ctx context.Context, itemID int64, projection *ItemProjection) error
	Invalidate(ctx context.Context, itemID int64) error
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// Notifier delivers a rendered notification text.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}
