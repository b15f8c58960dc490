package models

import (
	"database/sql"
	"time"
)

// NotifyTask is one pending notification in the outbox table. Tasks survive
// restarts; the worker drains them with retries.
type NotifyTask struct {
	ID          int64
	TaskType    string // booking_created, booking_approved, booking_rejected, comment_added
	RecipientID int64  // user to notify (the item owner)
	Payload     string // JSON snapshot for the message template
	Status      string // pending, retry, completed, failed
	RetryCount  int64
	LastError   string
	CreatedAt   time.Time
	ProcessedAt sql.NullTime
	NextRetryAt sql.NullTime
}
