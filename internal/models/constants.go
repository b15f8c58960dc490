package models

// Статусы бронирования. Хранятся в БД как есть, сравнение регистрозависимое.
const (
	StatusWaiting  = "WAITING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
	StatusCanceled = "CANCELED"
)

// Представления списка бронирований (параметр state).
const (
	ViewAll      = "ALL"
	ViewCurrent  = "CURRENT"
	ViewPast     = "PAST"
	ViewFuture   = "FUTURE"
	ViewWaiting  = "WAITING"
	ViewRejected = "REJECTED"
	ViewCanceled = "CANCELED"
)

// KnownView reports whether the token names a view bucket. Comparison is
// case-exact; the HTTP layer uppercases the query parameter before calling.
func KnownView(view string) bool {
	switch view {
	case ViewAll, ViewCurrent, ViewPast, ViewFuture, ViewWaiting, ViewRejected, ViewCanceled:
		return true
	}
	return false
}
