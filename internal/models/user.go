package models

import "time"

type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"` // уникален без учёта регистра

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserPatch carries the mutable fields of a partial update. Nil means "leave
// as is".
type UserPatch struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}
