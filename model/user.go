package model

import "time"

// User is an identity record keyed by email. Users are created at
// registration and never deleted.
type User struct {
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}
