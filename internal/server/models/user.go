// Package models defines the records persisted by the Kanban server.
package models

import "time"

// User is a registered account. Password holds the bcrypt hash.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Password     string    `json:"-"`
	Organization string    `json:"organization"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}
