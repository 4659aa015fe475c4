package models

import "time"

type Board struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

type Column struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	BoardID   int64     `json:"boardId"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Card belongs to a column and its board. UserID is nil for unassigned cards.
type Card struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	ColumnID    int64     `json:"columnId"`
	Description string    `json:"description"`
	UserID      *int64    `json:"userId"`
	BoardID     int64     `json:"boardId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ColumnDetail is a column with its cards.
type ColumnDetail struct {
	Column
	Cards []Card `json:"cards"`
}

// BoardDetail is a board with its columns and their cards.
type BoardDetail struct {
	Board
	Columns []ColumnDetail `json:"columns"`
}
