// Package cards stores cards in PostgreSQL.
package cards

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianrazif/kanban-mono-repo/internal/common"
	"github.com/julianrazif/kanban-mono-repo/internal/dbx"
	"github.com/julianrazif/kanban-mono-repo/internal/server/models"
)

const selectCard = `SELECT id, title, description, column_id, user_id, board_id, created_date, modified_date FROM cards`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCard(s scanner) (*models.Card, error) {
	c := &models.Card{}
	var userID sql.NullInt64
	if err := s.Scan(&c.ID, &c.Title, &c.Description, &c.ColumnID, &userID, &c.BoardID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if userID.Valid {
		c.UserID = &userID.Int64
	}
	return c, nil
}

func nullableID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

func (r *PostgresRepository) Create(ctx context.Context, card *models.Card) (*models.Card, error) {
	query :=
		`INSERT INTO cards (title, description, column_id, user_id, board_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_date, modified_date`

	err := r.db.QueryRowContext(ctx, query, card.Title, card.Description, card.ColumnID, nullableID(card.UserID), card.BoardID).
		Scan(&card.ID, &card.CreatedAt, &card.UpdatedAt)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return card, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Card, error) {
	c, err := scanCard(r.db.QueryRowContext(ctx, selectCard+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

// Update writes title, description and column of card.
func (r *PostgresRepository) Update(ctx context.Context, card *models.Card) (*models.Card, error) {
	query :=
		`UPDATE cards SET title = $2, description = $3, column_id = $4, modified_date = now()
		 WHERE id = $1
		 RETURNING modified_date`

	err := r.db.QueryRowContext(ctx, query, card.ID, card.Title, card.Description, card.ColumnID).
		Scan(&card.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows), dbx.IsForeignKeyViolation(err):
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return card, nil
}

func (r *PostgresRepository) ListByBoard(ctx context.Context, boardID int64) ([]models.Card, error) {
	rows, err := r.db.QueryContext(ctx, selectCard+` WHERE board_id = $1 ORDER BY id`, boardID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Card, 0)
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
