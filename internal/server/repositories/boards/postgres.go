// Package boards stores boards in PostgreSQL.
package boards

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianrazif/kanban-mono-repo/internal/common"
	"github.com/julianrazif/kanban-mono-repo/internal/dbx"
	"github.com/julianrazif/kanban-mono-repo/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, name string) (*models.Board, error) {
	query :=
		`INSERT INTO boards (board_name)
		 VALUES ($1)
		 RETURNING id, board_name, created_date, modified_date`

	return r.scanOne(r.db.QueryRowContext(ctx, query, name))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Board, error) {
	query :=
		`SELECT id, board_name, created_date, modified_date
		 FROM boards WHERE id = $1`

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*models.Board, error) {
	query :=
		`SELECT id, board_name, created_date, modified_date
		 FROM boards WHERE board_name = $1`

	return r.scanOne(r.db.QueryRowContext(ctx, query, name))
}

func (r *PostgresRepository) UpdateName(ctx context.Context, id int64, name string) (*models.Board, error) {
	query :=
		`UPDATE boards SET board_name = $2, modified_date = now()
		 WHERE id = $1
		 RETURNING id, board_name, created_date, modified_date`

	return r.scanOne(r.db.QueryRowContext(ctx, query, id, name))
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.Board, error) {
	query :=
		`SELECT id, board_name, created_date, modified_date
		 FROM boards ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Board, 0)
	for rows.Next() {
		var b models.Board
		if err := rows.Scan(&b.ID, &b.Name, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.Board, error) {
	b := &models.Board{}
	err := row.Scan(&b.ID, &b.Name, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrorNotFound
		case dbx.IsUniqueViolation(err):
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return b, nil
}
