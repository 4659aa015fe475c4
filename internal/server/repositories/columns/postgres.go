// Package columns stores board columns in PostgreSQL.
package columns

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

// Create inserts column. A missing board yields common.ErrorNotFound.
func (r *PostgresRepository) Create(ctx context.Context, column *models.Column) (*models.Column, error) {
	query :=
		`INSERT INTO columns (column_name, board_id)
		 VALUES ($1, $2)
		 RETURNING id, created_date, modified_date`

	err := r.db.QueryRowContext(ctx, query, column.Name, column.BoardID).
		Scan(&column.ID, &column.CreatedAt, &column.UpdatedAt)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return column, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Column, error) {
	query :=
		`SELECT id, column_name, board_id, created_date, modified_date
		 FROM columns WHERE id = $1`

	c := &models.Column{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&c.ID, &c.Name, &c.BoardID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) ListByBoard(ctx context.Context, boardID int64) ([]models.Column, error) {
	query :=
		`SELECT id, column_name, board_id, created_date, modified_date
		 FROM columns WHERE board_id = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, boardID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Column, 0)
	for rows.Next() {
		var c models.Column
		if err := rows.Scan(&c.ID, &c.Name, &c.BoardID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
