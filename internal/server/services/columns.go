package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/julianrazif/kanban-mono-repo/internal/common"
	"github.com/julianrazif/kanban-mono-repo/internal/server/models"
	"github.com/julianrazif/kanban-mono-repo/internal/server/repositories/repomanager"
)

type ColumnService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewColumnService(db *sql.DB, m repomanager.RepositoryManager) *ColumnService {
	return &ColumnService{db: db, repomanager: m}
}

// Create adds a column to an existing board.
func (s *ColumnService) Create(ctx context.Context, boardID int64, name string) (*models.Column, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errNameRequired
	}

	if _, err := s.repomanager.Boards(s.db).GetByID(ctx, boardID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, errBoardNotFound
		}
		return nil, fmt.Errorf("error loading board: %w", err)
	}

	c, err := s.repomanager.Columns(s.db).Create(ctx, &models.Column{Name: name, BoardID: boardID})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, errBoardNotFound
		}
		return nil, fmt.Errorf("error creating column: %w", err)
	}
	return c, nil
}
