package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/julianrazif/kanban-mono-repo/internal/common"
	"github.com/julianrazif/kanban-mono-repo/internal/dbx"
	"github.com/julianrazif/kanban-mono-repo/internal/server/models"
	"github.com/julianrazif/kanban-mono-repo/internal/server/repositories/repomanager"
)

var (
	errBoardNotFound = common.NewError(common.ErrorNotFound, "Board not found")
	errBoardConflict = common.NewError(common.ErrorConflict, "Board with same name already exists")
	errNameRequired  = common.NewError(common.ErrorValidation, "Name required")
)

type BoardService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewBoardService(db *sql.DB, m repomanager.RepositoryManager) *BoardService {
	return &BoardService{db: db, repomanager: m}
}

func (s *BoardService) List(ctx context.Context) ([]models.Board, error) {
	boards, err := s.repomanager.Boards(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing boards: %w", err)
	}
	return boards, nil
}

// Detail loads a board with its columns and cards from one read-only
// transaction.
func (s *BoardService) Detail(ctx context.Context, id int64) (*models.BoardDetail, error) {
	var detail *models.BoardDetail
	err := dbx.WithTx(ctx, s.db, &sql.TxOptions{ReadOnly: true}, func(ctx context.Context, tx dbx.DBTX) error {
		board, err := s.repomanager.Boards(tx).GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return errBoardNotFound
			}
			return fmt.Errorf("error loading board: %w", err)
		}
		columns, err := s.repomanager.Columns(tx).ListByBoard(ctx, id)
		if err != nil {
			return fmt.Errorf("error loading columns: %w", err)
		}
		cards, err := s.repomanager.Cards(tx).ListByBoard(ctx, id)
		if err != nil {
			return fmt.Errorf("error loading cards: %w", err)
		}
		detail = assembleBoard(board, columns, cards)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func assembleBoard(board *models.Board, columns []models.Column, cards []models.Card) *models.BoardDetail {
	byColumn := make(map[int64][]models.Card, len(columns))
	for _, c := range cards {
		byColumn[c.ColumnID] = append(byColumn[c.ColumnID], c)
	}

	detail := &models.BoardDetail{Board: *board, Columns: make([]models.ColumnDetail, 0, len(columns))}
	for _, col := range columns {
		cc := byColumn[col.ID]
		if cc == nil {
			cc = []models.Card{}
		}
		detail.Columns = append(detail.Columns, models.ColumnDetail{Column: col, Cards: cc})
	}
	return detail
}

func (s *BoardService) Create(ctx context.Context, name string) (*models.Board, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errNameRequired
	}

	var board *models.Board
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Boards(tx)
		if _, err := repo.GetByName(ctx, name); err == nil {
			return errBoardConflict
		} else if !errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("error loading board: %w", err)
		}

		b, err := repo.Create(ctx, name)
		if err != nil {
			if errors.Is(err, common.ErrorConflict) {
				return errBoardConflict
			}
			return fmt.Errorf("error creating board: %w", err)
		}
		board = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return board, nil
}

// Update renames a board. Renaming to the current name is a no-op.
func (s *BoardService) Update(ctx context.Context, id int64, name string) (*models.Board, error) {
	if id <= 0 {
		return nil, common.NewError(common.ErrorValidation, "Board id required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errNameRequired
	}

	var board *models.Board
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Boards(tx)
		current, err := repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return errBoardNotFound
			}
			return fmt.Errorf("error loading board: %w", err)
		}
		if current.Name == name {
			board = current
			return nil
		}

		other, err := repo.GetByName(ctx, name)
		switch {
		case err == nil && other.ID != id:
			return errBoardConflict
		case err != nil && !errors.Is(err, common.ErrorNotFound):
			return fmt.Errorf("error loading board: %w", err)
		}

		b, err := repo.UpdateName(ctx, id, name)
		if err != nil {
			switch {
			case errors.Is(err, common.ErrorConflict):
				return errBoardConflict
			case errors.Is(err, common.ErrorNotFound):
				return errBoardNotFound
			}
			return fmt.Errorf("error updating board: %w", err)
		}
		board = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return board, nil
}
