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
	errCardNotFound   = common.NewError(common.ErrorNotFound, "Card not found")
	errColumnNotFound = common.NewError(common.ErrorNotFound, "Column not found")
)

// NewCard is the input of CardService.Create.
type NewCard struct {
	Title       string
	Description string
	ColumnID    int64
}

// CardUpdate is the input of CardService.Update. A blank Title, a nil
// Description and a zero ColumnID keep the stored values.
type CardUpdate struct {
	Title       string
	Description *string
	ColumnID    int64
}

type CardService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCardService(db *sql.DB, m repomanager.RepositoryManager) *CardService {
	return &CardService{db: db, repomanager: m}
}

// Create adds a card to a column of boardID. The card is assigned to userID.
func (s *CardService) Create(ctx context.Context, boardID, userID int64, in NewCard) (*models.Card, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, common.NewError(common.ErrorValidation, "Title required")
	}
	if in.ColumnID <= 0 {
		return nil, common.NewError(common.ErrorValidation, "Column id required")
	}

	var card *models.Card
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.checkColumn(ctx, tx, boardID, in.ColumnID); err != nil {
			return err
		}

		c := &models.Card{
			Title:       title,
			Description: in.Description,
			ColumnID:    in.ColumnID,
			BoardID:     boardID,
		}
		if userID > 0 {
			c.UserID = &userID
		}

		created, err := s.repomanager.Cards(tx).Create(ctx, c)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return errColumnNotFound
			}
			return fmt.Errorf("error creating card: %w", err)
		}
		card = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

// Update edits a card of boardID. Moving it is allowed only to a column of
// the same board.
func (s *CardService) Update(ctx context.Context, boardID, cardID int64, in CardUpdate) (*models.Card, error) {
	var card *models.Card
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Cards(tx)
		current, err := repo.GetByID(ctx, cardID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return errCardNotFound
			}
			return fmt.Errorf("error loading card: %w", err)
		}
		if current.BoardID != boardID {
			return errCardNotFound
		}

		if t := strings.TrimSpace(in.Title); t != "" {
			current.Title = t
		}
		if in.Description != nil {
			current.Description = *in.Description
		}
		if in.ColumnID > 0 && in.ColumnID != current.ColumnID {
			if err := s.checkColumn(ctx, tx, boardID, in.ColumnID); err != nil {
				return err
			}
			current.ColumnID = in.ColumnID
		}

		updated, err := repo.Update(ctx, current)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return errCardNotFound
			}
			return fmt.Errorf("error updating card: %w", err)
		}
		card = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

func (s *CardService) checkColumn(ctx context.Context, tx dbx.DBTX, boardID, columnID int64) error {
	col, err := s.repomanager.Columns(tx).GetByID(ctx, columnID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return errColumnNotFound
		}
		return fmt.Errorf("error loading column: %w", err)
	}
	if col.BoardID != boardID {
		return errColumnNotFound
	}
	return nil
}
