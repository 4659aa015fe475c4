package cards

import (
	"context"

	"github.com/julianrazif/kanban-mono-repo/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, card *models.Card) (*models.Card, error)
	GetByID(ctx context.Context, id int64) (*models.Card, error)
	Update(ctx context.Context, card *models.Card) (*models.Card, error)
	ListByBoard(ctx context.Context, boardID int64) ([]models.Card, error)
}
