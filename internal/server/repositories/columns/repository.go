package columns

import (
	"context"

	"github.com/julianrazif/kanban-mono-repo/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, column *models.Column) (*models.Column, error)
	GetByID(ctx context.Context, id int64) (*models.Column, error)
	ListByBoard(ctx context.Context, boardID int64) ([]models.Column, error)
}
