package boards

import (
	"context"

	"github.com/julianrazif/kanban-mono-repo/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, name string) (*models.Board, error)
	GetByID(ctx context.Context, id int64) (*models.Board, error)
	GetByName(ctx context.Context, name string) (*models.Board, error)
	UpdateName(ctx context.Context, id int64, name string) (*models.Board, error)
	List(ctx context.Context) ([]models.Board, error)
}
