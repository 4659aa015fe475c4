package repomanager

import (
	"context"
	"database/sql"

	"github.com/julianrazif/kanban-mono-repo/internal/dbx"
	"github.com/julianrazif/kanban-mono-repo/internal/server/repositories/boards"
	"github.com/julianrazif/kanban-mono-repo/internal/server/repositories/cards"
	"github.com/julianrazif/kanban-mono-repo/internal/server/repositories/columns"
	"github.com/julianrazif/kanban-mono-repo/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so services can
// run them on the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Boards(db dbx.DBTX) boards.Repository
	Columns(db dbx.DBTX) columns.Repository
	Cards(db dbx.DBTX) cards.Repository
}
