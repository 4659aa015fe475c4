package services

import (
	"context"
	"database/sql"
	"sort"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/julianrazif/kanban-mono-repo/internal/common"
	"github.com/julianrazif/kanban-mono-repo/internal/dbx"
	"github.com/julianrazif/kanban-mono-repo/internal/server/models"
	"github.com/julianrazif/kanban-mono-repo/internal/server/repositories/boards"
	"github.com/julianrazif/kanban-mono-repo/internal/server/repositories/cards"
	"github.com/julianrazif/kanban-mono-repo/internal/server/repositories/columns"
	"github.com/julianrazif/kanban-mono-repo/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

// fakeStore backs all fake repositories with in-memory maps.
type fakeStore struct {
	users   map[string]*models.User
	boards  map[int64]*models.Board
	columns map[int64]*models.Column
	cards   map[int64]*models.Card
	nextID  int64

	err error // returned by every repository call when set
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:   map[string]*models.User{},
		boards:  map[int64]*models.Board{},
		columns: map[int64]*models.Column{},
		cards:   map[int64]*models.Card{},
	}
}

func (s *fakeStore) id() int64 {
	s.nextID++
	return s.nextID
}

type fakeManager struct{ store *fakeStore }

func (m *fakeManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeManager) Users(dbx.DBTX) users.Repository           { return &fakeUsers{m.store} }
func (m *fakeManager) Boards(dbx.DBTX) boards.Repository         { return &fakeBoards{m.store} }
func (m *fakeManager) Columns(dbx.DBTX) columns.Repository       { return &fakeColumns{m.store} }
func (m *fakeManager) Cards(dbx.DBTX) cards.Repository           { return &fakeCards{m.store} }

type fakeUsers struct{ s *fakeStore }

func (f *fakeUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.s.err != nil {
		return nil, f.s.err
	}
	if _, ok := f.s.users[u.Email]; ok {
		return nil, common.ErrorConflict
	}
	u.ID = f.s.id()
	f.s.users[u.Email] = u
	return u, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if f.s.err != nil {
		return nil, f.s.err
	}
	if u, ok := f.s.users[email]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	for _, u := range f.s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

type fakeBoards struct{ s *fakeStore }

func (f *fakeBoards) Create(_ context.Context, name string) (*models.Board, error) {
	if f.s.err != nil {
		return nil, f.s.err
	}
	b := &models.Board{ID: f.s.id(), Name: name, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	f.s.boards[b.ID] = b
	return b, nil
}

func (f *fakeBoards) GetByID(_ context.Context, id int64) (*models.Board, error) {
	if f.s.err != nil {
		return nil, f.s.err
	}
	if b, ok := f.s.boards[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeBoards) GetByName(_ context.Context, name string) (*models.Board, error) {
	if f.s.err != nil {
		return nil, f.s.err
	}
	for _, b := range f.s.boards {
		if b.Name == name {
			cp := *b
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeBoards) UpdateName(_ context.Context, id int64, name string) (*models.Board, error) {
	b, ok := f.s.boards[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	b.Name = name
	cp := *b
	return &cp, nil
}

func (f *fakeBoards) List(_ context.Context) ([]models.Board, error) {
	if f.s.err != nil {
		return nil, f.s.err
	}
	out := make([]models.Board, 0, len(f.s.boards))
	for _, b := range f.s.boards {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeColumns struct{ s *fakeStore }

func (f *fakeColumns) Create(_ context.Context, c *models.Column) (*models.Column, error) {
	if _, ok := f.s.boards[c.BoardID]; !ok {
		return nil, common.ErrorNotFound
	}
	c.ID = f.s.id()
	f.s.columns[c.ID] = c
	return c, nil
}

func (f *fakeColumns) GetByID(_ context.Context, id int64) (*models.Column, error) {
	if c, ok := f.s.columns[id]; ok {
		return c, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeColumns) ListByBoard(_ context.Context, boardID int64) ([]models.Column, error) {
	out := make([]models.Column, 0)
	for _, c := range f.s.columns {
		if c.BoardID == boardID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeCards struct{ s *fakeStore }

func (f *fakeCards) Create(_ context.Context, c *models.Card) (*models.Card, error) {
	c.ID = f.s.id()
	c.CreatedAt, c.UpdatedAt = time.Now(), time.Now()
	cp := *c
	f.s.cards[c.ID] = &cp
	return c, nil
}

func (f *fakeCards) GetByID(_ context.Context, id int64) (*models.Card, error) {
	if c, ok := f.s.cards[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeCards) Update(_ context.Context, c *models.Card) (*models.Card, error) {
	if _, ok := f.s.cards[c.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	c.UpdatedAt = time.Now()
	cp := *c
	f.s.cards[c.ID] = &cp
	return c, nil
}

func (f *fakeCards) ListByBoard(_ context.Context, boardID int64) ([]models.Card, error) {
	out := make([]models.Card, 0)
	for _, c := range f.s.cards {
		if c.BoardID == boardID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
