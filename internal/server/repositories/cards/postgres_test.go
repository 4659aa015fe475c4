package cards

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/julianrazif/kanban-mono-repo/internal/common"
	"github.com/julianrazif/kanban-mono-repo/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cardCols = []string{"id", "title", "description", "column_id", "user_id", "board_id", "created_date", "modified_date"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func ptr(v int64) *int64 { return &v }

func TestCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+cards\s*\(title,\s*description,\s*column_id,\s*user_id,\s*board_id\)`).
		WithArgs("Write docs", "", int64(10), sql.NullInt64{Int64: 42, Valid: true}, int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_date", "modified_date"}).AddRow(100, now, now))

	c, err := repo.Create(context.Background(), &models.Card{Title: "Write docs", ColumnID: 10, UserID: ptr(42), BoardID: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(100), c.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_Unassigned(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT\s+INTO\s+cards`).
		WithArgs("Triage", "later", int64(10), sql.NullInt64{}, int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_date", "modified_date"}).AddRow(101, now, now))

	c, err := repo.Create(context.Background(), &models.Card{Title: "Triage", Description: "later", ColumnID: 10, BoardID: 1})
	require.NoError(t, err)
	assert.Nil(t, c.UserID)
}

func TestCreate_MissingParent(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT\s+INTO\s+cards`).WillReturnError(&pgconn.PgError{Code: "23503"})

	_, err := repo.Create(context.Background(), &models.Card{Title: "x", ColumnID: 99, BoardID: 1})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGetByID(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`(?s)FROM\s+cards\s+WHERE\s+id\s*=\s*\$1$`).
		WithArgs(int64(100)).
		WillReturnRows(sqlmock.NewRows(cardCols).AddRow(100, "Write docs", "d", 10, nil, 1, now, now))

	c, err := repo.GetByID(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, "Write docs", c.Title)
	assert.Nil(t, c.UserID)

	mock.ExpectQuery(`FROM\s+cards`).WillReturnError(sql.ErrNoRows)
	_, err = repo.GetByID(context.Background(), 101)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUpdate(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	later := time.Now().Add(time.Minute)

	mock.ExpectQuery(`(?s)^UPDATE\s+cards\s+SET\s+title\s*=\s*\$2,\s*description\s*=\s*\$3,\s*column_id\s*=\s*\$4`).
		WithArgs(int64(100), "Done docs", "d", int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"modified_date"}).AddRow(later))

	c, err := repo.Update(context.Background(), &models.Card{ID: 100, Title: "Done docs", Description: "d", ColumnID: 11})
	require.NoError(t, err)
	assert.Equal(t, later, c.UpdatedAt)

	mock.ExpectQuery(`UPDATE\s+cards`).WillReturnError(sql.ErrNoRows)
	_, err = repo.Update(context.Background(), &models.Card{ID: 999})
	assert.ErrorIs(t, err, common.ErrorNotFound)

	mock.ExpectQuery(`UPDATE\s+cards`).WillReturnError(errors.New("db down"))
	_, err = repo.Update(context.Background(), &models.Card{ID: 100})
	assert.ErrorContains(t, err, "db error")
}

func TestListByBoard(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`(?s)FROM\s+cards\s+WHERE\s+board_id\s*=\s*\$1\s+ORDER\s+BY\s+id$`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(cardCols).
			AddRow(100, "A", "", 10, 42, 1, now, now).
			AddRow(101, "B", "", 11, nil, 1, now, now))

	got, err := repo.ListByBoard(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.NotNil(t, got[0].UserID)
	assert.Equal(t, int64(42), *got[0].UserID)
	assert.Nil(t, got[1].UserID)
}
