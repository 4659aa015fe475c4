package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianrazif/kanban-mono-repo/internal/common"
	"github.com/julianrazif/kanban-mono-repo/internal/server/models"
)

func seededStore() *fakeStore {
	store := newFakeStore()
	store.boards[1] = &models.Board{ID: 1, Name: "One"}
	store.boards[2] = &models.Board{ID: 2, Name: "Two"}
	store.columns[10] = &models.Column{ID: 10, Name: "Todo", BoardID: 1}
	store.columns[11] = &models.Column{ID: 11, Name: "Done", BoardID: 1}
	store.columns[20] = &models.Column{ID: 20, Name: "Other", BoardID: 2}
	store.nextID = 100
	return store
}

func TestColumnService_Create(t *testing.T) {
	store := seededStore()
	s := NewColumnService(nil, &fakeManager{store})

	c, err := s.Create(context.Background(), 1, " Review ")
	require.NoError(t, err)
	assert.Equal(t, "Review", c.Name)
	assert.Equal(t, int64(1), c.BoardID)

	_, err = s.Create(context.Background(), 1, "")
	assert.EqualError(t, err, "Name required")

	_, err = s.Create(context.Background(), 9, "X")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.EqualError(t, err, "Board not found")
}

func TestCardService_Create(t *testing.T) {
	db, mock := newSQLMockDB(t)
	store := seededStore()
	s := NewCardService(db, &fakeManager{store})

	mock.ExpectBegin()
	mock.ExpectCommit()
	c, err := s.Create(context.Background(), 1, 42, NewCard{Title: "Write docs", Description: "d", ColumnID: 10})
	require.NoError(t, err)
	assert.Equal(t, "Write docs", c.Title)
	require.NotNil(t, c.UserID)
	assert.Equal(t, int64(42), *c.UserID)
	assert.Equal(t, int64(1), c.BoardID)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err = s.Create(context.Background(), 1, 42, NewCard{Title: "x", ColumnID: 20})
	assert.EqualError(t, err, "Column not found")
}

func TestCardService_Create_Validation(t *testing.T) {
	s := NewCardService(nil, &fakeManager{seededStore()})

	_, err := s.Create(context.Background(), 1, 1, NewCard{ColumnID: 10})
	assert.EqualError(t, err, "Title required")

	_, err = s.Create(context.Background(), 1, 1, NewCard{Title: "t"})
	assert.ErrorIs(t, err, common.ErrorValidation)
	assert.EqualError(t, err, "Column id required")
}

func TestCardService_Update(t *testing.T) {
	db, mock := newSQLMockDB(t)
	store := seededStore()
	store.cards[50] = &models.Card{ID: 50, Title: "old", Description: "keep", ColumnID: 10, BoardID: 1}
	s := NewCardService(db, &fakeManager{store})

	t.Run("move and keep title", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectCommit()
		c, err := s.Update(context.Background(), 1, 50, CardUpdate{ColumnID: 11})
		require.NoError(t, err)
		assert.Equal(t, "old", c.Title)
		assert.Equal(t, "keep", c.Description)
		assert.Equal(t, int64(11), c.ColumnID)
	})

	t.Run("retitle and clear description", func(t *testing.T) {
		empty := ""
		mock.ExpectBegin()
		mock.ExpectCommit()
		c, err := s.Update(context.Background(), 1, 50, CardUpdate{Title: "new", Description: &empty})
		require.NoError(t, err)
		assert.Equal(t, "new", c.Title)
		assert.Equal(t, "", c.Description)
	})

	t.Run("column of another board", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectRollback()
		_, err := s.Update(context.Background(), 1, 50, CardUpdate{ColumnID: 20})
		assert.EqualError(t, err, "Column not found")
	})

	t.Run("card of another board", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectRollback()
		_, err := s.Update(context.Background(), 2, 50, CardUpdate{Title: "x"})
		assert.ErrorIs(t, err, common.ErrorNotFound)
		assert.EqualError(t, err, "Card not found")
	})

	t.Run("missing card", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectRollback()
		_, err := s.Update(context.Background(), 1, 999, CardUpdate{})
		assert.EqualError(t, err, "Card not found")
	})
}
