// Package httpapi exposes the Kanban services over HTTP with chi.
package httpapi

import (
	"context"
	"net/http"

	"github.com/julianrazif/kanban-mono-repo/internal/logging"
	"github.com/julianrazif/kanban-mono-repo/internal/server/auth"
	"github.com/julianrazif/kanban-mono-repo/internal/server/models"
	"github.com/julianrazif/kanban-mono-repo/internal/server/services"
)

type UserService interface {
	Register(ctx context.Context, email, password, organization string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
}

type BoardService interface {
	List(ctx context.Context) ([]models.Board, error)
	Detail(ctx context.Context, id int64) (*models.BoardDetail, error)
	Create(ctx context.Context, name string) (*models.Board, error)
	Update(ctx context.Context, id int64, name string) (*models.Board, error)
}

type ColumnService interface {
	Create(ctx context.Context, boardID int64, name string) (*models.Column, error)
}

type CardService interface {
	Create(ctx context.Context, boardID, userID int64, in services.NewCard) (*models.Card, error)
	Update(ctx context.Context, boardID, cardID int64, in services.CardUpdate) (*models.Card, error)
}

type SnapshotService interface {
	Create(ctx context.Context, boardID int64) (*services.Snapshot, error)
}

// Handler holds the HTTP handlers and the services behind them.
type Handler struct {
	users     UserService
	boards    BoardService
	columns   ColumnService
	cards     CardService
	snapshots SnapshotService
	logger    logging.Logger
}

func NewHandler(u UserService, b BoardService, col ColumnService, c CardService, s SnapshotService, logger logging.Logger) *Handler {
	return &Handler{
		users:     u,
		boards:    b,
		columns:   col,
		cards:     c,
		snapshots: s,
		logger:    logger.With("module", "httpapi"),
	}
}

// fail logs unexpected errors before writing the mapped response.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if status, _ := StatusFor(err); status == http.StatusInternalServerError {
		h.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	WriteError(w, err)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	u, err := h.users.Register(r.Context(), req.Email, req.Password, req.Organization)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, u)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, LoginResponse{
		Token:     res.Token,
		TokenType: res.TokenType,
		ExpiresIn: int64(res.ExpiresIn.Seconds()),
	})
}

func (h *Handler) ListBoards(w http.ResponseWriter, r *http.Request) {
	list, err := h.boards.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"boards": list})
}

func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "boardID", "Board id required")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	d, err := h.boards.Detail(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"board": d})
}

func (h *Handler) CreateBoard(w http.ResponseWriter, r *http.Request) {
	var req BoardRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	b, err := h.boards.Create(r.Context(), req.Name)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, b)
}

func (h *Handler) UpdateBoard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "boardID", "Board id required")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req BoardRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	b, err := h.boards.Update(r.Context(), id, req.Name)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, b)
}

func (h *Handler) CreateSnapshot(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "boardID", "Board id required")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	s, err := h.snapshots.Create(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.logger.Info(r.Context(), "board snapshot stored", "board_id", id, "key", s.Key)
	WriteJSON(w, http.StatusCreated, SnapshotResponse{Key: s.Key, URL: s.URL})
}

func (h *Handler) CreateColumn(w http.ResponseWriter, r *http.Request) {
	boardID, err := pathID(r, "boardID", "Board id required")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req ColumnRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	c, err := h.columns.Create(r.Context(), boardID, req.Name)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	boardID, err := pathID(r, "boardID", "Board id required")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req CardRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	var userID int64
	if p, ok := auth.PrincipalFromContext(r.Context()); ok {
		userID = p.ID()
	}

	in := services.NewCard{Title: req.Title, ColumnID: req.ColumnID}
	if req.Description != nil {
		in.Description = *req.Description
	}
	c, err := h.cards.Create(r.Context(), boardID, userID, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	boardID, err := pathID(r, "boardID", "Board id required")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	cardID, err := pathID(r, "cardID", "Card id required")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req CardRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	c, err := h.cards.Update(r.Context(), boardID, cardID, services.CardUpdate{
		Title:       req.Title,
		Description: req.Description,
		ColumnID:    req.ColumnID,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, c)
}
