package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/julianrazif/kanban-mono-repo/internal/common"
)

type RegisterRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	Organization string `json:"organization"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"tokenType"`
	ExpiresIn int64  `json:"expiresIn"`
}

type BoardRequest struct {
	Name string `json:"name"`
}

type ColumnRequest struct {
	Name string `json:"name"`
}

type CardRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	ColumnID    int64   `json:"columnId"`
}

type SnapshotResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

var errMalformedBody = common.NewError(common.ErrorValidation, "Malformed request body")

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errMalformedBody
	}
	return nil
}

// pathID parses a positive numeric URL parameter.
func pathID(r *http.Request, name, message string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, common.NewError(common.ErrorValidation, message)
	}
	return id, nil
}
