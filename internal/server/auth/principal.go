package auth

import (
	"errors"
	"strings"
)

var errInvalidPrincipal = errors.New("principal requires a positive id and an email")

// Principal is the verified identity of a request. Its name is the email.
type Principal struct {
	id    int64
	email string
}

// NewPrincipal validates and builds a Principal.
func NewPrincipal(id int64, email string) (Principal, error) {
	if id <= 0 || strings.TrimSpace(email) == "" {
		return Principal{}, errInvalidPrincipal
	}
	return Principal{id: id, email: email}, nil
}

func (p Principal) ID() int64 { return p.id }

func (p Principal) Email() string { return p.email }

// Name returns the email, which is what the Username header is matched against.
func (p Principal) Name() string { return p.email }
