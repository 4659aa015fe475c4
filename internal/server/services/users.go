// Package services contains server-side business logic. This file implements
// UserService, which handles registration and login.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/julianrazif/kanban-mono-repo/internal/common"
	"github.com/julianrazif/kanban-mono-repo/internal/server/auth"
	"github.com/julianrazif/kanban-mono-repo/internal/server/models"
	"github.com/julianrazif/kanban-mono-repo/internal/server/repositories/repomanager"
)

// passwordCost is the bcrypt cost used for new password hashes.
var passwordCost = bcrypt.DefaultCost

// TokenIssuer mints signed access tokens.
type TokenIssuer interface {
	Issue(claims map[string]any, subject string, ttl time.Duration) (string, error)
}

// LoginResult is the bearer token returned by Login.
type LoginResult struct {
	Token     string
	TokenType string
	ExpiresIn time.Duration
}

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      TokenIssuer
	ttl         time.Duration
}

// NewUserService constructs a UserService. ttl is the lifetime of issued tokens.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, tokens TokenIssuer, ttl time.Duration) *UserService {
	return &UserService{db: db, repomanager: m, tokens: tokens, ttl: ttl}
}

// Register creates a user with a bcrypt-hashed password. An empty
// organization falls back to common.DefaultOrganization.
func (s *UserService) Register(ctx context.Context, email, password, organization string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, common.NewError(common.ErrorValidation, "Email required")
	}
	if password == "" {
		return nil, common.NewError(common.ErrorValidation, "Password required")
	}
	if strings.TrimSpace(organization) == "" {
		organization = common.DefaultOrganization
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	u, err := s.repomanager.Users(s.db).Create(ctx, &models.User{
		Email:        email,
		Password:     string(hash),
		Organization: organization,
	})
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, common.NewError(common.ErrorConflict, "User with same email already exists")
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Login checks the credentials and issues a token whose subject is the
// email and whose id claim is the user id.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	badCredentials := common.NewError(common.ErrorBadCredentials, "Invalid email or password")

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, badCredentials
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, badCredentials
	}

	token, err := s.tokens.Issue(map[string]any{auth.ClaimUserID: user.ID}, user.Email, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("error issuing token: %w", err)
	}
	return &LoginResult{
		Token:     token,
		TokenType: strings.TrimSpace(common.BearerPrefix),
		ExpiresIn: s.ttl,
	}, nil
}
