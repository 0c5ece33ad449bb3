// Package services contains the server-side business logic: accounts and
// sessions, groups, contacts, import/export and the authorization guard.
// Services assume the caller has already been authorized by the Guard.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/contactshare/internal/common"
	"github.com/dmitrijs2005/contactshare/internal/logging"
	"github.com/dmitrijs2005/contactshare/internal/server/auth"
	"github.com/dmitrijs2005/contactshare/internal/server/config"
	"github.com/dmitrijs2005/contactshare/internal/server/models"
	"github.com/dmitrijs2005/contactshare/internal/server/repositories/repomanager"
)

// Session is an authenticated user together with a freshly signed token.
type Session struct {
	User  *models.User
	Token string
}

// UserService handles signup, login and session lookup.
type UserService struct {
	db              *sql.DB
	repomanager     repomanager.RepositoryManager
	log             logging.Logger
	jwtSecret       []byte
	sessionValidity time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger) *UserService {
	return &UserService{
		db:              db,
		repomanager:     m,
		log:             log,
		jwtSecret:       []byte(cfg.SecretKey),
		sessionValidity: cfg.SessionValidity,
	}
}

// Signup creates an account and signs the new user in. A taken email is
// reported as common.ErrAlreadyExists.
func (s *UserService) Signup(ctx context.Context, email, password, name string) (*Session, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	if email == "" || password == "" || name == "" {
		return nil, fmt.Errorf("%w: missing required fields", common.ErrInvalidInput)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		if errors.Is(err, common.ErrInvalidInput) {
			return nil, err
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repomanager.Users(s.db).Create(ctx, &models.User{Email: email, Name: name, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, fmt.Errorf("email %w", common.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.log.Info(ctx, "user signed up", "user_id", user.ID)
	return s.newSession(user)
}

// Login verifies the credentials. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password required", common.ErrInvalidInput)
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			auth.RejectPassword(password)
			return nil, fmt.Errorf("%w: invalid credentials", common.ErrUnauthenticated)
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, fmt.Errorf("%w: invalid credentials", common.ErrUnauthenticated)
	}

	return s.newSession(user)
}

// Me returns the account behind a session. A session whose user no longer
// exists is treated as unauthenticated.
func (s *UserService) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthenticated
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) newSession(user *models.User) (*Session, error) {
	token, err := auth.IssueToken(user.ID, user.Email, s.jwtSecret, s.sessionValidity)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{User: user, Token: token}, nil
}
