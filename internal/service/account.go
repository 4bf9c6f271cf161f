// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/tableside/tableside/internal/auth"
	"github.com/tableside/tableside/internal/model"
	"github.com/tableside/tableside/internal/repository"
	"github.com/tableside/tableside/internal/session"
)

// Service errors.
var (
	// ErrInvalidCredentials covers both unknown email and wrong password
	// so that login failures disclose nothing.
	ErrInvalidCredentials = errors.New("no matching account")
	ErrUsernameExists     = errors.New("username already exists")
	ErrEmailExists        = errors.New("email already exists")
)

// AccountService handles registration, login and profile updates.
type AccountService struct {
	repo     *repository.Repository
	sessions *session.Store
}

// NewAccountService creates a new AccountService.
func NewAccountService(repo *repository.Repository, sessions *session.Store) *AccountService {
	return &AccountService{repo: repo, sessions: sessions}
}

// RegisterInput defines input for creating an account.
// Fields are assumed validated by the registration form.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register hashes the password and creates the account.
// A uniqueness race past the form's pre-check surfaces as
// ErrUsernameExists or ErrEmailExists.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           ulid.Make().String(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		ImageFile:    model.DefaultUserImage,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameExists):
			return nil, ErrUsernameExists
		case errors.Is(err, repository.ErrEmailExists):
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login verifies the credentials and establishes a session.
// Unknown email and wrong password both return ErrInvalidCredentials.
func (s *AccountService) Login(ctx context.Context, email, password string, remember bool) (*model.User, *session.Session, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("look up user: %w", err)
	}

	match, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, nil, fmt.Errorf("verify password: %w", err)
	}
	if !match {
		return nil, nil, ErrInvalidCredentials
	}

	sess, err := s.sessions.Create(ctx, user.ID, remember)
	if err != nil {
		return nil, nil, fmt.Errorf("create session: %w", err)
	}

	return user, sess, nil
}

// Logout invalidates the session. Unknown tokens are ignored.
func (s *AccountService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Destroy(ctx, token)
}

// UpdateProfileInput defines input for a profile edit.
// ImageFile is empty when the picture is unchanged.
type UpdateProfileInput struct {
	Username  string
	Email     string
	ImageFile string
}

// UpdateProfile applies a validated profile edit to the user.
func (s *AccountService) UpdateProfile(ctx context.Context, user *model.User, input UpdateProfileInput) error {
	updated := *user
	updated.Username = input.Username
	updated.Email = input.Email
	if input.ImageFile != "" {
		updated.ImageFile = input.ImageFile
	}

	if err := s.repo.UpdateUser(ctx, &updated); err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameExists):
			return ErrUsernameExists
		case errors.Is(err, repository.ErrEmailExists):
			return ErrEmailExists
		}
		return fmt.Errorf("update user: %w", err)
	}

	*user = updated
	return nil
}

// GetUser retrieves a user by ID.
func (s *AccountService) GetUser(ctx context.Context, id string) (*model.User, error) {
	return s.repo.GetUserByID(ctx, id)
}
