package service

import (
	"context"
	"errors"

	"github.com/newswire/newswire-go/internal/crypto"
	"github.com/newswire/newswire-go/internal/model"
	"github.com/newswire/newswire-go/internal/repository"
	"github.com/newswire/newswire-go/internal/session"
)

var (
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrUsernameRequired   = errors.New("username is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrUsernameTaken      = errors.New("username already taken")
)

// UserStore is the account persistence the auth service depends on.
// *repository.UserRepository satisfies it.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}

// AuthService handles registration and login.
type AuthService struct {
	repo     UserStore
	sessions *session.Manager

	// dummyHash is compared against when a login targets an unknown
	// username, so both failure paths cost one bcrypt verification.
	dummyHash string
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo UserStore, sessions *session.Manager) (*AuthService, error) {
	dummy, err := crypto.HashPassword("newswire-dummy-credential")
	if err != nil {
		return nil, err
	}

	return &AuthService{
		repo:      repo,
		sessions:  sessions,
		dummyHash: dummy,
	}, nil
}

// Register creates a new account. The plaintext password is hashed before it
// reaches the repository and is never stored or logged.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.UserResponse, error) {
	if req.Username == "" {
		return model.UserResponse{}, ErrUsernameRequired
	}
	if req.Password == "" {
		return model.UserResponse{}, ErrPasswordRequired
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return model.UserResponse{}, err
	}

	user := &model.User{
		Username:     req.Username,
		PasswordHash: hash,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return model.UserResponse{}, ErrUsernameTaken
		}
		return model.UserResponse{}, err
	}

	return model.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	}, nil
}

// Login verifies credentials and issues a session token. Unknown usernames
// and wrong passwords return the same error.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.AuthResult, error) {
	if req.Username == "" {
		return model.AuthResult{}, ErrUsernameRequired
	}
	if req.Password == "" {
		return model.AuthResult{}, ErrPasswordRequired
	}

	user, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			crypto.VerifyPassword(req.Password, s.dummyHash)
			return model.AuthResult{}, ErrInvalidCredentials
		}
		return model.AuthResult{}, err
	}

	if !crypto.VerifyPassword(req.Password, user.PasswordHash) {
		return model.AuthResult{}, ErrInvalidCredentials
	}

	token, err := s.sessions.Issue(user.ID, user.Username)
	if err != nil {
		return model.AuthResult{}, err
	}

	return model.AuthResult{
		Token: token,
		User: model.SessionUser{
			ID:       user.ID,
			Username: user.Username,
		},
	}, nil
}
