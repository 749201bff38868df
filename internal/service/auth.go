package service

import (
	"context"
	"errors"
	"strings"

	"github.com/taskline/taskline-go/internal/crypto"
	"github.com/taskline/taskline-go/internal/model"
	"github.com/taskline/taskline-go/internal/repository"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password.
	// The two cases must be indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("Incorrect email or password")
	ErrEmailTaken         = errors.New("email already taken")
)

// UserStore is the persistence surface the auth service needs. It is
// satisfied by *repository.UserRepository.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// AuthService handles registration and credential checks.
type AuthService struct {
	users  UserStore
	tokens *TokenService
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, tokens *TokenService) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Register creates a new user with a hashed password and issues an auth
// token pair. The payload is assumed schema-valid; registration fails with
// ErrEmailTaken when the email is already in use.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.AuthResponse, error) {
	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return model.AuthResponse{}, err
	}

	user := &model.User{
		Email:        normalizeEmail(req.Email),
		PasswordHash: hash,
		Role:         model.RoleUser,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return model.AuthResponse{}, ErrEmailTaken
		}
		return model.AuthResponse{}, err
	}

	tokens, err := s.tokens.GenerateAuthTokens(user.ID)
	if err != nil {
		return model.AuthResponse{}, err
	}

	return model.AuthResponse{User: model.NewUserResponse(user), Tokens: tokens}, nil
}

// Login authenticates a user by email and password and issues an auth token
// pair. Unknown email and wrong password both fail with
// ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.AuthResponse{}, ErrInvalidCredentials
		}
		return model.AuthResponse{}, err
	}

	match, err := crypto.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return model.AuthResponse{}, err
	}
	if !match {
		return model.AuthResponse{}, ErrInvalidCredentials
	}

	tokens, err := s.tokens.GenerateAuthTokens(user.ID)
	if err != nil {
		return model.AuthResponse{}, err
	}

	return model.AuthResponse{User: model.NewUserResponse(user), Tokens: tokens}, nil
}

// GetUser retrieves a user by id and returns its sanitized representation.
func (s *AuthService) GetUser(ctx context.Context, userID int64) (model.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return model.UserResponse{}, err
	}
	return model.NewUserResponse(user), nil
}

// normalizeEmail lowercases and trims an email so lookups and the unique
// constraint are case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
