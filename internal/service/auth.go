package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"hrdocs/internal/apperr"
	"hrdocs/internal/auth"
	"hrdocs/internal/logging"
	"hrdocs/internal/model"
	"hrdocs/internal/repository"
)

var ErrInvalidCredentials = apperr.Authentication("INVALID_CREDENTIALS", "invalid credentials")

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult carries the session token and the public account fields.
type LoginResult struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
}

type authService struct {
	users  repository.UserRepository
	tokens *auth.TokenService
	ttl    time.Duration
	log    *slog.Logger
}

func NewAuthService(users repository.UserRepository, tokens *auth.TokenService, ttl time.Duration, log *slog.Logger) AuthService {
	return &authService{users: users, tokens: tokens, ttl: ttl, log: log}
}

// Login checks the password and issues a token. Unknown accounts and wrong
// passwords produce the same error.
func (s *authService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if !s.tokens.Configured() {
		return nil, auth.ErrNotConfigured
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	u, err := s.users.FindByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, errors.Wrap(err, "find user")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		logging.FromContext(ctx, s.log).InfoContext(ctx, "login rejected", "user_id", u.ID)
		return nil, ErrInvalidCredentials
	}

	role, ok := model.ParseRole(string(u.Role))
	if !ok {
		logging.FromContext(ctx, s.log).WarnContext(ctx, "account has unknown role", "user_id", u.ID, "role", string(u.Role))
		return nil, ErrInvalidCredentials
	}
	u.Role = role

	token, err := s.tokens.Issue(auth.Claims{
		UserID:     u.ID,
		Role:       u.Role,
		Name:       u.Name,
		EmployeeID: u.EmployeeID,
	}, s.ttl)
	if err != nil {
		return nil, err
	}

	u.PasswordHash = ""
	return &LoginResult{Token: token, User: *u}, nil
}
