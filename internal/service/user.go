package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"hrdocs/internal/apperr"
	"hrdocs/internal/logging"
	"hrdocs/internal/model"
	"hrdocs/internal/repository"
)

var (
	ErrInvalidRole    = apperr.Validation("INVALID_ROLE", "invalid role")
	ErrInvalidUserID  = apperr.Validation("INVALID_USER_ID", "invalid user id")
	ErrUserNotFound   = apperr.NotFound("USER_NOT_FOUND", "user not found")
	ErrEmailTaken     = apperr.Conflict("EMAIL_TAKEN", "a user with that email already exists")
	ErrEmployeeLinked = apperr.Conflict("EMPLOYEE_LINKED", "this employee already has a linked user")
	ErrDuplicateUser  = apperr.Conflict("DUPLICATE_USER", "user already exists")
)

// passwordHashCost is lowered in tests.
var passwordHashCost = bcrypt.DefaultCost

// CreateUserRequest is the body of POST /usuarios.
type CreateUserRequest struct {
	EmployeeID int64  `json:"empleado_id" validate:"gt=0"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	Role       string `json:"rol" validate:"required"`
}

type passwordRequest struct {
	Password string `validate:"required,min=6"`
}

type UserService interface {
	List(ctx context.Context) ([]model.UserSummary, error)
	// Create makes an account for an employee. The display name is copied from
	// the employee record.
	Create(ctx context.Context, req CreateUserRequest) (*model.User, error)
	UpdateRole(ctx context.Context, userID int64, role string) (model.Role, error)
	ResetPassword(ctx context.Context, userID int64, password string) error
}

type userService struct {
	users     repository.UserRepository
	employees repository.EmployeeRepository
	log       *slog.Logger
}

func NewUserService(users repository.UserRepository, employees repository.EmployeeRepository, log *slog.Logger) UserService {
	return &userService{users: users, employees: employees, log: log}
}

func (s *userService) List(ctx context.Context) ([]model.UserSummary, error) {
	items, err := s.users.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list users")
	}
	return items, nil
}

func (s *userService) Create(ctx context.Context, req CreateUserRequest) (*model.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	role, ok := model.ParseRole(req.Role)
	if !ok {
		return nil, ErrInvalidRole
	}

	emp, err := s.employees.FindByID(ctx, req.EmployeeID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrEmployeeNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "find employee")
	}

	taken, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}
	linked, err := s.users.ExistsByEmployee(ctx, req.EmployeeID)
	if err != nil {
		return nil, err
	}
	if linked {
		return nil, ErrEmployeeLinked
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), passwordHashCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	empID := emp.ID
	u, err := s.users.Create(ctx, &model.User{
		Name:         emp.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
		EmployeeID:   &empID,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, ErrDuplicateUser
	}
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx, s.log).InfoContext(ctx, "user created", "user_id", u.ID, "employee_id", empID, "role", role)
	u.PasswordHash = ""
	return u, nil
}

func (s *userService) UpdateRole(ctx context.Context, userID int64, raw string) (model.Role, error) {
	if userID <= 0 {
		return "", ErrInvalidUserID
	}
	if strings.TrimSpace(raw) == "" {
		return "", apperr.Validation("ROLE_REQUIRED", "rol is required")
	}
	role, ok := model.ParseRole(raw)
	if !ok {
		return "", ErrInvalidRole
	}

	err := s.users.UpdateRole(ctx, userID, role)
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", err
	}
	logging.FromContext(ctx, s.log).InfoContext(ctx, "user role updated", "user_id", userID, "role", role)
	return role, nil
}

func (s *userService) ResetPassword(ctx context.Context, userID int64, password string) error {
	if userID <= 0 {
		return ErrInvalidUserID
	}
	if err := validateStruct(passwordRequest{Password: password}); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}

	err = s.users.UpdatePassword(ctx, userID, string(hash))
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}
