package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pkg/errors"

	"hrdocs/internal/apperr"
	"hrdocs/internal/logging"
	"hrdocs/internal/model"
	"hrdocs/internal/repository"
)

var (
	ErrInvalidEmployeeID    = apperr.Validation("INVALID_EMPLOYEE_ID", "invalid employee id")
	ErrCedulaTaken          = apperr.Conflict("CEDULA_TAKEN", "an employee with that cedula already exists")
	ErrEmployeeHasDocuments = apperr.Conflict("EMPLOYEE_HAS_DOCUMENTS", "delete the employee's documents first")
)

// EmployeeRequest is the body of POST /empleados and PUT /empleados/:id.
// Telefono and fecha_ingreso are only written on create.
type EmployeeRequest struct {
	Name     string `json:"nombre" validate:"required,max=150"`
	Cedula   string `json:"cedula" validate:"required,max=30"`
	Position string `json:"cargo" validate:"omitempty,max=100"`
	Phone    string `json:"telefono" validate:"omitempty,max=30"`
	Email    string `json:"correo" validate:"omitempty,email,max=150"`
	HiredOn  string `json:"fecha_ingreso" validate:"omitempty,datetime=2006-01-02"`
	Status   string `json:"estado" validate:"omitempty,oneof=activo inactivo"`
}

func (r EmployeeRequest) normalize() EmployeeRequest {
	r.Name = strings.TrimSpace(r.Name)
	r.Cedula = strings.TrimSpace(r.Cedula)
	r.Position = strings.TrimSpace(r.Position)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Email = strings.TrimSpace(r.Email)
	r.HiredOn = strings.TrimSpace(r.HiredOn)
	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
	if r.Status == "" {
		r.Status = model.EmployeeActive
	}
	return r
}

func (r EmployeeRequest) employee(id int64) *model.Employee {
	return &model.Employee{
		ID:       id,
		Name:     r.Name,
		Cedula:   r.Cedula,
		Position: optional(r.Position),
		Phone:    optional(r.Phone),
		Email:    optional(r.Email),
		HiredOn:  optional(r.HiredOn),
		Status:   r.Status,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// EmployeeService manages employee records. Role checks happen at the route.
type EmployeeService interface {
	List(ctx context.Context) ([]model.Employee, error)
	Create(ctx context.Context, req EmployeeRequest) (*model.Employee, error)
	Update(ctx context.Context, id int64, req EmployeeRequest) error
	// Delete refuses while documents reference the employee. Linked user
	// accounts lose their link.
	Delete(ctx context.Context, id int64) error
}

type employeeService struct {
	employees repository.EmployeeRepository
	log       *slog.Logger
}

func NewEmployeeService(employees repository.EmployeeRepository, log *slog.Logger) EmployeeService {
	return &employeeService{employees: employees, log: log}
}

func (s *employeeService) List(ctx context.Context) ([]model.Employee, error) {
	items, err := s.employees.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list employees")
	}
	return items, nil
}

func (s *employeeService) Create(ctx context.Context, req EmployeeRequest) (*model.Employee, error) {
	req = req.normalize()
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	e, err := s.employees.Create(ctx, req.employee(0))
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, ErrCedulaTaken
	}
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx, s.log).InfoContext(ctx, "employee created", "employee_id", e.ID)
	return e, nil
}

func (s *employeeService) Update(ctx context.Context, id int64, req EmployeeRequest) error {
	if id <= 0 {
		return ErrInvalidEmployeeID
	}
	req = req.normalize()
	if err := validateStruct(req); err != nil {
		return err
	}

	err := s.employees.Update(ctx, req.employee(id))
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrEmployeeNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return ErrCedulaTaken
	}
	return err
}

func (s *employeeService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidEmployeeID
	}
	ok, err := s.employees.Delete(ctx, id)
	if errors.Is(err, repository.ErrInUse) {
		return ErrEmployeeHasDocuments
	}
	if err != nil {
		return err
	}
	if !ok {
		return ErrEmployeeNotFound
	}
	logging.FromContext(ctx, s.log).InfoContext(ctx, "employee deleted", "employee_id", id)
	return nil
}
