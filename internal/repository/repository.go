// Package repository declares the persistence contracts used by the services.
// Implementations live in subpackages (postgres) and hold no business logic.
package repository

import (
	"context"
	"errors"
	"time"

	"hrdocs/internal/model"
)

var (
	// ErrNotFound is returned when a looked-up row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a uniqueness constraint.
	ErrDuplicate = errors.New("duplicate record")
	// ErrInUse is returned when a delete is blocked by rows referencing the record.
	ErrInUse = errors.New("record still referenced")
)

// EmployeeRepository reads and writes employee records.
type EmployeeRepository interface {
	FindByID(ctx context.Context, id int64) (*model.Employee, error)
	// List returns every employee, newest first.
	List(ctx context.Context) ([]model.Employee, error)
	// Create inserts e and returns it with ID set. A taken national id is ErrDuplicate.
	Create(ctx context.Context, e *model.Employee) (*model.Employee, error)
	// Update rewrites name, national id, position, email and status of e.ID.
	Update(ctx context.Context, e *model.Employee) error
	// Delete removes the row and reports whether one existed. ErrInUse when
	// documents still reference it.
	Delete(ctx context.Context, id int64) (bool, error)
}

// UserRepository reads and writes user accounts.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// LinkedEmployeeID returns the employee linked to userID, or nil when the
	// account has no link. ErrNotFound when the user does not exist.
	LinkedEmployeeID(ctx context.Context, userID int64) (*int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByEmployee(ctx context.Context, employeeID int64) (bool, error)
	Create(ctx context.Context, u *model.User) (*model.User, error)
	UpdateRole(ctx context.Context, id int64, role model.Role) error
	UpdatePassword(ctx context.Context, id int64, hash string) error
	List(ctx context.Context) ([]model.UserSummary, error)
}

// DocumentFilter narrows document listings. Nil fields do not filter.
type DocumentFilter struct {
	EmployeeID *int64
	Type       *model.DocumentType
}

// DocumentRepository persists document metadata.
type DocumentRepository interface {
	// Create inserts doc and returns it with ID and UploadedAt set by the database.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)
	FindByID(ctx context.Context, id int64) (*model.Document, error)
	// List returns matches newest first, ties broken by id descending.
	List(ctx context.Context, f DocumentFilter) ([]model.DocumentSummary, error)
	// Delete removes the row and reports whether one existed.
	Delete(ctx context.Context, id int64) (bool, error)
}

// AuditFilter narrows the download audit trail. From is inclusive, Until is
// exclusive; Limit must already be clamped by the caller.
type AuditFilter struct {
	EmployeeID *int64
	Type       *model.DocumentType
	From       *time.Time
	Until      *time.Time
	Limit      int
}

// AuditRepository appends to and queries the download audit trail.
type AuditRepository interface {
	Insert(ctx context.Context, rec *model.DownloadAudit) error
	// Available reports whether the audit table exists.
	Available(ctx context.Context) (bool, error)
	List(ctx context.Context, f AuditFilter) ([]model.DownloadAuditEntry, error)
}
