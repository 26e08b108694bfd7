package postgres

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"hrdocs/internal/model"
	"hrdocs/internal/repository"
)

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
type UserPostgres struct {
	db *sql.DB
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

const userColumns = `id, name, email, password_hash, role, employee_id`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var (
		u     model.User
		role  string
		empID sql.NullInt64
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &empID); err != nil {
		return nil, err
	}
	u.Role = model.Role(role)
	u.EmployeeID = int64Ptr(empID)
	return &u, nil
}

func (r *UserPostgres) FindByID(ctx context.Context, id int64) (*model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

// FindByEmail matches the address case-insensitively.
func (r *UserPostgres) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	u, err := scanUser(r.db.QueryRowContext(ctx, q, email))
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *UserPostgres) LinkedEmployeeID(ctx context.Context, userID int64) (*int64, error) {
	const q = `SELECT employee_id FROM users WHERE id = $1`
	var empID sql.NullInt64
	if err := r.db.QueryRowContext(ctx, q, userID).Scan(&empID); err != nil {
		return nil, mapError(err)
	}
	return int64Ptr(empID), nil
}

func (r *UserPostgres) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM users WHERE lower(email) = lower($1))`
	var ok bool
	if err := r.db.QueryRowContext(ctx, q, email).Scan(&ok); err != nil {
		return false, errors.Wrap(err, "check user email")
	}
	return ok, nil
}

func (r *UserPostgres) ExistsByEmployee(ctx context.Context, employeeID int64) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM users WHERE employee_id = $1)`
	var ok bool
	if err := r.db.QueryRowContext(ctx, q, employeeID).Scan(&ok); err != nil {
		return false, errors.Wrap(err, "check user employee link")
	}
	return ok, nil
}

// Create inserts u. A unique violation on email or employee_id surfaces as
// repository.ErrDuplicate.
func (r *UserPostgres) Create(ctx context.Context, u *model.User) (*model.User, error) {
	const q = `
		INSERT INTO users (name, email, password_hash, role, employee_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	out := *u
	err := r.db.QueryRowContext(ctx, q,
		u.Name,
		u.Email,
		u.PasswordHash,
		string(u.Role),
		nullInt64(u.EmployeeID),
	).Scan(&out.ID)
	if err != nil {
		return nil, errors.Wrap(mapError(err), "insert user")
	}
	return &out, nil
}

func (r *UserPostgres) UpdateRole(ctx context.Context, id int64, role model.Role) error {
	const q = `UPDATE users SET role = $1 WHERE id = $2`
	res, err := r.db.ExecContext(ctx, q, string(role), id)
	if err != nil {
		return errors.Wrap(err, "update user role")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "update user role")
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserPostgres) UpdatePassword(ctx context.Context, id int64, hash string) error {
	const q = `UPDATE users SET password_hash = $1 WHERE id = $2`
	res, err := r.db.ExecContext(ctx, q, hash, id)
	if err != nil {
		return errors.Wrap(err, "update user password")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "update user password")
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// List returns every account with its linked employee, newest first.
func (r *UserPostgres) List(ctx context.Context) ([]model.UserSummary, error) {
	const q = `
		SELECT u.id, u.name, u.email, u.role, u.employee_id, e.name, e.national_id
		FROM users u
		LEFT JOIN employees e ON e.id = u.employee_id
		ORDER BY u.id DESC
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, errors.Wrap(err, "list users")
	}
	defer rows.Close()

	items := make([]model.UserSummary, 0)
	for rows.Next() {
		var (
			s            model.UserSummary
			role         string
			empID        sql.NullInt64
			empName, ced sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &role, &empID, &empName, &ced); err != nil {
			return nil, errors.Wrap(err, "scan user")
		}
		s.Role = model.Role(role)
		s.EmployeeID = int64Ptr(empID)
		s.EmployeeName = stringPtr(empName)
		s.EmployeeCedula = stringPtr(ced)
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate users")
	}
	return items, nil
}
