package postgres

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"hrdocs/internal/model"
	"hrdocs/internal/repository"
)

// EmployeePostgres is a PostgreSQL implementation of repository.EmployeeRepository.
type EmployeePostgres struct {
	db *sql.DB
}

func NewEmployeePostgres(db *sql.DB) *EmployeePostgres {
	return &EmployeePostgres{db: db}
}

var _ repository.EmployeeRepository = (*EmployeePostgres)(nil)

const employeeColumns = `id, name, national_id, position, phone, email, to_char(hired_on, 'YYYY-MM-DD'), status`

func scanEmployee(row interface{ Scan(...any) error }) (*model.Employee, error) {
	var (
		e                             model.Employee
		position, phone, email, hired sql.NullString
	)
	if err := row.Scan(&e.ID, &e.Name, &e.Cedula, &position, &phone, &email, &hired, &e.Status); err != nil {
		return nil, err
	}
	e.Position = stringPtr(position)
	e.Phone = stringPtr(phone)
	e.Email = stringPtr(email)
	e.HiredOn = stringPtr(hired)
	return &e, nil
}

func (r *EmployeePostgres) FindByID(ctx context.Context, id int64) (*model.Employee, error) {
	q := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`
	e, err := scanEmployee(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, mapError(err)
	}
	return e, nil
}

func (r *EmployeePostgres) List(ctx context.Context) ([]model.Employee, error) {
	q := `SELECT ` + employeeColumns + ` FROM employees ORDER BY id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, errors.Wrap(err, "list employees")
	}
	defer rows.Close()

	out := make([]model.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan employee")
		}
		out = append(out, *e)
	}
	return out, errors.Wrap(rows.Err(), "list employees")
}

// Create inserts e. HiredOn is cast to DATE by the database, so a malformed
// date fails the statement.
func (r *EmployeePostgres) Create(ctx context.Context, e *model.Employee) (*model.Employee, error) {
	const q = `
		INSERT INTO employees (name, national_id, position, phone, email, hired_on, status)
		VALUES ($1, $2, $3, $4, $5, $6::date, $7)
		RETURNING id
	`
	out := *e
	err := r.db.QueryRowContext(ctx, q,
		e.Name,
		e.Cedula,
		nullString(e.Position),
		nullString(e.Phone),
		nullString(e.Email),
		nullString(e.HiredOn),
		e.Status,
	).Scan(&out.ID)
	if err != nil {
		return nil, errors.Wrap(mapError(err), "insert employee")
	}
	return &out, nil
}

func (r *EmployeePostgres) Update(ctx context.Context, e *model.Employee) error {
	const q = `
		UPDATE employees
		SET name = $1, national_id = $2, position = $3, email = $4, status = $5
		WHERE id = $6
	`
	res, err := r.db.ExecContext(ctx, q,
		e.Name,
		e.Cedula,
		nullString(e.Position),
		nullString(e.Email),
		e.Status,
		e.ID,
	)
	if err != nil {
		return errors.Wrap(mapError(err), "update employee")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "update employee")
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *EmployeePostgres) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return false, errors.Wrap(mapError(err), "delete employee")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "delete employee")
	}
	return n > 0, nil
}
