package postgres

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"hrdocs/internal/model"
	"hrdocs/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO employee_documents (employee_id, type, filename, url, period)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, uploaded_at
	`
	out := *doc
	err := r.db.QueryRowContext(ctx, q,
		doc.EmployeeID,
		string(doc.Type),
		doc.Filename,
		doc.URL,
		nullString(doc.Period),
	).Scan(&out.ID, &out.UploadedAt)
	if err != nil {
		return nil, errors.Wrap(mapError(err), "insert document")
	}
	return &out, nil
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id int64) (*model.Document, error) {
	const q = `
		SELECT id, employee_id, type, filename, url, period, uploaded_at
		FROM employee_documents
		WHERE id = $1
	`
	var (
		d      model.Document
		typ    string
		period sql.NullString
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&d.ID,
		&d.EmployeeID,
		&typ,
		&d.Filename,
		&d.URL,
		&period,
		&d.UploadedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	d.Type = model.DocumentType(typ)
	d.Period = stringPtr(period)
	return &d, nil
}

// List returns documents joined with their owner, newest first.
func (r *DocumentPostgres) List(ctx context.Context, f repository.DocumentFilter) ([]model.DocumentSummary, error) {
	var w where
	if f.Type != nil {
		w.add("d.type = ?", string(*f.Type))
	}
	if f.EmployeeID != nil {
		w.add("d.employee_id = ?", *f.EmployeeID)
	}

	q := `
		SELECT d.id, d.employee_id, d.type, d.filename, d.url, d.period, d.uploaded_at,
		       e.name, e.national_id
		FROM employee_documents d
		INNER JOIN employees e ON e.id = d.employee_id` + w.String() + `
		ORDER BY d.uploaded_at DESC, d.id DESC`

	rows, err := r.db.QueryContext(ctx, q, w.args...)
	if err != nil {
		return nil, errors.Wrap(err, "list documents")
	}
	defer rows.Close()

	items := make([]model.DocumentSummary, 0)
	for rows.Next() {
		var (
			s      model.DocumentSummary
			typ    string
			period sql.NullString
		)
		if err := rows.Scan(
			&s.ID,
			&s.EmployeeID,
			&typ,
			&s.Filename,
			&s.URL,
			&period,
			&s.UploadedAt,
			&s.EmployeeName,
			&s.EmployeeCedula,
		); err != nil {
			return nil, errors.Wrap(err, "scan document")
		}
		s.Type = model.DocumentType(typ)
		s.Period = stringPtr(period)
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate documents")
	}
	return items, nil
}

// Delete removes a document by ID and reports whether a row was deleted.
func (r *DocumentPostgres) Delete(ctx context.Context, id int64) (bool, error) {
	const q = `DELETE FROM employee_documents WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return false, errors.Wrap(err, "delete document")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "delete document")
	}
	return n > 0, nil
}
