package postgres

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"hrdocs/internal/model"
	"hrdocs/internal/repository"
)

// AuditPostgres stores the document download trail.
type AuditPostgres struct {
	db *sql.DB
}

func NewAuditPostgres(db *sql.DB) *AuditPostgres {
	return &AuditPostgres{db: db}
}

var _ repository.AuditRepository = (*AuditPostgres)(nil)

// Insert appends rec and sets rec.ID and rec.DownloadedAt.
func (r *AuditPostgres) Insert(ctx context.Context, rec *model.DownloadAudit) error {
	const q = `
		INSERT INTO document_download_audit
			(user_id, document_id, employee_id, document_type, ip, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, downloaded_at
	`
	err := r.db.QueryRowContext(ctx, q,
		rec.UserID,
		rec.DocumentID,
		rec.EmployeeID,
		string(rec.DocumentType),
		rec.IP,
		rec.UserAgent,
	).Scan(&rec.ID, &rec.DownloadedAt)
	if err != nil {
		return errors.Wrap(err, "insert download audit")
	}
	return nil
}

func (r *AuditPostgres) Available(ctx context.Context) (bool, error) {
	const q = `SELECT to_regclass('public.document_download_audit') IS NOT NULL`
	var ok bool
	if err := r.db.QueryRowContext(ctx, q).Scan(&ok); err != nil {
		return false, errors.Wrap(err, "check audit table")
	}
	return ok, nil
}

// List returns matching records newest first. Joins are outer so records stay
// visible after the user, employee or document row is gone.
func (r *AuditPostgres) List(ctx context.Context, f repository.AuditFilter) ([]model.DownloadAuditEntry, error) {
	var w where
	if f.EmployeeID != nil {
		w.add("a.employee_id = ?", *f.EmployeeID)
	}
	if f.Type != nil {
		w.add("a.document_type = ?", string(*f.Type))
	}
	if f.From != nil {
		w.add("a.downloaded_at >= ?", *f.From)
	}
	if f.Until != nil {
		w.add("a.downloaded_at < ?", *f.Until)
	}

	q := `
		SELECT a.id, a.user_id, a.document_id, a.employee_id, a.document_type,
		       a.ip, a.user_agent, a.downloaded_at,
		       COALESCE(u.name, ''), COALESCE(u.email, ''), COALESCE(u.role, ''),
		       COALESCE(e.name, ''), COALESCE(e.national_id, ''),
		       d.filename, d.period
		FROM document_download_audit a
		LEFT JOIN users u ON u.id = a.user_id
		LEFT JOIN employees e ON e.id = a.employee_id
		LEFT JOIN employee_documents d ON d.id = a.document_id` + w.String() + `
		ORDER BY a.downloaded_at DESC, a.id DESC
		LIMIT ` + w.next(f.Limit)

	rows, err := r.db.QueryContext(ctx, q, w.args...)
	if err != nil {
		return nil, errors.Wrap(err, "list download audit")
	}
	defer rows.Close()

	items := make([]model.DownloadAuditEntry, 0)
	for rows.Next() {
		var (
			e                model.DownloadAuditEntry
			typ              string
			filename, period sql.NullString
		)
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.DocumentID, &e.EmployeeID, &typ,
			&e.IP, &e.UserAgent, &e.DownloadedAt,
			&e.UserName, &e.UserEmail, &e.UserRole,
			&e.EmployeeName, &e.EmployeeCedula,
			&filename, &period,
		); err != nil {
			return nil, errors.Wrap(err, "scan download audit")
		}
		e.DocumentType = model.DocumentType(typ)
		e.Filename = stringPtr(filename)
		e.Period = stringPtr(period)
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate download audit")
	}
	return items, nil
}
