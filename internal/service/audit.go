package service

import (
	"context"
	"log/slog"
	"unicode/utf8"

	"github.com/pkg/errors"

	"hrdocs/internal/apperr"
	"hrdocs/internal/logging"
	"hrdocs/internal/metrics"
	"hrdocs/internal/model"
	"hrdocs/internal/repository"
)

// MaxUserAgentLen bounds the stored client string in bytes.
const MaxUserAgentLen = 255

// ErrAuditUnavailable is returned by Query when the audit table is missing.
var ErrAuditUnavailable = apperr.Configuration(
	"AUDIT_NOT_CONFIGURED",
	"download audit storage is not available",
	"run the database migrations (DB_MIGRATE=true) to create table document_download_audit",
)

// AuditRecorder appends to and reads the document download trail.
type AuditRecorder struct {
	repo    repository.AuditRepository
	metrics *metrics.Metrics
	log     *slog.Logger
}

func NewAuditRecorder(repo repository.AuditRepository, m *metrics.Metrics, log *slog.Logger) *AuditRecorder {
	return &AuditRecorder{repo: repo, metrics: m, log: log}
}

// Record stores one download. Records without an actor or document are
// skipped. Failures are logged and counted; callers do not act on the
// returned error.
func (a *AuditRecorder) Record(ctx context.Context, rec model.DownloadAudit) error {
	if rec.UserID <= 0 || rec.DocumentID <= 0 {
		return nil
	}
	rec.UserAgent = truncateUTF8(rec.UserAgent, MaxUserAgentLen)

	if err := a.repo.Insert(ctx, &rec); err != nil {
		a.metrics.AuditFailure()
		logging.FromContext(ctx, a.log).WarnContext(ctx, "download audit not recorded",
			"user_id", rec.UserID,
			"document_id", rec.DocumentID,
			"error", err,
		)
		return err
	}
	return nil
}

// Query returns the trail for f. A missing audit table is reported as
// ErrAuditUnavailable.
func (a *AuditRecorder) Query(ctx context.Context, f repository.AuditFilter) ([]model.DownloadAuditEntry, error) {
	ok, err := a.repo.Available(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "check audit storage")
	}
	if !ok {
		return nil, ErrAuditUnavailable
	}
	items, err := a.repo.List(ctx, f)
	if err != nil {
		return nil, errors.Wrap(err, "query download audit")
	}
	return items, nil
}

func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
