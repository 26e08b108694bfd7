package service

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"

	"hrdocs/internal/apperr"
	"hrdocs/internal/auth"
	"hrdocs/internal/logging"
	"hrdocs/internal/metrics"
	"hrdocs/internal/model"
	"hrdocs/internal/repository"
	"hrdocs/internal/storage"
)

const (
	defaultAuditLimit = 100
	maxAuditLimit     = 500

	// sniffLen covers the signatures mimetype inspects by default.
	sniffLen = 3072

	dateLayout = "2006-01-02"
)

var (
	ErrNoLinkedEmployee  = apperr.Authorization("NO_LINKED_EMPLOYEE", "your account is not linked to an employee")
	ErrUploadForbidden   = apperr.Authorization("UPLOAD_FORBIDDEN", "not allowed to upload documents")
	ErrDeleteForbidden   = apperr.Authorization("DELETE_FORBIDDEN", "not allowed to delete documents")
	ErrAuditForbidden    = apperr.Authorization("AUDIT_FORBIDDEN", "not allowed to read the download audit")
	ErrPaySlipOnly       = apperr.Authorization("PAY_SLIP_ONLY", "only pay slips can be downloaded")
	ErrNotOwnPaySlip     = apperr.Authorization("NOT_OWN_PAY_SLIP", "only your own pay slips can be downloaded")
	ErrDocumentNotFound  = apperr.NotFound("DOCUMENT_NOT_FOUND", "document not found")
	ErrEmployeeNotFound  = apperr.NotFound("EMPLOYEE_NOT_FOUND", "employee not found")
	ErrInvalidDocumentID = apperr.Validation("INVALID_DOCUMENT_ID", "invalid document id")
	ErrUploadRequired    = apperr.Validation("UPLOAD_FIELDS_REQUIRED", "empleado_id and tipo are required")
	ErrInvalidType       = apperr.Validation("INVALID_DOCUMENT_TYPE", "invalid document type")
	ErrFileRequired      = apperr.Validation("FILE_REQUIRED", "file is required")
	ErrFileTransfer      = apperr.Validation("FILE_TRANSFER", "file upload failed")
	ErrExtension         = apperr.Validation("EXTENSION_NOT_ALLOWED", "file extension not allowed")
	ErrInvalidPath       = apperr.Validation("INVALID_FILE_PATH", "invalid file path")
	ErrInvalidFromDate   = apperr.Validation("INVALID_FECHA_DESDE", "invalid fecha_desde, expected YYYY-MM-DD")
	ErrInvalidUntilDate  = apperr.Validation("INVALID_FECHA_HASTA", "invalid fecha_hasta, expected YYYY-MM-DD")
	ErrFileMissing       = apperr.StorageDrift("FILE_MISSING", "file not found in storage")
)

// UploadFile is the file part of an upload. Open is nil when no part was sent.
type UploadFile struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// UploadRequest is a parsed multipart upload.
type UploadRequest struct {
	EmployeeID int64
	Type       string
	Period     string
	File       *UploadFile
}

// Origin describes the client of a download for the audit trail.
type Origin struct {
	IP        string
	UserAgent string
}

// Download is an opened document ready to stream. The caller closes Body.
type Download struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.ReadCloser
}

// AuditQuery carries the raw audit filters as received.
type AuditQuery struct {
	EmployeeID string
	Type       string
	From       string
	Until      string
	Limit      string
}

// DocumentService governs who may list, upload, delete and download employee
// documents, and who may read the download audit.
type DocumentService interface {
	List(ctx context.Context, id auth.Identity, employeeID *int64) ([]model.DocumentSummary, error)
	// Upload stores the file, then its metadata row, and returns the new id.
	// The blob is removed again when the row cannot be written.
	Upload(ctx context.Context, id auth.Identity, req UploadRequest) (int64, error)
	// Delete removes the row, then best-effort removes the blob.
	Delete(ctx context.Context, id auth.Identity, documentID int64) error
	// Download records the access and opens the blob.
	Download(ctx context.Context, id auth.Identity, documentID int64, origin Origin) (*Download, error)
	ListAudit(ctx context.Context, id auth.Identity, q AuditQuery) ([]model.DownloadAuditEntry, error)
}

type documentService struct {
	store     storage.Storage
	docs      repository.DocumentRepository
	employees repository.EmployeeRepository
	users     repository.UserRepository
	audit     *AuditRecorder
	metrics   *metrics.Metrics
	log       *slog.Logger
	loc       *time.Location
	now       func() time.Time
}

// DocumentDeps groups the collaborators of NewDocumentService.
type DocumentDeps struct {
	Store     storage.Storage
	Documents repository.DocumentRepository
	Employees repository.EmployeeRepository
	Users     repository.UserRepository
	Audit     *AuditRecorder
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
	// Location bounds audit date filters; UTC when nil.
	Location *time.Location
}

func NewDocumentService(d DocumentDeps) DocumentService {
	loc := d.Location
	if loc == nil {
		loc = time.UTC
	}
	return &documentService{
		store:     d.Store,
		docs:      d.Documents,
		employees: d.Employees,
		users:     d.Users,
		audit:     d.Audit,
		metrics:   d.Metrics,
		log:       d.Logger,
		loc:       loc,
		now:       time.Now,
	}
}

// scope is the set of employees a caller may act on. all is set for
// privileged callers; otherwise employeeID is the resolved linked employee.
type scope struct {
	all        bool
	employeeID int64
}

// resolveScope takes the employee from the token claim first and falls back to
// the stored account. An unresolved link yields ErrNoLinkedEmployee.
func (s *documentService) resolveScope(ctx context.Context, id auth.Identity) (scope, error) {
	if id.Privileged() {
		return scope{all: true}, nil
	}
	if id.EmployeeID != nil && *id.EmployeeID > 0 {
		return scope{employeeID: *id.EmployeeID}, nil
	}
	if id.UserID <= 0 {
		return scope{}, ErrNoLinkedEmployee
	}
	linked, err := s.users.LinkedEmployeeID(ctx, id.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return scope{}, ErrNoLinkedEmployee
	}
	if err != nil {
		return scope{}, errors.Wrap(err, "resolve linked employee")
	}
	if linked == nil || *linked <= 0 {
		return scope{}, ErrNoLinkedEmployee
	}
	return scope{employeeID: *linked}, nil
}

func (s *documentService) List(ctx context.Context, id auth.Identity, employeeID *int64) ([]model.DocumentSummary, error) {
	sc, err := s.resolveScope(ctx, id)
	if err != nil {
		return nil, err
	}

	var f repository.DocumentFilter
	if sc.all {
		if employeeID != nil && *employeeID > 0 {
			f.EmployeeID = employeeID
		}
	} else {
		paySlip := model.DocPaySlip
		own := sc.employeeID
		f = repository.DocumentFilter{EmployeeID: &own, Type: &paySlip}
	}

	items, err := s.docs.List(ctx, f)
	if err != nil {
		return nil, errors.Wrap(err, "list documents")
	}
	return items, nil
}

func (s *documentService) Upload(ctx context.Context, id auth.Identity, req UploadRequest) (int64, error) {
	sc, err := s.resolveScope(ctx, id)
	if err != nil {
		return 0, err
	}
	if !sc.all {
		return 0, ErrUploadForbidden
	}

	typeRaw := strings.TrimSpace(req.Type)
	if req.EmployeeID <= 0 || typeRaw == "" {
		return 0, ErrUploadRequired
	}
	docType, ok := model.ParseDocumentType(typeRaw)
	if !ok {
		return 0, ErrInvalidType
	}
	if req.File == nil || req.File.Open == nil {
		return 0, ErrFileRequired
	}
	body, err := req.File.Open()
	if err != nil {
		return 0, ErrFileTransfer.WithCause(err)
	}
	defer body.Close()

	if _, err := s.employees.FindByID(ctx, req.EmployeeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrEmployeeNotFound
		}
		return 0, errors.Wrap(err, "find employee")
	}

	original, base, ext := splitUploadName(req.File.Name)
	if !extensionAllowed(ext) {
		return 0, ErrExtension
	}

	key, publicURL := DocumentKey(storedName(s.now(), base, ext))
	size := req.File.Size
	if size <= 0 {
		size = -1
	}
	if _, err := s.store.Put(ctx, key, body, storage.PutObjectOptions{Size: size}); err != nil {
		return 0, errors.Wrap(err, "store document file")
	}

	doc := &model.Document{
		EmployeeID: req.EmployeeID,
		Type:       docType,
		Filename:   original,
		URL:        publicURL,
	}
	if p := strings.TrimSpace(req.Period); p != "" {
		doc.Period = &p
	}

	stored, err := s.docs.Create(ctx, doc)
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			logging.FromContext(ctx, s.log).WarnContext(ctx, "orphaned document file", "key", key, "error", delErr)
		}
		return 0, errors.Wrap(err, "save document")
	}

	logging.FromContext(ctx, s.log).InfoContext(ctx, "document uploaded",
		"document_id", stored.ID,
		"employee_id", stored.EmployeeID,
		"type", stored.Type,
		"user_id", id.UserID,
	)
	return stored.ID, nil
}

func (s *documentService) Delete(ctx context.Context, id auth.Identity, documentID int64) error {
	sc, err := s.resolveScope(ctx, id)
	if err != nil {
		return err
	}
	if !sc.all {
		return ErrDeleteForbidden
	}
	if documentID <= 0 {
		return ErrInvalidDocumentID
	}

	doc, err := s.findDocument(ctx, documentID)
	if err != nil {
		return err
	}
	deleted, err := s.docs.Delete(ctx, documentID)
	if err != nil {
		return errors.Wrap(err, "delete document")
	}
	if !deleted {
		return ErrDocumentNotFound
	}

	key, err := ResolveUploadKey(doc.URL)
	if err != nil {
		return nil
	}
	if err := s.store.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrNotFound) {
		logging.FromContext(ctx, s.log).WarnContext(ctx, "document file not removed", "document_id", documentID, "key", key, "error", err)
	}
	return nil
}

func (s *documentService) Download(ctx context.Context, id auth.Identity, documentID int64, origin Origin) (*Download, error) {
	sc, err := s.resolveScope(ctx, id)
	if err != nil {
		return nil, err
	}
	if documentID <= 0 {
		return nil, ErrInvalidDocumentID
	}

	doc, err := s.findDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if !sc.all {
		if doc.Type != model.DocPaySlip {
			return nil, ErrPaySlipOnly
		}
		if doc.EmployeeID != sc.employeeID {
			return nil, ErrNotOwnPaySlip
		}
	}

	// Best effort: a failed audit write never blocks the download.
	_ = s.audit.Record(ctx, model.DownloadAudit{
		UserID:       id.UserID,
		DocumentID:   doc.ID,
		EmployeeID:   doc.EmployeeID,
		DocumentType: doc.Type,
		IP:           origin.IP,
		UserAgent:    origin.UserAgent,
	})

	key, err := ResolveUploadKey(doc.URL)
	if err != nil {
		return nil, ErrInvalidPath
	}
	ok, err := s.store.Exists(ctx, key)
	if err != nil {
		return nil, errors.Wrap(err, "check document file")
	}
	if !ok {
		return nil, s.drift(ctx, doc, key)
	}

	rc, info, err := s.store.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, s.drift(ctx, doc, key)
	}
	if err != nil {
		return nil, errors.Wrap(err, "open document file")
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(rc, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		rc.Close()
		return nil, errors.Wrap(err, "read document file")
	}
	head = head[:n]

	s.metrics.Download(doc.Type.String())

	return &Download{
		Filename:    downloadName(doc.Filename),
		ContentType: mimetype.Detect(head).String(),
		Size:        info.Size,
		Body: struct {
			io.Reader
			io.Closer
		}{io.MultiReader(bytes.NewReader(head), rc), rc},
	}, nil
}

func (s *documentService) drift(ctx context.Context, doc *model.Document, key string) error {
	logging.FromContext(ctx, s.log).WarnContext(ctx, "document file missing from storage",
		"document_id", doc.ID,
		"key", key,
	)
	return ErrFileMissing
}

func (s *documentService) ListAudit(ctx context.Context, id auth.Identity, q AuditQuery) ([]model.DownloadAuditEntry, error) {
	sc, err := s.resolveScope(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sc.all {
		return nil, ErrAuditForbidden
	}

	f, err := s.auditFilter(q)
	if err != nil {
		return nil, err
	}
	return s.audit.Query(ctx, f)
}

// auditFilter parses raw filters. Employee ids and limits are read from their
// leading digits; non-positive results fall back to no filter and the default
// limit.
func (s *documentService) auditFilter(q AuditQuery) (repository.AuditFilter, error) {
	f := repository.AuditFilter{Limit: clampLimit(q.Limit)}

	if v := leadingInt(q.EmployeeID); v > 0 {
		f.EmployeeID = &v
	}
	if raw := strings.TrimSpace(q.Type); raw != "" {
		t, ok := model.ParseDocumentType(raw)
		if !ok {
			return f, ErrInvalidType
		}
		f.Type = &t
	}
	if raw := strings.TrimSpace(q.From); raw != "" {
		from, err := time.ParseInLocation(dateLayout, raw, s.loc)
		if err != nil {
			return f, ErrInvalidFromDate
		}
		f.From = &from
	}
	if raw := strings.TrimSpace(q.Until); raw != "" {
		day, err := time.ParseInLocation(dateLayout, raw, s.loc)
		if err != nil {
			return f, ErrInvalidUntilDate
		}
		until := day.AddDate(0, 0, 1)
		f.Until = &until
	}
	return f, nil
}

func clampLimit(raw string) int {
	n := leadingInt(raw)
	if n <= 0 {
		return defaultAuditLimit
	}
	if n > maxAuditLimit {
		return maxAuditLimit
	}
	return int(n)
}

// leadingInt reads an optionally signed run of decimal digits after leading
// whitespace and ignores the rest: "10abc" is 10, "abc" is 0. Overflow
// saturates at the int64 bounds.
func leadingInt(raw string) int64 {
	s := strings.TrimLeft(raw, " \t\n\r\v\f")
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	v, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		v = math.MaxInt64
	}
	if neg {
		return -v
	}
	return v
}

func (s *documentService) findDocument(ctx context.Context, documentID int64) (*model.Document, error) {
	doc, err := s.docs.FindByID(ctx, documentID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "find document")
	}
	return doc, nil
}

func downloadName(name string) string {
	if name == "" {
		return "documento"
	}
	original, _, _ := splitUploadName(name)
	return original
}
