package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"hrdocs/internal/auth"
	"hrdocs/internal/model"
	"hrdocs/internal/service"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) List(ctx context.Context, id auth.Identity, employeeID *int64) ([]model.DocumentSummary, error) {
	args := m.Called(ctx, id, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DocumentSummary), args.Error(1)
}

func (m *MockDocumentService) Upload(ctx context.Context, id auth.Identity, req service.UploadRequest) (int64, error) {
	args := m.Called(ctx, id, req)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDocumentService) Delete(ctx context.Context, id auth.Identity, documentID int64) error {
	args := m.Called(ctx, id, documentID)
	return args.Error(0)
}

func (m *MockDocumentService) Download(ctx context.Context, id auth.Identity, documentID int64, origin service.Origin) (*service.Download, error) {
	args := m.Called(ctx, id, documentID, origin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Download), args.Error(1)
}

func (m *MockDocumentService) ListAudit(ctx context.Context, id auth.Identity, q service.AuditQuery) ([]model.DownloadAuditEntry, error) {
	args := m.Called(ctx, id, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DownloadAuditEntry), args.Error(1)
}
