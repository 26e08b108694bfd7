package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"hrdocs/internal/model"
	"hrdocs/internal/repository"
)

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Insert(ctx context.Context, rec *model.DownloadAudit) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockAuditRepository) Available(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockAuditRepository) List(ctx context.Context, f repository.AuditFilter) ([]model.DownloadAuditEntry, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DownloadAuditEntry), args.Error(1)
}
