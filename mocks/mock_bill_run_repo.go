package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"billgen/internal/domain"
)

// MockBillRunRepo is a mock implementation of port.BillRunRepository.
type MockBillRunRepo struct {
	mock.Mock
}

func (m *MockBillRunRepo) Create(ctx context.Context, run *domain.BillRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockBillRunRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.BillRun, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BillRun), args.Error(1)
}

func (m *MockBillRunRepo) List(ctx context.Context, offset, limit int) ([]domain.BillRun, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.BillRun), args.Int(1), args.Error(2)
}

func (m *MockBillRunRepo) Complete(ctx context.Context, run *domain.BillRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockBillRunRepo) MarkFailed(ctx context.Context, id uuid.UUID, message string) error {
	args := m.Called(ctx, id, message)
	return args.Error(0)
}

func (m *MockBillRunRepo) ListCreatedBefore(ctx context.Context, cutoff time.Time, limit int) ([]domain.BillRun, error) {
	args := m.Called(ctx, cutoff, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BillRun), args.Error(1)
}

func (m *MockBillRunRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
