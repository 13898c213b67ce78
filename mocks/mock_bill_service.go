package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"billgen/internal/bill"
	"billgen/internal/domain"
	"billgen/internal/render"
	"billgen/internal/service"
)

// MockBillService is a mock implementation of service.BillService.
type MockBillService struct {
	mock.Mock
}

func (m *MockBillService) Preview(ctx context.Context, input service.GenerateInput) (*bill.Result, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bill.Result), args.Error(1)
}

func (m *MockBillService) Generate(ctx context.Context, input service.GenerateInput) (*domain.BillRun, *bill.Result, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.BillRun), args.Get(1).(*bill.Result), args.Error(2)
}

func (m *MockBillService) GetByID(ctx context.Context, id uuid.UUID) (*domain.BillRun, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BillRun), args.Error(1)
}

func (m *MockBillService) GetResult(ctx context.Context, id uuid.UUID) (*bill.Result, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bill.Result), args.Error(1)
}

func (m *MockBillService) List(ctx context.Context, offset, limit int) ([]domain.BillRun, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.BillRun), args.Int(1), args.Error(2)
}

func (m *MockBillService) Document(ctx context.Context, id uuid.UUID, kind domain.DocumentKind) (*render.Document, error) {
	args := m.Called(ctx, id, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*render.Document), args.Error(1)
}

func (m *MockBillService) GetDownloadURL(ctx context.Context, id uuid.UUID) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}
