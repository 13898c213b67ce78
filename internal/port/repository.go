package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"billgen/internal/domain"
)

// BillRunRepository defines the contract for bill run persistence.
type BillRunRepository interface {
	Create(ctx context.Context, run *domain.BillRun) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.BillRun, error)
	List(ctx context.Context, offset, limit int) ([]domain.BillRun, int, error)
	// Complete stores the computed result and totals and marks the run completed.
	Complete(ctx context.Context, run *domain.BillRun) error
	MarkFailed(ctx context.Context, id uuid.UUID, message string) error
	ListCreatedBefore(ctx context.Context, cutoff time.Time, limit int) ([]domain.BillRun, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
