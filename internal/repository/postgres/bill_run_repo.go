package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"billgen/internal/domain"
	"billgen/internal/port"
)

type billRunRepo struct {
	db *sqlx.DB
}

// NewBillRunRepo creates a new PostgreSQL-backed BillRunRepository.
func NewBillRunRepo(db *sqlx.DB) port.BillRunRepository {
	return &billRunRepo{db: db}
}

func (r *billRunRepo) Create(ctx context.Context, run *domain.BillRun) error {
	now := time.Now().UTC()
	run.CreatedAt = now
	run.UpdatedAt = now

	query := `INSERT INTO bill_runs
		(id, file_name, premium_percent, premium_type, previous_bill_amount, status,
		 created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		run.ID, run.FileName, run.PremiumPercent, run.PremiumType, run.PreviousBillAmount,
		run.Status, run.CreatedBy, run.CreatedAt, run.UpdatedAt)
	if err != nil {
		return fmt.Errorf("billRunRepo.Create: %w", err)
	}
	return nil
}

func (r *billRunRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.BillRun, error) {
	var run domain.BillRun
	err := r.db.GetContext(ctx, &run, "SELECT * FROM bill_runs WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("billRunRepo.GetByID: %w", err)
	}
	return &run, nil
}

func (r *billRunRepo) List(ctx context.Context, offset, limit int) ([]domain.BillRun, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM bill_runs"); err != nil {
		return nil, 0, fmt.Errorf("billRunRepo.List count: %w", err)
	}

	// The result document is omitted from listings.
	var runs []domain.BillRun
	err := r.db.SelectContext(ctx, &runs,
		`SELECT id, file_name, premium_percent, premium_type, previous_bill_amount, status,
		        grand_total, payable, net_payable, bundle_key, error_message, created_by,
		        created_at, updated_at
		 FROM bill_runs ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("billRunRepo.List: %w", err)
	}
	return runs, total, nil
}

func (r *billRunRepo) Complete(ctx context.Context, run *domain.BillRun) error {
	run.Status = domain.BillRunStatusCompleted
	run.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx,
		`UPDATE bill_runs
		 SET status = $1, grand_total = $2, payable = $3, net_payable = $4,
		     result = $5, bundle_key = $6, error_message = '', updated_at = $7
		 WHERE id = $8`,
		run.Status, run.GrandTotal, run.Payable, run.NetPayable,
		[]byte(run.Result), run.BundleKey, run.UpdatedAt, run.ID)
	if err != nil {
		return fmt.Errorf("billRunRepo.Complete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *billRunRepo) MarkFailed(ctx context.Context, id uuid.UUID, message string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE bill_runs SET status = $1, error_message = $2, updated_at = $3 WHERE id = $4",
		domain.BillRunStatusFailed, message, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("billRunRepo.MarkFailed: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *billRunRepo) ListCreatedBefore(ctx context.Context, cutoff time.Time, limit int) ([]domain.BillRun, error) {
	var runs []domain.BillRun
	err := r.db.SelectContext(ctx, &runs,
		`SELECT id, file_name, premium_percent, premium_type, previous_bill_amount, status,
		        grand_total, payable, net_payable, bundle_key, error_message, created_by,
		        created_at, updated_at
		 FROM bill_runs WHERE created_at < $1 ORDER BY created_at LIMIT $2`,
		cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("billRunRepo.ListCreatedBefore: %w", err)
	}
	return runs, nil
}

func (r *billRunRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM bill_runs WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("billRunRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
