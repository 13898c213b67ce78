package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"billgen/internal/bill"
)

// BillRun records one bill generation: its inputs, headline totals and the
// computed records as JSON.
type BillRun struct {
	ID                 uuid.UUID        `db:"id" json:"id"`
	FileName           string           `db:"file_name" json:"file_name"`
	PremiumPercent     float64          `db:"premium_percent" json:"premium_percent"`
	PremiumType        bill.PremiumType `db:"premium_type" json:"premium_type"`
	PreviousBillAmount float64          `db:"previous_bill_amount" json:"previous_bill_amount"`
	Status             BillRunStatus    `db:"status" json:"status"`
	GrandTotal         int64            `db:"grand_total" json:"grand_total"`
	Payable            int64            `db:"payable" json:"payable"`
	NetPayable         int64            `db:"net_payable" json:"net_payable"`
	Result             json.RawMessage  `db:"result" json:"-"`
	BundleKey          string           `db:"bundle_key" json:"bundle_key,omitempty"`
	ErrorMessage       string           `db:"error_message" json:"error_message,omitempty"`
	CreatedBy          string           `db:"created_by" json:"created_by"`
	CreatedAt          time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time        `db:"updated_at" json:"updated_at"`
}

// Operator is the authenticated account allowed to generate bills.
type Operator struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Email        string `json:"email"`
}
