package bill

import (
	"fmt"
	"strings"
)

// DividerLabel is the description of the synthetic row separating contracted
// items from extra items.
const DividerLabel = "Extra Items (With Premium)"

// PremiumType says whether the tender premium is added to or deducted from the base amount.
type PremiumType string

const (
	PremiumAbove PremiumType = "above"
	PremiumBelow PremiumType = "below"
)

// ParsePremiumType normalizes case and surrounding whitespace.
func ParsePremiumType(s string) (PremiumType, error) {
	switch PremiumType(strings.ToLower(strings.TrimSpace(s))) {
	case PremiumAbove:
		return PremiumAbove, nil
	case PremiumBelow:
		return PremiumBelow, nil
	}
	return "", fmt.Errorf("%w: got %q", ErrInvalidPremiumType, s)
}

// LineItem is one row of the first page or the extra items statement.
type LineItem struct {
	SerialNo          string       `json:"serial_no"`
	Description       string       `json:"description"`
	Unit              string       `json:"unit"`
	Quantity          Opt[float64] `json:"quantity"`
	QuantitySinceLast Opt[float64] `json:"quantity_since_last"`
	QuantityUptoDate  Opt[float64] `json:"quantity_upto_date"`
	Rate              Opt[float64] `json:"rate"`
	Amount            Opt[int64]   `json:"amount"`
	AmountPrevious    Opt[int64]   `json:"amount_previous"`
	Remark            string       `json:"remark"`
	IsDivider         bool         `json:"is_divider"`
	Bold              bool         `json:"bold,omitempty"`
	Underline         bool         `json:"underline,omitempty"`
}

// Sparse reports whether the row carries no priced values.
func (li LineItem) Sparse() bool { return !li.IsDivider && !li.Rate.Valid() }

// DeviationLineItem compares contracted against executed quantities for one row.
type DeviationLineItem struct {
	SerialNo    string       `json:"serial_no"`
	Description string       `json:"description"`
	Unit        string       `json:"unit"`
	QtyWO       Opt[float64] `json:"qty_wo"`
	Rate        Opt[float64] `json:"rate"`
	AmtWO       Opt[int64]   `json:"amt_wo"`
	QtyBill     Opt[float64] `json:"qty_bill"`
	AmtBill     Opt[int64]   `json:"amt_bill"`
	ExcessQty   Opt[float64] `json:"excess_qty"`
	ExcessAmt   Opt[int64]   `json:"excess_amt"`
	SavingQty   Opt[float64] `json:"saving_qty"`
	SavingAmt   Opt[int64]   `json:"saving_amt"`
	Remark      string       `json:"remark"`
	IsDivider   bool         `json:"is_divider"`
}

// PremiumTerms is the premium configuration; Percent is stored as a fraction (5% is 0.05).
type PremiumTerms struct {
	Percent float64     `json:"percent"`
	Type    PremiumType `json:"type"`
}

// Premium is the premium applied to the first page grand total. Amount is
// negative for PremiumBelow.
type Premium struct {
	PremiumTerms
	Amount int64 `json:"amount"`
}

// Totals are the first page aggregates.
type Totals struct {
	GrandTotal     int64   `json:"grand_total"`
	Premium        Premium `json:"premium"`
	Payable        int64   `json:"payable"`
	LastBillAmount float64 `json:"last_bill_amount"`
	NetPayable     int64   `json:"net_payable"`
	ExtraItemsSum  int64   `json:"extra_items_sum"`
}

// FirstPage holds the header block, every line item and the totals.
type FirstPage struct {
	Header [][]string `json:"header"`
	Items  []LineItem `json:"items"`
	Totals Totals     `json:"totals"`
}

// LastPage is the payable certificate.
type LastPage struct {
	PayableAmount int64  `json:"payable_amount"`
	AmountWords   string `json:"amount_words"`
}

// DeviationSummary aggregates the deviation statement. The F, H, J and L
// suffixes follow the statement's column letters: work order, executed,
// excess and saving.
type DeviationSummary struct {
	WorkOrderTotal      int64        `json:"work_order_total"`
	ExecutedTotal       int64        `json:"executed_total"`
	OverallExcess       int64        `json:"overall_excess"`
	OverallSaving       int64        `json:"overall_saving"`
	Premium             PremiumTerms `json:"premium"`
	TenderPremiumF      int64        `json:"tender_premium_f"`
	TenderPremiumH      int64        `json:"tender_premium_h"`
	TenderPremiumJ      int64        `json:"tender_premium_j"`
	TenderPremiumL      int64        `json:"tender_premium_l"`
	GrandTotalF         int64        `json:"grand_total_f"`
	GrandTotalH         int64        `json:"grand_total_h"`
	GrandTotalJ         int64        `json:"grand_total_j"`
	GrandTotalL         int64        `json:"grand_total_l"`
	NetDifference       int64        `json:"net_difference"`
	IsSaving            bool         `json:"is_saving"`
	PercentageDeviation float64      `json:"percentage_deviation"`
}

// Deviation is the deviation statement.
type Deviation struct {
	Items   []DeviationLineItem `json:"items"`
	Summary DeviationSummary    `json:"summary"`
}

// ExtraItems is the standalone extra items statement (no divider).
type ExtraItems struct {
	Items []LineItem `json:"items"`
}

// NoteSheet is reserved for future use and is always empty.
type NoteSheet struct {
	Notes []string `json:"notes"`
}

// Result bundles the five records produced for one bill.
type Result struct {
	FirstPage  FirstPage  `json:"first_page"`
	LastPage   LastPage   `json:"last_page"`
	Deviation  Deviation  `json:"deviation"`
	ExtraItems ExtraItems `json:"extra_items"`
	NoteSheet  NoteSheet  `json:"note_sheet"`
}
