package bill

import (
	"fmt"
	"math"
	"strconv"
)

// WordsFormatter spells a payable amount for the certificate page.
type WordsFormatter interface {
	Words(amount float64) string
}

// PlainWords is the fallback WordsFormatter: the integer amount as digits.
type PlainWords struct{}

func (PlainWords) Words(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return strconv.FormatFloat(amount, 'f', -1, 64)
	}
	return strconv.FormatFloat(math.Trunc(amount), 'f', 0, 64)
}

// Input is everything needed to compute one bill.
type Input struct {
	WorkOrder          Table
	BillQuantity       Table
	ExtraItems         Table
	PremiumPercent     float64
	PremiumType        PremiumType
	PreviousBillAmount float64
}

// Engine computes bills. It holds no mutable state and is safe for concurrent use.
type Engine struct {
	layout Layout
	words  WordsFormatter
}

// Option configures an Engine.
type Option func(*Engine)

// WithLayout overrides the positional sheet layout.
func WithLayout(l Layout) Option {
	return func(e *Engine) { e.layout = l }
}

// WithWords sets the formatter used for the amount in words.
func WithWords(w WordsFormatter) Option {
	return func(e *Engine) {
		if w != nil {
			e.words = w
		}
	}
}

// NewEngine returns an Engine using DefaultLayout and PlainWords unless overridden.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{layout: DefaultLayout(), words: PlainWords{}}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.layout.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Layout returns the layout the engine reads sheets with.
func (e *Engine) Layout() Layout { return e.layout }

// Process computes the five bill records. The input tables are only read.
func (e *Engine) Process(in Input) (*Result, error) {
	switch {
	case in.WorkOrder == nil:
		return nil, fmt.Errorf("%w: work order", ErrMissingTable)
	case in.BillQuantity == nil:
		return nil, fmt.Errorf("%w: bill quantity", ErrMissingTable)
	case in.ExtraItems == nil:
		return nil, fmt.Errorf("%w: extra items", ErrMissingTable)
	}
	ptype, err := ParsePremiumType(string(in.PremiumType))
	if err != nil {
		return nil, err
	}
	if math.IsNaN(in.PremiumPercent) || math.IsInf(in.PremiumPercent, 0) || in.PremiumPercent < 0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidPremium, in.PremiumPercent)
	}
	prem := premium{percent: in.PremiumPercent, kind: ptype}
	prev := finiteOr(in.PreviousBillAmount, 0)

	res := &Result{
		FirstPage:  FirstPage{Header: e.header(in.WorkOrder), Items: []LineItem{}},
		Deviation:  Deviation{Items: []DeviationLineItem{}},
		ExtraItems: ExtraItems{Items: []LineItem{}},
		NoteSheet:  NoteSheet{Notes: []string{}},
	}

	wo := e.layout.WorkOrder
	for i := wo.DataStartRow; i < in.WorkOrder.Rows(); i++ {
		qty := CoerceCell(e.billQuantity(in.BillQuantity, i), 0)
		rate := CoerceCell(in.WorkOrder.Cell(i, wo.Columns.Rate), 0)
		res.FirstPage.Items = append(res.FirstPage.Items, lineItem(in.WorkOrder, i, wo.Columns, qty, rate))
	}
	res.FirstPage.Items = append(res.FirstPage.Items, dividerItem())

	ex := e.layout.ExtraItems
	for j := ex.DataStartRow; j < in.ExtraItems.Rows(); j++ {
		qty := CoerceCell(in.ExtraItems.Cell(j, ex.Columns.Quantity), 0)
		rate := CoerceCell(in.ExtraItems.Cell(j, ex.Columns.Rate), 0)
		item := lineItem(in.ExtraItems, j, ex.Columns, qty, rate)
		res.FirstPage.Items = append(res.FirstPage.Items, item)
		res.ExtraItems.Items = append(res.ExtraItems.Items, item)
	}

	res.FirstPage.Totals = firstPageTotals(res.FirstPage.Items, prem, prev)
	res.LastPage = LastPage{
		PayableAmount: res.FirstPage.Totals.Payable,
		AmountWords:   e.words.Words(float64(res.FirstPage.Totals.Payable)),
	}
	res.Deviation = e.deviation(in, prem)
	return res, nil
}

// Process computes a bill with the default engine configuration.
func Process(in Input, words WordsFormatter) (*Result, error) {
	e, err := NewEngine(WithWords(words))
	if err != nil {
		return nil, err
	}
	return e.Process(in)
}

func (e *Engine) header(t Table) [][]string {
	l := e.layout.WorkOrder
	rows := min(l.HeaderRows, t.Rows())
	cols := min(l.HeaderCols, t.Cols())
	header := make([][]string, rows)
	for r := 0; r < rows; r++ {
		header[r] = make([]string, cols)
		for c := 0; c < cols; c++ {
			header[r][c] = t.Cell(r, c).String()
		}
	}
	return header
}

// billQuantity reads the executed quantity aligned with work order row i.
// A Bill Quantity sheet shorter than the work order reads as empty.
func (e *Engine) billQuantity(bq Table, i int) Cell {
	if i >= bq.Rows() {
		return EmptyCell()
	}
	return bq.Cell(i, e.layout.BillQuantityCol)
}

func lineItem(t Table, row int, cols Columns, qty, rate float64) LineItem {
	item := LineItem{
		SerialNo:    t.Cell(row, cols.SerialNo).String(),
		Description: t.Cell(row, cols.Description).String(),
		Remark:      t.Cell(row, cols.Remark).String(),
	}
	if rate == 0 {
		return item
	}
	amount := roundAmount(qty * rate)
	item.Unit = t.Cell(row, cols.Unit).String()
	item.Quantity = Some(qty)
	item.QuantitySinceLast = Some(qty)
	item.QuantityUptoDate = Some(qty)
	item.Rate = Some(rate)
	item.Amount = Some(amount)
	// Running-bill history is not tracked; the amount since the previous bill
	// equals the amount up to date.
	item.AmountPrevious = Some(amount)
	return item
}

func dividerItem() LineItem {
	return LineItem{
		Description:       DividerLabel,
		Quantity:          Some(0.0),
		QuantitySinceLast: Some(0.0),
		QuantityUptoDate:  Some(0.0),
		Rate:              Some(0.0),
		Amount:            Some[int64](0),
		AmountPrevious:    Some[int64](0),
		IsDivider:         true,
		Bold:              true,
		Underline:         true,
	}
}

func firstPageTotals(items []LineItem, prem premium, prev float64) Totals {
	var grand int64
	for _, it := range items {
		if !it.IsDivider {
			grand += it.Amount.Or(0)
		}
	}
	amount := prem.on(grand)
	payable := grand + amount

	t := Totals{
		GrandTotal: grand,
		Premium:    Premium{PremiumTerms: prem.terms(), Amount: amount},
		Payable:    payable,
		NetPayable: payable,
	}
	if prev > 0 {
		t.LastBillAmount = prev
		t.NetPayable = roundAmount(float64(payable) - prev)
	}
	t.ExtraItemsSum = extraItemsSum(items, prem)
	return t
}

// extraItemsSum totals the items after the divider, plus their own premium.
func extraItemsSum(items []LineItem, prem premium) int64 {
	start := -1
	for i, it := range items {
		if it.IsDivider {
			start = i
			break
		}
	}
	if start < 0 {
		return 0
	}
	var sum int64
	for _, it := range items[start+1:] {
		if !it.IsDivider {
			sum += it.Amount.Or(0)
		}
	}
	return sum + prem.on(sum)
}

func (e *Engine) deviation(in Input, prem premium) Deviation {
	dev := Deviation{Items: []DeviationLineItem{}}
	var woTotal, execTotal, excessTotal, savingTotal int64

	wo := e.layout.WorkOrder
	for i := wo.DataStartRow; i < in.WorkOrder.Rows(); i++ {
		qtyWO := CoerceCell(in.WorkOrder.Cell(i, wo.Columns.Quantity), 0)
		rate := CoerceCell(in.WorkOrder.Cell(i, wo.Columns.Rate), 0)
		qtyBill := CoerceCell(e.billQuantity(in.BillQuantity, i), 0)

		item := DeviationLineItem{
			SerialNo:    in.WorkOrder.Cell(i, wo.Columns.SerialNo).String(),
			Description: in.WorkOrder.Cell(i, wo.Columns.Description).String(),
			Remark:      in.WorkOrder.Cell(i, wo.Columns.Remark).String(),
		}
		if rate != 0 {
			amtWO := roundAmount(qtyWO * rate)
			amtBill := roundAmount(qtyBill * rate)
			var excessQty, savingQty float64
			var excessAmt, savingAmt int64
			if qtyBill > qtyWO {
				excessQty = qtyBill - qtyWO
				excessAmt = roundAmount(excessQty * rate)
			}
			if qtyBill < qtyWO {
				savingQty = qtyWO - qtyBill
				savingAmt = roundAmount(savingQty * rate)
			}
			item.Unit = in.WorkOrder.Cell(i, wo.Columns.Unit).String()
			item.QtyWO = Some(qtyWO)
			item.Rate = Some(rate)
			item.AmtWO = Some(amtWO)
			item.QtyBill = Some(qtyBill)
			item.AmtBill = Some(amtBill)
			item.ExcessQty = Some(excessQty)
			item.ExcessAmt = Some(excessAmt)
			item.SavingQty = Some(savingQty)
			item.SavingAmt = Some(savingAmt)

			woTotal += amtWO
			execTotal += amtBill
			excessTotal += excessAmt
			savingTotal += savingAmt
		}
		dev.Items = append(dev.Items, item)
	}

	dev.Items = append(dev.Items, DeviationLineItem{
		Description: DividerLabel,
		QtyWO:       Some(0.0),
		Rate:        Some(0.0),
		AmtWO:       Some[int64](0),
		QtyBill:     Some(0.0),
		AmtBill:     Some[int64](0),
		ExcessQty:   Some(0.0),
		ExcessAmt:   Some[int64](0),
		SavingQty:   Some(0.0),
		SavingAmt:   Some[int64](0),
		IsDivider:   true,
	})

	ex := e.layout.ExtraItems
	for j := ex.DataStartRow; j < in.ExtraItems.Rows(); j++ {
		qty := CoerceCell(in.ExtraItems.Cell(j, ex.Columns.Quantity), 0)
		rate := CoerceCell(in.ExtraItems.Cell(j, ex.Columns.Rate), 0)

		item := DeviationLineItem{
			SerialNo:    in.ExtraItems.Cell(j, ex.Columns.SerialNo).String(),
			Description: in.ExtraItems.Cell(j, ex.Columns.Description).String(),
			Remark:      in.ExtraItems.Cell(j, ex.Columns.Remark).String(),
		}
		if rate != 0 {
			amtBill := roundAmount(qty * rate)
			item.Unit = in.ExtraItems.Cell(j, ex.Columns.Unit).String()
			item.QtyWO = Some(0.0)
			item.Rate = Some(rate)
			item.AmtWO = Some[int64](0)
			item.QtyBill = Some(qty)
			item.AmtBill = Some(amtBill)
			item.ExcessQty = Some(qty)
			item.ExcessAmt = Some(amtBill)
			item.SavingQty = Some(0.0)
			item.SavingAmt = Some[int64](0)

			execTotal += amtBill
			excessTotal += amtBill
		}
		dev.Items = append(dev.Items, item)
	}

	dev.Summary = deviationSummary(woTotal, execTotal, excessTotal, savingTotal, prem)
	return dev
}

func deviationSummary(woTotal, execTotal, excessTotal, savingTotal int64, prem premium) DeviationSummary {
	s := DeviationSummary{
		WorkOrderTotal: woTotal,
		ExecutedTotal:  execTotal,
		OverallExcess:  excessTotal,
		OverallSaving:  savingTotal,
		Premium:        prem.terms(),
		TenderPremiumF: prem.on(woTotal),
		TenderPremiumH: prem.on(execTotal),
		TenderPremiumJ: prem.on(excessTotal),
		TenderPremiumL: prem.on(savingTotal),
	}
	s.GrandTotalF = woTotal + s.TenderPremiumF
	s.GrandTotalH = execTotal + s.TenderPremiumH
	s.GrandTotalJ = excessTotal + s.TenderPremiumJ
	s.GrandTotalL = savingTotal + s.TenderPremiumL

	// Sign is captured before the absolute value is taken.
	net := s.GrandTotalH - s.GrandTotalF
	s.IsSaving = net < 0
	s.NetDifference = net
	if net < 0 {
		s.NetDifference = -net
	}
	if s.GrandTotalF != 0 {
		s.PercentageDeviation = round2(math.Abs(float64(net) / float64(s.GrandTotalF) * 100))
	}
	return s
}

type premium struct {
	percent float64
	kind    PremiumType
}

func (p premium) terms() PremiumTerms {
	return PremiumTerms{Percent: p.percent / 100, Type: p.kind}
}

// on returns the signed premium for base: positive above, negative below.
func (p premium) on(base int64) int64 {
	share := float64(base) * (p.percent / 100)
	if p.kind != PremiumAbove {
		share = -float64(base) * (p.percent / 100)
	}
	return roundAmount(share)
}

// roundAmount rounds half to even, the rounding used for every amount.
func roundAmount(f float64) int64 {
	r := math.RoundToEven(f)
	switch {
	case math.IsNaN(r):
		return 0
	case r >= math.MaxInt64:
		return math.MaxInt64
	case r <= math.MinInt64:
		return math.MinInt64
	}
	return int64(r)
}

// round2 rounds to two decimals from the exact binary value, half to even.
func round2(f float64) float64 {
	v, err := strconv.ParseFloat(strconv.FormatFloat(f, 'f', 2, 64), 64)
	if err != nil {
		return f
	}
	return v
}
