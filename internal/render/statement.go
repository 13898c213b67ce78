package render

import (
	"fmt"

	"github.com/johnfercher/maroto/v2/pkg/consts/align"

	"billgen/internal/bill"
	"billgen/internal/numwords"
)

// statement is a format-neutral view of one bill statement, shared by the
// HTML and Word renderers.
type statement struct {
	title     string
	landscape bool
	header    []string
	columns   []column
	rows      []statementRow
	summary   []summaryLine
	notes     []note
	signed    bool
}

type statementRow struct {
	values []string
	bold   bool
}

type summaryLine struct {
	label string
	value string
}

type note struct {
	text   string
	bold   bool
	italic bool
}

var signatories = []string{"Junior Engineer", "Assistant Engineer", "Executive Engineer"}

const certificateText = "The measurements on which these entries are based were made and the work " +
	"has been executed according to the specifications and conditions of the contract."

var firstPageColumns = []column{
	{"Unit", 2, align.Center},
	{"Quantity executed since last certificate", 2, align.Right},
	{"Quantity executed upto date as per MB", 2, align.Right},
	{"S. No.", 1, align.Center},
	{"Item of Work", 7, align.Left},
	{"Rate", 2, align.Right},
	{"Upto date Amount", 3, align.Right},
	{"Amount since previous bill", 3, align.Right},
	{"Remarks", 2, align.Left},
}

var deviationColumns = []column{
	{"S. No.", 1, align.Center},
	{"Description", 5, align.Left},
	{"Unit", 1, align.Center},
	{"Qty as per Work Order", 2, align.Right},
	{"Rate", 2, align.Right},
	{"Amt as per Work Order", 2, align.Right},
	{"Qty Executed", 2, align.Right},
	{"Amt as per Executed", 2, align.Right},
	{"Excess Qty", 1, align.Right},
	{"Excess Amt", 2, align.Right},
	{"Saving Qty", 1, align.Right},
	{"Saving Amt", 2, align.Right},
	{"Remarks", 1, align.Left},
}

var extraItemsColumns = []column{
	{"S. No.", 2, align.Center},
	{"Remark", 3, align.Left},
	{"Description", 8, align.Left},
	{"Quantity", 2, align.Right},
	{"Unit", 2, align.Center},
	{"Rate", 3, align.Right},
	{"Amount", 4, align.Right},
}

func firstPageStatement(fp bill.FirstPage) statement {
	st := statement{title: "FIRST & FINAL BILL", columns: firstPageColumns}
	for _, h := range fp.Header {
		if line := joinNonEmpty(h); line != "" {
			st.header = append(st.header, line)
		}
	}
	for _, it := range fp.Items {
		st.rows = append(st.rows, statementRow{
			values: []string{
				it.Unit,
				optQty(it.QuantitySinceLast),
				optQty(it.QuantityUptoDate),
				it.SerialNo,
				it.Description,
				optQty(it.Rate),
				optAmount(it.Amount),
				optAmount(it.AmountPrevious),
				it.Remark,
			},
			bold: it.IsDivider || it.Bold,
		})
	}

	t := fp.Totals
	st.summary = []summaryLine{
		{"Grand Total", FormatRupees(float64(t.GrandTotal))},
		{premiumLabel(t.Premium.PremiumTerms), FormatRupees(float64(t.Premium.Amount))},
		{"Payable Amount", FormatRupees(float64(t.Payable))},
	}
	if t.LastBillAmount > 0 {
		st.summary = append(st.summary,
			summaryLine{"Less Amount Paid vide Last Bill", FormatRupees(t.LastBillAmount)},
			summaryLine{"Net Payable Amount", FormatRupees(float64(t.NetPayable))},
		)
	}
	st.summary = append(st.summary, summaryLine{"Sum of Extra Items (with premium)", FormatRupees(float64(t.ExtraItemsSum))})
	return st
}

func deviationStatement(dev bill.Deviation) statement {
	st := statement{title: "DEVIATION STATEMENT", landscape: true, columns: deviationColumns}
	for _, it := range dev.Items {
		st.rows = append(st.rows, statementRow{
			values: []string{
				it.SerialNo,
				it.Description,
				it.Unit,
				optQty(it.QtyWO),
				optQty(it.Rate),
				optAmount(it.AmtWO),
				optQty(it.QtyBill),
				optAmount(it.AmtBill),
				optQty(it.ExcessQty),
				optAmount(it.ExcessAmt),
				optQty(it.SavingQty),
				optAmount(it.SavingAmt),
				it.Remark,
			},
			bold: it.IsDivider,
		})
	}

	s := dev.Summary
	total := func(label string, f, h, j, l int64) statementRow {
		return statementRow{values: []string{
			"", label, "", "", "",
			FormatAmount(f), "", FormatAmount(h), "", FormatAmount(j), "", FormatAmount(l), "",
		}, bold: true}
	}
	sign := "Add"
	if s.Premium.Type == bill.PremiumBelow {
		sign = "Deduct"
	}
	st.rows = append(st.rows,
		total("Total", s.WorkOrderTotal, s.ExecutedTotal, s.OverallExcess, s.OverallSaving),
		total(fmt.Sprintf("%s %s", sign, premiumLabel(s.Premium)),
			s.TenderPremiumF, s.TenderPremiumH, s.TenderPremiumJ, s.TenderPremiumL),
		total("Grand Total", s.GrandTotalF, s.GrandTotalH, s.GrandTotalJ, s.GrandTotalL),
	)
	st.notes = []note{{text: overallDeviationText(s), bold: true}}
	return st
}

func extraItemsStatement(ex bill.ExtraItems) statement {
	st := statement{title: "EXTRA ITEMS", columns: extraItemsColumns}
	var total int64
	for _, it := range ex.Items {
		total += it.Amount.Or(0)
		st.rows = append(st.rows, statementRow{
			values: []string{
				it.SerialNo,
				it.Remark,
				it.Description,
				optQty(it.Quantity),
				it.Unit,
				optQty(it.Rate),
				optAmount(it.Amount),
			},
			bold: it.Bold,
		})
	}
	st.summary = []summaryLine{{"Total", FormatRupees(float64(total))}}
	return st
}

func lastPageStatement(lp bill.LastPage) statement {
	return statement{
		title:   "CERTIFICATE AND SIGNATURES",
		summary: []summaryLine{{"Payable Amount", FormatRupees(float64(lp.PayableAmount))}},
		notes: []note{
			{text: certificateText},
			{text: numwords.Rupees(lp.AmountWords), bold: true},
		},
		signed: true,
	}
}

func noteSheetStatement(ns bill.NoteSheet) statement {
	st := statement{title: "NOTE SHEET"}
	if len(ns.Notes) == 0 {
		st.notes = []note{{text: "No notes recorded.", italic: true}}
	}
	for i, n := range ns.Notes {
		st.notes = append(st.notes, note{text: fmt.Sprintf("%d. %s", i+1, n)})
	}
	return st
}

func alignName(a align.Type) string {
	switch a {
	case align.Right:
		return "right"
	case align.Center:
		return "center"
	}
	return "left"
}
