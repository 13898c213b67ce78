package render

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"billgen/internal/bill"
	"billgen/internal/numwords"
)

// Sheet names of the exported workbook.
const (
	SheetFirstPage  = "First Page"
	SheetDeviation  = "Deviation"
	SheetExtraItems = "Extra Items"
	SheetLastPage   = "Last Page"
)

type styles struct {
	title, header, body, bold, label int
}

func newStyles(f *excelize.File) (*styles, error) {
	var s styles
	var err error
	if s.title, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}}); err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}
	s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 10},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
			WrapText:   true,
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	if s.body, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Size: 10}, Border: thinBorders()}); err != nil {
		return nil, fmt.Errorf("create body style: %w", err)
	}
	s.bold, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 10},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"#EBEBEB"}, Pattern: 1},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create bold style: %w", err)
	}
	s.label, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return nil, fmt.Errorf("create label style: %w", err)
	}
	return &s, nil
}

// sheetWriter appends rows to one worksheet.
type sheetWriter struct {
	f      *excelize.File
	name   string
	styles *styles
	row    int
	width  int
	err    error
}

func (w *sheetWriter) put(values []any, style int) {
	if w.err != nil {
		return
	}
	w.row++
	start, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetSheetRow(w.name, start, &values); err != nil {
		w.err = err
		return
	}
	if style == 0 {
		return
	}
	n := max(len(values), w.width)
	end, err := excelize.CoordinatesToCellName(n, w.row)
	if err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetCellStyle(w.name, start, end, style)
}

func (w *sheetWriter) title(s string) {
	w.put([]any{s}, w.styles.title)
}

func (w *sheetWriter) blank() { w.row++ }

func (w *sheetWriter) header(titles []string, widths []float64) {
	values := make([]any, len(titles))
	for i, t := range titles {
		values[i] = t
	}
	w.width = len(titles)
	for i, width := range widths {
		if w.err != nil {
			return
		}
		c, _ := excelize.ColumnNumberToName(i + 1)
		w.err = w.f.SetColWidth(w.name, c, c, width)
	}
	w.put(values, w.styles.header)
}

func (w *sheetWriter) summary(label string, value any) {
	w.put([]any{nil, label, value}, w.styles.label)
}

// XLSX exports every statement of a result to one workbook.
func XLSX(res *bill.Result, meta Meta) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	st, err := newStyles(f)
	if err != nil {
		return nil, err
	}

	if err := f.SetSheetName(f.GetSheetName(0), SheetFirstPage); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}
	for _, name := range []string{SheetDeviation, SheetExtraItems, SheetLastPage} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	writers := []func(*sheetWriter){
		func(w *sheetWriter) { writeFirstPage(w, res.FirstPage, meta) },
		func(w *sheetWriter) { writeDeviation(w, res.Deviation, meta) },
		func(w *sheetWriter) { writeExtraItems(w, res.ExtraItems, meta) },
		func(w *sheetWriter) { writeLastPage(w, res.LastPage, meta) },
	}
	for i, name := range []string{SheetFirstPage, SheetDeviation, SheetExtraItems, SheetLastPage} {
		w := &sheetWriter{f: f, name: name, styles: st}
		writers[i](w)
		if w.err != nil {
			return nil, fmt.Errorf("write sheet %s: %w", name, w.err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

func writeFirstPage(w *sheetWriter, fp bill.FirstPage, meta Meta) {
	w.title(sanitizeExcelCell(meta.Title))
	for _, h := range fp.Header {
		values := make([]any, len(h))
		for i, c := range h {
			values[i] = sanitizeExcelCell(c)
		}
		w.put(values, 0)
	}
	w.blank()

	titles := make([]string, len(firstPageColumns))
	for i, c := range firstPageColumns {
		titles[i] = c.title
	}
	w.header(titles, []float64{8, 14, 14, 8, 45, 12, 16, 16, 14})
	for _, it := range fp.Items {
		style := w.styles.body
		if it.IsDivider || it.Bold {
			style = w.styles.bold
		}
		w.put([]any{
			sanitizeExcelCell(it.Unit),
			cellValue(it.QuantitySinceLast),
			cellValue(it.QuantityUptoDate),
			sanitizeExcelCell(it.SerialNo),
			sanitizeExcelCell(it.Description),
			cellValue(it.Rate),
			cellValue(it.Amount),
			cellValue(it.AmountPrevious),
			sanitizeExcelCell(it.Remark),
		}, style)
	}

	t := fp.Totals
	w.blank()
	w.summary("Grand Total", t.GrandTotal)
	w.summary(premiumLabel(t.Premium.PremiumTerms), t.Premium.Amount)
	w.summary("Payable Amount", t.Payable)
	if t.LastBillAmount > 0 {
		w.summary("Less Amount Paid vide Last Bill", t.LastBillAmount)
		w.summary("Net Payable Amount", t.NetPayable)
	}
	w.summary("Sum of Extra Items (with premium)", t.ExtraItemsSum)
}

func writeDeviation(w *sheetWriter, dev bill.Deviation, meta Meta) {
	w.title("Deviation Statement " + sanitizeExcelCell(meta.Title))
	w.blank()

	titles := make([]string, len(deviationColumns))
	for i, c := range deviationColumns {
		titles[i] = c.title
	}
	w.header(titles, []float64{8, 40, 8, 12, 12, 14, 12, 14, 10, 14, 10, 14, 14})
	for _, it := range dev.Items {
		style := w.styles.body
		if it.IsDivider {
			style = w.styles.bold
		}
		w.put([]any{
			sanitizeExcelCell(it.SerialNo),
			sanitizeExcelCell(it.Description),
			sanitizeExcelCell(it.Unit),
			cellValue(it.QtyWO),
			cellValue(it.Rate),
			cellValue(it.AmtWO),
			cellValue(it.QtyBill),
			cellValue(it.AmtBill),
			cellValue(it.ExcessQty),
			cellValue(it.ExcessAmt),
			cellValue(it.SavingQty),
			cellValue(it.SavingAmt),
			sanitizeExcelCell(it.Remark),
		}, style)
	}

	s := dev.Summary
	total := func(label string, f, h, j, l int64) {
		w.put([]any{nil, label, nil, nil, nil, f, nil, h, nil, j, nil, l, nil}, w.styles.bold)
	}
	total("Total", s.WorkOrderTotal, s.ExecutedTotal, s.OverallExcess, s.OverallSaving)
	total(premiumLabel(s.Premium), s.TenderPremiumF, s.TenderPremiumH, s.TenderPremiumJ, s.TenderPremiumL)
	total("Grand Total", s.GrandTotalF, s.GrandTotalH, s.GrandTotalJ, s.GrandTotalL)
	w.blank()
	w.put([]any{nil, overallDeviationText(s)}, w.styles.label)
}

func writeExtraItems(w *sheetWriter, ex bill.ExtraItems, meta Meta) {
	w.title("Extra Items " + sanitizeExcelCell(meta.Title))
	w.blank()

	titles := make([]string, len(extraItemsColumns))
	for i, c := range extraItemsColumns {
		titles[i] = c.title
	}
	w.header(titles, []float64{8, 16, 45, 12, 8, 12, 16})
	for _, it := range ex.Items {
		style := w.styles.body
		if it.Bold {
			style = w.styles.bold
		}
		w.put([]any{
			sanitizeExcelCell(it.SerialNo),
			sanitizeExcelCell(it.Remark),
			sanitizeExcelCell(it.Description),
			cellValue(it.Quantity),
			sanitizeExcelCell(it.Unit),
			cellValue(it.Rate),
			cellValue(it.Amount),
		}, style)
	}
}

func writeLastPage(w *sheetWriter, lp bill.LastPage, meta Meta) {
	w.title("Certificate " + sanitizeExcelCell(meta.Title))
	w.blank()
	w.summary("Payable Amount", lp.PayableAmount)
	w.summary("In words", numwords.Rupees(lp.AmountWords))
}

// cellValue writes absent values as blank cells.
func cellValue[T bill.Number](v bill.Opt[T]) any {
	x, ok := v.Get()
	if !ok {
		return nil
	}
	return x
}

// sanitizeExcelCell prefixes formula-like text with a quote so it is never
// evaluated.
func sanitizeExcelCell(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{Type: side, Color: "#000000", Style: 1}
	}
	return borders
}
