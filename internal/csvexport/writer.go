package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"billgen/internal/bill"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the deviation statement header row (13 columns).
var columns = []string{
	"S. No.",
	"Description",
	"Unit",
	"Qty as per Work Order",
	"Rate",
	"Amt as per Work Order",
	"Qty Executed",
	"Amt as per Executed",
	"Excess Qty",
	"Excess Amt",
	"Saving Qty",
	"Saving Amt",
	"Remarks",
}

// Writer wraps csv.Writer for exporting deviation statements as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the 13-column header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteItems writes one row per deviation line item.
func (w *Writer) WriteItems(items []bill.DeviationLineItem) error {
	for i := range items {
		if err := w.csv.Write(itemToRow(&items[i])); err != nil {
			return err
		}
	}
	return nil
}

// WriteSummary writes the total, premium and grand total rows followed by
// the overall excess or saving line.
func (w *Writer) WriteSummary(s bill.DeviationSummary) error {
	premium := fmt.Sprintf("Tender Premium @ %s%% %s",
		strconv.FormatFloat(s.Premium.Percent*100, 'f', 2, 64), s.Premium.Type)
	rows := [][]string{
		summaryRow("Total", s.WorkOrderTotal, s.ExecutedTotal, s.OverallExcess, s.OverallSaving),
		summaryRow(premium, s.TenderPremiumF, s.TenderPremiumH, s.TenderPremiumJ, s.TenderPremiumL),
		summaryRow("Grand Total", s.GrandTotalF, s.GrandTotalH, s.GrandTotalJ, s.GrandTotalL),
	}
	kind := "Excess"
	if s.IsSaving {
		kind = "Saving"
	}
	overall := make([]string, len(columns))
	overall[1] = "Overall " + kind
	overall[5] = strconv.FormatInt(s.NetDifference, 10)
	overall[6] = strconv.FormatFloat(s.PercentageDeviation, 'f', 2, 64) + "%"
	rows = append(rows, overall)
	return w.csv.WriteAll(rows)
}

// WriteDeviation writes a complete deviation statement: BOM, header, items
// and summary. The writer is flushed.
func WriteDeviation(out io.Writer, dev bill.Deviation) error {
	if _, err := out.Write(BOM); err != nil {
		return err
	}
	w := NewWriter(out)
	if err := w.WriteHeader(); err != nil {
		return err
	}
	if err := w.WriteItems(dev.Items); err != nil {
		return err
	}
	if err := w.WriteSummary(dev.Summary); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// itemToRow converts one line item to a 13-element string slice. Absent
// values are left empty.
func itemToRow(it *bill.DeviationLineItem) []string {
	return []string{
		it.SerialNo,
		it.Description,
		it.Unit,
		it.QtyWO.Format(),
		it.Rate.Format(),
		it.AmtWO.Format(),
		it.QtyBill.Format(),
		it.AmtBill.Format(),
		it.ExcessQty.Format(),
		it.ExcessAmt.Format(),
		it.SavingQty.Format(),
		it.SavingAmt.Format(),
		it.Remark,
	}
}

func summaryRow(label string, f, h, j, l int64) []string {
	row := make([]string, len(columns))
	row[1] = label
	row[5] = strconv.FormatInt(f, 10)
	row[7] = strconv.FormatInt(h, 10)
	row[9] = strconv.FormatInt(j, 10)
	row[11] = strconv.FormatInt(l, 10)
	return row
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a workbook name for use in Content-Disposition and
// output directory names. Replaces non-alphanumeric chars (except - _) with _,
// collapses consecutive underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for Content-Disposition header.
// Format: {sanitized_workbook_stem}_{YYYY-MM-DD}_{suffix}
func BuildFilename(workbookName, suffix string) string {
	stem := strings.TrimSuffix(workbookName, filepath.Ext(workbookName))
	sanitized := SanitizeFilename(stem)
	if sanitized == "" {
		sanitized = "bill"
	}
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s_%s", sanitized, date, suffix)
}
