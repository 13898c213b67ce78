package workbook

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"billgen/internal/bill"
	"billgen/internal/domain"
)

// Names of the sheets every bill workbook must contain.
const (
	SheetWorkOrder    = "Work Order"
	SheetBillQuantity = "Bill Quantity"
	SheetExtraItems   = "Extra Items"
)

// RequiredSheets lists the sheets in the order they are reported when missing.
var RequiredSheets = []string{SheetWorkOrder, SheetBillQuantity, SheetExtraItems}

// MissingSheetsError reports required sheets absent from an uploaded workbook.
type MissingSheetsError struct {
	Missing   []string
	Available []string
}

func (e *MissingSheetsError) Error() string {
	return fmt.Sprintf("missing required sheets: %s (found: %s)",
		strings.Join(e.Missing, ", "), strings.Join(e.Available, ", "))
}

func (e *MissingSheetsError) Unwrap() error { return domain.ErrMissingSheets }

// Workbook holds the three bill sheets as read-only tables.
type Workbook struct {
	FileName string
	Sheets   []string
	tables   map[string]*bill.Grid
}

// Table returns the named required sheet.
func (w *Workbook) Table(name string) (*bill.Grid, bool) {
	t, ok := w.tables[name]
	return t, ok
}

// Input assembles an engine input from the workbook's sheets.
func (w *Workbook) Input(premiumPercent float64, premiumType bill.PremiumType, previousBill float64) bill.Input {
	return bill.Input{
		WorkOrder:          w.tables[SheetWorkOrder],
		BillQuantity:       w.tables[SheetBillQuantity],
		ExtraItems:         w.tables[SheetExtraItems],
		PremiumPercent:     premiumPercent,
		PremiumType:        premiumType,
		PreviousBillAmount: previousBill,
	}
}

// Format identifies the container format of an upload.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
)

// DetectFormat maps a file name to a supported spreadsheet format.
func DetectFormat(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".xls":
		return FormatXLS, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedFileType, filepath.Ext(filename))
}

// Load reads a workbook and validates that the required sheets are present.
func Load(r io.Reader, filename string) (*Workbook, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("workbook.Load: reading %s: %w", filename, err)
	}
	return LoadBytes(data, filename)
}

// LoadBytes is Load for an in-memory file.
func LoadBytes(data []byte, filename string) (*Workbook, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, err
	}

	if err := checkContent(data, format); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidWorkbook, filename, err)
	}

	var src source
	switch format {
	case FormatXLS:
		src, err = openXLS(bytes.NewReader(data))
	default:
		src, err = openXLSX(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidWorkbook, filename, err)
	}
	defer src.Close()

	sheets := src.SheetNames()
	resolved := make(map[string]string, len(RequiredSheets))
	var missing []string
	for _, want := range RequiredSheets {
		name, ok := matchSheet(sheets, want)
		if !ok {
			missing = append(missing, want)
			continue
		}
		resolved[want] = name
	}
	if len(missing) > 0 {
		return nil, &MissingSheetsError{Missing: missing, Available: sheets}
	}

	wb := &Workbook{FileName: filename, Sheets: sheets, tables: make(map[string]*bill.Grid, len(resolved))}
	for want, name := range resolved {
		rows, err := src.Rows(name)
		if err != nil {
			return nil, fmt.Errorf("%w: sheet %q: %v", domain.ErrInvalidWorkbook, name, err)
		}
		wb.tables[want] = bill.NewGrid(want, trimTrailingEmpty(rows))
	}
	return wb, nil
}

// checkContent sniffs the container so that a renamed file fails with a
// clear error instead of a parser error: xlsx is a zip archive, xls an OLE
// compound document.
func checkContent(data []byte, format Format) error {
	want := "application/zip"
	if format == FormatXLS {
		want = "application/x-ole-storage"
	}
	detected := mimetype.Detect(data)
	for m := detected; m != nil; m = m.Parent() {
		if m.Is(want) {
			return nil
		}
	}
	return fmt.Errorf("content is %s, not %s", detected.String(), format)
}

// matchSheet prefers an exact name and falls back to a case-insensitive,
// whitespace-trimmed match.
func matchSheet(sheets []string, want string) (string, bool) {
	for _, s := range sheets {
		if s == want {
			return s, true
		}
	}
	for _, s := range sheets {
		if strings.EqualFold(strings.TrimSpace(s), want) {
			return s, true
		}
	}
	return "", false
}

func trimTrailingEmpty(rows [][]bill.Cell) [][]bill.Cell {
	end := len(rows)
	for end > 0 && rowEmpty(rows[end-1]) {
		end--
	}
	return rows[:end]
}

func rowEmpty(row []bill.Cell) bool {
	for _, c := range row {
		if !c.IsNull() {
			return false
		}
	}
	return true
}

// source abstracts the two spreadsheet container formats.
type source interface {
	SheetNames() []string
	Rows(sheet string) ([][]bill.Cell, error)
	Close() error
}
