package workbook

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"billgen/internal/bill"
	"billgen/internal/domain"
)

// buildXLSX writes a workbook with the given sheets; each sheet maps
// 1-based cell names to values.
func buildXLSX(t *testing.T, sheets map[string]map[string]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	first := true
	for name, cells := range sheets {
		if first {
			require.NoError(t, f.SetSheetName("Sheet1", name))
			first = false
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for axis, v := range cells {
			require.NoError(t, f.SetCellValue(name, axis, v))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func standardSheets() map[string]map[string]any {
	return map[string]map[string]any{
		SheetWorkOrder: {
			"A1":  "Name of Work",
			"B1":  "Road repair",
			"B4":  time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			"A22": "1.10",
			"B22": "Earthwork",
			"C22": "Cum",
			"D22": 100,
			"E22": 150,
			"G22": "ok",
		},
		SheetBillQuantity: {
			"A22": "1.10",
			"D22": 95,
		},
		SheetExtraItems: {
			"A1": "Extra Items",
			"A7": "E1",
			"C7": "Shoring",
			"D7": 10,
			"E7": "Rm",
			"F7": 160,
			"H7": true,
		},
	}
}

func TestLoadBytes_XLSX(t *testing.T) {
	wb, err := LoadBytes(buildXLSX(t, standardSheets()), "bill.xlsx")
	require.NoError(t, err)
	assert.ElementsMatch(t, RequiredSheets, wb.Sheets)

	wo, ok := wb.Table(SheetWorkOrder)
	require.True(t, ok)
	assert.Equal(t, 22, wo.Rows())
	assert.Equal(t, bill.CellText, wo.Cell(0, 0).Kind)
	assert.Equal(t, "Road repair", wo.Cell(0, 1).String())
	assert.Equal(t, bill.CellDate, wo.Cell(3, 1).Kind)
	assert.Equal(t, "15-01-2024", wo.Cell(3, 1).String())
	assert.Equal(t, "1.10", wo.Cell(21, 0).String())
	assert.Equal(t, bill.CellNumber, wo.Cell(21, 3).Kind)
	assert.Equal(t, 150.0, wo.Cell(21, 4).Number)
	assert.True(t, wo.Cell(21, 5).IsNull())

	extra, ok := wb.Table(SheetExtraItems)
	require.True(t, ok)
	assert.Equal(t, bill.CellBool, extra.Cell(6, 7).Kind)
	assert.True(t, extra.Cell(6, 7).Bool)
}

func TestLoadBytes_FeedsEngine(t *testing.T) {
	wb, err := LoadBytes(buildXLSX(t, standardSheets()), "bill.xlsx")
	require.NoError(t, err)

	e, err := bill.NewEngine()
	require.NoError(t, err)
	res, err := e.Process(wb.Input(5, bill.PremiumAbove, 0))
	require.NoError(t, err)

	assert.Equal(t, "15-01-2024", res.FirstPage.Header[3][1])
	assert.Equal(t, "1.10", res.FirstPage.Items[0].SerialNo)
	// 14250 + 1600 executed, 5% above.
	assert.Equal(t, int64(15850), res.FirstPage.Totals.GrandTotal)
	assert.Equal(t, int64(16642), res.FirstPage.Totals.Payable)
	assert.Equal(t, int64(15750), res.Deviation.Summary.GrandTotalF)
}

func TestLoadBytes_MissingSheets(t *testing.T) {
	sheets := standardSheets()
	delete(sheets, SheetBillQuantity)
	delete(sheets, SheetExtraItems)

	_, err := LoadBytes(buildXLSX(t, sheets), "bill.xlsx")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingSheets)

	var missing *MissingSheetsError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{SheetBillQuantity, SheetExtraItems}, missing.Missing)
	assert.Equal(t, []string{SheetWorkOrder}, missing.Available)
	assert.Contains(t, err.Error(), "Bill Quantity, Extra Items")
}

func TestLoadBytes_SheetNameMatchIsLenient(t *testing.T) {
	sheets := standardSheets()
	sheets["work order "] = sheets[SheetWorkOrder]
	delete(sheets, SheetWorkOrder)

	wb, err := LoadBytes(buildXLSX(t, sheets), "bill.XLSX")
	require.NoError(t, err)
	wo, ok := wb.Table(SheetWorkOrder)
	require.True(t, ok)
	assert.Equal(t, SheetWorkOrder, wo.Name())
}

func TestLoadBytes_Rejects(t *testing.T) {
	_, err := LoadBytes([]byte("a,b"), "bill.csv")
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)

	_, err = LoadBytes([]byte("not a zip"), "bill.xlsx")
	assert.ErrorIs(t, err, domain.ErrInvalidWorkbook)

	// An xlsx renamed to .xls is caught before parsing.
	_, err = LoadBytes(buildXLSX(t, standardSheets()), "bill.xls")
	assert.ErrorIs(t, err, domain.ErrInvalidWorkbook)
	assert.Contains(t, err.Error(), "not xls")
}

func TestDetectFormat(t *testing.T) {
	for name, want := range map[string]Format{
		"a.xlsx": FormatXLSX,
		"a.XLSM": FormatXLSX,
		"a.xls":  FormatXLS,
	} {
		got, err := DetectFormat(name)
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}
	_, err := DetectFormat("a.ods")
	assert.Error(t, err)
}

func TestTrimTrailingEmpty(t *testing.T) {
	rows := [][]bill.Cell{
		{bill.TextCell("a")},
		{},
		{bill.NumberCell(1)},
		{bill.EmptyCell(), bill.EmptyCell()},
		nil,
	}
	assert.Len(t, trimTrailingEmpty(rows), 3)
	assert.Empty(t, trimTrailingEmpty([][]bill.Cell{{}, {bill.EmptyCell()}}))
}

func TestDateFormats(t *testing.T) {
	dd := "dd-mm-yyyy"
	money := "#,##0.00"
	colored := "[Red]0.00"
	quoted := `0.00 "days"`
	assert.True(t, isDateFormat(0, &dd))
	assert.False(t, isDateFormat(14, &money))
	assert.False(t, isDateFormat(0, &colored))
	assert.False(t, isDateFormat(0, &quoted))
	assert.True(t, isDateFormat(14, nil))
	assert.True(t, isDateFormat(22, nil))
	assert.False(t, isDateFormat(2, nil))
	assert.False(t, isDateFormat(20, nil))
}

func TestXLSCell(t *testing.T) {
	assert.True(t, xlsCell("").IsNull())
	assert.Equal(t, "15-01-2024", xlsCell("2024-01-15T00:00:00Z").String())
	c := xlsCell("1.10")
	assert.Equal(t, bill.CellText, c.Kind)
	assert.Equal(t, "1.10", c.String())
}
