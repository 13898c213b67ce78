package service_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"billgen/internal/bill"
	"billgen/internal/workbook"
)

// testWorkbook returns an xlsx bill with one work order item (100 Cum @ 150,
// 95 executed) and one extra item (10 Rm @ 160). At 5% above the payable
// is 16642.
func testWorkbook(t *testing.T) []byte {
	t.Helper()
	return buildWorkbook(t, map[string]map[string]any{
		workbook.SheetWorkOrder: {
			"A1":  "Name of Work",
			"B1":  "Road repair",
			"A22": "1.10",
			"B22": "Earthwork",
			"C22": "Cum",
			"D22": 100,
			"E22": 150,
		},
		workbook.SheetBillQuantity: {
			"A22": "1.10",
			"D22": 95,
		},
		workbook.SheetExtraItems: {
			"A7": "E1",
			"C7": "Shoring",
			"D7": 10,
			"E7": "Rm",
			"F7": 160,
		},
	})
}

const testPayable = int64(16642)

func buildWorkbook(t *testing.T, sheets map[string]map[string]any) []byte {
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

func testEngine(t *testing.T) *bill.Engine {
	t.Helper()
	e, err := bill.NewEngine()
	require.NoError(t, err)
	return e
}
