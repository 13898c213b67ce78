package service

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutputNames(t *testing.T) {
	root := filepath.Join("data", "bills")
	files := []string{
		filepath.Join(root, "Road Repair.xlsx"),
		filepath.Join(root, "bill.xls"),
		filepath.Join(root, "bill.xlsx"),
		filepath.Join(root, "bill.xlsm"),
		filepath.Join(root, "ward 4", "bill.xlsx"),
		filepath.Join(root, "~~~.xlsx"),
	}

	assert.Equal(t, []string{
		"road_repair",
		"bill",
		"bill_xlsx",
		"bill_xlsm",
		"ward_4_bill",
		"bill_2",
	}, outputNames(root, files))
}
