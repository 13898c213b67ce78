package workbook

import (
	"fmt"
	"io"
	"time"

	"github.com/extrame/xls"

	"billgen/internal/bill"
)

type xlsSource struct {
	wb     *xls.WorkBook
	sheets map[string]*xls.WorkSheet
	names  []string
}

func openXLS(r io.ReadSeeker) (*xlsSource, error) {
	wb, err := xls.OpenReader(r, "utf-8")
	if err != nil {
		return nil, err
	}
	if wb.NumSheets() == 0 {
		return nil, fmt.Errorf("no worksheet found")
	}
	s := &xlsSource{wb: wb, sheets: make(map[string]*xls.WorkSheet)}
	for i := 0; i < wb.NumSheets(); i++ {
		ws := wb.GetSheet(i)
		if ws == nil {
			continue
		}
		s.names = append(s.names, ws.Name)
		s.sheets[ws.Name] = ws
	}
	return s, nil
}

func (s *xlsSource) SheetNames() []string { return s.names }
func (s *xlsSource) Close() error         { return nil }

func (s *xlsSource) Rows(sheet string) ([][]bill.Cell, error) {
	ws, ok := s.sheets[sheet]
	if !ok {
		return nil, fmt.Errorf("sheet %q not found", sheet)
	}
	// MaxRow is the last row index, not a count.
	out := make([][]bill.Cell, int(ws.MaxRow)+1)
	for i := range out {
		row := safeRow(ws, i)
		if row == nil {
			continue
		}
		last := row.LastCol()
		cells := make([]bill.Cell, last+1)
		for c := row.FirstCol(); c <= last; c++ {
			cells[c] = xlsCell(row.Col(c))
		}
		out[i] = cells
	}
	return out, nil
}

// safeRow returns nil for rows absent from the sheet; the library
// dereferences a nil row in that case.
func safeRow(ws *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return ws.Row(i)
}

// xlsCell classifies a cell string. The library renders dates with custom
// formats as RFC 3339; everything else stays text and is coerced downstream.
func xlsCell(value string) bill.Cell {
	if value == "" {
		return bill.EmptyCell()
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return bill.DateCell(t)
	}
	return bill.TextCell(value)
}
