package workbook

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"billgen/internal/bill"
)

type xlsxSource struct {
	f       *excelize.File
	dateFmt map[int]bool
}

func openXLSX(r io.Reader) (*xlsxSource, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	return &xlsxSource{f: f, dateFmt: make(map[int]bool)}, nil
}

func (s *xlsxSource) SheetNames() []string { return s.f.GetSheetList() }
func (s *xlsxSource) Close() error         { return s.f.Close() }

func (s *xlsxSource) Rows(sheet string) ([][]bill.Cell, error) {
	raw, err := s.f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	out := make([][]bill.Cell, len(raw))
	for r, row := range raw {
		out[r] = make([]bill.Cell, len(row))
		for c, value := range row {
			if value == "" {
				continue
			}
			axis, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			out[r][c] = s.cell(sheet, axis, value)
		}
	}
	return out, nil
}

func (s *xlsxSource) cell(sheet, axis, value string) bill.Cell {
	typ, err := s.f.GetCellType(sheet, axis)
	if err != nil {
		return bill.TextCell(value)
	}
	switch typ {
	case excelize.CellTypeBool:
		return bill.BoolCell(value == "1" || strings.EqualFold(value, "true"))
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeError:
		return bill.TextCell(value)
	case excelize.CellTypeDate:
		if t, err := time.Parse(time.RFC3339, value); err == nil {
			return bill.DateCell(t)
		}
		return bill.TextCell(value)
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return bill.TextCell(value)
	}
	if s.isDateStyled(sheet, axis) {
		if t, err := excelize.ExcelDateToTime(f, false); err == nil {
			return bill.DateCell(t)
		}
	}
	return bill.NumberCell(f)
}

func (s *xlsxSource) isDateStyled(sheet, axis string) bool {
	idx, err := s.f.GetCellStyle(sheet, axis)
	if err != nil || idx == 0 {
		return false
	}
	if known, ok := s.dateFmt[idx]; ok {
		return known
	}
	style, err := s.f.GetStyle(idx)
	isDate := err == nil && style != nil && isDateFormat(style.NumFmt, style.CustomNumFmt)
	s.dateFmt[idx] = isDate
	return isDate
}

// isDateFormat reports whether a number format renders a calendar date.
// Built-in ids follow ECMA-376 18.8.30 plus the CJK date ids.
func isDateFormat(id int, custom *string) bool {
	if custom != nil && *custom != "" {
		return customFormatHasDate(*custom)
	}
	switch {
	case id >= 14 && id <= 17, id == 22:
		return true
	case id >= 27 && id <= 36, id >= 50 && id <= 58:
		return true
	}
	return false
}

func customFormatHasDate(format string) bool {
	var b strings.Builder
	inQuote, inBracket := false, false
	for _, r := range format {
		switch {
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[':
			inBracket = true
		case r == ']':
			inBracket = false
		case inBracket:
		default:
			b.WriteRune(r)
		}
	}
	plain := strings.ToLower(b.String())
	return strings.ContainsAny(plain, "dy")
}
