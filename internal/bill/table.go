package bill

import (
	"math"
	"strconv"
	"time"
)

// DateLayout is the DD-MM-YYYY format used for every date rendered from a sheet.
const DateLayout = "02-01-2006"

// CellKind identifies the type of value held by a spreadsheet cell.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
	CellDate
	CellBool
)

// Cell is a single typed spreadsheet value.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
	Time   time.Time
	Bool   bool
}

func EmptyCell() Cell           { return Cell{} }
func TextCell(s string) Cell    { return Cell{Kind: CellText, Text: s} }
func NumberCell(f float64) Cell { return Cell{Kind: CellNumber, Number: f} }
func DateCell(t time.Time) Cell { return Cell{Kind: CellDate, Time: t} }
func BoolCell(b bool) Cell      { return Cell{Kind: CellBool, Bool: b} }
func (c Cell) IsNull() bool     { return c.Kind == CellEmpty || (c.Kind == CellNumber && math.IsNaN(c.Number)) }
func (c Cell) IsDate() bool     { return c.Kind == CellDate }

// String renders the cell the way it appears in text columns of the output.
// Null cells render as the empty string and dates as DD-MM-YYYY.
func (c Cell) String() string {
	if c.IsNull() {
		return ""
	}
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellDate:
		return c.Time.Format(DateLayout)
	case CellBool:
		if c.Bool {
			return "True"
		}
		return "False"
	}
	return ""
}

// CellOf converts a plain Go value into a Cell. Unknown types become text
// only when they are strings; everything else is treated as empty.
func CellOf(v any) Cell {
	switch x := v.(type) {
	case nil:
		return EmptyCell()
	case Cell:
		return x
	case string:
		return TextCell(x)
	case bool:
		return BoolCell(x)
	case time.Time:
		return DateCell(x)
	case float64:
		return NumberCell(x)
	case float32:
		return NumberCell(float64(x))
	case int:
		return NumberCell(float64(x))
	case int8:
		return NumberCell(float64(x))
	case int16:
		return NumberCell(float64(x))
	case int32:
		return NumberCell(float64(x))
	case int64:
		return NumberCell(float64(x))
	case uint:
		return NumberCell(float64(x))
	case uint8:
		return NumberCell(float64(x))
	case uint16:
		return NumberCell(float64(x))
	case uint32:
		return NumberCell(float64(x))
	case uint64:
		return NumberCell(float64(x))
	}
	return EmptyCell()
}

// Table is a read-only rectangular view over a sheet, addressed by zero-based
// row and column. Reads outside the populated area return an empty cell.
type Table interface {
	Rows() int
	Cols() int
	Cell(row, col int) Cell
}

// Grid is an immutable in-memory Table.
type Grid struct {
	name  string
	cells [][]Cell
	cols  int
}

// NewGrid copies rows into a Grid. Ragged rows are allowed.
func NewGrid(name string, rows [][]Cell) *Grid {
	g := &Grid{name: name, cells: make([][]Cell, len(rows))}
	for i, r := range rows {
		g.cells[i] = append([]Cell(nil), r...)
		if len(r) > g.cols {
			g.cols = len(r)
		}
	}
	return g
}

// GridOf builds a Grid from plain Go values, converting each with CellOf.
func GridOf(name string, rows [][]any) *Grid {
	cells := make([][]Cell, len(rows))
	for i, r := range rows {
		cells[i] = make([]Cell, len(r))
		for j, v := range r {
			cells[i][j] = CellOf(v)
		}
	}
	return NewGrid(name, cells)
}

func (g *Grid) Name() string { return g.name }
func (g *Grid) Rows() int    { return len(g.cells) }
func (g *Grid) Cols() int    { return g.cols }

func (g *Grid) Cell(row, col int) Cell {
	if row < 0 || row >= len(g.cells) || col < 0 || col >= len(g.cells[row]) {
		return EmptyCell()
	}
	return g.cells[row][col]
}
