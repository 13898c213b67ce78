package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"billgen/internal/bill"
)

// gridSize is the column grid used by every statement. The deviation
// statement has thirteen columns, more than maroto's default twelve.
const gridSize = 24

// Meta describes the bill a document belongs to.
type Meta struct {
	Title       string
	GeneratedAt time.Time
}

func (m Meta) date() string {
	if m.GeneratedAt.IsZero() {
		return time.Now().Format(bill.DateLayout)
	}
	return m.GeneratedAt.Format(bill.DateLayout)
}

var (
	headerBg   = &props.Color{Red: 33, Green: 37, Blue: 41}
	dividerBg  = &props.Color{Red: 235, Green: 235, Blue: 235}
	summaryBg  = &props.Color{Red: 240, Green: 240, Blue: 240}
	mutedColor = &props.Color{Red: 120, Green: 120, Blue: 120}

	headerText = props.Text{
		Size:  7,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	bodyText  = props.Text{Size: 7, Align: align.Center}
	labelText = props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right}
)

func newDocument(o orientation.Type) core.Maroto {
	cfg := config.NewBuilder().
		WithOrientation(o).
		WithPageSize(pagesize.A4).
		WithMaxGridSize(gridSize).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   mutedColor,
		}).
		Build()
	return maroto.New(cfg)
}

func generate(m core.Maroto, name string) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s PDF: %w", name, err)
	}
	return doc.GetBytes(), nil
}

// column is one table column: its heading and width on the grid.
type column struct {
	title string
	size  int
	align align.Type
}

func addTitle(m core.Maroto, title string, meta Meta) {
	m.AddRows(
		row.New(10).Add(
			col.New(gridSize).Add(
				text.New(title, props.Text{Size: 14, Style: fontstyle.Bold, Align: align.Center}),
			),
		),
		row.New(6).Add(
			col.New(gridSize/2).Add(
				text.New(meta.Title, props.Text{Size: 8, Align: align.Left, Color: mutedColor}),
			),
			col.New(gridSize/2).Add(
				text.New("Date: "+meta.date(), props.Text{Size: 8, Align: align.Right, Color: mutedColor}),
			),
		),
		row.New(3),
	)
}

func addTableHeader(m core.Maroto, cols []column) {
	cell := &props.Cell{BackgroundColor: headerBg}
	r := row.New(12)
	for _, c := range cols {
		r.Add(col.New(c.size).Add(text.New(c.title, headerText)).WithStyle(cell))
	}
	m.AddRows(r)
}

// addTableRow writes values under cols. Bold rows get a shaded background.
func addTableRow(m core.Maroto, cols []column, values []string, bold bool) {
	style := bodyText
	var cell *props.Cell
	if bold {
		style.Style = fontstyle.Bold
		cell = &props.Cell{BackgroundColor: dividerBg}
	}
	r := row.New(7)
	for i, c := range cols {
		s := style
		s.Align = c.align
		cl := col.New(c.size).Add(text.New(values[i], s))
		if cell != nil {
			cl = cl.WithStyle(cell)
		}
		r.Add(cl)
	}
	m.AddRows(r)
}

// addSummaryRow writes a right-aligned label and value pair across the page.
func addSummaryRow(m core.Maroto, label, value string) {
	cell := &props.Cell{BackgroundColor: summaryBg}
	m.AddRows(
		row.New(7).Add(
			col.New(gridSize-6).Add(text.New(label, labelText)).WithStyle(cell),
			col.New(6).Add(text.New(value, labelText)).WithStyle(cell),
		),
	)
}

func addParagraph(m core.Maroto, s string, size float64, style fontstyle.Type) {
	m.AddRows(
		row.New(size + 3).Add(
			col.New(gridSize).Add(text.New(s, props.Text{Size: size, Style: style, Align: align.Left})),
		),
	)
}

// statementPDF lays out a statement: header block, item table, totals,
// notes and, for certificates, the signature line.
func statementPDF(st statement, meta Meta) ([]byte, error) {
	o := orientation.Vertical
	if st.landscape {
		o = orientation.Horizontal
	}
	m := newDocument(o)
	addTitle(m, st.title, meta)

	for _, line := range st.header {
		m.AddRows(row.New(5).Add(
			col.New(gridSize).Add(text.New(line, props.Text{Size: 7, Align: align.Left})),
		))
	}
	if len(st.header) > 0 {
		m.AddRows(row.New(3))
	}

	if len(st.columns) > 0 {
		addTableHeader(m, st.columns)
		for _, r := range st.rows {
			addTableRow(m, st.columns, r.values, r.bold)
		}
	}
	if len(st.summary) > 0 {
		m.AddRows(row.New(4))
		for _, l := range st.summary {
			addSummaryRow(m, l.label, l.value)
		}
	}

	if len(st.notes) > 0 {
		m.AddRows(row.New(4))
	}
	for _, n := range st.notes {
		style := fontstyle.Normal
		switch {
		case n.bold:
			style = fontstyle.Bold
		case n.italic:
			style = fontstyle.Italic
		}
		addParagraph(m, n.text, 9, style)
	}

	if st.signed {
		m.AddRows(row.New(20))
		aligns := []align.Type{align.Left, align.Center, align.Right}
		r := row.New(6)
		for i, s := range signatories {
			r.Add(col.New(gridSize / len(signatories)).Add(text.New(s, props.Text{Size: 8, Align: aligns[i]})))
		}
		m.AddRows(r)
	}

	return generate(m, strings.ToLower(st.title))
}

// FirstPagePDF renders the header block, line items and totals.
func FirstPagePDF(fp bill.FirstPage, meta Meta) ([]byte, error) {
	return statementPDF(firstPageStatement(fp), meta)
}

// DeviationPDF renders the deviation statement in landscape.
func DeviationPDF(dev bill.Deviation, meta Meta) ([]byte, error) {
	return statementPDF(deviationStatement(dev), meta)
}

func overallDeviationText(s bill.DeviationSummary) string {
	kind := "Excess"
	if s.IsSaving {
		kind = "Saving"
	}
	return fmt.Sprintf("Overall %s With Respect to the Work Order Amount %s (%.2f%%)",
		kind, FormatRupees(float64(s.NetDifference)), s.PercentageDeviation)
}

// ExtraItemsPDF renders the standalone extra items statement.
func ExtraItemsPDF(ex bill.ExtraItems, meta Meta) ([]byte, error) {
	return statementPDF(extraItemsStatement(ex), meta)
}

// LastPagePDF renders the payable certificate with the amount in words.
func LastPagePDF(lp bill.LastPage, meta Meta) ([]byte, error) {
	return statementPDF(lastPageStatement(lp), meta)
}

// NoteSheetPDF renders the note sheet. Until notes are captured it is a
// titled page with a placeholder line.
func NoteSheetPDF(ns bill.NoteSheet, meta Meta) ([]byte, error) {
	return statementPDF(noteSheetStatement(ns), meta)
}

func joinNonEmpty(cells []string) string {
	out := ""
	for _, c := range cells {
		if c == "" {
			continue
		}
		if out != "" {
			out += "  "
		}
		out += c
	}
	return out
}
