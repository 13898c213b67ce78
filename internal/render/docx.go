package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fumiama/go-docx"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
)

// Run sizes are half-points.
const (
	docxTitleSize = "28"
	docxBodySize  = "20"
	docxTableSize = "16"
)

func docxJustification(a align.Type) string {
	switch a {
	case align.Right:
		return "end"
	case align.Center:
		return "center"
	}
	return "start"
}

// statementDOCX renders a statement as an editable Word document.
func statementDOCX(st statement, meta Meta) ([]byte, error) {
	doc := docx.New().WithDefaultTheme()

	doc.AddParagraph().Justification("center").AddText(st.title).Bold().Size(docxTitleSize)
	doc.AddParagraph().AddText(meta.Title + "\tDate: " + meta.date()).Size(docxBodySize).Color("787878")
	for _, line := range st.header {
		doc.AddParagraph().AddText(line).Size(docxBodySize)
	}

	if len(st.columns) > 0 {
		tbl := doc.AddTable(len(st.rows)+1, len(st.columns), 0, nil)
		for i, c := range st.columns {
			tbl.TableRows[0].TableCells[i].Shade("clear", "auto", "D9D9D9").
				AddParagraph().Justification("center").
				AddText(c.title).Bold().Size(docxTableSize)
		}
		for r, sr := range st.rows {
			for i, c := range st.columns {
				run := tbl.TableRows[r+1].TableCells[i].
					AddParagraph().Justification(docxJustification(c.align)).
					AddText(sr.values[i]).Size(docxTableSize)
				if sr.bold {
					run.Bold()
				}
			}
		}
	}

	if len(st.summary) > 0 {
		tbl := doc.AddTable(len(st.summary), 2, 0, nil)
		for i, l := range st.summary {
			tbl.TableRows[i].TableCells[0].AddParagraph().Justification("end").
				AddText(l.label).Bold().Size(docxBodySize)
			tbl.TableRows[i].TableCells[1].AddParagraph().Justification("end").
				AddText(l.value).Bold().Size(docxBodySize)
		}
	}

	for _, n := range st.notes {
		run := doc.AddParagraph().AddText(n.text).Size(docxBodySize)
		if n.bold {
			run.Bold()
		}
		if n.italic {
			run.Italic()
		}
	}
	if st.signed {
		doc.AddParagraph()
		doc.AddParagraph().AddText(strings.Join(signatories, "\t\t")).Size(docxBodySize)
	}
	if st.landscape {
		doc.Document.Body.Items = append(doc.Document.Body.Items, &docx.SectPr{
			PgSz: &docx.PgSz{W: 16838, H: 11906},
		})
	} else {
		doc.WithA4Page()
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate %s DOCX: %w", strings.ToLower(st.title), err)
	}
	return buf.Bytes(), nil
}
