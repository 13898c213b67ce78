package render

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"

	"billgen/internal/bill"
	"billgen/internal/csvexport"
	"billgen/internal/domain"
)

// Document is one rendered output of a bill.
type Document struct {
	Kind        domain.DocumentKind
	FileName    string
	ContentType string
	Data        []byte
}

func newDocumentOf(kind domain.DocumentKind, data []byte) *Document {
	info := domain.DocumentKinds[kind]
	return &Document{Kind: kind, FileName: info.FileName, ContentType: info.ContentType, Data: data}
}

// statementKinds are the single-statement PDFs in combined document order.
var statementKinds = []domain.DocumentKind{
	domain.DocumentFirstPage,
	domain.DocumentDeviation,
	domain.DocumentExtraItems,
	domain.DocumentNoteSheet,
	domain.DocumentLastPage,
}

type statementFunc func(*bill.Result) statement

var (
	firstPageOf  statementFunc = func(r *bill.Result) statement { return firstPageStatement(r.FirstPage) }
	deviationOf  statementFunc = func(r *bill.Result) statement { return deviationStatement(r.Deviation) }
	extraItemsOf statementFunc = func(r *bill.Result) statement { return extraItemsStatement(r.ExtraItems) }
	lastPageOf   statementFunc = func(r *bill.Result) statement { return lastPageStatement(r.LastPage) }
	noteSheetOf  statementFunc = func(r *bill.Result) statement { return noteSheetStatement(r.NoteSheet) }
)

// htmlKinds and docxKinds list the statement pages and Word files in
// document order.
var (
	htmlKinds = []domain.DocumentKind{
		domain.DocumentFirstPageHTML,
		domain.DocumentDeviationHTML,
		domain.DocumentExtraItemsHTML,
		domain.DocumentNoteSheetHTML,
		domain.DocumentLastPageHTML,
	}
	docxKinds = []domain.DocumentKind{
		domain.DocumentFirstPageDOCX,
		domain.DocumentDeviationDOCX,
		domain.DocumentExtraItemsDOCX,
		domain.DocumentNoteSheetDOCX,
		domain.DocumentLastPageDOCX,
	}

	htmlStatements = map[domain.DocumentKind]statementFunc{
		domain.DocumentFirstPageHTML:  firstPageOf,
		domain.DocumentDeviationHTML:  deviationOf,
		domain.DocumentExtraItemsHTML: extraItemsOf,
		domain.DocumentLastPageHTML:   lastPageOf,
		domain.DocumentNoteSheetHTML:  noteSheetOf,
	}
	docxStatements = map[domain.DocumentKind]statementFunc{
		domain.DocumentFirstPageDOCX:  firstPageOf,
		domain.DocumentDeviationDOCX:  deviationOf,
		domain.DocumentExtraItemsDOCX: extraItemsOf,
		domain.DocumentLastPageDOCX:   lastPageOf,
		domain.DocumentNoteSheetDOCX:  noteSheetOf,
	}
)

// extraKinds are rendered after the PDFs, each independently.
var extraKinds = append(append([]domain.DocumentKind{domain.DocumentWorkbook, domain.DocumentCSV}, htmlKinds...), docxKinds...)

// bundleKinds are the files placed in the zip bundle.
var bundleKinds = append(append([]domain.DocumentKind{domain.DocumentCombinedPDF}, statementKinds...), extraKinds...)

// Render produces one document of the given kind.
func Render(res *bill.Result, meta Meta, kind domain.DocumentKind) (*Document, error) {
	if res == nil {
		return nil, fmt.Errorf("render.Render: nil result")
	}

	var (
		data []byte
		err  error
	)
	if fn, ok := htmlStatements[kind]; ok {
		data, err = statementHTML(context.Background(), fn(res), meta)
	} else if fn, ok := docxStatements[kind]; ok {
		data, err = statementDOCX(fn(res), meta)
	} else {
		data, err = renderKind(res, meta, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("render.Render %s: %w", kind, err)
	}
	return newDocumentOf(kind, data), nil
}

func renderKind(res *bill.Result, meta Meta, kind domain.DocumentKind) (data []byte, err error) {
	switch kind {
	case domain.DocumentFirstPage:
		data, err = FirstPagePDF(res.FirstPage, meta)
	case domain.DocumentDeviation:
		data, err = DeviationPDF(res.Deviation, meta)
	case domain.DocumentExtraItems:
		data, err = ExtraItemsPDF(res.ExtraItems, meta)
	case domain.DocumentLastPage:
		data, err = LastPagePDF(res.LastPage, meta)
	case domain.DocumentNoteSheet:
		data, err = NoteSheetPDF(res.NoteSheet, meta)
	case domain.DocumentCombinedPDF:
		data, err = combinedPDF(res, meta)
	case domain.DocumentWorkbook:
		data, err = XLSX(res, meta)
	case domain.DocumentCSV:
		var buf bytes.Buffer
		err = csvexport.WriteDeviation(&buf, res.Deviation)
		data = buf.Bytes()
	case domain.DocumentBundle:
		docs, rerr := All(res, meta)
		if rerr != nil {
			return nil, rerr
		}
		data, err = Bundle(docs)
	default:
		err = fmt.Errorf("%w: %q", domain.ErrInvalidDocumentKind, kind)
	}
	return data, err
}

func combinedPDF(res *bill.Result, meta Meta) ([]byte, error) {
	parts := make([][]byte, 0, len(statementKinds))
	for _, kind := range statementKinds {
		doc, err := Render(res, meta, kind)
		if err != nil {
			return nil, err
		}
		parts = append(parts, doc.Data)
	}
	return MergePDFs(parts...)
}

// All renders every document that goes into the bundle. The statement PDFs
// are rendered once and reused for the combined PDF.
func All(res *bill.Result, meta Meta) ([]*Document, error) {
	if res == nil {
		return nil, fmt.Errorf("render.All: nil result")
	}
	docs := make([]*Document, 0, len(bundleKinds))
	var parts [][]byte
	for _, kind := range statementKinds {
		doc, err := Render(res, meta, kind)
		if err != nil {
			return nil, err
		}
		parts = append(parts, doc.Data)
		docs = append(docs, doc)
	}

	merged, err := MergePDFs(parts...)
	if err != nil {
		return nil, err
	}
	docs = append([]*Document{newDocumentOf(domain.DocumentCombinedPDF, merged)}, docs...)

	for _, kind := range extraKinds {
		doc, err := Render(res, meta, kind)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Bundle zips documents under their file names.
func Bundle(docs []*Document) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, d := range docs {
		w, err := zw.Create(d.FileName)
		if err != nil {
			return nil, fmt.Errorf("render.Bundle: %w", err)
		}
		if _, err := w.Write(d.Data); err != nil {
			return nil, fmt.Errorf("render.Bundle: %w", err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("render.Bundle: %w", err)
	}
	return buf.Bytes(), nil
}
