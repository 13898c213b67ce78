package domain

// BillRunStatus represents the lifecycle of a bill generation run.
type BillRunStatus string

const (
	BillRunStatusProcessing BillRunStatus = "processing"
	BillRunStatusCompleted  BillRunStatus = "completed"
	BillRunStatusFailed     BillRunStatus = "failed"
)

// AllowedExtensions maps workbook file extensions (without dot) to their MIME content type.
var AllowedExtensions = map[string]string{
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"xlsm": "application/vnd.ms-excel.sheet.macroEnabled.12",
	"xls":  "application/vnd.ms-excel",
}

// DocumentKind names a rendered output of a bill run.
type DocumentKind string

const (
	DocumentCombinedPDF DocumentKind = "pdf"
	DocumentFirstPage   DocumentKind = "first_page"
	DocumentDeviation   DocumentKind = "deviation"
	DocumentExtraItems  DocumentKind = "extra_items"
	DocumentLastPage    DocumentKind = "last_page"
	DocumentNoteSheet   DocumentKind = "note_sheet"
	DocumentWorkbook    DocumentKind = "xlsx"
	DocumentCSV         DocumentKind = "csv"
	DocumentBundle      DocumentKind = "zip"

	DocumentFirstPageHTML  DocumentKind = "first_page_html"
	DocumentDeviationHTML  DocumentKind = "deviation_html"
	DocumentExtraItemsHTML DocumentKind = "extra_items_html"
	DocumentLastPageHTML   DocumentKind = "last_page_html"
	DocumentNoteSheetHTML  DocumentKind = "note_sheet_html"

	DocumentFirstPageDOCX  DocumentKind = "first_page_docx"
	DocumentDeviationDOCX  DocumentKind = "deviation_docx"
	DocumentExtraItemsDOCX DocumentKind = "extra_items_docx"
	DocumentLastPageDOCX   DocumentKind = "last_page_docx"
	DocumentNoteSheetDOCX  DocumentKind = "note_sheet_docx"
)

const (
	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// DocumentKinds maps each kind to its content type and file name.
var DocumentKinds = map[DocumentKind]struct {
	ContentType string
	FileName    string
}{
	DocumentCombinedPDF: {contentTypePDF, "bill.pdf"},
	DocumentFirstPage:   {contentTypePDF, "first_page.pdf"},
	DocumentDeviation:   {contentTypePDF, "deviation_statement.pdf"},
	DocumentExtraItems:  {contentTypePDF, "extra_items.pdf"},
	DocumentLastPage:    {contentTypePDF, "last_page.pdf"},
	DocumentNoteSheet:   {contentTypePDF, "note_sheet.pdf"},
	DocumentWorkbook:    {contentTypeXLSX, "bill.xlsx"},
	DocumentCSV:         {"text/csv; charset=utf-8", "deviation_statement.csv"},
	DocumentBundle:      {"application/zip", "bill_documents.zip"},

	DocumentFirstPageHTML:  {contentTypeHTML, "first_page.html"},
	DocumentDeviationHTML:  {contentTypeHTML, "deviation_statement.html"},
	DocumentExtraItemsHTML: {contentTypeHTML, "extra_items.html"},
	DocumentLastPageHTML:   {contentTypeHTML, "last_page.html"},
	DocumentNoteSheetHTML:  {contentTypeHTML, "note_sheet.html"},

	DocumentFirstPageDOCX:  {contentTypeDOCX, "first_page.docx"},
	DocumentDeviationDOCX:  {contentTypeDOCX, "deviation_statement.docx"},
	DocumentExtraItemsDOCX: {contentTypeDOCX, "extra_items.docx"},
	DocumentLastPageDOCX:   {contentTypeDOCX, "last_page.docx"},
	DocumentNoteSheetDOCX:  {contentTypeDOCX, "note_sheet.docx"},
}

// ParseDocumentKind validates a document kind from a URL path segment.
func ParseDocumentKind(s string) (DocumentKind, error) {
	k := DocumentKind(s)
	if _, ok := DocumentKinds[k]; !ok {
		return "", ErrInvalidDocumentKind
	}
	return k, nil
}
