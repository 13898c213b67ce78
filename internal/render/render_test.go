package render

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"billgen/internal/bill"
	"billgen/internal/domain"
)

func TestFormatINR(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "₹0.00"},
		{999, "₹999.00"},
		{1000, "₹1,000.00"},
		{123456, "₹1,23,456.00"},
		{12345678.9, "₹1,23,45,678.90"},
		{-15750, "-₹15,750.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatINR(tt.amount), "amount %v", tt.amount)
	}
	assert.Equal(t, "Rs. 14,962.00", FormatRupees(14962))
	assert.Equal(t, "1,00,000.00", FormatAmount(100000))
	assert.Equal(t, "-788.00", FormatAmount(-788))
}

func TestFormatQty(t *testing.T) {
	assert.Equal(t, "100", FormatQty(100))
	assert.Equal(t, "0", FormatQty(0))
	assert.Equal(t, "95.50", FormatQty(95.5))
	assert.Equal(t, "0.33", FormatQty(1.0/3))
}

func TestOptionalCells(t *testing.T) {
	assert.Equal(t, "", optQty(bill.None[float64]()))
	assert.Equal(t, "12.50", optQty(bill.Some(12.5)))
	assert.Equal(t, "", optAmount(bill.None[int64]()))
	assert.Equal(t, "1,500.00", optAmount(bill.Some[int64](1500)))
	assert.Nil(t, cellValue(bill.None[int64]()))
	assert.Equal(t, int64(7), cellValue(bill.Some[int64](7)))
}

func TestPremiumLabel(t *testing.T) {
	assert.Equal(t, "Tender Premium @ 5.00% above", premiumLabel(bill.PremiumTerms{Percent: 0.05, Type: bill.PremiumAbove}))
	assert.Equal(t, "Tender Premium @ 12.50% below", premiumLabel(bill.PremiumTerms{Percent: 0.125, Type: bill.PremiumBelow}))
}

func TestSanitizeExcelCell(t *testing.T) {
	assert.Equal(t, "'=SUM(A1)", sanitizeExcelCell("=SUM(A1)"))
	assert.Equal(t, "Earthwork", sanitizeExcelCell("Earthwork"))
	assert.Equal(t, "", sanitizeExcelCell(""))
}

func sampleResult() *bill.Result {
	premium := bill.PremiumTerms{Percent: 0.05, Type: bill.PremiumAbove}
	return &bill.Result{
		FirstPage: bill.FirstPage{
			Header: [][]string{{"Name of Work", "Road repair"}, {"", ""}},
			Items: []bill.LineItem{
				{
					SerialNo: "1", Description: "Earthwork", Unit: "Cum",
					QuantitySinceLast: bill.Some(95.0), QuantityUptoDate: bill.Some(95.0),
					Rate: bill.Some(150.0), Amount: bill.Some[int64](14250), AmountPrevious: bill.Some[int64](0),
				},
				{SerialNo: "2", Description: "Heading only"},
				{Description: bill.DividerLabel, IsDivider: true, Bold: true, Underline: true},
			},
			Totals: bill.Totals{
				GrandTotal: 14250,
				Premium:    bill.Premium{PremiumTerms: premium, Amount: 712},
				Payable:    14962,
			},
		},
		LastPage: bill.LastPage{PayableAmount: 14962, AmountWords: "Fourteen Thousand, Nine Hundred And Sixty-Two"},
		Deviation: bill.Deviation{
			Items: []bill.DeviationLineItem{
				{
					SerialNo: "1", Description: "Earthwork", Unit: "Cum",
					QtyWO: bill.Some(100.0), Rate: bill.Some(150.0), AmtWO: bill.Some[int64](15000),
					QtyBill: bill.Some(95.0), AmtBill: bill.Some[int64](14250),
					ExcessQty: bill.Some(0.0), ExcessAmt: bill.Some[int64](0),
					SavingQty: bill.Some(5.0), SavingAmt: bill.Some[int64](750),
				},
				{Description: bill.DividerLabel, IsDivider: true},
			},
			Summary: bill.DeviationSummary{
				WorkOrderTotal: 15000, ExecutedTotal: 14250, OverallSaving: 750,
				Premium:     premium,
				GrandTotalF: 15750, GrandTotalH: 14962,
				NetDifference: 788, IsSaving: true, PercentageDeviation: 5,
			},
		},
	}
}

var testMeta = Meta{Title: "bill.xlsx", GeneratedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)}

func TestRender_PDFs(t *testing.T) {
	res := sampleResult()
	for _, kind := range statementKinds {
		t.Run(string(kind), func(t *testing.T) {
			doc, err := Render(res, testMeta, kind)
			require.NoError(t, err)
			assert.Equal(t, kind, doc.Kind)
			assert.Equal(t, "application/pdf", doc.ContentType)
			assert.True(t, bytes.HasPrefix(doc.Data, []byte("%PDF-")))
		})
	}
}

func TestRender_HTML(t *testing.T) {
	res := sampleResult()
	res.FirstPage.Items[0].Description = "Earthwork <excavation> & disposal"

	for _, kind := range htmlKinds {
		t.Run(string(kind), func(t *testing.T) {
			doc, err := Render(res, testMeta, kind)
			require.NoError(t, err)
			assert.Equal(t, "text/html; charset=utf-8", doc.ContentType)
			assert.True(t, strings.HasSuffix(doc.FileName, ".html"))
			assert.True(t, bytes.HasPrefix(doc.Data, []byte("<!DOCTYPE html>")))
			assert.True(t, bytes.HasSuffix(doc.Data, []byte("</html>")))
		})
	}

	doc, err := Render(res, testMeta, domain.DocumentFirstPageHTML)
	require.NoError(t, err)
	page := string(doc.Data)
	assert.Contains(t, page, "<h1>FIRST &amp; FINAL BILL</h1>")
	assert.Contains(t, page, "Earthwork &lt;excavation&gt; &amp; disposal")
	assert.NotContains(t, page, "<excavation>")
	assert.Contains(t, page, "Name of Work  Road repair")
	assert.Contains(t, page, "Rs. 14,962.00")
	assert.Contains(t, page, `<tr class="bold">`)

	doc, err = Render(res, testMeta, domain.DocumentDeviationHTML)
	require.NoError(t, err)
	page = string(doc.Data)
	assert.Contains(t, page, "A4 landscape")
	assert.Contains(t, page, "Overall Saving With Respect to the Work Order Amount Rs. 788.00 (5.00%)")

	doc, err = Render(res, testMeta, domain.DocumentLastPageHTML)
	require.NoError(t, err)
	page = string(doc.Data)
	assert.Contains(t, page, "Rupees Fourteen Thousand, Nine Hundred And Sixty-Two Only")
	assert.Contains(t, page, "Executive Engineer")
}

// docxText returns the main document part of a .docx file.
func docxText(t *testing.T, data []byte) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(body)
	}
	t.Fatal("word/document.xml not found")
	return ""
}

func TestRender_DOCX(t *testing.T) {
	res := sampleResult()
	for _, kind := range docxKinds {
		t.Run(string(kind), func(t *testing.T) {
			doc, err := Render(res, testMeta, kind)
			require.NoError(t, err)
			assert.Equal(t, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", doc.ContentType)
			assert.True(t, strings.HasSuffix(doc.FileName, ".docx"))
			assert.NotEmpty(t, docxText(t, doc.Data))
		})
	}

	doc, err := Render(res, testMeta, domain.DocumentFirstPageDOCX)
	require.NoError(t, err)
	body := docxText(t, doc.Data)
	assert.Contains(t, body, "FIRST &amp; FINAL BILL")
	assert.Contains(t, body, "Earthwork")
	assert.Contains(t, body, "Item of Work")
	assert.Contains(t, body, "Rs. 14,962.00")

	doc, err = Render(res, testMeta, domain.DocumentExtraItemsDOCX)
	require.NoError(t, err)
	assert.Contains(t, docxText(t, doc.Data), "EXTRA ITEMS")

	doc, err = Render(res, testMeta, domain.DocumentDeviationDOCX)
	require.NoError(t, err)
	body = docxText(t, doc.Data)
	assert.Contains(t, body, "DEVIATION STATEMENT")
	assert.Contains(t, body, `w:w="16838"`)
}

func TestRender_XLSX(t *testing.T) {
	doc, err := Render(sampleResult(), testMeta, domain.DocumentWorkbook)
	require.NoError(t, err)
	assert.Equal(t, "bill.xlsx", doc.FileName)

	f, err := excelize.OpenReader(bytes.NewReader(doc.Data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetFirstPage, SheetDeviation, SheetExtraItems, SheetLastPage}, f.GetSheetList())

	title, err := f.GetCellValue(SheetFirstPage, "A1")
	require.NoError(t, err)
	assert.Equal(t, "bill.xlsx", title)

	// Title, two header rows, a blank row, then the column headings.
	heading, err := f.GetCellValue(SheetFirstPage, "E5")
	require.NoError(t, err)
	assert.Equal(t, "Item of Work", heading)

	amount, err := f.GetCellValue(SheetFirstPage, "G6")
	require.NoError(t, err)
	assert.Equal(t, "14250", amount)

	sparse, err := f.GetCellValue(SheetFirstPage, "G7")
	require.NoError(t, err)
	assert.Empty(t, sparse)

	words, err := f.GetCellValue(SheetLastPage, "C4")
	require.NoError(t, err)
	assert.Equal(t, "Rupees Fourteen Thousand, Nine Hundred And Sixty-Two Only", words)
}

func TestRender_CSV(t *testing.T) {
	doc, err := Render(sampleResult(), testMeta, domain.DocumentCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv; charset=utf-8", doc.ContentType)
	assert.Contains(t, string(doc.Data), "Overall Saving")
}

func TestRender_Errors(t *testing.T) {
	_, err := Render(nil, testMeta, domain.DocumentFirstPage)
	assert.Error(t, err)

	_, err = Render(sampleResult(), testMeta, domain.DocumentKind("pptx"))
	assert.ErrorIs(t, err, domain.ErrInvalidDocumentKind)
}

func TestAllAndBundle(t *testing.T) {
	docs, err := All(sampleResult(), testMeta)
	require.NoError(t, err)
	require.Len(t, docs, len(bundleKinds))
	assert.Equal(t, domain.DocumentCombinedPDF, docs[0].Kind)
	assert.True(t, bytes.HasPrefix(docs[0].Data, []byte("%PDF-")))

	data, err := Bundle(docs)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	for _, kind := range bundleKinds {
		assert.Contains(t, names, domain.DocumentKinds[kind].FileName)
	}
	assert.Contains(t, names, "first_page.html")
	assert.Contains(t, names, "deviation_statement.docx")
	assert.Contains(t, names, "extra_items.docx")
}

func TestMergePDFs_Empty(t *testing.T) {
	_, err := MergePDFs()
	assert.Error(t, err)

	single := []byte("%PDF-1.3")
	out, err := MergePDFs(single)
	require.NoError(t, err)
	assert.Equal(t, single, out)
}
