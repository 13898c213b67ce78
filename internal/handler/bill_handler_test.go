package handler_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"billgen/internal/bill"
	"billgen/internal/domain"
	"billgen/internal/handler"
	"billgen/internal/middleware"
	"billgen/internal/render"
	"billgen/internal/service"
	"billgen/internal/workbook"
	"billgen/mocks"
)

func newBillHandler() (*handler.BillHandler, *mocks.MockBillService) {
	svc := new(mocks.MockBillService)
	h := handler.NewBillHandler(svc, handler.BillDefaults{
		PremiumPercent: 5,
		PremiumType:    bill.PremiumAbove,
		MaxUploadBytes: 1 << 20,
	})
	return h, svc
}

func setAuthContext(c *gin.Context) {
	c.Set(middleware.ContextKeyUsername, "engineer")
	c.Set(middleware.ContextKeyEmail, "engineer@pwd.test")
}

// multipartRequest builds a POST with a "file" part and the given form fields.
func multipartRequest(t *testing.T, path, fileName string, content []byte, fields map[string]string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	if fileName != "" {
		part, err := w.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func sampleResult() *bill.Result {
	return &bill.Result{
		FirstPage: bill.FirstPage{Totals: bill.Totals{GrandTotal: 15850, Payable: 16642}},
		LastPage:  bill.LastPage{PayableAmount: 16642, AmountWords: "Sixteen Thousand, Six Hundred And Forty-Two"},
	}
}

func TestBillHandler_Preview_Defaults(t *testing.T) {
	h, svc := newBillHandler()

	svc.On("Preview", mock.Anything, mock.MatchedBy(func(in service.GenerateInput) bool {
		return in.FileName == "bill.xlsx" && string(in.Data) == "workbook-bytes" &&
			in.PremiumPercent == 5 && in.PremiumType == "above" && in.PreviousBillAmount == 0 &&
			in.CreatedBy == "engineer" && in.NotifyEmail == ""
	})).Return(sampleResult(), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = multipartRequest(t, "/api/v1/bills/preview", "bill.xlsx", []byte("workbook-bytes"), nil)
	setAuthContext(c)

	h.Preview(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Success bool        `json:"success"`
		Data    bill.Result `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, int64(16642), resp.Data.LastPage.PayableAmount)
	svc.AssertExpectations(t)
}

func TestBillHandler_Preview_FormOverrides(t *testing.T) {
	h, svc := newBillHandler()

	svc.On("Preview", mock.Anything, mock.MatchedBy(func(in service.GenerateInput) bool {
		return in.PremiumPercent == 12.5 && in.PremiumType == "below" && in.PreviousBillAmount == 1000
	})).Return(sampleResult(), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = multipartRequest(t, "/api/v1/bills/preview", "bill.xlsx", []byte("x"), map[string]string{
		"premium_percent":      "12.5",
		"premium_type":         "below",
		"previous_bill_amount": "1000",
	})
	setAuthContext(c)

	h.Preview(c)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestBillHandler_Preview_BadNumber(t *testing.T) {
	h, svc := newBillHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = multipartRequest(t, "/api/v1/bills/preview", "bill.xlsx", []byte("x"), map[string]string{
		"premium_percent": "five",
	})

	h.Preview(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Preview", mock.Anything, mock.Anything)
}

func TestBillHandler_Preview_MissingFile(t *testing.T) {
	h, _ := newBillHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = multipartRequest(t, "/api/v1/bills/preview", "", nil, map[string]string{"premium_percent": "5"})

	h.Preview(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "MISSING_FILE", resp.Error.Code)
}

func TestBillHandler_Preview_FileTooLarge(t *testing.T) {
	svc := new(mocks.MockBillService)
	h := handler.NewBillHandler(svc, handler.BillDefaults{PremiumType: bill.PremiumAbove, MaxUploadBytes: 4})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = multipartRequest(t, "/api/v1/bills/preview", "bill.xlsx", []byte("more than four bytes"), nil)

	h.Preview(c)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestBillHandler_Preview_MissingSheets(t *testing.T) {
	h, svc := newBillHandler()

	svc.On("Preview", mock.Anything, mock.Anything).Return(nil, &workbook.MissingSheetsError{
		Missing:   []string{workbook.SheetBillQuantity},
		Available: []string{workbook.SheetWorkOrder, workbook.SheetExtraItems},
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = multipartRequest(t, "/api/v1/bills/preview", "bill.xlsx", []byte("x"), nil)

	h.Preview(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "MISSING_SHEETS", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "Bill Quantity")
}

func TestBillHandler_Generate_Success(t *testing.T) {
	h, svc := newBillHandler()

	run := &domain.BillRun{ID: uuid.New(), FileName: "bill.xlsx", Status: domain.BillRunStatusCompleted, Payable: 16642}
	svc.On("Generate", mock.Anything, mock.MatchedBy(func(in service.GenerateInput) bool {
		return in.NotifyEmail == "engineer@pwd.test" && in.NotifyName == "engineer"
	})).Return(run, sampleResult(), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = multipartRequest(t, "/api/v1/bills", "bill.xlsx", []byte("x"), map[string]string{"notify": "true"})
	setAuthContext(c)

	h.Generate(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		Data struct {
			Run    domain.BillRun `json:"run"`
			Result *bill.Result   `json:"result"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, run.ID, resp.Data.Run.ID)
	require.NotNil(t, resp.Data.Result)
	assert.Equal(t, int64(15850), resp.Data.Result.FirstPage.Totals.GrandTotal)
	svc.AssertExpectations(t)
}

func TestBillHandler_Generate_UploadFailed(t *testing.T) {
	h, svc := newBillHandler()
	svc.On("Generate", mock.Anything, mock.Anything).Return(nil, nil, domain.ErrUploadFailed)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = multipartRequest(t, "/api/v1/bills", "bill.xlsx", []byte("x"), nil)

	h.Generate(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestBillHandler_List(t *testing.T) {
	h, svc := newBillHandler()
	runs := []domain.BillRun{{ID: uuid.New()}}
	svc.On("List", mock.Anything, 0, 20).Return(runs, 1, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/bills?limit=500", http.NoBody)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 1, resp.Meta.Total)
	assert.Equal(t, 20, resp.Meta.Limit)
}

func TestBillHandler_GetByID_Completed(t *testing.T) {
	h, svc := newBillHandler()
	id := uuid.New()
	svc.On("GetByID", mock.Anything, id).Return(&domain.BillRun{ID: id, Status: domain.BillRunStatusCompleted}, nil)
	svc.On("GetResult", mock.Anything, id).Return(sampleResult(), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/bills/"+id.String(), http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.GetByID(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"payable_amount":16642`)
	svc.AssertExpectations(t)
}

func TestBillHandler_GetByID_FailedRunHasNoResult(t *testing.T) {
	h, svc := newBillHandler()
	id := uuid.New()
	svc.On("GetByID", mock.Anything, id).
		Return(&domain.BillRun{ID: id, Status: domain.BillRunStatusFailed, ErrorMessage: "missing required sheets"}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/bills/"+id.String(), http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.GetByID(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), `"result"`)
	svc.AssertNotCalled(t, "GetResult", mock.Anything, mock.Anything)
}

func TestBillHandler_GetByID_InvalidID(t *testing.T) {
	h, _ := newBillHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/bills/nope", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: "nope"}}

	h.GetByID(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBillHandler_Document(t *testing.T) {
	h, svc := newBillHandler()
	id := uuid.New()
	svc.On("Document", mock.Anything, id, domain.DocumentCSV).Return(&render.Document{
		Kind:        domain.DocumentCSV,
		FileName:    "bill_2025-03-01_deviation_statement.csv",
		ContentType: "text/csv; charset=utf-8",
		Data:        []byte("a,b\n"),
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/bills/"+id.String()+"/documents/csv", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}, {Key: "kind", Value: "csv"}}

	h.Document(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "bill_2025-03-01_deviation_statement.csv")
	assert.Equal(t, "a,b\n", w.Body.String())
}

func TestBillHandler_Document_UnknownKind(t *testing.T) {
	h, svc := newBillHandler()
	id := uuid.New()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/bills/"+id.String()+"/documents/pptx", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}, {Key: "kind", Value: "pptx"}}

	h.Document(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Document", mock.Anything, mock.Anything, mock.Anything)
}

func TestBillHandler_Document_NotCompleted(t *testing.T) {
	h, svc := newBillHandler()
	id := uuid.New()
	svc.On("Document", mock.Anything, id, domain.DocumentCombinedPDF).Return(nil, domain.ErrBillRunNotCompleted)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/bills/"+id.String()+"/documents/pdf", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}, {Key: "kind", Value: "pdf"}}

	h.Document(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestBillHandler_Download(t *testing.T) {
	h, svc := newBillHandler()
	id := uuid.New()
	svc.On("GetDownloadURL", mock.Anything, id).Return("https://example.test/bundle.zip", nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/bills/"+id.String()+"/download", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Download(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "https://example.test/bundle.zip")
}
