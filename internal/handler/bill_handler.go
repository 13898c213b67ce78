package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"billgen/internal/bill"
	"billgen/internal/domain"
	"billgen/internal/middleware"
	"billgen/internal/service"
)

// BillDefaults are applied when an upload omits premium settings.
type BillDefaults struct {
	PremiumPercent float64
	PremiumType    bill.PremiumType
	MaxUploadBytes int64
}

// BillHandler handles bill generation endpoints.
type BillHandler struct {
	billService service.BillService
	defaults    BillDefaults
}

// NewBillHandler creates a new BillHandler.
func NewBillHandler(billService service.BillService, defaults BillDefaults) *BillHandler {
	return &BillHandler{billService: billService, defaults: defaults}
}

// readInput builds a GenerateInput from the multipart form. It writes the
// error response itself and returns false on failure.
func (h *BillHandler) readInput(c *gin.Context) (service.GenerateInput, bool) {
	var input service.GenerateInput

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return input, false
	}
	defer func() { _ = file.Close() }()

	if h.defaults.MaxUploadBytes > 0 && header.Size > h.defaults.MaxUploadBytes {
		HandleError(c, fmt.Errorf("%w: %d bytes", domain.ErrFileTooLarge, header.Size))
		return input, false
	}
	data, err := io.ReadAll(file)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_FILE", "could not read uploaded file")
		return input, false
	}

	input.FileName = header.Filename
	input.Data = data
	input.PremiumPercent = h.defaults.PremiumPercent
	input.PremiumType = string(h.defaults.PremiumType)
	input.CreatedBy = middleware.GetUsername(c)

	if v := strings.TrimSpace(c.PostForm("premium_percent")); v != "" {
		pct, err := strconv.ParseFloat(v, 64)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "premium_percent must be a number")
			return input, false
		}
		input.PremiumPercent = pct
	}
	if v := strings.TrimSpace(c.PostForm("premium_type")); v != "" {
		input.PremiumType = v
	}
	if v := strings.TrimSpace(c.PostForm("previous_bill_amount")); v != "" {
		prev, err := strconv.ParseFloat(v, 64)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "previous_bill_amount must be a number")
			return input, false
		}
		input.PreviousBillAmount = prev
	}
	if c.PostForm("notify") == "true" {
		input.NotifyEmail = middleware.GetEmail(c)
		input.NotifyName = input.CreatedBy
	}
	return input, true
}

// Preview handles POST /api/v1/bills/preview
// @Summary Preview a bill
// @Description Compute the five bill records from a workbook without storing anything
// @Tags bills
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Bill workbook (xlsx, xlsm or xls)"
// @Param premium_percent formData number false "Tender premium percent" default(5)
// @Param premium_type formData string false "above or below" default(above)
// @Param previous_bill_amount formData number false "Amount paid on the last bill" default(0)
// @Success 200 {object} Response{data=bill.Result}
// @Failure 400 {object} ErrorResponseBody "Invalid parameters"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Failure 422 {object} ErrorResponseBody "Workbook missing sheets or unreadable"
// @Security BearerAuth
// @Router /bills/preview [post]
func (h *BillHandler) Preview(c *gin.Context) {
	input, ok := h.readInput(c)
	if !ok {
		return
	}

	res, err := h.billService.Preview(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, res)
}

// Generate handles POST /api/v1/bills
// @Summary Generate a bill
// @Description Compute a bill, store its documents and record the run
// @Tags bills
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Bill workbook (xlsx, xlsm or xls)"
// @Param premium_percent formData number false "Tender premium percent" default(5)
// @Param premium_type formData string false "above or below" default(above)
// @Param previous_bill_amount formData number false "Amount paid on the last bill" default(0)
// @Param notify formData bool false "Email a download link to the operator"
// @Success 201 {object} Response{data=BillRunWithResult}
// @Failure 400 {object} ErrorResponseBody "Invalid parameters"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Failure 422 {object} ErrorResponseBody "Workbook missing sheets or unreadable"
// @Failure 500 {object} ErrorResponseBody "Storage failure"
// @Security BearerAuth
// @Router /bills [post]
func (h *BillHandler) Generate(c *gin.Context) {
	input, ok := h.readInput(c)
	if !ok {
		return
	}

	run, res, err := h.billService.Generate(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, BillRunWithResult{Run: run, Result: res})
}

// List handles GET /api/v1/bills
// @Summary List bill runs
// @Tags bills
// @Produce json
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.BillRun,meta=PagMeta}
// @Security BearerAuth
// @Router /bills [get]
func (h *BillHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)

	runs, total, err := h.billService.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, runs, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/bills/:id
// @Summary Get a bill run
// @Description Get a bill run and, when completed, its computed records
// @Tags bills
// @Produce json
// @Param id path string true "Bill run ID (UUID)"
// @Success 200 {object} Response{data=BillRunWithResult}
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 404 {object} ErrorResponseBody "Not found"
// @Security BearerAuth
// @Router /bills/{id} [get]
func (h *BillHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid bill run ID")
		return
	}

	run, err := h.billService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	out := BillRunWithResult{Run: run}
	if run.Status == domain.BillRunStatusCompleted {
		res, err := h.billService.GetResult(c.Request.Context(), id)
		if err != nil {
			HandleError(c, err)
			return
		}
		out.Result = res
	}

	RespondOK(c, out)
}

// Document handles GET /api/v1/bills/:id/documents/:kind
// @Summary Download a bill document
// @Tags bills
// @Produce application/pdf,application/zip,text/csv,text/html,application/vnd.openxmlformats-officedocument.wordprocessingml.document
// @Param id path string true "Bill run ID (UUID)"
// @Param kind path string true "pdf, first_page, deviation, extra_items, last_page, note_sheet, xlsx, csv, zip, or a statement name with _html or _docx (e.g. first_page_docx)"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponseBody "Invalid ID or kind"
// @Failure 404 {object} ErrorResponseBody "Not found"
// @Failure 409 {object} ErrorResponseBody "Run not completed"
// @Security BearerAuth
// @Router /bills/{id}/documents/{kind} [get]
func (h *BillHandler) Document(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid bill run ID")
		return
	}
	kind, err := domain.ParseDocumentKind(c.Param("kind"))
	if err != nil {
		HandleError(c, err)
		return
	}

	doc, err := h.billService.Document(c.Request.Context(), id, kind)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	c.Data(http.StatusOK, doc.ContentType, doc.Data)
}

// Download handles GET /api/v1/bills/:id/download
// @Summary Get a download link for the document bundle
// @Tags bills
// @Produce json
// @Param id path string true "Bill run ID (UUID)"
// @Success 200 {object} Response{data=DownloadURLResponse}
// @Failure 404 {object} ErrorResponseBody "Not found"
// @Failure 409 {object} ErrorResponseBody "Run not completed"
// @Security BearerAuth
// @Router /bills/{id}/download [get]
func (h *BillHandler) Download(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid bill run ID")
		return
	}

	url, err := h.billService.GetDownloadURL(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, DownloadURLResponse{DownloadURL: url})
}
