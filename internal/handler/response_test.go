package handler_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"billgen/internal/bill"
	"billgen/internal/domain"
	"billgen/internal/handler"
	"billgen/internal/workbook"
)

func TestMapDomainError(t *testing.T) {
	missing := &workbook.MissingSheetsError{Missing: []string{"Extra Items"}, Available: []string{"Work Order"}}

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"missing sheets", missing, http.StatusUnprocessableEntity, "MISSING_SHEETS"},
		{"invalid workbook", fmt.Errorf("%w: corrupt", domain.ErrInvalidWorkbook), http.StatusUnprocessableEntity, "INVALID_WORKBOOK"},
		{"unsupported type", domain.ErrUnsupportedFileType, http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE"},
		{"too large", domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
		{"bad input", fmt.Errorf("%w: premium_type: must be a valid value", domain.ErrInvalidBillInput), http.StatusBadRequest, "INVALID_BILL_INPUT"},
		{"engine premium", bill.ErrInvalidPremium, http.StatusBadRequest, "INVALID_BILL_INPUT"},
		{"document kind", domain.ErrInvalidDocumentKind, http.StatusBadRequest, "INVALID_DOCUMENT_KIND"},
		{"not completed", domain.ErrBillRunNotCompleted, http.StatusConflict, "BILL_RUN_NOT_COMPLETED"},
		{"upload", domain.ErrUploadFailed, http.StatusInternalServerError, "UPLOAD_FAILED"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code, _ := handler.MapDomainError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}

	_, _, msg := handler.MapDomainError(missing)
	assert.Contains(t, msg, "Extra Items")
}
