package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed        = errors.New("file upload to storage failed")
	ErrMissingSheets       = errors.New("workbook is missing required sheets")
	ErrInvalidWorkbook     = errors.New("workbook could not be read")
	ErrInvalidBillInput    = errors.New("invalid bill parameters")
	ErrInvalidDocumentKind = errors.New("unknown document kind")
	ErrBillRunNotCompleted = errors.New("bill run has not completed")
)
