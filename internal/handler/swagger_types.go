package handler

import (
	"time"

	"billgen/internal/bill"
	"billgen/internal/domain"
)

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// --- Request Types ---

// LoginRequest represents the login request body.
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"engineer"`
	Password string `json:"password" binding:"required" example:"securepassword123"`
}

// --- Response Types ---

// TokenResponse represents the authentication token response.
type TokenResponse struct {
	AccessToken string    `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	ExpiresAt   time.Time `json:"expires_at" example:"2025-01-15T10:30:00Z"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty" example:"database not reachable"`
}

// BillRunWithResult is a bill run with its computed records. Result is
// omitted until the run completes.
type BillRunWithResult struct {
	Run    *domain.BillRun `json:"run"`
	Result *bill.Result    `json:"result,omitempty"`
}

// DownloadURLResponse holds a presigned bundle link.
type DownloadURLResponse struct {
	DownloadURL string `json:"download_url" example:"https://bucket.s3.amazonaws.com/bill-runs/...?X-Amz-Signature=..."`
}

// --- Generic Response Wrappers ---

// Response wraps a successful response with data.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}
