// Package remote implements the HTTP client for the guestpix service API.
//
// Two endpoints are consumed:
//   - POST /api/optimize-image — multipart `image` + `imageStyleIndex`,
//     returns raw image bytes on success
//   - POST /api/upload — multipart `file`, returns a JSON receipt
//
// Non-success responses carry a JSON {"error": "..."} body, decoded into
// *APIError. No timeouts are imposed here; the caller's context and the
// injected http.Client govern.
package remote

import (
	"context"
	"fmt"
)

// API is the service surface the client core depends on.
type API interface {
	Optimize(ctx context.Context, req OptimizeRequest) (*OptimizeResult, error)
	Upload(ctx context.Context, req UploadRequest) (*UploadResult, error)
}

// OptimizeRequest carries the raw file bytes and the style index.
type OptimizeRequest struct {
	FileName  string
	MediaType string
	Data      []byte
	Style     int
}

// OptimizeResult is the styled image returned by the service.
type OptimizeResult struct {
	MediaType string
	Data      []byte
}

// UploadRequest carries the variant chosen for submission.
type UploadRequest struct {
	FileName  string
	MediaType string
	Data      []byte
}

// UploadResult is the service's upload receipt.
type UploadResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	FileID   string `json:"fileId"`
	FileLink string `json:"fileLink"`
}

// APIError is a non-success response from the service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}
