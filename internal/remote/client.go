package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
)

const (
	optimizePath = "/api/optimize-image"
	uploadPath   = "/api/upload"

	// errorBodyLimit caps how much of a failure body is read for decoding.
	errorBodyLimit = 1 << 20
)

// Client talks to a guestpix service over HTTP.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// NewClient creates a client for the service at baseURL. A nil httpc uses
// http.DefaultClient.
func NewClient(baseURL string, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpc: httpc}
}

// Optimize posts the image and style index, returning the styled bytes.
func (c *Client) Optimize(ctx context.Context, req OptimizeRequest) (*OptimizeResult, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	part, err := w.CreatePart(filePartHeader("image", req.FileName, req.MediaType))
	if err != nil {
		return nil, fmt.Errorf("build optimize request: %w", err)
	}
	if _, err := part.Write(req.Data); err != nil {
		return nil, fmt.Errorf("build optimize request: %w", err)
	}
	if err := w.WriteField("imageStyleIndex", strconv.Itoa(req.Style)); err != nil {
		return nil, fmt.Errorf("build optimize request: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("build optimize request: %w", err)
	}

	resp, err := c.post(ctx, optimizePath, w.FormDataContentType(), &body)
	if err != nil {
		return nil, fmt.Errorf("optimize request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read optimize response: %w", err)
	}
	mediaType := resp.Header.Get("Content-Type")
	if mediaType == "" {
		mediaType = "image/png"
	}
	return &OptimizeResult{MediaType: mediaType, Data: data}, nil
}

// Upload posts the chosen variant for storage.
func (c *Client) Upload(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	part, err := w.CreatePart(filePartHeader("file", req.FileName, req.MediaType))
	if err != nil {
		return nil, fmt.Errorf("build upload request: %w", err)
	}
	if _, err := part.Write(req.Data); err != nil {
		return nil, fmt.Errorf("build upload request: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("build upload request: %w", err)
	}

	resp, err := c.post(ctx, uploadPath, w.FormDataContentType(), &body)
	if err != nil {
		return nil, fmt.Errorf("upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}

	var result UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	return &result, nil
}

func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	return c.httpc.Do(req)
}

func filePartHeader(field, fileName, mediaType string) textproto.MIMEHeader {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, fileName))
	if mediaType != "" {
		h.Set("Content-Type", mediaType)
	}
	return h
}

func decodeAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Error == "" {
		payload.Error = strings.TrimSpace(string(body))
		if payload.Error == "" {
			payload.Error = http.StatusText(resp.StatusCode)
		}
	}
	return &APIError{Status: resp.StatusCode, Message: payload.Error}
}
