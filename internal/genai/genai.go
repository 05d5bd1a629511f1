// Package genai calls the external generative-image service that renders the
// styled variants. The service is an opaque collaborator: image in, image
// out, or an error.
package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Generator produces a styled rendering of an image.
type Generator interface {
	Generate(ctx context.Context, image []byte, mediaType, prompt string) (data []byte, outType string, err error)
}

// Client talks to the generation API over HTTP.
type Client struct {
	endpoint string
	apiKey   string
	httpc    *http.Client
}

// NewClient creates a generation client. A nil httpc uses
// http.DefaultClient; no local timeout is imposed since generation can take
// tens of seconds.
func NewClient(endpoint, apiKey string, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = http.DefaultClient
	}
	return &Client{endpoint: endpoint, apiKey: apiKey, httpc: httpc}
}

type generateRequest struct {
	Prompt string      `json:"prompt"`
	Image  inlineImage `json:"image"`
}

type generateResponse struct {
	Image inlineImage `json:"image"`
	Error string      `json:"error,omitempty"`
}

type inlineImage struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"` // base64
}

// Generate submits the image with the style prompt and decodes the result.
func (c *Client) Generate(ctx context.Context, image []byte, mediaType, prompt string) ([]byte, string, error) {
	payload, err := json.Marshal(generateRequest{
		Prompt: prompt,
		Image: inlineImage{
			MimeType: mediaType,
			Data:     base64.StdEncoding.EncodeToString(image),
		},
	})
	if err != nil {
		return nil, "", fmt.Errorf("encode generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, "", fmt.Errorf("build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("generate request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read generate response: %w", err)
	}

	var out generateResponse
	if resp.StatusCode != http.StatusOK {
		if json.Unmarshal(body, &out) == nil && out.Error != "" {
			return nil, "", fmt.Errorf("generation failed: %s", out.Error)
		}
		return nil, "", fmt.Errorf("generation failed: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, "", fmt.Errorf("decode generate response: %w", err)
	}

	data, err := base64.StdEncoding.DecodeString(out.Image.Data)
	if err != nil {
		return nil, "", fmt.Errorf("decode generated image: %w", err)
	}
	outType := out.Image.MimeType
	if outType == "" {
		outType = "image/png"
	}
	return data, outType, nil
}
