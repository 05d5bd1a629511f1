// Package drive uploads accepted photos into the shared cloud-drive folder.
// Authentication is a long-lived OAuth refresh token; access tokens renew
// transparently via the oauth2 transport.
package drive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	defaultUploadURL = "https://www.googleapis.com/upload/drive/v3/files"
	driveFileScope   = "https://www.googleapis.com/auth/drive.file"
)

// Uploader stores a photo and returns its identity and share link.
type Uploader interface {
	Upload(ctx context.Context, name, mediaType string, data []byte) (*File, error)
}

// File is the stored photo's identity.
type File struct {
	ID   string `json:"id"`
	Link string `json:"webViewLink"`
}

// Config holds the OAuth client and target folder for the drive account.
type Config struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	FolderID     string

	// UploadURL overrides the drive upload endpoint, for tests.
	UploadURL string
}

// Client uploads via the drive HTTP API with a self-refreshing token.
type Client struct {
	cfg   Config
	httpc *http.Client
}

// NewClient builds the uploader. The returned client owns an oauth2-wrapped
// http.Client that refreshes the access token on demand.
func NewClient(ctx context.Context, cfg Config) *Client {
	if cfg.UploadURL == "" {
		cfg.UploadURL = defaultUploadURL
	}
	oc := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{driveFileScope},
	}
	token := &oauth2.Token{RefreshToken: cfg.RefreshToken}
	return &Client{cfg: cfg, httpc: oc.Client(ctx, token)}
}

// NewClientWithHTTP builds an uploader over a caller-provided http.Client,
// bypassing OAuth. Used by tests and local stub servers.
func NewClientWithHTTP(cfg Config, httpc *http.Client) *Client {
	if cfg.UploadURL == "" {
		cfg.UploadURL = defaultUploadURL
	}
	return &Client{cfg: cfg, httpc: httpc}
}

// Upload posts the photo as a multipart/related request: JSON metadata part
// naming the file and parent folder, then the media part.
func (c *Client) Upload(ctx context.Context, name, mediaType string, data []byte) (*File, error) {
	meta := map[string]any{"name": name}
	if c.cfg.FolderID != "" {
		meta["parents"] = []string{c.cfg.FolderID}
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("encode file metadata: %w", err)
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	metaHdr := make(textproto.MIMEHeader)
	metaHdr.Set("Content-Type", "application/json; charset=UTF-8")
	part, err := w.CreatePart(metaHdr)
	if err != nil {
		return nil, fmt.Errorf("build upload body: %w", err)
	}
	if _, err := part.Write(metaJSON); err != nil {
		return nil, fmt.Errorf("build upload body: %w", err)
	}

	mediaHdr := make(textproto.MIMEHeader)
	mediaHdr.Set("Content-Type", mediaType)
	part, err = w.CreatePart(mediaHdr)
	if err != nil {
		return nil, fmt.Errorf("build upload body: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("build upload body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("build upload body: %w", err)
	}

	url := c.cfg.UploadURL + "?uploadType=multipart&fields=id,webViewLink"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", "multipart/related; boundary="+w.Boundary())

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return nil, fmt.Errorf("upload failed: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var file File
	if err := json.NewDecoder(resp.Body).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	return &file, nil
}
