package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOptimizeSendsMultipartFields(t *testing.T) {
	var gotStyle, gotFileName, gotPartType string
	var gotBytes []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/optimize-image" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		gotStyle = r.FormValue("imageStyleIndex")
		file, hdr, err := r.FormFile("image")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer file.Close()
		gotFileName = hdr.Filename
		gotPartType = hdr.Header.Get("Content-Type")
		gotBytes, _ = io.ReadAll(file)

		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("styled"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	res, err := c.Optimize(context.Background(), OptimizeRequest{
		FileName:  "photo.png",
		MediaType: "image/png",
		Data:      []byte("raw"),
		Style:     3,
	})
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}

	if gotStyle != "3" {
		t.Errorf("style index sent as %q, want \"3\"", gotStyle)
	}
	if gotFileName != "photo.png" || gotPartType != "image/png" {
		t.Errorf("file part: name=%q type=%q", gotFileName, gotPartType)
	}
	if string(gotBytes) != "raw" {
		t.Errorf("image bytes %q", gotBytes)
	}
	if res.MediaType != "image/jpeg" || string(res.Data) != "styled" {
		t.Errorf("result %q %q", res.MediaType, res.Data)
	}
}

func TestOptimizeDecodesErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "quota exceeded"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	_, err := c.Optimize(context.Background(), OptimizeRequest{FileName: "p.png", MediaType: "image/png", Data: []byte("x")})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Status != http.StatusTooManyRequests || apiErr.Message != "quota exceeded" {
		t.Fatalf("unexpected error %+v", apiErr)
	}
}

func TestUploadDecodesReceipt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/upload" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("missing file part: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(UploadResult{Success: true, Message: "ok", FileID: "id-1", FileLink: "https://x/1"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	res, err := c.Upload(context.Background(), UploadRequest{FileName: "p.png", MediaType: "image/png", Data: []byte("x")})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !res.Success || res.FileID != "id-1" || res.FileLink != "https://x/1" {
		t.Fatalf("unexpected receipt %+v", res)
	}
}

func TestUploadNonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway blew up", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	_, err := c.Upload(context.Background(), UploadRequest{FileName: "p.png", MediaType: "image/png", Data: []byte("x")})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Message != "gateway blew up" {
		t.Fatalf("raw body not preserved: %q", apiErr.Message)
	}
}
