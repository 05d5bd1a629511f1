package server

import (
	"io"
	"net/http"
	"strings"
)

// uploadResponse mirrors the wire contract consumed by the client.
type uploadResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	FileID   string `json:"fileId"`
	FileLink string `json:"fileLink"`
}

// handleUpload accepts the chosen variant and stores it in the drive folder.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, hdr, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read file")
		return
	}

	mediaType := hdr.Header.Get("Content-Type")
	if mediaType == "" {
		mediaType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(mediaType, "image/") {
		writeError(w, http.StatusBadRequest, "file must be an image")
		return
	}

	stored, err := s.uploader.Upload(r.Context(), hdr.Filename, mediaType, data)
	if err != nil {
		s.logger.Error("drive upload failed", "name", hdr.Filename, "err", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		Success:  true,
		Message:  "photo uploaded",
		FileID:   stored.ID,
		FileLink: stored.Link,
	})
}
