package server

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/guestpix/guestpix/internal/styles"
)

// multipartMemory is the in-memory threshold for multipart parsing; larger
// parts spill to temp files.
const multipartMemory = 32 << 20

// handleOptimize accepts a multipart image and style index, runs the
// generation backend, and streams the styled image back.
func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, hdr, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read image")
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

	idx, err := strconv.Atoi(r.FormValue("imageStyleIndex"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid style index")
		return
	}
	style, err := styles.Get(idx)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	out, outType, err := s.gen.Generate(r.Context(), data, mediaType, style.Prompt)
	if err != nil {
		s.logger.Error("image generation failed", "style", idx, "err", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	w.Header().Set("Content-Type", outType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}
