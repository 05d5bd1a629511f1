package guestpix

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// VariantKind distinguishes the two renderings of a selected file.
type VariantKind int

const (
	VariantOriginal VariantKind = iota
	VariantOptimized
)

func (k VariantKind) String() string {
	switch k {
	case VariantOriginal:
		return "original"
	case VariantOptimized:
		return "optimized"
	default:
		return fmt.Sprintf("variant(%d)", int(k))
	}
}

// Variant is one rendering of the selected file, carried as a data URL so it
// can be displayed or persisted without further decoding.
type Variant struct {
	Kind    VariantKind
	DataURL string
}

// EncodeDataURL renders raw image bytes as a base64 data URL.
func EncodeDataURL(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURL reverses EncodeDataURL, recovering the media type and bytes.
func DecodeDataURL(dataURL string) (mediaType string, data []byte, err error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data URL")
	}
	mediaType, payload, ok := strings.Cut(rest, ";base64,")
	if !ok {
		return "", nil, fmt.Errorf("data URL has no base64 payload")
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode data URL payload: %w", err)
	}
	return mediaType, data, nil
}
