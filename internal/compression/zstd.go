// Package compression wraps zstd for cache entry payloads. Data URLs are
// base64 text and compress well; tiny payloads are stored as-is.
package compression

import (
	"github.com/klauspost/compress/zstd"
)

// Compression levels.
const (
	LevelFast    = 1
	LevelDefault = 2
	LevelBetter  = 3
)

// minCompressSize is the payload size below which compression is skipped.
const minCompressSize = 128

type Compressor struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func NewCompressor(level int) (*Compressor, error) {
	var encoderLevel zstd.EncoderLevel
	switch level {
	case LevelFast:
		encoderLevel = zstd.SpeedFastest
	case LevelBetter:
		encoderLevel = zstd.SpeedBetterCompression
	default:
		encoderLevel = zstd.SpeedDefault
	}

	encoder, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(encoderLevel),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		return nil, err
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}

	return &Compressor{encoder: encoder, decoder: decoder}, nil
}

// Compress returns the zstd frame for data, or data itself when compression
// does not pay off. Decompress distinguishes the two by the frame header.
func (c *Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) < minCompressSize {
		return data, nil
	}

	compressed := c.encoder.EncodeAll(data, make([]byte, 0, len(data)))
	if len(compressed) >= len(data) {
		return data, nil
	}
	return compressed, nil
}

// Decompress reverses Compress. Payloads stored uncompressed are returned
// unchanged.
func (c *Compressor) Decompress(data []byte) ([]byte, error) {
	decompressed, err := c.decoder.DecodeAll(data, nil)
	if err != nil {
		return data, nil
	}
	return decompressed, nil
}

func (c *Compressor) Close() error {
	if c.encoder != nil {
		c.encoder.Close()
	}
	if c.decoder != nil {
		c.decoder.Close()
	}
	return nil
}
