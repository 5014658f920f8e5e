package object

import (
	"fmt"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Compression selects how object bodies are encoded at rest. It is fixed
// when a repository is created.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionZstd Compression = "zstd"
)

// ParseCompression validates a configured compression name. Empty means none.
func ParseCompression(name string) (Compression, error) {
	switch Compression(strings.ToLower(strings.TrimSpace(name))) {
	case "", CompressionNone:
		return CompressionNone, nil
	case CompressionZstd:
		return CompressionZstd, nil
	default:
		return "", fmt.Errorf("unknown compression %q", name)
	}
}

func (c Compression) encode(data []byte) ([]byte, error) {
	if c != CompressionZstd {
		return data, nil
	}
	return compressZstd(data)
}

func (c Compression) decode(data []byte) ([]byte, error) {
	if c != CompressionZstd {
		return data, nil
	}
	out, err := decompressZstd(data)
	if err != nil {
		return nil, fmt.Errorf("zstd decode: %w", err)
	}
	return out, nil
}

func compressZstd(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}

func decompressZstd(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(data, nil)
}
