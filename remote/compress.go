package remote

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// maxTileBytes bounds decompressed tile payloads.
const maxTileBytes = 64 << 20

// Encoder and Decoder are safe for concurrent EncodeAll / DecodeAll calls.
var (
	encoder = must(zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest)))
	decoder = must(zstd.NewReader(nil, zstd.WithDecoderConcurrency(0), zstd.WithDecoderMaxMemory(maxTileBytes)))
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(fmt.Sprintf("remote: zstd setup: %v", err))
	}
	return v
}

func compress(pix []byte) []byte {
	return encoder.EncodeAll(pix, make([]byte, 0, len(pix)/4))
}

// decompress expects exactly n bytes of pixel data.
func decompress(data []byte, n int) ([]byte, error) {
	pix, err := decoder.DecodeAll(data, make([]byte, 0, n))
	if err != nil {
		return nil, fmt.Errorf("zstd decode: %w", err)
	}
	if len(pix) != n {
		return nil, fmt.Errorf("tile has %d bytes, expected %d", len(pix), n)
	}
	return pix, nil
}
