package storage

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the per-block codec of a container.
type Compression uint8

const (
	// CompressionNone stores blocks uncompressed.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fastest decode).
	CompressionLZ4 Compression = 1
	// CompressionZstd uses zstd block compression (best ratio, the default).
	CompressionZstd Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// compress encodes raw with the requested codec. Blocks that do not shrink
// are stored uncompressed; the returned codec reflects what was used.
func compress(raw []byte, codec Compression) ([]byte, Compression, error) {
	switch codec {
	case CompressionNone:
		return raw, CompressionNone, nil

	case CompressionLZ4:
		dst := make([]byte, lz4.CompressBlockBound(len(raw)))
		n, err := lz4.CompressBlock(raw, dst, nil)
		if err != nil {
			return nil, 0, fmt.Errorf("lz4 compress: %w", err)
		}
		if n == 0 || n >= len(raw) {
			return raw, CompressionNone, nil
		}
		return dst[:n], CompressionLZ4, nil

	case CompressionZstd:
		enc := getZstdEncoder()
		dst := enc.EncodeAll(raw, nil)
		zstdEncoderPool.Put(enc)
		if len(dst) >= len(raw) {
			return raw, CompressionNone, nil
		}
		return dst, CompressionZstd, nil

	default:
		return nil, 0, fmt.Errorf("unknown compression: %d", codec)
	}
}

// decompress decodes a block payload into a buffer of uncompressedSize bytes.
func decompress(payload []byte, codec Compression, uncompressedSize int) ([]byte, error) {
	switch codec {
	case CompressionNone:
		return payload, nil

	case CompressionLZ4:
		dst := make([]byte, uncompressedSize)
		n, err := lz4.UncompressBlock(payload, dst)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompress: %w", err)
		}
		if n != uncompressedSize {
			return nil, fmt.Errorf("lz4 decompress: got %d bytes, want %d", n, uncompressedSize)
		}
		return dst, nil

	case CompressionZstd:
		dec := getZstdDecoder()
		dst, err := dec.DecodeAll(payload, make([]byte, 0, uncompressedSize))
		zstdDecoderPool.Put(dec)
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}
		if len(dst) != uncompressedSize {
			return nil, fmt.Errorf("zstd decompress: got %d bytes, want %d", len(dst), uncompressedSize)
		}
		return dst, nil

	default:
		return nil, fmt.Errorf("unknown compression: %d", codec)
	}
}
