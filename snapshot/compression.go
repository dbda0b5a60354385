package snapshot

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies the codec applied to column payloads.
type Compression uint8

// Supported column codecs. The values are stored in snapshot headers.
const (
	CompressionNone Compression = iota // Raw float64 bits
	CompressionZstd                    // Zstandard frames
	CompressionS2                      // Snappy-compatible blocks, decoded with s2
	CompressionLZ4                     // LZ4 blocks
)

// String returns the name accepted by ParseCompression.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionS2:
		return "s2"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("Compression(%d)", uint8(c))
	}
}

// ParseCompression maps a codec name to a Compression.
func ParseCompression(name string) (Compression, error) {
	switch strings.ToLower(name) {
	case "none", "":
		return CompressionNone, nil
	case "zstd":
		return CompressionZstd, nil
	case "s2":
		return CompressionS2, nil
	case "lz4":
		return CompressionLZ4, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownCompression, name)
	}
}

// codec compresses whole column payloads. The raw size is always known on
// decompression since every column holds rows float64 values.
type codec interface {
	compress(src []byte) ([]byte, error)
	decompress(src []byte, rawSize int) ([]byte, error)
}

// maxExpansion is the largest raw to compressed size ratio the format of c
// can encode.
func maxExpansion(c Compression) uint64 {
	switch c {
	case CompressionZstd:
		return 1 << 15 // 128 KiB RLE block from 4 bytes
	case CompressionS2:
		return 22 // 64 byte copy from a 3 byte tag
	case CompressionLZ4:
		return 255
	default:
		return 1
	}
}

func codecFor(c Compression) (codec, error) {
	switch c {
	case CompressionNone:
		return noopCodec{}, nil
	case CompressionZstd:
		return zstdCodec{}, nil
	case CompressionS2:
		return s2Codec{}, nil
	case CompressionLZ4:
		return lz4Codec{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCompression, c)
	}
}

type noopCodec struct{}

func (noopCodec) compress(src []byte) ([]byte, error) { return src, nil }

func (noopCodec) decompress(src []byte, rawSize int) ([]byte, error) {
	if len(src) != rawSize {
		return nil, fmt.Errorf("%w: payload is %d bytes, want %d", ErrChecksum, len(src), rawSize)
	}
	return src, nil
}

var zstdEncoderPool = sync.Pool{
	New: func() any {
		enc, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.SpeedDefault),
			zstd.WithEncoderCRC(false),
		)
		if err != nil {
			panic(fmt.Sprintf("snapshot: create zstd encoder: %v", err))
		}
		return enc
	},
}

var zstdDecoderPool = sync.Pool{
	New: func() any {
		dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
		if err != nil {
			panic(fmt.Sprintf("snapshot: create zstd decoder: %v", err))
		}
		return dec
	},
}

type zstdCodec struct{}

func (zstdCodec) compress(src []byte) ([]byte, error) {
	enc := zstdEncoderPool.Get().(*zstd.Encoder)
	defer zstdEncoderPool.Put(enc)
	return enc.EncodeAll(src, nil), nil
}

func (zstdCodec) decompress(src []byte, rawSize int) ([]byte, error) {
	if len(src) == 0 && rawSize == 0 {
		return nil, nil
	}

	dec := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(dec)

	out, err := dec.DecodeAll(src, make([]byte, 0, rawSize))
	if err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}
	return out, nil
}

type s2Codec struct{}

func (s2Codec) compress(src []byte) ([]byte, error) {
	return s2.EncodeSnappy(nil, src), nil
}

func (s2Codec) decompress(src []byte, rawSize int) ([]byte, error) {
	n, err := s2.DecodedLen(src)
	if err != nil {
		return nil, fmt.Errorf("s2: %w", err)
	}
	if n != rawSize {
		return nil, fmt.Errorf("%w: s2 payload decodes to %d bytes, want %d", ErrChecksum, n, rawSize)
	}
	out, err := s2.Decode(make([]byte, rawSize), src)
	if err != nil {
		return nil, fmt.Errorf("s2: %w", err)
	}
	return out, nil
}

var lz4CompressorPool = sync.Pool{
	New: func() any { return &lz4.Compressor{} },
}

type lz4Codec struct{}

func (lz4Codec) compress(src []byte) ([]byte, error) {
	if len(src) == 0 {
		return nil, nil
	}

	lc := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	dst := make([]byte, lz4.CompressBlockBound(len(src)))
	n, err := lc.CompressBlock(src, dst)
	if err != nil {
		return nil, fmt.Errorf("lz4: %w", err)
	}
	return dst[:n], nil
}

func (lz4Codec) decompress(src []byte, rawSize int) ([]byte, error) {
	if rawSize == 0 {
		return nil, nil
	}

	out := make([]byte, rawSize)
	n, err := lz4.UncompressBlock(src, out)
	if err != nil {
		if errors.Is(err, lz4.ErrInvalidSourceShortBuffer) {
			return nil, fmt.Errorf("%w: lz4 payload larger than %d bytes", ErrChecksum, rawSize)
		}
		return nil, fmt.Errorf("lz4: %w", err)
	}
	if n != rawSize {
		return nil, fmt.Errorf("%w: lz4 payload decodes to %d bytes, want %d", ErrChecksum, n, rawSize)
	}
	return out, nil
}
