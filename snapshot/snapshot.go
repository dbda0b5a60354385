// Package snapshot stores decomposition tables in a compact binary format.
//
// A snapshot holds every column of a table as raw little-endian float64
// bits, so NaN payloads survive a round trip. Each column is compressed on
// its own and carries xxhash64 checksums of its name and raw payload.
//
// Layout:
//
//	magic "MSTL" | version u8 | compression u8 | rows u32 | columns u16 | periods u16
//	periods: u32 each
//	per column: name length u16 | name | name hash u64 | payload hash u64 |
//	            compressed length u32 | compressed payload
package snapshot

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/cespare/xxhash/v2"

	"github.com/sartorproj/gomstl/internal/options"
	"github.com/sartorproj/gomstl/mstl"
)

// Version is the format version written by Encode.
const Version = 1

var magic = [4]byte{'M', 'S', 'T', 'L'}

var (
	// ErrBadMagic is returned for data that does not start with "MSTL".
	ErrBadMagic = errors.New("snapshot: not an MSTL snapshot")
	// ErrUnsupportedVersion is returned for a format version other than Version.
	ErrUnsupportedVersion = errors.New("snapshot: unsupported version")
	// ErrTruncated is returned when the data ends early or a payload is too
	// small for the rows its header claims.
	ErrTruncated = errors.New("snapshot: truncated data")
	// ErrChecksum is returned when a column name or payload does not match its hash.
	ErrChecksum = errors.New("snapshot: checksum mismatch")
	// ErrUnknownCompression is returned for an unsupported codec id or name.
	ErrUnknownCompression = errors.New("snapshot: unknown compression")
)

type encodeConfig struct {
	compression Compression
}

// Option configures Encode.
type Option = options.Option[*encodeConfig]

// WithCompression selects the column codec. The default is zstd.
func WithCompression(c Compression) Option {
	return options.New(func(cfg *encodeConfig) error {
		if _, err := codecFor(c); err != nil {
			return err
		}
		cfg.compression = c
		return nil
	})
}

// Encode serializes t.
func Encode(t *mstl.Table, opts ...Option) ([]byte, error) {
	cfg := &encodeConfig{compression: CompressionZstd}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}
	c, err := codecFor(cfg.compression)
	if err != nil {
		return nil, err
	}

	cols := t.Columns()
	periods := t.Periods()
	if uint64(t.Len()) > math.MaxUint32 || len(cols) > math.MaxUint16 || len(periods) > math.MaxUint16 {
		return nil, fmt.Errorf("snapshot: table too large: %d rows, %d columns", t.Len(), len(cols))
	}

	le := binary.LittleEndian
	buf := make([]byte, 0, 16+len(cols)*(t.Len()*8+32))
	buf = append(buf, magic[:]...)
	buf = append(buf, Version, byte(cfg.compression))
	buf = le.AppendUint32(buf, uint32(t.Len()))
	buf = le.AppendUint16(buf, uint16(len(cols)))
	buf = le.AppendUint16(buf, uint16(len(periods)))
	for _, p := range periods {
		buf = le.AppendUint32(buf, uint32(p))
	}

	raw := make([]byte, t.Len()*8)
	for _, col := range cols {
		if len(col.Name) > math.MaxUint16 {
			return nil, fmt.Errorf("snapshot: column name too long: %d bytes", len(col.Name))
		}
		for i, v := range col.Values {
			le.PutUint64(raw[i*8:], math.Float64bits(v))
		}
		payload, err := c.compress(raw)
		if err != nil {
			return nil, fmt.Errorf("snapshot: compress %q: %w", col.Name, err)
		}

		buf = le.AppendUint16(buf, uint16(len(col.Name)))
		buf = append(buf, col.Name...)
		buf = le.AppendUint64(buf, xxhash.Sum64String(col.Name))
		buf = le.AppendUint64(buf, xxhash.Sum64(raw))
		buf = le.AppendUint32(buf, uint32(len(payload)))
		buf = append(buf, payload...)
	}
	return buf, nil
}

// Header describes a snapshot without its column data.
type Header struct {
	Version     uint8
	Compression Compression
	Rows        int
	Periods     []int
	Columns     []ColumnInfo
}

// ColumnInfo describes one stored column.
type ColumnInfo struct {
	Name           string
	CompressedSize int
	RawSize        int
}

// Inspect reads the header and column directory of a snapshot without
// decompressing any payload.
func Inspect(b []byte) (*Header, error) {
	h, _, err := parse(b)
	return h, err
}

// Decode rebuilds the table stored in b, verifying every checksum.
func Decode(b []byte) (*mstl.Table, error) {
	h, payloads, err := parse(b)
	if err != nil {
		return nil, err
	}
	c, err := codecFor(h.Compression)
	if err != nil {
		return nil, err
	}

	cols := make([]mstl.Column, len(h.Columns))
	for i, info := range h.Columns {
		p := payloads[i]
		raw, err := c.decompress(p.data, info.RawSize)
		if err != nil {
			return nil, fmt.Errorf("snapshot: column %q: %w", info.Name, err)
		}
		if len(raw) != info.RawSize || xxhash.Sum64(raw) != p.sum {
			return nil, fmt.Errorf("%w: column %q payload", ErrChecksum, info.Name)
		}

		values := make([]float64, h.Rows)
		for j := range values {
			values[j] = math.Float64frombits(binary.LittleEndian.Uint64(raw[j*8:]))
		}
		cols[i] = mstl.Column{Name: info.Name, Values: values}
	}
	return mstl.NewTable(h.Periods, cols...)
}

// WriteFile encodes t and writes it to path.
func WriteFile(path string, t *mstl.Table, opts ...Option) error {
	b, err := Encode(t, opts...)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// ReadFile decodes the snapshot stored at path.
func ReadFile(path string) (*mstl.Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	t, err := Decode(b)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return t, nil
}

type payload struct {
	data []byte
	sum  uint64
}

func parse(b []byte) (*Header, []payload, error) {
	r := &reader{b: b}

	var m [4]byte
	copy(m[:], r.bytes(4))
	if r.err != nil {
		return nil, nil, r.err
	}
	if m != magic {
		return nil, nil, ErrBadMagic
	}

	h := &Header{Version: r.u8()}
	if r.err == nil && h.Version != Version {
		return nil, nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}
	h.Compression = Compression(r.u8())
	h.Rows = int(r.u32())
	ncols := int(r.u16())
	nperiods := int(r.u16())
	if r.err != nil {
		return nil, nil, r.err
	}
	if _, err := codecFor(h.Compression); err != nil {
		return nil, nil, err
	}

	for i := 0; i < nperiods; i++ {
		h.Periods = append(h.Periods, int(r.u32()))
	}

	h.Columns = make([]ColumnInfo, ncols)
	payloads := make([]payload, ncols)
	for i := range h.Columns {
		name := string(r.bytes(int(r.u16())))
		nameSum := r.u64()
		p := payload{sum: r.u64()}
		p.data = r.bytes(int(r.u32()))
		if r.err != nil {
			return nil, nil, fmt.Errorf("column %d: %w", i, r.err)
		}
		if xxhash.Sum64String(name) != nameSum {
			return nil, nil, fmt.Errorf("%w: column %d name", ErrChecksum, i)
		}
		// Rows is checked against the payload before any buffer is sized from it
		if uint64(h.Rows)*8 > maxExpansion(h.Compression)*uint64(len(p.data)) {
			return nil, nil, fmt.Errorf("%w: column %q: %d rows cannot fit in %d payload bytes",
				ErrTruncated, name, h.Rows, len(p.data))
		}

		h.Columns[i] = ColumnInfo{Name: name, CompressedSize: len(p.data), RawSize: h.Rows * 8}
		payloads[i] = p
	}
	if r.off != len(b) {
		return nil, nil, fmt.Errorf("snapshot: %d trailing bytes", len(b)-r.off)
	}
	return h, payloads, nil
}

// reader is a bounds-checked cursor. The first short read sets err and all
// later reads return zero values.
type reader struct {
	b   []byte
	off int
	err error
}

func (r *reader) bytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || len(r.b)-r.off < n {
		r.err = ErrTruncated
		return nil
	}
	out := r.b[r.off : r.off+n]
	r.off += n
	return out
}

func (r *reader) u8() uint8 {
	b := r.bytes(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *reader) u16() uint16 {
	b := r.bytes(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (r *reader) u32() uint32 {
	b := r.bytes(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *reader) u64() uint64 {
	b := r.bytes(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}
