// Package rle implements the run-length wire codec for binary masks.
//
// A mask travels as a base64 string of a zlib-compressed payload with the
// little-endian layout:
//
//	u8  start value (polarity of the first run, 0 or 1)
//	u16 height
//	u16 width
//	u32 run count
//	u16 run lengths, one per run
//
// Runs alternate polarity starting at the start value and flip after every
// run, including zero-length ones. A run longer than 65535 pixels is split
// by emitting 65535, then a zero-length run of the opposite polarity, then
// the remainder, which keeps the decoder's flip rule uniform.
package rle

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/menta2k/segmask/pkg/types"
)

// headerSize is the fixed byte length of the serialized header.
const headerSize = 9

// maxRun is the largest run length a single 16-bit entry can carry.
const maxRun = 65535

// ErrMalformed reports a transport string that cannot be decoded: invalid
// base64, a corrupt compressed stream, or a payload shorter than the header.
var ErrMalformed = errors.New("malformed mask stream")

// Codec encodes and decodes binary masks.
type Codec struct {
	config Config
}

// Config holds configuration for the codec.
type Config struct {
	// CompressionLevel is the zlib level used on encode, from 1 (fastest)
	// to 9 (smallest). 0 selects the compressor's default.
	CompressionLevel int
}

// New creates a new Codec with default configuration.
func New() *Codec {
	return &Codec{
		config: Config{
			CompressionLevel: zlib.DefaultCompression,
		},
	}
}

// NewWithConfig creates a new Codec with custom configuration.
func NewWithConfig(config Config) *Codec {
	if config.CompressionLevel == 0 {
		config.CompressionLevel = zlib.DefaultCompression
	}
	return &Codec{config: config}
}

// Encode serializes a mask to its base64 transport string. It fails only
// when the mask violates its own invariants or the compression level is
// out of range.
func (c *Codec) Encode(m *types.Mask) (string, error) {
	raw, err := c.EncodeBytes(m)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// Decode reverses Encode. Any malformed input yields an error wrapping
// ErrMalformed; a structurally valid stream with a truncated run array
// decodes best-effort instead of failing.
func (c *Codec) Decode(s string) (*types.Mask, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64: %v", ErrMalformed, err)
	}
	return c.DecodeBytes(raw)
}

// EncodeBytes serializes a mask to its compressed binary form, without the
// base64 wrapping. A zero-pixel mask compresses an empty payload.
func (c *Codec) EncodeBytes(m *types.Mask) ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("cannot encode mask: %w", err)
	}

	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, c.config.CompressionLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid compression level: %w", err)
	}

	pix := m.Binarized()
	if len(pix) > 0 {
		runs := splitRuns(runLengths(pix))

		payload := make([]byte, headerSize+2*len(runs))
		payload[0] = pix[0]
		binary.LittleEndian.PutUint16(payload[1:3], uint16(m.Height))
		binary.LittleEndian.PutUint16(payload[3:5], uint16(m.Width))
		binary.LittleEndian.PutUint32(payload[5:9], uint32(len(runs)))
		for i, rl := range runs {
			binary.LittleEndian.PutUint16(payload[headerSize+2*i:], rl)
		}

		if _, err := zw.Write(payload); err != nil {
			return nil, fmt.Errorf("compression failed: %w", err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("compression failed: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeBytes reverses EncodeBytes.
func (c *Codec) DecodeBytes(raw []byte) (*types.Mask, error) {
	zr, err := zlib.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: not a zlib stream: %v", ErrMalformed, err)
	}
	defer zr.Close()

	data, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: corrupt compressed stream: %v", ErrMalformed, err)
	}
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: payload shorter than %d-byte header", ErrMalformed, headerSize)
	}

	startValue := data[0]
	height := int(binary.LittleEndian.Uint16(data[1:3]))
	width := int(binary.LittleEndian.Uint16(data[3:5]))
	runCount := int(binary.LittleEndian.Uint32(data[5:9]))

	// A truncated run array is read as far as it goes; the remaining
	// pixels stay background. The declared count never grows the
	// allocation past the entries actually present.
	maxRuns := (len(data) - headerSize) / 2
	if runCount > maxRuns {
		runCount = maxRuns
	}
	runs := make([]int, 0, runCount)
	offset := headerSize
	for i := 0; i < runCount && offset+2 <= len(data); i++ {
		runs = append(runs, int(binary.LittleEndian.Uint16(data[offset:])))
		offset += 2
	}

	pix := make([]uint8, height*width)
	current := uint8(0)
	if startValue != 0 {
		current = 1
	}
	pos := 0
	for _, rl := range runs {
		if pos+rl > len(pix) {
			rl = len(pix) - pos
		}
		if rl > 0 && current != 0 {
			for i := pos; i < pos+rl; i++ {
				pix[i] = types.Foreground
			}
		}
		pos += rl
		current = 1 - current
	}

	return &types.Mask{Height: height, Width: width, Pix: pix}, nil
}

// runLengths scans a non-empty {0,1} pixel sequence and returns the length
// of each maximal run of equal values, in order.
func runLengths(pix []uint8) []int {
	runs := []int{}
	current := pix[0]
	length := 0
	for _, v := range pix {
		if v == current {
			length++
			continue
		}
		runs = append(runs, length)
		current = v
		length = 1
	}
	return append(runs, length)
}

// splitRuns converts run lengths to 16-bit entries, splitting any run
// longer than maxRun with interleaved zero-length runs of the opposite
// polarity so the alternation invariant holds.
func splitRuns(runs []int) []uint16 {
	out := make([]uint16, 0, len(runs))
	for _, rl := range runs {
		for rl > maxRun {
			out = append(out, maxRun, 0)
			rl -= maxRun
		}
		out = append(out, uint16(rl))
	}
	return out
}
