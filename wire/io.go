package wire

import (
	"encoding/binary"
	"fmt"
	"io"
)

// DefaultMaxFrame is the largest encoded frame this package will read
// or write without the caller raising the limit explicitly. A region
// snapshot is bounded by the region's own NumBytes, so this default is
// generous rather than tight.
const DefaultMaxFrame = 64 << 20

// MaxFrameHardLimit is never exceeded regardless of a caller-supplied
// limit, guarding against a corrupt length prefix causing an
// unbounded allocation.
const MaxFrameHardLimit = 256 << 20

// FrameReader reads length-prefixed CBOR frames from a stream.
type FrameReader struct {
	r        io.Reader
	maxFrame int
}

// NewFrameReader wraps r with the default frame size limit.
func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{r: r, maxFrame: DefaultMaxFrame}
}

// SetMaxFrame overrides the reader's frame size limit.
func (fr *FrameReader) SetMaxFrame(n int) {
	fr.maxFrame = n
}

// ReadFrame reads a single length-prefixed frame.
func (fr *FrameReader) ReadFrame() (Frame, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(fr.r, lenBuf[:]); err != nil {
		return Frame{}, err
	}
	length := binary.BigEndian.Uint32(lenBuf[:])

	if int(length) > fr.maxFrame {
		return Frame{}, fmt.Errorf("wire: frame size %d exceeds limit %d", length, fr.maxFrame)
	}
	if int(length) > MaxFrameHardLimit {
		return Frame{}, fmt.Errorf("wire: frame size %d exceeds hard limit %d", length, MaxFrameHardLimit)
	}

	buf := make([]byte, length)
	if _, err := io.ReadFull(fr.r, buf); err != nil {
		return Frame{}, err
	}
	return DecodeFrame(buf)
}

// FrameWriter writes length-prefixed CBOR frames to a stream.
type FrameWriter struct {
	w        io.Writer
	maxFrame int
}

// NewFrameWriter wraps w with the default frame size limit.
func NewFrameWriter(w io.Writer) *FrameWriter {
	return &FrameWriter{w: w, maxFrame: DefaultMaxFrame}
}

// SetMaxFrame overrides the writer's frame size limit.
func (fw *FrameWriter) SetMaxFrame(n int) {
	fw.maxFrame = n
}

// WriteFrame CBOR-encodes f and writes it with a 4-byte big-endian
// length prefix.
func (fw *FrameWriter) WriteFrame(f Frame) error {
	buf, err := EncodeFrame(f)
	if err != nil {
		return err
	}
	if len(buf) > fw.maxFrame {
		return fmt.Errorf("wire: encoded frame size %d exceeds limit %d", len(buf), fw.maxFrame)
	}

	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(buf)))
	if _, err := fw.w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err = fw.w.Write(buf)
	return err
}
