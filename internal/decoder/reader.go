package decoder

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/dbehnke/cdecoder/internal/paramset"
)

// Reader pulls one 432-sample radio time-slot at a time from an
// underlying byte stream of little-endian signed 16-bit soft samples. It
// performs no reframing: the caller is responsible for slot alignment.
type Reader struct {
	r   io.Reader
	buf []byte
}

// NewReader wraps r as a slot-at-a-time Burst Reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		r:   r,
		buf: make([]byte, paramset.SlotSamples*2),
	}
}

// ReadSlot reads exactly one slot's worth of samples. It returns
// ErrEndOfStream if the stream ended cleanly before any byte of the slot
// was read, or ErrIO wrapping the underlying error (including a short
// final slot) otherwise.
func (r *Reader) ReadSlot() ([]Sample, error) {
	n, err := io.ReadFull(r.r, r.buf)
	if err != nil {
		if err == io.EOF && n == 0 {
			return nil, ErrEndOfStream
		}
		return nil, fmt.Errorf("%w: reading slot: %v", ErrIO, err)
	}

	out := make([]Sample, paramset.SlotSamples)
	for i := range out {
		out[i] = Sample(int16(binary.LittleEndian.Uint16(r.buf[2*i:])))
	}
	return out, nil
}
