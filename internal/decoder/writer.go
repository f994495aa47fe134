package decoder

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/dbehnke/cdecoder/internal/paramset"
)

// Writer serializes SlotResults to the reference tool's output framing
// (§6): one little-endian int16 sample stream, no header.
type Writer struct {
	w     io.Writer
	coder paramset.CoderType
	vfLen int
}

// NewWriter creates a Writer for the given coder type.
func NewWriter(w io.Writer, params *paramset.ParamSet) *Writer {
	return &Writer{w: w, coder: params.Coder, vfLen: params.LengthVocoderFrame}
}

// WriteSlot emits one decoded slot in the coder's output framing.
func (w *Writer) WriteSlot(result SlotResult) error {
	switch w.coder {
	case paramset.TETRA:
		return w.writeTETRASlot(result)
	case paramset.AMR475:
		return w.writeAMR475Slot(result)
	default:
		return fmt.Errorf("%w: unknown coder type %d", ErrUsage, w.coder)
	}
}

// writeTETRASlot emits `<bfi1> <frame1[137]> <bfi2> <frame2[137]>`, 276
// samples total.
func (w *Writer) writeTETRASlot(result SlotResult) error {
	for _, frame := range result.Frames {
		if err := w.writeSample(bfiSample(frame.BFI)); err != nil {
			return err
		}
		if err := w.writeBits(frame.Bits); err != nil {
			return err
		}
	}
	return nil
}

// writeAMR475Slot emits, per speech frame: `<bfi3> <frame[Lvf]>
// <zeros[244-Lvf]> <mode> <zeros[4]>`. Reproduces the reference tool's
// bfi3 bug bit-for-bit (confirmed against
// original_source/AMR-Code/cdecoder.c lines 213/228/243, see DESIGN.md):
// the first two frame writes both derive bfi3 from frame 0's BFI (bfi1 in
// the reference naming), and only the third write derives it from frame
// 1's BFI (bfi2) — frame 2's own BFI is never consulted.
func (w *Writer) writeAMR475Slot(result SlotResult) error {
	mode := int16(int(paramset.AMR475) - 1)

	bfi3For := func(i int) int16 {
		switch i {
		case 0, 1:
			if result.Frames[0].BFI {
				return 3
			}
		case 2:
			if result.Frames[1].BFI {
				return 3
			}
		}
		return 0
	}

	for i, frame := range result.Frames {
		if err := w.writeSample(bfi3For(i)); err != nil {
			return err
		}
		if err := w.writeBits(frame.Bits); err != nil {
			return err
		}
		if err := w.writeZeros(244 - w.vfLen); err != nil {
			return err
		}
		if err := w.writeSample(mode); err != nil {
			return err
		}
		if err := w.writeZeros(4); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeBits(bits []Bit) error {
	for _, b := range bits {
		if err := w.writeSample(bitSample(b)); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeZeros(n int) error {
	for i := 0; i < n; i++ {
		if err := w.writeSample(0); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeSample(v int16) error {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], uint16(v))
	if _, err := w.w.Write(buf[:]); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}

func bfiSample(bfi bool) int16 {
	if bfi {
		return 1
	}
	return 0
}

func bitSample(b Bit) int16 {
	if b != 0 {
		return 1
	}
	return 0
}
