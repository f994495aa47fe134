package decoder

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/dbehnke/cdecoder/internal/paramset"
)

func encodeSlot(samples []int16) []byte {
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[2*i:], uint16(s))
	}
	return buf
}

func TestReader_ReadSlot_RoundTrips(t *testing.T) {
	samples := make([]int16, paramset.SlotSamples)
	for i := range samples {
		samples[i] = int16(i%255 - 127)
	}
	r := NewReader(bytes.NewReader(encodeSlot(samples)))

	got, err := r.ReadSlot()
	if err != nil {
		t.Fatalf("ReadSlot returned error: %v", err)
	}
	if len(got) != paramset.SlotSamples {
		t.Fatalf("got %d samples, want %d", len(got), paramset.SlotSamples)
	}
	for i, s := range samples {
		if got[i] != Sample(s) {
			t.Errorf("sample %d = %d, want %d", i, got[i], s)
		}
	}
}

func TestReader_ReadSlot_CleanEOF(t *testing.T) {
	r := NewReader(bytes.NewReader(nil))
	_, err := r.ReadSlot()
	if !errors.Is(err, ErrEndOfStream) {
		t.Fatalf("expected ErrEndOfStream, got %v", err)
	}
}

func TestReader_ReadSlot_ShortFinalSlot(t *testing.T) {
	samples := make([]int16, paramset.SlotSamples/2)
	r := NewReader(bytes.NewReader(encodeSlot(samples)))
	_, err := r.ReadSlot()
	if !errors.Is(err, ErrIO) {
		t.Fatalf("expected ErrIO for short final slot, got %v", err)
	}
}

func TestReader_ReadSlot_MultipleSlots(t *testing.T) {
	var all []byte
	for s := 0; s < 3; s++ {
		samples := make([]int16, paramset.SlotSamples)
		for i := range samples {
			samples[i] = int16(s)
		}
		all = append(all, encodeSlot(samples)...)
	}
	r := NewReader(bytes.NewReader(all))
	for s := 0; s < 3; s++ {
		got, err := r.ReadSlot()
		if err != nil {
			t.Fatalf("slot %d: ReadSlot returned error: %v", s, err)
		}
		if got[0] != Sample(s) {
			t.Errorf("slot %d: first sample = %d, want %d", s, got[0], s)
		}
	}
	if _, err := r.ReadSlot(); !errors.Is(err, ErrEndOfStream) {
		t.Errorf("expected ErrEndOfStream after 3rd slot, got %v", err)
	}
}
