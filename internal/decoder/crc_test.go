package decoder

import (
	"testing"

	"github.com/dbehnke/cdecoder/internal/paramset"
)

func TestVerifyCRC_ConsistentStream_Passes(t *testing.T) {
	p, err := paramset.New(paramset.TETRA)
	if err != nil {
		t.Fatalf("New(TETRA): %v", err)
	}
	geom := p.Normal

	class2 := make([]Bit, geom.Class2.Info)
	for i := paramset.KCRC; i < len(class2); i++ {
		class2[i] = Bit(i % 2)
	}
	for k, taps := range geom.TabCRC {
		var parity Bit
		for _, tap := range taps {
			bit := class2[tap.Index]
			if tap.Flip {
				bit ^= 1
			}
			parity ^= bit
		}
		class2[k] = parity
	}

	if !VerifyCRC(class2, geom.TabCRC[:]) {
		t.Fatal("expected CRC to pass for a self-consistent class-2 vector")
	}
}

func TestVerifyCRC_CorruptedCheckBit_Fails(t *testing.T) {
	p, err := paramset.New(paramset.TETRA)
	if err != nil {
		t.Fatalf("New(TETRA): %v", err)
	}
	geom := p.Normal

	class2 := make([]Bit, geom.Class2.Info)
	for k, taps := range geom.TabCRC {
		var parity Bit
		for _, tap := range taps {
			bit := class2[tap.Index]
			if tap.Flip {
				bit ^= 1
			}
			parity ^= bit
		}
		class2[k] = parity
	}
	class2[0] ^= 1 // corrupt the first CRC check bit

	if VerifyCRC(class2, geom.TabCRC[:]) {
		t.Fatal("expected CRC to fail after corrupting a check bit")
	}
}
