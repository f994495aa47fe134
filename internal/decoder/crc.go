package decoder

import "github.com/dbehnke/cdecoder/internal/paramset"

// VerifyCRC recomputes each CRC bit of a decoded class-2 vector as the
// parity of the tapped ranks named in taps, and compares it against the
// check bit actually received at that rank (by convention, the class-2
// vector's first len(taps) positions are the CRC check bits themselves).
// Any mismatch means the frame is corrupted.
func VerifyCRC(class2 []Bit, taps [][]paramset.BitMap) bool {
	for k, tapList := range taps {
		if len(tapList) == 0 {
			continue
		}
		var parity Bit
		for _, tap := range tapList {
			bit := class2[tap.Index]
			if tap.Flip {
				bit ^= 1
			}
			parity ^= bit
		}
		if parity != class2[k] {
			return false
		}
	}
	return true
}
