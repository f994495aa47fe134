package decoder

import "github.com/dbehnke/cdecoder/internal/paramset"

// Reorder merges the three decoded class vectors into vocoder bit order.
// Each table entry at class position i places that class bit into
// vocoder rank tab[i].Index, inverting it first if tab[i].Flip is set.
func Reorder(class0, class1, class2 []Bit, geom paramset.FrameGeometry) []Bit {
	out := make([]Bit, geom.VocoderLength())
	place(out, class0, geom.Tab0)
	place(out, class1, geom.Tab1)
	place(out, class2, geom.Tab2)
	return out
}

func place(out []Bit, class []Bit, tab []paramset.BitMap) {
	for i, t := range tab {
		bit := class[i]
		if t.Flip {
			bit ^= 1
		}
		out[t.Index] = bit
	}
}
