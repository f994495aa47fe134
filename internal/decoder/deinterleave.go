package decoder

import "github.com/dbehnke/cdecoder/internal/paramset"

// Deinterleave inverts the speech block-interleaving permutation over a
// full slot. perm[i] names the source index output position i is read
// from, so out[i] = in[perm[i]]. Output length always equals input
// length; no sample is dropped.
func Deinterleave(in []Sample, interleave paramset.Interleave) []Sample {
	out := make([]Sample, len(interleave.Perm))
	for i, src := range interleave.Perm {
		out[i] = in[src]
	}
	return out
}

// DeinterleaveStolen handles a slot whose first half-slot has been stolen
// for signalling: the first half is copied verbatim (the speech path must
// not decode stolen signalling), and the signalling deinterleaver is
// applied to the second half only.
func DeinterleaveStolen(in []Sample, signalling paramset.Interleave) []Sample {
	half := paramset.HalfSlotSamples
	out := make([]Sample, len(in))
	copy(out[:half], in[:half])
	second := Deinterleave(in[half:], signalling)
	copy(out[half:], second)
	return out
}
