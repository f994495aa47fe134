package decoder

import "github.com/dbehnke/cdecoder/internal/paramset"

// Depuncture reinserts soft-zero erasures at the positions a puncture
// schedule marks as dropped, without consuming an input sample for them.
// The returned slice always has length len(schedule) (the mother
// codeword length); class 0 bypasses this entirely since it was never
// punctured.
func Depuncture(in []Sample, schedule paramset.PunctureSchedule) []Sample {
	out := make([]Sample, len(schedule))
	j := 0
	for i, kept := range schedule {
		if kept {
			out[i] = in[j]
			j++
		}
		// punctured position already zero-valued: a soft erasure.
	}
	return out
}
