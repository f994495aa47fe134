package paramset

// This file holds the deterministic generators used to synthesize the
// parameter tables described in SPEC_FULL.md §3.1: the original .tab data
// was never retrieved, so every table below is built from documented sizes
// and invariants rather than copied from proprietary constants.

// gcd is the textbook Euclidean algorithm.
func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// coprimeNear returns the smallest k >= start such that gcd(k, n) == 1.
// Used to pick a K1 multiplier for a linear deinterleaver permutation that
// is guaranteed bijective mod n.
func coprimeNear(n, start int) int {
	if n <= 1 {
		return 1
	}
	for k := start; ; k++ {
		if gcd(k, n) == 1 {
			return k
		}
	}
}

// buildInterleave constructs the i -> (k1*i + k2) mod n permutation, with
// k1 adjusted upward from the supplied hint until it is coprime to n so
// the map is always a bijection.
func buildInterleave(n, k1Hint, k2 int) Interleave {
	k1 := coprimeNear(n, k1Hint)
	perm := make([]int, n)
	for i := 0; i < n; i++ {
		perm[i] = ((k1*i + k2) % n) + 0
		if perm[i] < 0 {
			perm[i] += n
		}
	}
	return Interleave{Perm: perm}
}

// evenPuncture builds a boolean mask over a mother codeword of length
// motherLen that keeps exactly `keep` positions, spread as evenly as
// possible across the codeword (a Bresenham-style rate converter). This
// stands in for the "Period_pct" pattern referenced in SPEC_FULL.md §3:
// computed over the whole codeword rather than tiled from a period table,
// but it satisfies the same contract — a fixed mask whose punctured
// positions the depuncturer refills with erasures.
func evenPuncture(motherLen, keep int) PunctureSchedule {
	mask := make(PunctureSchedule, motherLen)
	if keep <= 0 || motherLen == 0 {
		return mask
	}
	if keep > motherLen {
		keep = motherLen
	}
	acc := 0
	for i := 0; i < motherLen; i++ {
		acc += keep
		if acc >= motherLen {
			mask[i] = true
			acc -= motherLen
		}
	}
	return mask
}

// identityTab builds a contiguous, mostly-identity Tab mapping `count`
// class bit positions onto vocoder ranks [offset, offset+count), flipping
// every flipEvery-th entry to exercise the ALLOW_NEG-derived Flip path
// end to end.
func identityTab(offset, count, flipEvery int) []BitMap {
	tab := make([]BitMap, count)
	for i := 0; i < count; i++ {
		flip := flipEvery > 0 && (i+1)%flipEvery == 0
		tab[i] = BitMap{Index: uint16(offset + i), Flip: flip}
	}
	return tab
}

// crcRanks builds the kcrc CRC tap lists over a class-2 region of length
// class2Len. By convention the first kcrc class-2 positions [0, kcrc) are
// the CRC check bits themselves; CRC bit k taps the data positions
// k+kcrc, k+2*kcrc, ... (a simple interleaved parity scheme over
// everything after the check-bit prefix), alternating Flip every other
// tap.
func crcRanks(kcrc, class2Len int) [KCRC][]BitMap {
	var taps [KCRC][]BitMap
	for k := 0; k < kcrc; k++ {
		var list []BitMap
		flip := false
		for pos := k + kcrc; pos < class2Len; pos += kcrc {
			list = append(list, BitMap{Index: uint16(pos), Flip: flip})
			flip = !flip
		}
		taps[k] = list
	}
	return taps
}

// splitRedundancy divides a total extra-redundancy budget between two
// classes in proportion to their information-bit counts, rounding the
// first share down so the two shares always sum to exactly budget.
func splitRedundancy(budget, info1, info2 int) (r1, r2 int) {
	total := info1 + info2
	if total == 0 {
		return 0, 0
	}
	r1 = budget * info1 / total
	r2 = budget - r1
	return r1, r2
}

// buildClass builds a ClassGeometry for a coded, punctured class: info
// bits, tail-flushed to Coded, punctured down to a mother codeword from
// which exactly channelLen positions survive.
func buildClass(info, channelLen int) ClassGeometry {
	coded := info + TailBits
	mother := 3 * coded
	return ClassGeometry{
		Info:     info,
		Coded:    coded,
		Puncture: evenPuncture(mother, channelLen),
	}
}
