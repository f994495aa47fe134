package decoder

import "github.com/dbehnke/cdecoder/internal/paramset"

// minValueAllowed is the Viterbi path-metric floor used to mark a state
// as unreachable at initialization (Initialization = 1 in the spec's
// terms).
const minValueAllowed = -int64(paramset.TrellisStates) * int64(3*MaxSample) * 4

// Viterbi is a soft-decision decoder for the rate-1/3, constraint-length-5
// trellis shared by both coder types. One instance is reused across calls
// (Score/ExScore/BestPrevious are reinitialized every Decode), mirroring
// pkg/ysf/convolution.go's Start/Decode/Chainback split, generalized from
// that decoder's rate-1/2, 16-state form to rate 1/3 and a ring-buffered,
// bounded-delay traceback.
type Viterbi struct {
	trellis paramset.Trellis

	score, exScore [paramset.TrellisStates]int64
	// best[ns][d % DecodingDelay] is the predecessor state chosen for
	// next-state ns at trellis step d.
	best [paramset.TrellisStates][paramset.DecodingDelay]int
}

// NewViterbi builds a decoder bound to the shared trellis (the same for
// TETRA and AMR475).
func NewViterbi(trellis paramset.Trellis) *Viterbi {
	return &Viterbi{trellis: trellis}
}

func chip(bit uint8) int64 {
	if bit != 0 {
		return 1
	}
	return -1
}

// Decode runs the full rate-1/3 trellis over received (a flat sequence of
// 3-sample groups) and returns one hard bit per trellis step. The final
// K-1 steps correspond to the encoder's zero-flush tail and are included
// in the output; callers that want only information bits must trim them
// (see Class.Info vs Class.Coded in the paramset package).
func (v *Viterbi) Decode(received []Sample) []Bit {
	steps := len(received) / 3
	out := make([]Bit, steps)

	for s := range v.score {
		v.score[s] = minValueAllowed
	}
	v.score[0] = 0

	for d := 0; d < steps; d++ {
		minScore := v.score[0]
		for _, sc := range v.score {
			if sc < minScore {
				minScore = sc
			}
		}
		for s := range v.score {
			v.exScore[s] = v.score[s] - minScore
		}

		r0, r1, r2 := int64(received[3*d]), int64(received[3*d+1]), int64(received[3*d+2])
		ring := d % paramset.DecodingDelay

		for ns := 0; ns < paramset.TrellisStates; ns++ {
			var cand [2]int64
			for b := 0; b < 2; b++ {
				prev := v.trellis.Previous[ns][b]
				metric := chip(v.trellis.T1[ns][b])*r0 + chip(v.trellis.T2[ns][b])*r1 + chip(v.trellis.T3[ns][b])*r2
				cand[b] = v.exScore[prev] + metric
			}
			best := 0
			switch {
			case cand[1] > cand[0]:
				best = 1
			case cand[1] == cand[0] && v.trellis.Previous[ns][1] < v.trellis.Previous[ns][0]:
				best = 1
			}
			v.score[ns] = clampScore64(cand[best])
			v.best[ns][ring] = v.trellis.Previous[ns][best]
		}

		if d >= paramset.DecodingDelay-1 {
			out[d-paramset.DecodingDelay+1] = v.traceback(d)
		}
	}

	// The last steps have no further look-ahead: trace back once from the
	// best final state to decide every bit not emitted above.
	state := bestState(v.score[:])
	for d := steps - 1; d >= 0 && d > steps-paramset.DecodingDelay; d-- {
		out[d] = Bit(state & 1)
		state = v.best[state][d%paramset.DecodingDelay]
	}

	return out
}

// traceback walks back depth-1 steps from the best state after step d
// (depth is DecodingDelay, or d+1 at the very start of a frame) and
// returns the input bit of step d-depth+1.
func (v *Viterbi) traceback(d int) Bit {
	depth := paramset.DecodingDelay
	if d+1 < depth {
		depth = d + 1
	}

	state := bestState(v.score[:])
	for i := 0; i < depth-1; i++ {
		ring := (d - i) % paramset.DecodingDelay
		state = v.best[state][ring]
	}
	return Bit(state & 1)
}

func bestState(score []int64) int {
	best := 0
	for s := 1; s < len(score); s++ {
		if score[s] > score[best] {
			best = s
		}
	}
	return best
}

// Encode runs bits through the trellis as an encoder would and returns
// noiseless (full-magnitude) soft samples, three per input bit. It exists
// to let tests exercise a full encode-then-decode round trip against a
// given parameter set's trellis, matching the teacher's convolution.go
// offering both Encode and Decode on the same type.
func Encode(bits []Bit, trellis paramset.Trellis) []Sample {
	out := make([]Sample, 0, 3*len(bits))
	state := 0
	for _, b := range bits {
		next := ((state << 1) | int(b)) & (paramset.TrellisStates - 1)
		slot := 0
		if trellis.Previous[next][0] != state {
			slot = 1
		}
		out = append(out,
			chipSample(trellis.T1[next][slot]),
			chipSample(trellis.T2[next][slot]),
			chipSample(trellis.T3[next][slot]),
		)
		state = next
	}
	return out
}

func chipSample(bit uint8) Sample {
	if bit != 0 {
		return MaxSample
	}
	return -MaxSample
}

func clampScore64(v int64) int64 {
	if v > int64(MaxScore) {
		return int64(MaxScore)
	}
	if v < -int64(MaxScore) {
		return -int64(MaxScore)
	}
	return v
}
