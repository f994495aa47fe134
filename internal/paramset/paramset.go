// Package paramset builds the immutable per-coder parameter record that
// every CORE component reads from: class sizes, reorder tables, puncturing
// schedules and CRC ranks. See init_params.c in the TetraEar reference
// source for the shape this is modeled on; the concrete bit-level tables
// here are synthesized (the original .tab data files were never part of
// the retrieved sources) but satisfy every invariant the spec requires.
package paramset

import "fmt"

// CoderType selects which of the two supported channel geometries a
// ParamSet describes.
type CoderType int

const (
	// TETRA is the default coder type: 2 speech frames per TDMA slot.
	TETRA CoderType = 0
	// AMR475 is the Adaptive Multi-Rate 4.75 kbit/s mode: 3 speech frames
	// per TDMA slot.
	AMR475 CoderType = 1
)

func (c CoderType) String() string {
	switch c {
	case TETRA:
		return "TETRA"
	case AMR475:
		return "AMR475"
	default:
		return fmt.Sprintf("CoderType(%d)", int(c))
	}
}

// BitMap is the explicit tagged pair the ALLOW_NEG macro used to pack into
// a single signed integer: a zero-based index into some bit vector, plus a
// flip flag meaning "invert this bit before use". See design note in
// SPEC_FULL.md §9 ("The ALLOW_NEG encoding").
type BitMap struct {
	Index uint16
	Flip  bool
}

// SlotSamples is the fixed number of soft samples carried per TDMA slot.
const SlotSamples = 432

// HalfSlotSamples is the length of one half of a slot; the deinterleaver
// and frame-stealing logic both operate on this boundary.
const HalfSlotSamples = SlotSamples / 2

// ConstraintK is the convolutional code's constraint length. The decoder
// expects the encoder to have flushed the trellis with ConstraintK-1 zero
// bits at the end of every protected class.
const ConstraintK = 5

// TrellisStates is the number of Viterbi trellis states, 2^(K-1).
const TrellisStates = 1 << (ConstraintK - 1)

// TailBits is the number of flush bits appended after every protected
// class's information bits before rate-1/3 convolutional coding.
const TailBits = ConstraintK - 1

// DecodingDelay is the Viterbi traceback depth.
const DecodingDelay = 5 * TailBits

// KCRC is the number of CRC bits recomputed per frame (§4.5); FsKCRC is
// the count used by the AMR475 frame-stealing survivor geometry. TETRA's
// survivor reuses the Normal geometry and so keeps KCRC.
const (
	KCRC   = 8
	FsKCRC = 4
)

// PunctureSchedule is a boolean mask: true means the position is kept
// (forwarded), false means it was punctured (the depuncturer must emit an
// erasure there without consuming an input sample).
type PunctureSchedule []bool

// ClassGeometry bundles the sizes and tables needed to depuncture, Viterbi
// decode (or pass through, for class 0) and reorder a single class within
// a single speech frame.
type ClassGeometry struct {
	// Info is the number of information bits in this class for one
	// speech frame (N0_2, N1_2 or N2_2 in the source's naming).
	Info int
	// Coded is Info+TailBits for classes 1 and 2; unused (left at 0) for
	// class 0, which bypasses coding entirely.
	Coded int
	// Puncture is the schedule applied to this class's mother codeword
	// (length 3*Coded); nil for class 0.
	Puncture PunctureSchedule
}

// FrameGeometry is the complete per-speech-frame parameter set: the three
// class geometries plus the table that reorders their decoded bits into
// vocoder order.
type FrameGeometry struct {
	Class0, Class1, Class2 ClassGeometry
	// Tab0, Tab1, Tab2 map class bit position -> vocoder rank.
	Tab0, Tab1, Tab2 []BitMap
	// TabCRC[k] lists the class-2 ranks (with ALLOW_NEG flip tags) that
	// contribute to CRC bit k. Only the first KCRC (or FsKCRC, for the
	// AMR475 frame-stealing survivor geometry) entries are populated/used.
	TabCRC [KCRC][]BitMap
	// FixedBits names vocoder ranks whose value is known a priori. Neither
	// builder populates it, and no decoder stage reads it.
	FixedBits []BitMap
}

// VocoderLength returns |Tab0|+|Tab1|+|Tab2|, the number of bits this
// geometry reorders into a single speech frame.
func (g *FrameGeometry) VocoderLength() int {
	return len(g.Tab0) + len(g.Tab1) + len(g.Tab2)
}

// Interleave describes a linear-congruential deinterleaving permutation
// i -> (K1*i + K2) mod N, as used by both the speech and signalling
// variants (§4.2). Perm[i] is the source index that output position i is
// read from.
type Interleave struct {
	Perm []int
}

// ParamSet is the immutable, process-wide-safe-to-share record a decoder
// instance is built from. Nothing under this type is ever mutated after
// New returns.
type ParamSet struct {
	Coder        CoderType
	SpFrmsPerTDM int

	// Speech and Signalling are the two deinterleaver permutations. Speech
	// covers the full 432-sample slot; Signalling covers a 216-sample
	// half-slot.
	Speech, Signalling Interleave

	// Normal is the per-speech-frame geometry used for every frame of a
	// non-stolen slot. The sacrificed prefix frames of a stolen slot are
	// not decoded with any geometry: they are emitted as all-zero bits
	// with BFI set.
	Normal FrameGeometry

	// FsSurvivor is the geometry used for the single speech frame that
	// can still be recovered from the second half-slot when frame
	// stealing is active. For AMR475 it uses FsKCRC CRC bits rather than
	// KCRC; for TETRA it is the Normal geometry, KCRC included.
	FsSurvivor FrameGeometry

	// LengthVocoderFrame is the bit count of a single reordered speech
	// frame (Normal.VocoderLength(), duplicated here for convenience and
	// to match the source's naming).
	LengthVocoderFrame int

	// Trellis is the rate-1/3, constraint-length-5 trellis shared by
	// both coder types: the convolutional code itself does not change
	// between TETRA and AMR475, only the class sizes around it do.
	Trellis Trellis
}

// Trellis is the precomputed state-machine table the Viterbi decoder
// drives. Every next state `ns` has two predecessors, both reached with
// input bit ns&1: Previous[ns][0] is the lower-numbered one (ns>>1) and
// Previous[ns][1] the higher (ns>>1 | TrellisStates/2). T1/T2/T3[ns][b]
// name the three coded bits (rate 1/3) the transition from
// Previous[ns][b] emits. This mirrors
// arrays.h's `Previous[S][2]` / `T1/T2/T3[S][2]`: the decoder itself never
// derives a transition, it only looks one up.
type Trellis struct {
	Previous   [TrellisStates][2]int
	T1, T2, T3 [TrellisStates][2]uint8
}

// StolenPrefixFrames is the number of leading speech frames in a slot
// that are forced bad (BFI) when frame stealing is active: every frame
// except the one decoded from the surviving second half-slot.
func (p *ParamSet) StolenPrefixFrames() int {
	return p.SpFrmsPerTDM - 1
}

// New builds the immutable parameter record for the given coder type. It
// checks that the reorder tables of both geometries cover exactly
// LengthVocoderFrame ranks.
func New(coder CoderType) (*ParamSet, error) {
	var p *ParamSet
	switch coder {
	case TETRA:
		p = buildTETRA()
	case AMR475:
		p = buildAMR475()
	default:
		return nil, fmt.Errorf("paramset: illegal CoderType %d", int(coder))
	}
	for _, g := range []FrameGeometry{p.Normal, p.FsSurvivor} {
		if n := g.VocoderLength(); n != p.LengthVocoderFrame {
			return nil, fmt.Errorf("paramset: %v reorder tables cover %d ranks, want %d", coder, n, p.LengthVocoderFrame)
		}
	}
	return p, nil
}
