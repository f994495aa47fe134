package paramset

import "testing"

func TestNew_RejectsUnknownCoder(t *testing.T) {
	if _, err := New(CoderType(99)); err == nil {
		t.Fatal("expected error for unknown CoderType")
	}
}

func TestNew_TETRA_Invariants(t *testing.T) {
	p, err := New(TETRA)
	if err != nil {
		t.Fatalf("New(TETRA) returned error: %v", err)
	}
	if p.LengthVocoderFrame != 137 {
		t.Errorf("expected LengthVocoderFrame 137, got %d", p.LengthVocoderFrame)
	}
	if got := p.Normal.VocoderLength(); got != p.LengthVocoderFrame {
		t.Errorf("Normal.VocoderLength() = %d, want %d", got, p.LengthVocoderFrame)
	}
	if p.SpFrmsPerTDM != 2 {
		t.Errorf("expected 2 speech frames per TDMA slot, got %d", p.SpFrmsPerTDM)
	}
	if len(p.Speech.Perm) != SlotSamples {
		t.Errorf("Speech interleave length = %d, want %d", len(p.Speech.Perm), SlotSamples)
	}
	if len(p.Signalling.Perm) != HalfSlotSamples {
		t.Errorf("Signalling interleave length = %d, want %d", len(p.Signalling.Perm), HalfSlotSamples)
	}
	// TETRA frame stealing reuses the normal tables verbatim.
	if p.FsSurvivor.VocoderLength() != p.Normal.VocoderLength() {
		t.Errorf("TETRA FsSurvivor should match Normal geometry")
	}
	assertBijection(t, p.Speech.Perm)
	assertBijection(t, p.Signalling.Perm)
	assertPuncture(t, p.Normal.Class1)
	assertPuncture(t, p.Normal.Class2)
	assertCRCRanks(t, p.Normal.TabCRC[:], KCRC, p.Normal.Class2.Info)
}

func TestNew_AMR475_Invariants(t *testing.T) {
	p, err := New(AMR475)
	if err != nil {
		t.Fatalf("New(AMR475) returned error: %v", err)
	}
	if p.LengthVocoderFrame != 95 {
		t.Errorf("expected LengthVocoderFrame 95, got %d", p.LengthVocoderFrame)
	}
	if got := p.Normal.VocoderLength(); got != p.LengthVocoderFrame {
		t.Errorf("Normal.VocoderLength() = %d, want %d", got, p.LengthVocoderFrame)
	}
	if p.SpFrmsPerTDM != 3 {
		t.Errorf("expected 3 speech frames per TDMA slot, got %d", p.SpFrmsPerTDM)
	}
	if p.StolenPrefixFrames() != 2 {
		t.Errorf("expected 2 sacrificed frames per stolen AMR475 slot, got %d", p.StolenPrefixFrames())
	}
	// AMR475's frame-stealing survivor gets a distinct, more generous
	// geometry (it owns the whole surviving half-slot alone).
	if p.FsSurvivor.VocoderLength() != p.LengthVocoderFrame {
		t.Errorf("FsSurvivor.VocoderLength() = %d, want %d", p.FsSurvivor.VocoderLength(), p.LengthVocoderFrame)
	}
	if len(p.FsSurvivor.TabCRC[0]) == 0 && FsKCRC > 0 {
		t.Errorf("expected FsSurvivor CRC tap list for bit 0 to be non-empty")
	}
	assertBijection(t, p.Speech.Perm)
	assertBijection(t, p.Signalling.Perm)
	assertPuncture(t, p.Normal.Class1)
	assertPuncture(t, p.Normal.Class2)
	assertPuncture(t, p.FsSurvivor.Class1)
	assertPuncture(t, p.FsSurvivor.Class2)
}

func TestParamSet_SlotChannelBudget(t *testing.T) {
	// Every frame's class0 (raw) + punctured class1/class2 channel
	// lengths must sum across SpFrmsPerTDM frames to exactly SlotSamples,
	// so the deinterleaved slot is fully consumed with nothing left over.
	for _, coder := range []CoderType{TETRA, AMR475} {
		p, err := New(coder)
		if err != nil {
			t.Fatalf("New(%v) returned error: %v", coder, err)
		}
		frameLen := p.Normal.Class0.Info + puncturedLen(p.Normal.Class1) + puncturedLen(p.Normal.Class2)
		total := frameLen * p.SpFrmsPerTDM
		if total != SlotSamples {
			t.Errorf("%v: %d frames * %d channel bits/frame = %d, want %d", coder, p.SpFrmsPerTDM, frameLen, total, SlotSamples)
		}
	}
}

func TestBuildTrellis_EveryStateHasTwoPredecessors(t *testing.T) {
	tr := buildTrellis()
	for ns := 0; ns < TrellisStates; ns++ {
		p0, p1 := tr.Previous[ns][0], tr.Previous[ns][1]
		if p0 < 0 || p0 >= TrellisStates || p1 < 0 || p1 >= TrellisStates {
			t.Fatalf("state %d: predecessors not fully populated: %v", ns, tr.Previous[ns])
		}
		if p0 == p1 {
			t.Errorf("state %d: both predecessor slots point at state %d", ns, p0)
		}
	}
}

func puncturedLen(c ClassGeometry) int {
	n := 0
	for _, keep := range c.Puncture {
		if keep {
			n++
		}
	}
	return n
}

func assertPuncture(t *testing.T, c ClassGeometry) {
	t.Helper()
	if len(c.Puncture) != 3*c.Coded {
		t.Errorf("puncture schedule length = %d, want %d (3*Coded)", len(c.Puncture), 3*c.Coded)
	}
	if n := puncturedLen(c); n == 0 {
		t.Errorf("puncture schedule keeps zero positions")
	}
}

func assertBijection(t *testing.T, perm []int) {
	t.Helper()
	seen := make([]bool, len(perm))
	for _, v := range perm {
		if v < 0 || v >= len(perm) {
			t.Fatalf("permutation index %d out of range [0,%d)", v, len(perm))
		}
		if seen[v] {
			t.Fatalf("permutation is not a bijection: %d appears twice", v)
		}
		seen[v] = true
	}
}

func assertCRCRanks(t *testing.T, taps [][]BitMap, kcrc, class2Len int) {
	t.Helper()
	for k := 0; k < kcrc; k++ {
		for _, bm := range taps[k] {
			if int(bm.Index) >= class2Len {
				t.Errorf("CRC tap %d references out-of-range class-2 index %d (len %d)", k, bm.Index, class2Len)
			}
		}
	}
}
