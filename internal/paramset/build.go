package paramset

// Concrete per-coder sizes. These are the self-consistent numbers listed
// in DESIGN.md (C1): every one of them was chosen to satisfy the
// class-size/vocoder-length invariant and to produce a whole-slot channel
// budget of SlotSamples (432) samples, not lifted from any proprietary
// table.
const (
	tetraLengthVocoderFrame = 137
	tetraClass0Info         = 40
	tetraClass1Info         = 42
	tetraClass2Info         = 55
	tetraFrameChannelBudget = HalfSlotSamples // 216: one TETRA frame per half-slot

	amrLengthVocoderFrame = 95
	amrClass0Info         = 23
	amrClass1Info         = 28
	amrClass2Info         = 44
	amrFrameChannelBudget = SlotSamples / 3 // 144: three AMR475 frames per slot

	amrFsClass0Info       = 15
	amrFsClass1Info       = 30
	amrFsClass2Info       = 50
	amrFsFrameBudget      = HalfSlotSamples // 216: the lone survivor gets the whole half-slot
)

// buildFrameGeometry assembles a FrameGeometry for a frame whose three
// class info sizes and whole-frame channel budget are given, tapping kcrc
// CRC bits from the class-2 region.
func buildFrameGeometry(class0Info, class1Info, class2Info, budget, kcrc int) FrameGeometry {
	redundancy := budget - (class0Info + class1Info + class2Info)
	r1, r2 := splitRedundancy(redundancy, class1Info, class2Info)

	g := FrameGeometry{
		Class0: ClassGeometry{Info: class0Info},
		Class1: buildClass(class1Info, class1Info+r1),
		Class2: buildClass(class2Info, class2Info+r2),
	}
	g.Tab0 = identityTab(0, class0Info, 11)
	g.Tab1 = identityTab(class0Info, class1Info, 7)
	g.Tab2 = identityTab(class0Info+class1Info, class2Info, 5)
	g.TabCRC = crcRanks(kcrc, class2Info)
	return g
}

func buildTETRA() *ParamSet {
	normal := buildFrameGeometry(tetraClass0Info, tetraClass1Info, tetraClass2Info, tetraFrameChannelBudget, KCRC)

	p := &ParamSet{
		Coder:        TETRA,
		SpFrmsPerTDM: 2,
		Speech:       buildInterleave(SlotSamples, 7, 3),
		Signalling:   buildInterleave(HalfSlotSamples, 5, 1),
		Normal:       normal,
		// TETRA's frame-stealing survivor reuses the normal tables
		// unchanged (init_params.c sets Fs_TAB0[0][i] = TAB0_TETRA[i]
		// and Fs_SpFrms_per_TDMFrm = 1 for the default/TETRA case).
		FsSurvivor:         normal,
		LengthVocoderFrame: tetraLengthVocoderFrame,
		Trellis:            buildTrellis(),
	}
	return p
}

func buildAMR475() *ParamSet {
	normal := buildFrameGeometry(amrClass0Info, amrClass1Info, amrClass2Info, amrFrameChannelBudget, KCRC)
	survivor := buildFrameGeometry(amrFsClass0Info, amrFsClass1Info, amrFsClass2Info, amrFsFrameBudget, FsKCRC)

	p := &ParamSet{
		Coder:              AMR475,
		SpFrmsPerTDM:       3,
		Speech:             buildInterleave(SlotSamples, 11, 5),
		Signalling:         buildInterleave(HalfSlotSamples, 5, 1),
		Normal:             normal,
		FsSurvivor:         survivor,
		LengthVocoderFrame: amrLengthVocoderFrame,
		Trellis:            buildTrellis(),
	}
	return p
}
