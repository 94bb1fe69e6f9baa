package param

// Division identifies one of the beat-grid families from spec.md §3, each
// with its own tabled count of positions.
type Division int

const (
	DivStraight1 Division = iota
	DivStraight2
	DivStraight4
	DivStraight8
	DivStraight16
	DivStraight32
	DivTriplet3
	DivTriplet6
	DivTriplet12
	DivTriplet24
	DivDotted2
	DivDotted3
	DivDotted6
	DivDotted11
	DivDotted22
	numDivisions
)

// DivisionLen returns N: the number of (division, index) beats for d, and
// is also the denominator of each beat's nominal duration (1/N of the bar).
func DivisionLen(d Division) int { return divisionCount(d) }

// divisionCount is DivisionLen's internal implementation.
func divisionCount(d Division) int {
	switch d {
	case DivStraight1:
		return 1
	case DivStraight2:
		return 2
	case DivStraight4:
		return 4
	case DivStraight8:
		return 8
	case DivStraight16:
		return 16
	case DivStraight32:
		return 32
	case DivTriplet3:
		return 3
	case DivTriplet6:
		return 6
	case DivTriplet12:
		return 12
	case DivTriplet24:
		return 24
	case DivDotted2:
		return 2
	case DivDotted3:
		return 3
	case DivDotted6:
		return 6
	case DivDotted11:
		return 11
	case DivDotted22:
		return 22
	}
	return 0
}

// AllDivisions lists every division in a fixed, deterministic order —
// straight ascending, then triplet ascending, then dotted ascending — used
// both to lay out the flat parameter array and to break start-time ties in
// the beat-competition algorithm (§4.1 step 2: "tiebreak by division id").
var AllDivisions = []Division{
	DivStraight1, DivStraight2, DivStraight4, DivStraight8, DivStraight16, DivStraight32,
	DivTriplet3, DivTriplet6, DivTriplet12, DivTriplet24,
	DivDotted2, DivDotted3, DivDotted6, DivDotted11, DivDotted22,
}

func divisionBase(d Division) int {
	base := 0
	for _, cand := range AllDivisions {
		if cand == d {
			return base
		}
		base += divisionCount(cand)
	}
	return base
}

// Kind classifies how a scalar is stored and whether it is smoothed.
type Kind int

const (
	KindContinuous Kind = iota // smoothed, linear or log unit
	KindStepped                // integer-valued, not smoothed
	KindBool                   // 0/1, not smoothed
)

// Spec is the declared metadata for one parameter slot (§3 "Parameter
// snapshot": range, default, unit, smoothing time).
type Spec struct {
	Kind         Kind
	Min, Max     float64
	Default      float64
	SmoothingSec float64 // 0 for stepped/bool
}

const (
	defaultSmoothingSec = 0.005 // 5ms, per §4.10
	masterSmoothingSec  = 0.020 // 20ms for master volume
	reverbSmoothingSec  = 0.050 // 50ms for reverb mix/decay
)

// totalSlots is the size of the flat parameter array: fixed scalars plus
// every ranged family (beats, note pool, strength grid, mod-seq steps).
var (
	beatBase       = int(numFixedIDs)
	notePoolBase   = beatBase + NumBeats
	strengthBase   = notePoolBase + NumNotePoolEntries*notePoolFieldCount
	modSeqStepBase = strengthBase + NumStrengthSlots
	totalSlots     = modSeqStepBase + NumModSeqSteps
)

// Note-pool entries carry 4 numeric fields per spec.md §3 (base chance,
// strength-pref, length-pref, octave offset) plus 1 bool (enabled) — laid
// out as 5 contiguous slots per MIDI note number.
const notePoolFieldCount = 5

const (
	noteFieldChance = iota
	noteFieldStrengthPref
	noteFieldLengthPref
	noteFieldOctaveOffset
	noteFieldEnabled
)

// Exported aliases for consumers outside this package (internal/sequencer).
const (
	NoteFieldChance        = noteFieldChance
	NoteFieldStrengthPref  = noteFieldStrengthPref
	NoteFieldLengthPref    = noteFieldLengthPref
	NoteFieldOctaveOffset  = noteFieldOctaveOffset
	NoteFieldEnabled       = noteFieldEnabled
)

// BeatID returns the flat ID for (division, index), index is 0-based.
func BeatID(d Division, index int) ID {
	return ID(beatBase + divisionBase(d) + index)
}

// NoteFieldID returns the flat ID for one field of a note-pool entry.
func NoteFieldID(note int, field int) ID {
	return ID(notePoolBase + note*notePoolFieldCount + field)
}

// StrengthID returns the flat ID for strength-grid position i (0..95).
func StrengthID(i int) ID {
	return ID(strengthBase + i)
}

// ModSeqStepID returns the flat ID for mod-sequencer step i (0..15).
func ModSeqStepID(i int) ID {
	return ID(modSeqStepBase + i)
}

// RootNote is the designated root note (§3: "A designated root note exists
// with chance pinned at 127"). Middle C by MIDI convention.
const RootNote = 60

// buildSpecs returns the declared Spec for every fixed ID plus sane defaults
// for the ranged families. Ranged defaults are intentionally "empty": every
// beat probability and note entry (other than root) defaults to 0/disabled
// so a freshly constructed store needs explicit authoring before the
// sequencer produces any event at all (only the root note is enabled in the
// pool, and no beat has a non-zero probability) — this matches
// the teacher's "nothing configured, nothing plays" stance, generalized
// from its single hard-coded carrier oscillator.
func buildSpecs() []Spec {
	s := make([]Spec, totalSlots)

	set := func(id ID, spec Spec) { s[int(id)] = spec }

	for _, d := range AllDivisions {
		for i := 0; i < divisionCount(d); i++ {
			set(BeatID(d, i), Spec{Kind: KindStepped, Min: 0, Max: 127, Default: 0})
		}
	}

	for n := 0; n < NumNotePoolEntries; n++ {
		def := 0.0
		enabled := 0.0
		if n == RootNote {
			def = 127
			enabled = 1
		}
		set(NoteFieldID(n, noteFieldChance), Spec{Kind: KindStepped, Min: 0, Max: 127, Default: def})
		set(NoteFieldID(n, noteFieldStrengthPref), Spec{Kind: KindStepped, Min: 0, Max: 127, Default: 64})
		set(NoteFieldID(n, noteFieldLengthPref), Spec{Kind: KindStepped, Min: 0, Max: 127, Default: 64})
		set(NoteFieldID(n, noteFieldOctaveOffset), Spec{Kind: KindStepped, Min: -1, Max: 1, Default: 0})
		set(NoteFieldID(n, noteFieldEnabled), Spec{Kind: KindBool, Min: 0, Max: 1, Default: enabled})
	}

	for i := 0; i < NumStrengthSlots; i++ {
		set(StrengthID(i), Spec{Kind: KindContinuous, Min: 0, Max: 1, Default: 0.5, SmoothingSec: 0})
	}

	for i := 0; i < NumModSeqSteps; i++ {
		set(ModSeqStepID(i), Spec{Kind: KindContinuous, Min: -1, Max: 1, Default: 0})
	}

	cont := func(id ID, min, max, def float64) {
		set(id, Spec{Kind: KindContinuous, Min: min, Max: max, Default: def, SmoothingSec: defaultSmoothingSec})
	}
	stepped := func(id ID, min, max, def float64) {
		set(id, Spec{Kind: KindStepped, Min: min, Max: max, Default: def})
	}
	boolean := func(id ID, def float64) {
		set(id, Spec{Kind: KindBool, Min: 0, Max: 1, Default: def})
	}

	cont(PLLRefFreqOffset, -24, 24, 0)
	stepped(PLLMultiplierDiscrete, 1, 16, 1)
	cont(PLLMultiplierContinuous, 0.25, 16, 1)
	cont(PLLTrackSpeed, 0, 1, 0.4)
	cont(PLLDamping, 0, 1, 0.5)
	cont(PLLInfluence, 0, 4, 1)
	cont(PLLLoopSaturation, 0.01, 8, 2)
	cont(PLLBurstThreshold, 0, 1, 0.85)
	cont(PLLBurstAmount, 0, 4, 0.5)
	boolean(PLLBurstGateByDamping, 0)
	cont(PLLFMRatio, 0.0625, 16, 1)
	cont(PLLFMAmount, 0, 1, 0)
	cont(PLLFMEnvAmount, 0, 1, 0)
	cont(PLLCrossFeedback, 0, 1, 0)
	cont(PLLStereoPhaseOffset, 0, 1, 0)
	cont(PLLRetrigger, 0, 1, 1)
	boolean(PLLColored, 0)
	stepped(PLLPDMode, 0, 1, 0)
	cont(PLLEdgeSensitivity, 0, 1, 0.5)
	cont(PLLPulseWidth, 0.01, 0.99, 0.5)
	cont(PLLOutputRange, 0.1, 2, 1)
	cont(PLLVolume, 0, 1.5, 1)

	cont(VPSRatio, 0.0625, 16, 1)
	cont(VPSD, 0, 1, 0.5)
	cont(VPSV, 0.01, 0.99, 0.5)
	cont(VPSFold, 0, 1, 0)
	cont(VPSStereoVOffset, -0.3, 0.3, 0)
	cont(VPSVolume, 0, 1.5, 0.5)

	cont(SubRatio, 0.125, 1, 0.5)
	cont(SubVolume, 0, 1.5, 0.3)
	stepped(SubWaveform, 0, 1, 0)

	cont(FilterCutoff, 20, 19800, 8000)
	cont(FilterResonance, 0, 0.98, 0.1)
	cont(FilterDrive, 1, 15, 1)
	stepped(FilterCutoffSlewBlocks, 1, 64, 1)

	cont(ColorRingAmount, 0, 1, 0)
	cont(ColorFoldAmount, 0, 1, 0)
	cont(ColorDriftAmount, 0, 1, 0)
	cont(ColorDriftRate, 0.01, 20, 0.3)
	cont(ColorNoiseAmount, 0, 1, 0)
	cont(ColorTubeAmount, 0, 1, 0)
	cont(ColorDistortionAmount, 0, 1, 0)
	cont(ColorDistortionGain, 1, 50, 1)

	cont(FormantMix, 0, 1, 0)
	cont(FormantVowel, 0, 1, 0)
	cont(FormantShift, -24, 24, 0)

	envTimeDefaults := func(attack, decay, sustain, release, ashape, dshape, rshape ID) {
		cont(attack, 0.001, 10, 0.01)
		cont(decay, 0.001, 10, 0.1)
		cont(sustain, 0, 1, 0.7)
		cont(release, 0.001, 10, 0.3)
		cont(ashape, -5, 5, 0)
		cont(dshape, -5, 5, 0)
		cont(rshape, -5, 5, 0)
	}
	envTimeDefaults(Env1Attack, Env1Decay, Env1Sustain, Env1Release, Env1AttackShape, Env1DecayShape, Env1ReleaseShape)
	envTimeDefaults(Env2Attack, Env2Decay, Env2Sustain, Env2Release, Env2AttackShape, Env2DecayShape, Env2ReleaseShape)

	set(ReverbPreDelay, Spec{Kind: KindContinuous, Min: 0, Max: 0.1, Default: 0.01, SmoothingSec: defaultSmoothingSec})
	set(ReverbInputHPF, Spec{Kind: KindContinuous, Min: 20, Max: 2000, Default: 100, SmoothingSec: defaultSmoothingSec})
	set(ReverbInputLPF, Spec{Kind: KindContinuous, Min: 1000, Max: 19800, Default: 10000, SmoothingSec: defaultSmoothingSec})
	set(ReverbDecay, Spec{Kind: KindContinuous, Min: 0, Max: 0.999, Default: 0.5, SmoothingSec: reverbSmoothingSec})
	set(ReverbDamping, Spec{Kind: KindContinuous, Min: 0, Max: 1, Default: 0.5, SmoothingSec: reverbSmoothingSec})
	set(ReverbMix, Spec{Kind: KindContinuous, Min: 0, Max: 1, Default: 0.2, SmoothingSec: reverbSmoothingSec})
	set(ReverbModDepth, Spec{Kind: KindContinuous, Min: 0, Max: 1, Default: 0.3, SmoothingSec: defaultSmoothingSec})
	set(ReverbModRate, Spec{Kind: KindContinuous, Min: 0.01, Max: 5, Default: 0.5, SmoothingSec: defaultSmoothingSec})

	set(MasterVolume, Spec{Kind: KindContinuous, Min: 0, Max: 1.5, Default: 0.8, SmoothingSec: masterSmoothingSec})
	cont(MasterGlideTime, 0, 2, 0.05)
	boolean(MasterLegato, 0)
	stepped(MasterOversample, 1, 16, 4)

	lfoDefaults := func(rate, wave, sync, div, pmSrc, pmAmt, d1, a1, d2, a2 ID) {
		cont(rate, 0.01, 50, 1)
		stepped(wave, 0, 4, 0)
		boolean(sync, 0)
		stepped(div, 0, float64(numDivisions-1), 2)
		stepped(pmSrc, 0, 3, 0)
		cont(pmAmt, 0, 1, 0)
		stepped(d1, 0, float64(numModDestinations-1), 0)
		cont(a1, -1, 1, 0)
		stepped(d2, 0, float64(numModDestinations-1), 0)
		cont(a2, -1, 1, 0)
	}
	lfoDefaults(LFO1Rate, LFO1Waveform, LFO1TempoSync, LFO1SyncDivision, LFO1PhaseModSource, LFO1PhaseModAmount, LFO1Dest1, LFO1Amt1, LFO1Dest2, LFO1Amt2)
	lfoDefaults(LFO2Rate, LFO2Waveform, LFO2TempoSync, LFO2SyncDivision, LFO2PhaseModSource, LFO2PhaseModAmount, LFO2Dest1, LFO2Amt1, LFO2Dest2, LFO2Amt2)
	lfoDefaults(LFO3Rate, LFO3Waveform, LFO3TempoSync, LFO3SyncDivision, LFO3PhaseModSource, LFO3PhaseModAmount, LFO3Dest1, LFO3Amt1, LFO3Dest2, LFO3Amt2)

	stepped(ModSeqDivision, 0, float64(numDivisions-1), 2)
	cont(ModSeqSlewMS, 0, 200, 20)
	stepped(ModSeqTieMask, 0, 65535, 0)
	stepped(ModSeqDest, 0, float64(numModDestinations-1), 0)
	cont(ModSeqAmt, -1, 1, 0)

	modDefaults := func(target, amount, prob ID) {
		cont(target, -100, 100, 0)
		cont(amount, 0, 100, 0)
		cont(prob, 0, 127, 0)
	}
	modDefaults(LenMod1Target, LenMod1Amount, LenMod1Probability)
	modDefaults(LenMod2Target, LenMod2Amount, LenMod2Probability)
	modDefaults(VelMod1Target, VelMod1Amount, VelMod1Probability)
	modDefaults(VelMod2Target, VelMod2Amount, VelMod2Probability)
	modDefaults(PosMod1Target, PosMod1Amount, PosMod1Probability)
	modDefaults(PosMod2Target, PosMod2Amount, PosMod2Probability)

	stepped(OctaveRandChance, 0, 127, 0)
	stepped(OctaveRandStrengthPref, 0, 127, 64)
	stepped(OctaveRandLengthPref, 0, 127, 64)
	stepped(OctaveRandDirection, 0, 2, 0)

	cont(Swing, 0.5, 0.75, 0.5)

	return s
}
