package param

// ID enumerates every live parameter the editor and audio threads agree on.
// Ranges and defaults live in the registry built by buildSpecs (registry.go);
// this file only names the roughly 250 scalars from spec.md §6.
type ID int

const (
	// --- Synth: PLL -------------------------------------------------------
	PLLRefFreqOffset ID = iota
	PLLMultiplierDiscrete
	PLLMultiplierContinuous
	PLLTrackSpeed
	PLLDamping
	PLLInfluence
	PLLLoopSaturation
	PLLBurstThreshold
	PLLBurstAmount
	PLLBurstGateByDamping
	PLLFMRatio
	PLLFMAmount
	PLLFMEnvAmount
	PLLCrossFeedback
	PLLStereoPhaseOffset
	PLLRetrigger
	PLLColored
	PLLPDMode // 0 = AnalogLikePD, 1 = EdgePFD
	PLLEdgeSensitivity
	PLLPulseWidth
	PLLOutputRange
	PLLVolume

	// --- Synth: VPS ---------------------------------------------------
	VPSRatio
	VPSD
	VPSV
	VPSFold
	VPSStereoVOffset
	VPSVolume

	// --- Sub ------------------------------------------------------------
	SubRatio
	SubVolume
	SubWaveform

	// --- Filter (Moog ladder) -------------------------------------------
	FilterCutoff
	FilterResonance
	FilterDrive
	FilterCutoffSlewBlocks

	// --- Colouration ------------------------------------------------------
	ColorRingAmount
	ColorFoldAmount
	ColorDriftAmount
	ColorDriftRate
	ColorNoiseAmount
	ColorTubeAmount
	ColorDistortionAmount
	ColorDistortionGain

	// --- Formant (3-bandpass vowel filter, PLL output only) ---------------
	FormantMix
	FormantVowel
	FormantShift

	// --- Envelopes (x2) ---------------------------------------------------
	Env1Attack
	Env1Decay
	Env1Sustain
	Env1Release
	Env1AttackShape
	Env1DecayShape
	Env1ReleaseShape
	Env2Attack
	Env2Decay
	Env2Sustain
	Env2Release
	Env2AttackShape
	Env2DecayShape
	Env2ReleaseShape

	// --- Reverb (Dattorro) -------------------------------------------------
	ReverbPreDelay
	ReverbInputHPF
	ReverbInputLPF
	ReverbDecay
	ReverbDamping
	ReverbMix
	ReverbModDepth
	ReverbModRate

	// --- Master -----------------------------------------------------------
	MasterVolume
	MasterGlideTime
	MasterLegato
	MasterOversample // stepped: 1,4,8,16

	// --- Modulation: 3 LFOs, each with 10 sub-parameters --------------
	LFO1Rate
	LFO1Waveform
	LFO1TempoSync
	LFO1SyncDivision
	LFO1PhaseModSource
	LFO1PhaseModAmount
	LFO1Dest1
	LFO1Amt1
	LFO1Dest2
	LFO1Amt2

	LFO2Rate
	LFO2Waveform
	LFO2TempoSync
	LFO2SyncDivision
	LFO2PhaseModSource
	LFO2PhaseModAmount
	LFO2Dest1
	LFO2Amt1
	LFO2Dest2
	LFO2Amt2

	LFO3Rate
	LFO3Waveform
	LFO3TempoSync
	LFO3SyncDivision
	LFO3PhaseModSource
	LFO3PhaseModAmount
	LFO3Dest1
	LFO3Amt1
	LFO3Dest2
	LFO3Amt2

	// --- Mod-step-sequencer -------------------------------------------------
	ModSeqDivision
	ModSeqSlewMS
	ModSeqTieMask
	ModSeqDest
	ModSeqAmt
	_modSeqStepsBase // ModSeqStep0 .. ModSeqStep15 follow contiguously

	// --- Humaniser: length/velocity/position modifiers (x2 each) -----
	LenMod1Target
	LenMod1Amount
	LenMod1Probability
	LenMod2Target
	LenMod2Amount
	LenMod2Probability

	VelMod1Target
	VelMod1Amount
	VelMod1Probability
	VelMod2Target
	VelMod2Amount
	VelMod2Probability

	PosMod1Target
	PosMod1Amount
	PosMod1Probability
	PosMod2Target
	PosMod2Amount
	PosMod2Probability

	// --- Octave randomiser ------------------------------------------------
	OctaveRandChance
	OctaveRandStrengthPref
	OctaveRandLengthPref
	OctaveRandDirection // 0=uniform-both, 1=up, 2=down

	// --- Sequencer-wide -----------------------------------------------------
	Swing

	numFixedIDs
)

// Layout of the contiguous ranges that don't fit a flat const block: beat
// probabilities (152 entries total across straight/triplet/dotted), note
// pool entries (128 possible MIDI notes), strength grid (96 positions), and
// mod-sequencer steps (16). registry.go computes their base offsets after
// numFixedIDs so that every parameter — fixed or ranged — still gets a
// distinct ID and a slot in the flat atomic array.
const (
	NumStraightBeats = 1 + 2 + 4 + 8 + 16 + 32 // divisions {1,2,4,8,16,32}
	NumTripletBeats  = 3 + 6 + 12 + 24         // divisions {3,6,12,24}
	NumDottedBeats   = 2 + 3 + 6 + 11 + 22     // divisions {2,3,6,11,22}
	NumBeats         = NumStraightBeats + NumTripletBeats + NumDottedBeats // 152

	NumNotePoolEntries = 128
	NumStrengthSlots   = 96
	NumModSeqSteps     = 16
)
