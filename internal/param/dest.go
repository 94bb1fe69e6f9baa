package param

// ModDest is the fixed modulation-destination enumeration from spec.md §6.
// It lives in this package (rather than internal/modfab) because both the
// LFO bank/mod-sequencer (producers) and every DSP component (consumers)
// need to agree on the same small integer space, and the parameter
// registry declares LFO destination-slot ranges against it.
type ModDest int

const (
	DestNone ModDest = iota
	DestPLLDamping
	DestPLLInfluence
	DestPLLTrack
	DestPLLFMAmount
	DestPLLPulseWidth
	DestPLLStereoPhase
	DestPLLCrossFeedback
	DestPLLFMEnvAmount
	DestPLLOvertoneBurst
	DestPLLRange
	DestPLLMultiplierDiscrete
	DestPLLMultiplierContinuous
	DestVPSD
	DestVPSV
	DestFilterCutoff
	DestFilterResonance
	DestFilterDrive
	DestRing
	DestFold
	DestDrift
	DestNoise
	DestTube
	DestFormantMix
	DestFormantVowel
	DestReverbMix
	DestReverbDecay
	DestPLLVol
	DestVPSVol
	DestSubVol

	numModDestinations
)

// baseParamFor maps a destination to the fixed ID whose smoothed value it
// adds to. DestNone and the discrete PLL-multiplier destination are not in
// this table; the discrete destination is counted separately by
// internal/modfab's Bank.PLLMultiplierDiscreteVotes.
func baseParamFor(d ModDest) (ID, bool) {
	switch d {
	case DestPLLDamping:
		return PLLDamping, true
	case DestPLLInfluence:
		return PLLInfluence, true
	case DestPLLTrack:
		return PLLTrackSpeed, true
	case DestPLLFMAmount:
		return PLLFMAmount, true
	case DestPLLPulseWidth:
		return PLLPulseWidth, true
	case DestPLLStereoPhase:
		return PLLStereoPhaseOffset, true
	case DestPLLCrossFeedback:
		return PLLCrossFeedback, true
	case DestPLLFMEnvAmount:
		return PLLFMEnvAmount, true
	case DestPLLOvertoneBurst:
		return PLLBurstAmount, true
	case DestPLLRange:
		return PLLOutputRange, true
	case DestPLLMultiplierContinuous:
		return PLLMultiplierContinuous, true
	case DestVPSD:
		return VPSD, true
	case DestVPSV:
		return VPSV, true
	case DestFilterCutoff:
		return FilterCutoff, true
	case DestFilterResonance:
		return FilterResonance, true
	case DestFilterDrive:
		return FilterDrive, true
	case DestRing:
		return ColorRingAmount, true
	case DestFold:
		return ColorFoldAmount, true
	case DestDrift:
		return ColorDriftAmount, true
	case DestNoise:
		return ColorNoiseAmount, true
	case DestTube:
		return ColorTubeAmount, true
	case DestFormantMix:
		return FormantMix, true
	case DestFormantVowel:
		return FormantVowel, true
	case DestReverbMix:
		return ReverbMix, true
	case DestReverbDecay:
		return ReverbDecay, true
	case DestPLLVol:
		return PLLVolume, true
	case DestVPSVol:
		return VPSVolume, true
	case DestSubVol:
		return SubVolume, true
	}
	return 0, false
}

// BaseParamFor exposes baseParamFor to other packages (internal/modfab).
func BaseParamFor(d ModDest) (ID, bool) { return baseParamFor(d) }
