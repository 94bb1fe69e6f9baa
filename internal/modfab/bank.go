package modfab

import "plldrift/internal/param"

// Bank owns the three LFOs and the mod-step-sequencer that make up one
// voice's modulation fabric, plus the additive composition of their outputs
// onto destination parameters (spec.md §4.8: "Modulation sums additively
// onto the smoothed base parameter value, then the consumer applies its own
// range clamping").
type Bank struct {
	LFO [3]*LFO
	Seq StepSeq

	lfoOut [3]float64
	seqOut float64
}

func NewBank(seed int64) *Bank {
	b := &Bank{}
	for i := range b.LFO {
		// Distinct seeds per LFO and per voice so sample-and-hold sequences
		// don't lock step across voices sharing a base seed.
		b.LFO[i] = NewLFO(seed + int64(i)*7919)
	}
	return b
}

func (b *Bank) Reset() {
	for _, l := range b.LFO {
		l.Reset()
	}
	b.Seq.Reset()
	b.lfoOut = [3]float64{}
	b.seqOut = 0
}

var lfoRateID = [3]param.ID{param.LFO1Rate, param.LFO2Rate, param.LFO3Rate}
var lfoWaveformID = [3]param.ID{param.LFO1Waveform, param.LFO2Waveform, param.LFO3Waveform}
var lfoTempoSyncID = [3]param.ID{param.LFO1TempoSync, param.LFO2TempoSync, param.LFO3TempoSync}
var lfoSyncDivisionID = [3]param.ID{param.LFO1SyncDivision, param.LFO2SyncDivision, param.LFO3SyncDivision}
var lfoPhaseModSourceID = [3]param.ID{param.LFO1PhaseModSource, param.LFO2PhaseModSource, param.LFO3PhaseModSource}
var lfoPhaseModAmountID = [3]param.ID{param.LFO1PhaseModAmount, param.LFO2PhaseModAmount, param.LFO3PhaseModAmount}
var lfoDest1ID = [3]param.ID{param.LFO1Dest1, param.LFO2Dest1, param.LFO3Dest1}
var lfoAmt1ID = [3]param.ID{param.LFO1Amt1, param.LFO2Amt1, param.LFO3Amt1}
var lfoDest2ID = [3]param.ID{param.LFO1Dest2, param.LFO2Dest2, param.LFO3Dest2}
var lfoAmt2ID = [3]param.ID{param.LFO1Amt2, param.LFO2Amt2, param.LFO3Amt2}

// Advance steps every LFO and the mod-sequencer by one sample. LFO phase
// modulation reads the *previous* sample's outputs (§4.8: cross-LFO phase
// modulation is one-sample-delayed feedback, avoiding an instantaneous
// cycle between LFOs that phase-modulate each other).
func (b *Bank) Advance(snap param.Snapshot, sampleRate, tempoBPM float64) {
	prev := b.lfoOut
	for i := 0; i < 3; i++ {
		waveform := Waveform(snap.GetInt(lfoWaveformID[i]))
		tempoSynced := snap.GetInt(lfoTempoSyncID[i]) != 0
		freeHz := snap.Get(lfoRateID[i])
		division := param.Division(snap.GetInt(lfoSyncDivisionID[i]))
		rateHz := RateHz(tempoSynced, freeHz, division, tempoBPM)

		src := snap.GetInt(lfoPhaseModSourceID[i]) // 0=none, 1..3=LFO index
		var phaseModInput float64
		if src >= 1 && src <= 3 {
			phaseModInput = prev[src-1]
		}
		phaseModAmount := snap.Get(lfoPhaseModAmountID[i])

		b.lfoOut[i] = b.LFO[i].Advance(waveform, rateHz, sampleRate, phaseModInput, phaseModAmount)
	}
	b.seqOut = b.Seq.Advance(snap, sampleRate, tempoBPM)
}

// Compose returns the additive modulation offset accumulated for base
// parameter id from every LFO/mod-seq slot currently routed to it. Multiple
// slots may target the same destination; their contributions sum (§4.8).
func (b *Bank) Compose(snap param.Snapshot, id param.ID) float64 {
	var sum float64
	for i := 0; i < 3; i++ {
		sum += b.slotContribution(snap, lfoDest1ID[i], lfoAmt1ID[i], b.lfoOut[i], id)
		sum += b.slotContribution(snap, lfoDest2ID[i], lfoAmt2ID[i], b.lfoOut[i], id)
	}
	sum += b.slotContribution(snap, param.ModSeqDest, param.ModSeqAmt, b.seqOut, id)
	return sum
}

func (b *Bank) slotContribution(snap param.Snapshot, destID, amtID param.ID, source float64, target param.ID) float64 {
	dest := param.ModDest(snap.GetInt(destID))
	if dest == param.DestNone {
		return 0
	}
	base, ok := param.BaseParamFor(dest)
	if !ok || base != target {
		return 0
	}
	amount := snap.Get(amtID)
	return source * amount
}

// PLLMultiplierDiscreteVotes returns the sum of amounts routed to the
// discrete PLL-multiplier destination, scaled by each LFO's current output.
// The discrete multiplier destination (spec.md §4.2: "harmonic multiplier
// selects one of a fixed set of ratios") is handled outside Compose's normal
// additive-onto-base-param path because it must resolve to a step index, not
// a continuous offset: voice code sums these votes and rounds to the
// nearest valid step around the base index.
func (b *Bank) PLLMultiplierDiscreteVotes(snap param.Snapshot) float64 {
	var sum float64
	for i := 0; i < 3; i++ {
		sum += b.discreteVote(snap, lfoDest1ID[i], lfoAmt1ID[i], b.lfoOut[i])
		sum += b.discreteVote(snap, lfoDest2ID[i], lfoAmt2ID[i], b.lfoOut[i])
	}
	sum += b.discreteVote(snap, param.ModSeqDest, param.ModSeqAmt, b.seqOut)
	return sum
}

func (b *Bank) discreteVote(snap param.Snapshot, destID, amtID param.ID, source float64) float64 {
	dest := param.ModDest(snap.GetInt(destID))
	if dest != param.DestPLLMultiplierDiscrete {
		return 0
	}
	return source * snap.Get(amtID)
}
