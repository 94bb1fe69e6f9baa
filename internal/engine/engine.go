// Package engine implements the per-block driver of spec.md §4.9: snapshot
// parameters, drain MIDI, advance the sequencer/voice sample-by-sample,
// emit outgoing MIDI, and update telemetry. It is the thing
// cmd/plldriftd's audio-backend adapter calls once per audio callback.
package engine

import (
	"math"

	"plldrift/internal/bridge"
	"plldrift/internal/midi"
	"plldrift/internal/param"
	"plldrift/internal/sequencer"
	"plldrift/internal/transport"
	"plldrift/internal/voice"
)

// OutEvent is a sample-accurate outgoing MIDI event (spec.md §6: "Outputs:
// sample-accurate note-on/off generated by the sequencer, carrying chosen
// velocity"). SampleOffset is relative to the start of the block in which
// it was emitted.
type OutEvent struct {
	NoteOn       bool
	Note         int
	Velocity     int
	SampleOffset int
}

// CCBinding maps a control-change controller number directly onto a
// parameter id — the concrete controller assignment is left to the
// collaborator (spec.md §6 treats the parameter surface itself as the
// contract; which CC drives which parameter is a host/editor concern), so
// Engine just exposes the table for the caller to populate. A 14-bit pair's
// MSB controller number (0-31) shares this same table with its plain 7-bit
// counterpart: the LSB simply refines the write with more precision.
type CCBinding = map[uint8]param.ID

// NRPNBinding maps an NRPN parameter number onto a parameter id, the 14-bit
// analogue of CCBinding (spec.md §6's "NRPN tracking").
type NRPNBinding = map[uint16]param.ID

// Engine owns the whole per-block driver's state: the parameter store, the
// editor/audio bridge, the bar scheduler, one Voice (the core is
// monophonic, spec.md §1), and the free-running bar clock used when the
// host doesn't supply its own bar position.
type Engine struct {
	Store     *param.Store
	Bridge    *bridge.Bridge
	Scheduler *sequencer.Scheduler
	Voice     *voice.Voice
	CCMap     CCBinding
	NRPNMap   NRPNBinding

	barIndex  int64
	barSample int64 // samples elapsed within the current bar

	pendingReleaseAt    int64 // absolute bar-sample at which the sounding note should release
	pendingReleaseValid bool

	lastNote    int
	noteSounded bool
}

// New constructs an Engine with a fresh parameter store at its declared
// defaults, an empty bar 0 ready to play, and one idle Voice.
func New(seed int64) *Engine {
	return &Engine{
		Store:     param.New(),
		Bridge:    bridge.New(),
		Scheduler: sequencer.NewScheduler(),
		Voice:     voice.New(seed),
		CCMap:     CCBinding{},
		NRPNMap:   NRPNBinding{},
		lastNote:  -1,
	}
}

// advanceBarIfNeeded swaps in the next prepared Pattern and kicks off
// preparation of the one after it whenever the free-running bar clock (or
// the host-supplied bar position) crosses into a new bar (spec.md §4.1's
// double-buffering: "prepare_bar for bar N+1 runs while bar N plays").
func (e *Engine) advanceBarIfNeeded(tr transport.State, snap param.Snapshot) {
	samplesPerBar := tr.SamplesPerBar()
	if samplesPerBar <= 0 {
		return
	}
	if e.barSample < samplesPerBar {
		return
	}
	for e.barSample >= samplesPerBar {
		e.barSample -= samplesPerBar
		e.barIndex++
	}
	e.Bridge.TryApplyPreset(e.Store)
	e.Scheduler.Advance(e.barIndex)
	e.Scheduler.BeginPrepare(snap, tr, e.barIndex+1)
}

// triggerParamsFromSnapshot resolves the envelope/glide inputs Voice.Trigger
// needs from the current parameter snapshot.
func triggerParamsFromSnapshot(snap param.Snapshot, sampleRate float64) voice.TriggerParams {
	return voice.TriggerParams{
		Legato:       snap.GetInt(param.MasterLegato) != 0,
		Retrigger:    snap.Get(param.PLLRetrigger),
		GlideTimeSec: snap.Get(param.MasterGlideTime),
		SampleRate:   sampleRate,
		Env1ADSR: [4]float64{
			snap.Get(param.Env1Attack), snap.Get(param.Env1Decay),
			snap.Get(param.Env1Sustain), snap.Get(param.Env1Release),
		},
		Env1Shapes: [3]float64{
			snap.Get(param.Env1AttackShape), snap.Get(param.Env1DecayShape), snap.Get(param.Env1ReleaseShape),
		},
		Env2ADSR: [4]float64{
			snap.Get(param.Env2Attack), snap.Get(param.Env2Decay),
			snap.Get(param.Env2Sustain), snap.Get(param.Env2Release),
		},
		Env2Shapes: [3]float64{
			snap.Get(param.Env2AttackShape), snap.Get(param.Env2DecayShape), snap.Get(param.Env2ReleaseShape),
		},
	}
}

// ProcessBlock advances the engine by len(outL) samples (spec.md §4.9's
// per-block steps 1-5), writing the mixed stereo output into outL/outR and
// returning the outgoing MIDI events generated this block. midiIn carries
// already-decoded incoming events (internal/midi.Decoder's output) with
// SampleOffset relative to this block's start.
func (e *Engine) ProcessBlock(outL, outR []float32, tr transport.State, midiIn []midi.Event) []OutEvent {
	blockLen := len(outL)
	if blockLen > 0 && tr.SampleRate > 0 {
		// One smoothing step at the block rate covers the whole block's samples.
		e.Store.Advance(tr.SampleRate / float64(blockLen))
	}
	snap := e.Store.SnapshotCapture() // step 1: snapshot parameters

	if tr.HostSupplied {
		samplesPerBar := tr.SamplesPerBar()
		e.barSample = int64(tr.BarPosition*float64(samplesPerBar) + 0.5)
	}
	e.advanceBarIfNeeded(tr, snap)

	pattern := e.Scheduler.Current()
	var scheduled []sequencer.Event
	if tr.Playing && pattern != nil {
		scheduled = pattern.EventsForBlock(e.barSample, int64(blockLen))
	}

	var outEvents []OutEvent
	e.Voice.BeginBlock(snap)

	tp := triggerParamsFromSnapshot(snap, tr.SampleRate)

	for i := 0; i < blockLen; i++ {
		// step 2/3.a: apply any incoming MIDI or scheduled event due at this sample
		for _, ev := range midiIn {
			if ev.SampleOffset != i {
				continue
			}
			e.applyMIDIEvent(ev, tp)
		}
		for _, se := range scheduled {
			if int(se.StartSample) != i {
				continue
			}
			e.Voice.Trigger(se.Note, se.Velocity, tp)
			e.lastNote = se.Note
			e.noteSounded = true
			e.pendingReleaseAt = e.barSample + int64(i) + se.DurationSamples
			e.pendingReleaseValid = true
			outEvents = append(outEvents, OutEvent{NoteOn: true, Note: se.Note, Velocity: se.Velocity, SampleOffset: i})
		}
		if e.pendingReleaseValid && e.barSample+int64(i) >= e.pendingReleaseAt {
			e.Voice.Release()
			e.pendingReleaseValid = false
			outEvents = append(outEvents, OutEvent{NoteOn: false, Note: e.lastNote, SampleOffset: i})
		}

		// steps 3.b-3.e: envelopes, modulation, oversampled PLL, DAW-rate
		// chain, master gain — all inside Voice.Process.
		out := e.Voice.Process(snap, voice.Params{
			SampleRate:  tr.SampleRate,
			TempoBPM:    tr.TempoBPM,
			SampleIndex: i,
			BlockLen:    blockLen,
		})
		outL[i] = float32(out.L)
		outR[i] = float32(out.R)
	}

	e.barSample += int64(blockLen)
	e.advanceBarIfNeeded(tr, snap)

	e.updateTelemetry(outL, outR, blockLen, tr.SampleRate)

	return outEvents
}

// applyMIDIEvent folds one decoded incoming event into voice/CC state
// (spec.md §6's "Inputs: note-on/off (any channel), control-change ...,
// NRPN tracking").
func (e *Engine) applyMIDIEvent(ev midi.Event, tp voice.TriggerParams) {
	switch ev.Kind {
	case midi.NoteOn:
		e.Voice.Trigger(int(ev.Note), int(ev.Velocity), tp)
		e.lastNote = int(ev.Note)
		e.noteSounded = true
		e.pendingReleaseValid = false
	case midi.NoteOff:
		e.Voice.Release()
		e.noteSounded = false
	case midi.ControlChange:
		if id, ok := e.CCMap[ev.Controller]; ok {
			sp := e.Store.Spec(id)
			frac := float64(ev.Value7) / 127
			e.Store.Set(id, sp.Min+frac*(sp.Max-sp.Min))
		}
	case midi.ControlChange14:
		if id, ok := e.CCMap[ev.Controller]; ok {
			sp := e.Store.Spec(id)
			frac := float64(ev.Value14) / 16383
			e.Store.Set(id, sp.Min+frac*(sp.Max-sp.Min))
		}
	case midi.NRPNChange:
		if id, ok := e.NRPNMap[ev.NRPNNumber]; ok {
			sp := e.Store.Spec(id)
			frac := float64(ev.Value14) / 16383
			e.Store.Set(id, sp.Min+frac*(sp.Max-sp.Min))
		}
	}
}

// Stop implements spec.md §5's "Cancellation": it releases any sounding
// note, returns an explicit note-off event for the caller to forward to
// MIDI out, and drops the pending scheduled release. It does not stop the
// sequencer: later ProcessBlock calls with tr.Playing set keep emitting the
// current pattern's events.
func (e *Engine) Stop() []OutEvent {
	var out []OutEvent
	if e.noteSounded {
		e.Voice.Release()
		out = append(out, OutEvent{NoteOn: false, Note: e.lastNote, SampleOffset: 0})
		e.noteSounded = false
	}
	e.pendingReleaseValid = false
	return out
}

// updateTelemetry records this block's peak amplitude and current note
// (spec.md §4.9 step 5, §5's telemetry atomics). CPU-load telemetry is the
// caller's responsibility (only the audio-backend adapter knows wall-clock
// processing time against the block's real-time budget), recorded via
// Bridge.RecordCPULoad directly.
func (e *Engine) updateTelemetry(outL, outR []float32, blockLen int, sampleRate float64) {
	var peakL, peakR float64
	for i := 0; i < blockLen; i++ {
		if v := math.Abs(float64(outL[i])); v > peakL {
			peakL = v
		}
		if v := math.Abs(float64(outR[i])); v > peakR {
			peakR = v
		}
	}
	e.Bridge.RecordPeak(peakL, peakR)
	if e.noteSounded {
		e.Bridge.RecordCurrentNote(e.lastNote)
	} else {
		e.Bridge.RecordCurrentNote(-1)
	}
}
