package main

import (
	"time"

	"github.com/gordonklaus/portaudio"

	"plldrift/internal/engine"
	"plldrift/internal/transport"
)

const (
	sampleRate    = 48000.0
	framesPerCall = 256
)

// audioBackend owns the PortAudio stream and the per-callback scratch
// buffers. Grounded on the teacher's Synth.Start/Stop (mono
// portaudio.OpenDefaultStream(0,1,...,callback)), generalized to a stereo
// output stream driving internal/engine.Engine instead of the teacher's
// single FM pair.
type audioBackend struct {
	stream *portaudio.Stream
	eng    *engine.Engine
	mi     *midiInput

	outL, outR []float32

	tempoBPM float64
	playing  bool
}

func newAudioBackend(eng *engine.Engine, mi *midiInput) *audioBackend {
	return &audioBackend{
		eng:      eng,
		mi:       mi,
		outL:     make([]float32, framesPerCall),
		outR:     make([]float32, framesPerCall),
		tempoBPM: 120,
		playing:  true,
	}
}

func (a *audioBackend) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return err
	}
	stream, err := portaudio.OpenDefaultStream(0, 2, sampleRate, framesPerCall, a.callback)
	if err != nil {
		return err
	}
	a.stream = stream
	return stream.Start()
}

func (a *audioBackend) Stop() error {
	outEvents := a.eng.Stop()
	_ = outEvents // a real MIDI-out port would forward these; out of scope here.
	if a.stream != nil {
		if err := a.stream.Close(); err != nil {
			return err
		}
	}
	return portaudio.Terminate()
}

// callback is PortAudio's realtime entry point. It writes into the one-time
// buffers above, but it is not allocation- or lock-free: midiInput.Drain
// takes a mutex and builds a fresh event slice, ProcessBlock captures a new
// parameter snapshot, and time.Now is read for the CPU-load figure.
func (a *audioBackend) callback(out []float32) {
	start := time.Now()

	tr := transport.State{
		Playing:    a.playing,
		TempoBPM:   a.tempoBPM,
		SampleRate: sampleRate,
	}

	midiIn := a.mi.Drain()
	a.eng.ProcessBlock(a.outL, a.outR, tr, midiIn)

	for i := 0; i < framesPerCall; i++ {
		out[2*i] = a.outL[i]
		out[2*i+1] = a.outR[i]
	}

	budget := float64(framesPerCall) / sampleRate
	elapsed := time.Since(start).Seconds()
	a.eng.Bridge.RecordCPULoad(elapsed / budget)
}
