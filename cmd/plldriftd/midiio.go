package main

import (
	"log"
	"sync"

	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters the rtmidi driver, exactly as the teacher's main.go does

	"plldrift/internal/midi"
)

// midiInput owns the incoming MIDI port listener. Messages arrive on an
// arbitrary driver goroutine (editor-class per spec.md §5's "Host
// callbacks ... treated as editor-class writes when off-audio-thread") and
// are queued under a mutex; Drain empties the queue into a single
// per-block Decode pass, each event stamped to sample offset 0 since the
// driver doesn't expose a sample-accurate host clock.
type midiInput struct {
	decoder *midi.Decoder
	stop    func()

	mu     sync.Mutex
	queued []gomidi.Message
}

func newMIDIInput() *midiInput {
	return &midiInput{decoder: midi.NewDecoder()}
}

// Start opens the first available input port, if any, and begins queueing
// its messages. A synth with no MIDI input attached still runs fine off
// the sequencer alone, so a missing port is logged, not fatal.
func (m *midiInput) Start() {
	ports := gomidi.GetInPorts()
	if len(ports) == 0 {
		log.Printf("midiio: no MIDI input ports found, running sequencer-only")
		return
	}
	inPort, err := gomidi.InPort(0)
	if err != nil {
		log.Printf("midiio: failed to open input port 0: %v", err)
		return
	}
	stop, err := gomidi.ListenTo(inPort, func(msg gomidi.Message, _ int32) {
		m.mu.Lock()
		m.queued = append(m.queued, msg)
		m.mu.Unlock()
	})
	if err != nil {
		log.Printf("midiio: failed to listen on input port 0: %v", err)
		return
	}
	m.stop = stop
}

// Drain decodes every message queued since the last call and returns the
// resolved events, each carrying sample offset 0 (spec.md §6's sample-
// accurate guarantee applies to the sequencer's own output; live MIDI
// input here is best-effort, applied at the start of the next block).
func (m *midiInput) Drain() []midi.Event {
	m.mu.Lock()
	msgs := m.queued
	m.queued = nil
	m.mu.Unlock()

	var events []midi.Event
	for _, msg := range msgs {
		events = append(events, m.decoder.Decode(msg, 0)...)
	}
	return events
}

func (m *midiInput) Stop() {
	if m.stop != nil {
		m.stop()
	}
}
