// Package midi resolves raw gomidi messages into the higher-level events
// spec.md §6 describes: note-on/off on any channel, 7-bit and resolved
// 14-bit control-change pairs (0-31 + 32-63), and NRPN tracking (CC 99/98
// select, CC 6/38 data entry).
//
// Grounded on the teacher's MIDI usage in pkg/synth/synth.go (Start,
// midi.ListenTo + msg.GetNoteStart), generalized from "note-on sets carrier
// frequency" into a full decoder feeding the engine's event queue.
package midi

// Kind enumerates the resolved event types the engine consumes.
type Kind int

const (
	NoteOn Kind = iota
	NoteOff
	ControlChange
	ControlChange14
	NRPNChange
)

// Event is one fully-resolved MIDI event, timestamped to a sample offset
// within the current block (spec.md §5's ordering guarantee (b): "outgoing
// MIDI events have sample offsets matching the sample at which the
// corresponding audio change occurs" — incoming events carry the same
// convention so the engine can apply them at the right sample).
type Event struct {
	Kind         Kind
	Channel      uint8
	Note         uint8
	Velocity     uint8
	Controller   uint8
	Value7       uint8  // raw 7-bit value, valid for ControlChange
	Value14      uint16 // resolved 14-bit value, valid for ControlChange14 and NRPNChange
	NRPNNumber   uint16
	SampleOffset int
}
