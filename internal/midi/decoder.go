package midi

import "gitlab.com/gomidi/midi/v2"

// Decoder holds the per-channel state needed to resolve a stream of raw
// 7-bit MIDI messages into 14-bit CC pairs and NRPN changes. Not safe for
// concurrent use; cmd/plldriftd's midiInput owns one Decoder per input port and drives it
// from a single goroutine (host MIDI callback, editor-class per spec.md
// §5's "Host callbacks ... treated as editor-class writes when off-audio-
// thread").
type Decoder struct {
	ccMSB    [16][32]uint8
	ccMSBSet [16][32]bool

	nrpnNumber   [16]uint16
	nrpnHaveMSB  [16]bool
	nrpnHaveLSB  [16]bool
	nrpnDataMSB  [16]uint8
	nrpnHaveData [16]bool
}

// NewDecoder returns an empty Decoder.
func NewDecoder() *Decoder { return &Decoder{} }

// Decode resolves one raw message at the given sample offset into zero or
// more Events. A single incoming CC can resolve to more than one Event: a
// plain 7-bit ControlChange is always reported, and completing a 14-bit
// pair or an NRPN data-entry sequence additionally yields a
// ControlChange14 or NRPNChange.
func (d *Decoder) Decode(msg midi.Message, sampleOffset int) []Event {
	var ch, key, vel uint8
	if msg.GetNoteOn(&ch, &key, &vel) {
		if vel == 0 {
			return []Event{{Kind: NoteOff, Channel: ch, Note: key, SampleOffset: sampleOffset}}
		}
		return []Event{{Kind: NoteOn, Channel: ch, Note: key, Velocity: vel, SampleOffset: sampleOffset}}
	}
	if msg.GetNoteOff(&ch, &key, &vel) {
		return []Event{{Kind: NoteOff, Channel: ch, Note: key, Velocity: vel, SampleOffset: sampleOffset}}
	}

	var cc, val uint8
	if msg.GetControlChange(&ch, &cc, &val) {
		return d.handleCC(ch, cc, val, sampleOffset)
	}
	return nil
}

func (d *Decoder) handleCC(ch, cc, val uint8, sampleOffset int) []Event {
	plain := Event{Kind: ControlChange, Channel: ch, Controller: cc, Value7: val, SampleOffset: sampleOffset}
	events := []Event{plain}

	switch {
	case cc == 99: // NRPN parameter MSB
		d.nrpnNumber[ch] = (d.nrpnNumber[ch] &^ (0x7F << 7)) | (uint16(val) << 7)
		d.nrpnHaveMSB[ch] = true
		d.nrpnHaveData[ch] = false
	case cc == 98: // NRPN parameter LSB
		d.nrpnNumber[ch] = (d.nrpnNumber[ch] &^ 0x7F) | uint16(val)
		d.nrpnHaveLSB[ch] = true
		d.nrpnHaveData[ch] = false
	case cc == 6: // data entry MSB
		if d.nrpnHaveMSB[ch] && d.nrpnHaveLSB[ch] {
			d.nrpnDataMSB[ch] = val
			d.nrpnHaveData[ch] = true
			events = append(events, Event{
				Kind:         NRPNChange,
				Channel:      ch,
				NRPNNumber:   d.nrpnNumber[ch],
				Value14:      uint16(val) << 7,
				SampleOffset: sampleOffset,
			})
		}
	case cc == 38: // data entry LSB
		if d.nrpnHaveMSB[ch] && d.nrpnHaveLSB[ch] && d.nrpnHaveData[ch] {
			events = append(events, Event{
				Kind:         NRPNChange,
				Channel:      ch,
				NRPNNumber:   d.nrpnNumber[ch],
				Value14:      uint16(d.nrpnDataMSB[ch])<<7 | uint16(val),
				SampleOffset: sampleOffset,
			})
		}
	case cc <= 31: // 14-bit pair MSB
		d.ccMSB[ch][cc] = val
		d.ccMSBSet[ch][cc] = true
	case cc >= 32 && cc <= 63: // 14-bit pair LSB
		msbIdx := cc - 32
		if d.ccMSBSet[ch][msbIdx] {
			events = append(events, Event{
				Kind:         ControlChange14,
				Channel:      ch,
				Controller:   msbIdx,
				Value14:      uint16(d.ccMSB[ch][msbIdx])<<7 | uint16(val),
				SampleOffset: sampleOffset,
			})
		}
	}
	return events
}
