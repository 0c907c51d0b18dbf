// Package preview renders a kit description as a Standard MIDI File: one
// burst per instrument walking its velocity layers in order, with a marker
// naming the instrument before its first hit and a closing "End" marker.
// The file doubles as a recording guide - each hit sits in the same
// quantized slot the kit packager later slices out of the master take.
package preview

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"go-drumkit/config"
	"go-drumkit/kit"
)

const (
	// TicksPerBeat makes one eighth note 24 ticks, so a 250 ms slot at
	// 120 BPM is exactly one eighth.
	TicksPerBeat = 48

	// NoteTicks is how long each hit sounds before its note-off.
	NoteTicks = 24

	// Channel is the General MIDI percussion channel (0-based).
	Channel = 9

	// BPM is the fixed preview tempo.
	BPM = 120
)

// Ext is the preview file extension, without the dot.
const Ext = "mid"

// slotTicks converts an instrument's quantized note length to ticks.
func slotTicks(noteLengthMS int) uint32 {
	return uint32(noteLengthMS / kit.NoteSlotMS * NoteTicks)
}

// Track builds the preview event sequence for a kit.
func Track(k *config.Kit) smf.Track {
	var tr smf.Track
	tr.Add(0, smf.MetaMeter(4, 4))
	tr.Add(0, smf.MetaTempo(BPM))

	// gap carries the silent remainder of the previous hit's slot into
	// the delta of the next event.
	var gap uint32
	for _, inst := range k.Instruments {
		slot := slotTicks(kit.NoteLength(inst.Length))
		for li, velocity := range inst.Layers {
			if li == 0 {
				tr.Add(gap, smf.MetaMarker(inst.DisplayName()))
				gap = 0
			}
			tr.Add(gap, midi.NoteOn(Channel, uint8(inst.Note), uint8(velocity)))
			tr.Add(NoteTicks, midi.NoteOff(Channel, uint8(inst.Note)))
			gap = slot - NoteTicks
		}
	}
	tr.Add(gap, smf.MetaMarker("End"))
	tr.Close(0)
	return tr
}

// WriteFile renders the kit preview and writes it to path.
func WriteFile(k *config.Kit, path string) error {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(TicksPerBeat)
	if err := s.Add(Track(k)); err != nil {
		return fmt.Errorf("building midi preview: %w", err)
	}
	if err := s.WriteFile(path); err != nil {
		return fmt.Errorf("writing midi preview: %w", err)
	}
	return nil
}
