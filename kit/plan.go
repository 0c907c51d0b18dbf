// Package kit computes the layer plan for a kit conversion run: how the
// continuous multi-take master recording is partitioned into per-layer
// segments, and which slice of the 0-1 intensity scale each layer covers.
//
// Everything here is pure arithmetic over the kit description; no files
// are touched.
package kit

import (
	"fmt"

	"go-drumkit/config"
)

// NoteSlotMS is the quantization grid for instrument slots in the master
// recording. At 120 BPM this is one eighth note.
const NoteSlotMS = 250

// Range is a normalized velocity band, a half-open slice [Min, Max) of the
// 0-1 intensity scale. Bounds are velocity thresholds divided by 127.
type Range struct {
	Min float64
	Max float64
}

// Layer is one velocity layer of an instrument with its segment of the
// master recording resolved to an absolute start offset.
type Layer struct {
	Index    int // 1-based
	Velocity int // declared threshold, 0-127
	Range    Range
	StartMS  int // absolute offset into the master recording
	LengthMS int // extracted clip length (exact, not quantized)
	Filename string
}

// Instrument is the resolved plan for one instrument.
type Instrument struct {
	ID           int // position in declaration order, 0-based
	Name         string
	Display      string
	Note         int
	NoteLengthMS int // declared length rounded up to the slot grid
	Attributes   map[string]string
	Layers       []Layer
}

// Plan is the complete resolved layout of a conversion run.
type Plan struct {
	Kit         *config.Kit
	Instruments []Instrument
	TotalMS     int // master recording span covered by all segments
}

// NoteLength rounds a sample length up to the nearest slot multiple.
func NoteLength(sampleMS int) int {
	return (sampleMS + NoteSlotMS - 1) / NoteSlotMS * NoteSlotMS
}

// Ranges converts ordered velocity thresholds into contiguous normalized
// bands: the first minimum is 0, each following minimum is the previous
// maximum, and each maximum is threshold/127.
func Ranges(thresholds []int) []Range {
	ranges := make([]Range, len(thresholds))
	prev := 0.0
	for i, t := range thresholds {
		max := float64(t) / 127
		ranges[i] = Range{Min: prev, Max: max}
		prev = max
	}
	return ranges
}

// BaseOffsets folds over the instruments, producing the absolute offset at
// which each instrument's first layer starts. Offsets are strictly
// increasing: each instrument advances the total by its quantized note
// length times its layer count.
func BaseOffsets(instruments []config.Instrument) []int {
	offsets := make([]int, len(instruments))
	total := 0
	for i, inst := range instruments {
		offsets[i] = total
		total += NoteLength(inst.Length) * len(inst.Layers)
	}
	return offsets
}

// LayerFilename names the audio segment for a layer: the instrument's
// internal name plus a two-digit 1-based layer id.
func LayerFilename(instrument string, layerID int, ext string) string {
	return fmt.Sprintf("%s_L%02d.%s", instrument, layerID, ext)
}

// Build resolves the full plan for a kit. The returned plan holds one
// entry per (instrument, layer) pair in declaration order.
func Build(k *config.Kit, ext string) *Plan {
	offsets := BaseOffsets(k.Instruments)

	plan := &Plan{
		Kit:         k,
		Instruments: make([]Instrument, len(k.Instruments)),
	}
	for i, inst := range k.Instruments {
		noteLength := NoteLength(inst.Length)
		ranges := Ranges(inst.Layers)

		layers := make([]Layer, len(inst.Layers))
		for li, velocity := range inst.Layers {
			layers[li] = Layer{
				Index:    li + 1,
				Velocity: velocity,
				Range:    ranges[li],
				StartMS:  offsets[i] + noteLength*li,
				LengthMS: inst.Length,
				Filename: LayerFilename(inst.Name, li+1, ext),
			}
		}
		plan.Instruments[i] = Instrument{
			ID:           i,
			Name:         inst.Name,
			Display:      inst.DisplayName(),
			Note:         inst.Note,
			NoteLengthMS: noteLength,
			Attributes:   k.MergedAttributes(inst),
			Layers:       layers,
		}
		plan.TotalMS = offsets[i] + noteLength*len(inst.Layers)
	}
	return plan
}
