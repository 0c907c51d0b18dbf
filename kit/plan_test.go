package kit

import (
	"math"
	"testing"

	"go-drumkit/config"
)

func TestNoteLength(t *testing.T) {
	tests := []struct {
		name   string
		length int
		want   int
	}{
		{"exact multiple", 500, 500},
		{"rounds up", 300, 500},
		{"single ms", 1, 250},
		{"just over a slot", 251, 500},
		{"one slot", 250, 250},
		{"long sample", 1300, 1500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NoteLength(tt.length); got != tt.want {
				t.Errorf("NoteLength(%d) = %d, want %d", tt.length, got, tt.want)
			}
		})
	}
}

func TestRanges(t *testing.T) {
	const eps = 1e-9

	ranges := Ranges([]int{64, 100, 127})
	want := []Range{
		{0, 0.503937},
		{0.503937, 0.787402},
		{0.787402, 1.0},
	}
	if len(ranges) != len(want) {
		t.Fatalf("got %d ranges, want %d", len(ranges), len(want))
	}
	for i, r := range ranges {
		if math.Abs(r.Min-want[i].Min) > 1e-6 || math.Abs(r.Max-want[i].Max) > 1e-6 {
			t.Errorf("range %d = [%f, %f), want [%f, %f)", i, r.Min, r.Max, want[i].Min, want[i].Max)
		}
	}

	// Contiguity holds for arbitrary ascending threshold sets.
	for _, thresholds := range [][]int{
		{127},
		{30, 127},
		{10, 20, 30, 40, 127},
		{5, 64, 90, 110},
	} {
		ranges := Ranges(thresholds)
		if len(ranges) != len(thresholds) {
			t.Fatalf("got %d ranges for %d thresholds", len(ranges), len(thresholds))
		}
		if ranges[0].Min != 0 {
			t.Errorf("first min = %f, want 0", ranges[0].Min)
		}
		for i := 1; i < len(ranges); i++ {
			if math.Abs(ranges[i].Min-ranges[i-1].Max) > eps {
				t.Errorf("gap between range %d and %d: %f != %f",
					i-1, i, ranges[i-1].Max, ranges[i].Min)
			}
		}
		last := ranges[len(ranges)-1]
		wantMax := float64(thresholds[len(thresholds)-1]) / 127
		if math.Abs(last.Max-wantMax) > eps {
			t.Errorf("last max = %f, want %f", last.Max, wantMax)
		}
	}
}

func TestBaseOffsets(t *testing.T) {
	instruments := []config.Instrument{
		{Name: "kick", Length: 300, Layers: []int{80, 127}},    // slot 500, 2 layers
		{Name: "snare", Length: 250, Layers: []int{127}},       // slot 250, 1 layer
		{Name: "hat", Length: 600, Layers: []int{40, 90, 127}}, // slot 750, 3 layers
	}
	offsets := BaseOffsets(instruments)
	want := []int{0, 1000, 1250}
	if len(offsets) != len(want) {
		t.Fatalf("got %d offsets, want %d", len(offsets), len(want))
	}
	for i := range want {
		if offsets[i] != want[i] {
			t.Errorf("offset %d = %d, want %d", i, offsets[i], want[i])
		}
	}

	// Spacing equals noteLength * layerCount, offsets strictly increasing.
	for i := 1; i < len(offsets); i++ {
		prev := instruments[i-1]
		spacing := NoteLength(prev.Length) * len(prev.Layers)
		if offsets[i]-offsets[i-1] != spacing {
			t.Errorf("spacing %d->%d = %d, want %d", i-1, i, offsets[i]-offsets[i-1], spacing)
		}
		if offsets[i] <= offsets[i-1] {
			t.Errorf("offsets not increasing: %v", offsets)
		}
	}
}

func TestLayerFilename(t *testing.T) {
	tests := []struct {
		instrument string
		layerID    int
		want       string
	}{
		{"kick", 1, "kick_L01.flac"},
		{"snare", 12, "snare_L12.flac"},
		{"ride", 100, "ride_L100.flac"},
	}
	for _, tt := range tests {
		if got := LayerFilename(tt.instrument, tt.layerID, "flac"); got != tt.want {
			t.Errorf("LayerFilename(%q, %d) = %q, want %q", tt.instrument, tt.layerID, got, tt.want)
		}
	}
}

func TestBuild(t *testing.T) {
	cfg := &config.Kit{
		Code: "tk",
		Name: "Test Kit",
		DefaultAttributes: map[string]string{
			"volume": "1.0",
			"Attack": "0",
		},
		Instruments: []config.Instrument{
			{
				Name:       "kick",
				Display:    "Kick Drum",
				Note:       36,
				Length:     300,
				Layers:     []int{80, 127},
				Attributes: map[string]string{"Attack": "5"},
			},
			{
				Name:   "snare",
				Note:   38,
				Length: 500,
				Layers: []int{127},
			},
		},
	}

	plan := Build(cfg, "flac")

	if len(plan.Instruments) != 2 {
		t.Fatalf("got %d instruments, want 2", len(plan.Instruments))
	}
	if plan.TotalMS != 1500 {
		t.Errorf("TotalMS = %d, want 1500", plan.TotalMS)
	}

	kick := plan.Instruments[0]
	if kick.ID != 0 || kick.Display != "Kick Drum" || kick.NoteLengthMS != 500 {
		t.Errorf("unexpected kick plan: %+v", kick)
	}
	if got := kick.Attributes["Attack"]; got != "5" {
		t.Errorf("kick Attack = %q, want override %q", got, "5")
	}
	if got := kick.Attributes["volume"]; got != "1.0" {
		t.Errorf("kick volume = %q, want default %q", got, "1.0")
	}

	// Spec example: length=300 quantizes to 500; layer 0 at base, layer 1
	// at base+500; both durations stay 300.
	wantLayers := []struct {
		start, length int
		filename      string
	}{
		{0, 300, "kick_L01.flac"},
		{500, 300, "kick_L02.flac"},
	}
	for i, want := range wantLayers {
		layer := kick.Layers[i]
		if layer.StartMS != want.start || layer.LengthMS != want.length || layer.Filename != want.filename {
			t.Errorf("kick layer %d = {start %d, len %d, file %s}, want {%d, %d, %s}",
				i, layer.StartMS, layer.LengthMS, layer.Filename,
				want.start, want.length, want.filename)
		}
		if layer.Index != i+1 {
			t.Errorf("kick layer %d index = %d, want %d", i, layer.Index, i+1)
		}
	}

	snare := plan.Instruments[1]
	if snare.Display != "snare" {
		t.Errorf("snare display = %q, want fallback to name", snare.Display)
	}
	if len(snare.Layers) != 1 {
		t.Fatalf("snare has %d layers, want 1", len(snare.Layers))
	}
	// A single-layer instrument still gets one segment at its base offset.
	if snare.Layers[0].StartMS != 1000 {
		t.Errorf("snare start = %d, want 1000", snare.Layers[0].StartMS)
	}
}
