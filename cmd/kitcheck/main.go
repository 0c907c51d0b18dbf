// kitcheck validates a kit config and prints the resolved timeline:
// per-layer start offsets, durations, and velocity ranges, without
// touching ffmpeg or writing anything.
package main

import (
	"flag"
	"fmt"
	"os"

	"go-drumkit/audio"
	"go-drumkit/config"
	"go-drumkit/kit"
	"go-drumkit/manifest"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s <kit-config.yml>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	kitCfg, err := config.Load(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	plan := kit.Build(kitCfg, audio.Ext)

	fmt.Printf("Kit %q (%s): %d instruments, %d ms of master recording\n\n",
		kitCfg.Name, kitCfg.Code, len(plan.Instruments), plan.TotalMS)

	for _, inst := range plan.Instruments {
		fmt.Printf("[%d] %s  note=%d  take=%dms  slot=%dms\n",
			inst.ID, inst.Display, inst.Note, inst.Layers[0].LengthMS, inst.NoteLengthMS)
		for _, layer := range inst.Layers {
			fmt.Printf("    %s  start=%-7d len=%-6d vel<=%-3d range=[%s, %s)\n",
				layer.Filename, layer.StartMS, layer.LengthMS, layer.Velocity,
				manifest.FormatBound(layer.Range.Min), manifest.FormatBound(layer.Range.Max))
		}
	}
}
