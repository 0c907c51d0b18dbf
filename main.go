// go-drumkit turns a declarative kit description into either a packaged
// drum kit (audio layers sliced from a master recording plus a manifest)
// or a MIDI preview file for recording along to.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"go-drumkit/audio"
	"go-drumkit/config"
	"go-drumkit/converter"
)

var (
	configFlag  = flag.String("c", "default.yml", "kit config file inside the configs directory")
	configsFlag = flag.String("configs", "configs", "directory holding kit configs")
	mediaFlag   = flag.String("media", "media", "directory holding master recordings; receives midi previews")
	kitsFlag    = flag.String("kits", "kits", "output directory for packaged kits")
	ffmpegFlag  = flag.String("ffmpeg", "ffmpeg", "ffmpeg binary to invoke")
	dryRunFlag  = flag.Bool("dry-run", false, "plan and validate only, write nothing")
	debugFlag   = flag.Bool("debug", false, "enable debug logging")
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [options] <kit|midi>\n\n", os.Args[0])
	fmt.Fprintln(flag.CommandLine.Output(), "  kit   slice the master recording and package a drum kit archive")
	fmt.Fprintln(flag.CommandLine.Output(), "  midi  write a velocity-layered MIDI preview of the kit")
	fmt.Fprintln(flag.CommandLine.Output(), "\nOptions:")
	flag.PrintDefaults()
}

func initLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)
	return log
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}
	mode := flag.Arg(0)
	if mode != "kit" && mode != "midi" {
		fmt.Fprintf(os.Stderr, "unknown mode %q\n\n", mode)
		usage()
		os.Exit(2)
	}

	log := initLogger(*debugFlag)

	kitCfg, err := config.Load(filepath.Join(*configsFlag, *configFlag))
	if err != nil {
		log.Error("loading config", "error", err)
		os.Exit(1)
	}

	b := &converter.Builder{
		Extractor: audio.FFmpeg{Bin: *ffmpegFlag},
		MediaDir:  *mediaFlag,
		KitsDir:   *kitsFlag,
		Log:       log,
		DryRun:    *dryRunFlag,
	}

	switch mode {
	case "kit":
		log.Info("creating drumkit archive", "kit", kitCfg.Name, "config", *configFlag)
		if _, err := b.BuildKit(context.Background(), kitCfg); err != nil {
			log.Error("kit build failed", "error", err)
			os.Exit(1)
		}
	case "midi":
		log.Info("creating midi preview", "kit", kitCfg.Name, "config", *configFlag)
		if _, err := b.BuildPreview(kitCfg); err != nil {
			log.Error("midi preview failed", "error", err)
			os.Exit(1)
		}
	}
}
