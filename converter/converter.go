// Package converter wires the conversion pipeline together: plan the
// timeline, extract every layer segment, build the manifest, and package
// the result. Instruments and layers are processed strictly in declaration
// order; each extraction completes before the next begins.
package converter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"go-drumkit/archive"
	"go-drumkit/audio"
	"go-drumkit/config"
	"go-drumkit/kit"
	"go-drumkit/manifest"
	"go-drumkit/preview"
)

// Builder runs kit conversions. MediaDir holds the master recording
// <code>.wav and receives MIDI previews; KitsDir receives packaged kits.
type Builder struct {
	Extractor audio.Extractor
	MediaDir  string
	KitsDir   string
	Log       *slog.Logger
	DryRun    bool
}

func (b *Builder) logger() *slog.Logger {
	if b.Log != nil {
		return b.Log
	}
	return slog.Default()
}

// SourcePath is the master recording the kit's segments are cut from.
func (b *Builder) SourcePath(code string) string {
	return filepath.Join(b.MediaDir, code+".wav")
}

// ArchivePath is where the packaged kit lands.
func (b *Builder) ArchivePath(code string) string {
	return filepath.Join(b.KitsDir, code+"."+archive.Ext)
}

// PreviewPath is where the MIDI preview lands.
func (b *Builder) PreviewPath(code string) string {
	return filepath.Join(b.MediaDir, code+"."+preview.Ext)
}

// BuildKit converts a kit description into a packaged archive and returns
// the archive path. On any failure the staging directory is discarded and
// no partial archive is left behind.
func (b *Builder) BuildKit(ctx context.Context, k *config.Kit) (string, error) {
	log := b.logger()
	plan := kit.Build(k, audio.Ext)
	src := b.SourcePath(k.Code)

	if !b.DryRun {
		if _, err := os.Stat(src); err != nil {
			return "", fmt.Errorf("master recording %s: %w", src, err)
		}
	}

	staging, err := archive.NewStaging(k.Code)
	if err != nil {
		return "", err
	}
	defer staging.Cleanup()

	for _, inst := range plan.Instruments {
		log.Info("generating instrument", "instrument", inst.Display, "layers", len(inst.Layers))
		for _, layer := range inst.Layers {
			if b.DryRun {
				continue
			}
			dst := staging.Path(layer.Filename)
			log.Debug("extracting segment",
				"file", layer.Filename, "start_ms", layer.StartMS, "length_ms", layer.LengthMS)
			if err := b.Extractor.Extract(ctx, src, dst, layer.StartMS, layer.LengthMS); err != nil {
				return "", fmt.Errorf("instrument %s layer %d: %w", inst.Name, layer.Index, err)
			}
		}
	}

	doc := manifest.Build(plan)
	if b.DryRun {
		log.Info("dry run, skipping archive", "kit", k.Code)
		return b.ArchivePath(k.Code), nil
	}
	if err := doc.WriteFile(staging.Path(manifest.Filename)); err != nil {
		return "", err
	}

	if err := os.MkdirAll(b.KitsDir, 0o755); err != nil {
		return "", fmt.Errorf("creating kits dir: %w", err)
	}
	dst := b.ArchivePath(k.Code)
	if err := staging.Pack(dst); err != nil {
		return "", err
	}
	log.Info("packaged kit", "archive", dst, "span_ms", plan.TotalMS)
	return dst, nil
}

// BuildPreview writes the kit's MIDI preview file and returns its path.
func (b *Builder) BuildPreview(k *config.Kit) (string, error) {
	dst := b.PreviewPath(k.Code)
	if b.DryRun {
		b.logger().Info("dry run, skipping midi preview", "file", dst)
		return dst, nil
	}
	if err := os.MkdirAll(b.MediaDir, 0o755); err != nil {
		return "", fmt.Errorf("creating media dir: %w", err)
	}
	if err := preview.WriteFile(k, dst); err != nil {
		return "", err
	}
	b.logger().Info("wrote midi preview", "file", dst)
	return dst, nil
}
