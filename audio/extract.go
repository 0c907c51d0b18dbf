// Package audio is the boundary to the external trimming tool. The core
// only decides start offsets and durations; cutting the actual segment out
// of the master recording is delegated to ffmpeg, kept behind an interface
// so the rest of the pipeline is testable without it.
package audio

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
)

// Ext is the container format of extracted layer segments.
const Ext = "flac"

// Extractor cuts one time window out of a source recording and writes it,
// downmixed to mono, to dst. start and length are milliseconds.
type Extractor interface {
	Extract(ctx context.Context, src, dst string, startMS, lengthMS int) error
}

// FFmpeg invokes the ffmpeg binary for each segment. The zero value uses
// "ffmpeg" from PATH.
type FFmpeg struct {
	Bin string
}

// seconds renders a millisecond offset the way ffmpeg expects it on the
// command line: fractional seconds.
func seconds(ms int) string {
	return strconv.FormatFloat(float64(ms)/1000, 'g', -1, 64)
}

// args builds the argv tail for one extraction: seek before the input so
// ffmpeg uses input seeking, strip video, downmix to mono, overwrite dst.
func (f FFmpeg) args(src, dst string, startMS, lengthMS int) []string {
	return []string{
		"-loglevel", "error",
		"-ss", seconds(startMS),
		"-t", seconds(lengthMS),
		"-i", src,
		"-vn",
		"-ac", "1",
		"-y",
		dst,
	}
}

// Extract runs one synchronous ffmpeg invocation. A non-zero exit is
// returned as an error carrying whatever ffmpeg printed to stderr.
func (f FFmpeg) Extract(ctx context.Context, src, dst string, startMS, lengthMS int) error {
	bin := f.Bin
	if bin == "" {
		bin = "ffmpeg"
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, f.args(src, dst, startMS, lengthMS)...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := bytes.TrimSpace(stderr.Bytes()); len(msg) > 0 {
			return fmt.Errorf("ffmpeg: %w: %s", err, msg)
		}
		return fmt.Errorf("ffmpeg: %w", err)
	}
	return nil
}
