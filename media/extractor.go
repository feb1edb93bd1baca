package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/voxpersona/errors"
	"github.com/kbukum/voxpersona/logger"
	"github.com/kbukum/voxpersona/process"
)

// Extractor converts media assets to canonical WAV files.
type Extractor struct {
	cfg    Config
	runner process.Runner
	log    *logger.Logger
}

// NewExtractor creates an Extractor. A nil runner executes real processes.
func NewExtractor(cfg Config, runner process.Runner, log *logger.Logger) *Extractor {
	cfg.ApplyDefaults()
	if runner == nil {
		runner = process.Exec{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Extractor{cfg: cfg, runner: runner, log: log.WithComponent("media")}
}

// TempDir returns the directory extracted files are written to.
func (e *Extractor) TempDir() string { return e.cfg.TempDir }

// Extract writes the audio track of asset to a fresh mono PCM WAV file and
// returns its path. The caller owns the returned file. The asset itself is
// never touched; on failure no output file is left behind.
func (e *Extractor) Extract(ctx context.Context, asset Asset) (string, error) {
	if !IsExtractable(asset.Ext) {
		return "", errors.Extraction(fmt.Errorf("unsupported media extension %q", asset.Ext))
	}
	if err := os.MkdirAll(e.cfg.TempDir, 0o750); err != nil {
		return "", errors.Extraction(err)
	}
	out := filepath.Join(e.cfg.TempDir, "voxpersona-"+uuid.NewString()+".wav")

	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := e.runner.Run(ctx, process.Command{
		Binary: e.cfg.FFmpegBinary,
		Args:   e.args(asset, out),
	})
	if err != nil {
		_ = os.Remove(out)
		if tail := res.StderrTail(3); tail != "" {
			err = fmt.Errorf("%w: %s", err, tail)
		}
		return "", errors.Extraction(err).WithDetail("file", filepath.Base(asset.Path))
	}
	if info, statErr := os.Stat(out); statErr != nil || info.Size() == 0 {
		_ = os.Remove(out)
		return "", errors.Extraction(fmt.Errorf("ffmpeg produced no audio for %s", filepath.Base(asset.Path)))
	}

	e.log.Debug("audio extracted", logger.DurationFields("extract", time.Since(start)))
	return out, nil
}

func (e *Extractor) args(asset Asset, out string) []string {
	args := []string{"-nostdin", "-hide_banner", "-y", "-i", asset.Path}
	if !IsAudio(asset.Ext) {
		args = append(args, "-vn")
	}
	args = append(args, "-map_metadata", "-1", "-ac", "1", "-c:a", "pcm_s16le")
	if e.cfg.SampleRate > 0 {
		args = append(args, "-ar", strconv.Itoa(e.cfg.SampleRate))
	}
	return append(args, "-f", "wav", out)
}

// Probe reports the duration of a media file using ffprobe.
func (e *Extractor) Probe(ctx context.Context, path string) (time.Duration, error) {
	res, err := e.runner.Run(ctx, process.Command{
		Binary: e.cfg.FFprobeBinary,
		Args: []string{
			"-v", "error",
			"-show_entries", "format=duration",
			"-of", "default=noprint_wrappers=1:nokey=1",
			path,
		},
	})
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", filepath.Base(path), err)
	}
	secs, err := strconv.ParseFloat(strings.TrimSpace(string(res.Stdout)), 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: unexpected output %q", filepath.Base(path), res.Stdout)
	}
	return time.Duration(secs * float64(time.Second)), nil
}
