// Package audio splits canonical WAV files into bounded-duration chunks.
package audio

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/youpy/go-wav"

	"github.com/kbukum/voxpersona/errors"
	"github.com/kbukum/voxpersona/logger"
)

// DefaultMaxSegment is the chunk length used when none is configured.
const DefaultMaxSegment = 5 * time.Minute

// Segment is one chunk of audio on disk.
type Segment struct {
	// Index is 1-based.
	Index    int
	Path     string
	Start    time.Duration
	Duration time.Duration
	// Temp marks files created by the chunker that Cleanup must remove.
	Temp bool
}

// Span returns the time range covered by the segment.
func (s Segment) Span() Span { return Span{Start: s.Start, Duration: s.Duration} }

// Chunker writes chunk files next to the source WAV.
type Chunker struct {
	log *logger.Logger
}

// NewChunker creates a Chunker.
func NewChunker(log *logger.Logger) *Chunker {
	if log == nil {
		log = logger.Nop()
	}
	return &Chunker{log: log.WithComponent("chunker")}
}

// Split cuts the WAV at wavPath into segments of at most max. Audio no longer
// than max is returned as a single segment pointing at wavPath itself. On
// failure every chunk file already written is removed.
func (c *Chunker) Split(ctx context.Context, wavPath string, max time.Duration) (segments []Segment, err error) {
	if max <= 0 {
		return nil, errors.Chunking(fmt.Errorf("max segment duration must be positive, got %v", max))
	}

	f, err := os.Open(wavPath)
	if err != nil {
		return nil, errors.Chunking(err)
	}
	defer f.Close()

	reader := wav.NewReader(f)
	format, err := reader.Format()
	if err != nil {
		return nil, errors.Chunking(fmt.Errorf("read wav header: %w", err))
	}
	if format.SampleRate == 0 || format.BlockAlign == 0 {
		return nil, errors.Chunking(fmt.Errorf("invalid wav format: %+v", *format))
	}

	if _, err := reader.Duration(); err != nil {
		return nil, errors.Chunking(fmt.Errorf("read wav duration: %w", err))
	}
	rate, align := format.SampleRate, int64(format.BlockAlign)
	if durationToSamples(max, rate) == 0 {
		return nil, errors.Chunking(fmt.Errorf("max segment duration %v is shorter than one sample", max))
	}
	totalSamples := int64(reader.WavData.Size) / align
	total := samplesToDuration(totalSamples, rate)
	if total <= max {
		return []Segment{{Index: 1, Path: wavPath, Duration: total}}, nil
	}

	defer func() {
		if err != nil {
			Cleanup(segments)
			segments = nil
		}
	}()

	spans := Plan(total, max)
	buf := make([]byte, (durationToSamples(max, rate)+1)*align)
	base := strings.TrimSuffix(filepath.Base(wavPath), filepath.Ext(wavPath))
	var offset int64

	for i := range spans {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return segments, errors.Canceled(ctxErr)
		}
		end := totalSamples
		if i+1 < len(spans) {
			end = durationToSamples(spans[i+1].Start, rate)
		}
		samples := end - offset
		pcm := buf[:samples*align]
		if _, readErr := io.ReadFull(reader, pcm); readErr != nil {
			return segments, errors.Chunking(fmt.Errorf("read chunk %d: %w", i+1, readErr))
		}

		path := filepath.Join(filepath.Dir(wavPath), fmt.Sprintf("%s-chunk-%d-%s.wav", base, i+1, uuid.NewString()))
		if werr := writeChunk(path, format, pcm, samples); werr != nil {
			os.Remove(path)
			return segments, errors.Chunking(werr)
		}
		segments = append(segments, Segment{
			Index:    i + 1,
			Path:     path,
			Start:    samplesToDuration(offset, rate),
			Duration: samplesToDuration(samples, rate),
			Temp:     true,
		})
		offset = end
	}

	c.log.Debug("audio split", logger.Fields(
		logger.FieldPath, wavPath,
		"chunks", len(segments),
		"total_s", total.Seconds(),
	))
	return segments, nil
}

func writeChunk(path string, format *wav.WavFormat, pcm []byte, samples int64) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	w := wav.NewWriter(out, uint32(samples), format.NumChannels, format.SampleRate, format.BitsPerSample)
	if _, err := w.Write(pcm); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// durationToSamples floors d to whole samples.
func durationToSamples(d time.Duration, rate uint32) int64 {
	r := int64(rate)
	return int64(d/time.Second)*r + int64(d%time.Second)*r/int64(time.Second)
}

func samplesToDuration(samples int64, rate uint32) time.Duration {
	r := int64(rate)
	return time.Duration(samples/r)*time.Second + time.Duration(samples%r)*time.Second/time.Duration(r)
}

// Cleanup removes the chunk files created by Split. Segments pointing at
// the source WAV are left alone.
func Cleanup(segments []Segment) {
	for _, s := range segments {
		if s.Temp && s.Path != "" {
			_ = os.Remove(s.Path)
		}
	}
}

// Duration reports the playing time of a WAV file.
func Duration(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return wav.NewReader(f).Duration()
}
