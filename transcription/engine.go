package transcription

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kbukum/voxpersona/audio"
	"github.com/kbukum/voxpersona/errors"
	"github.com/kbukum/voxpersona/logger"
	"github.com/kbukum/voxpersona/resilience"
	"github.com/kbukum/voxpersona/transcript"
)

// EngineConfig configures an Engine.
type EngineConfig struct {
	Language string            `yaml:"language" mapstructure:"language"`
	Model    string            `yaml:"model" mapstructure:"model"`
	Call     resilience.Policy `yaml:"call" mapstructure:"call"`
}

// ChunkFunc is told after each chunk finishes.
type ChunkFunc func(done, total int)

// Engine transcribes chunked audio with a Provider.
type Engine struct {
	provider Provider
	cfg      EngineConfig
	log      *logger.Logger
}

// NewEngine creates an Engine.
func NewEngine(p Provider, cfg EngineConfig, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{provider: p, cfg: cfg, log: log.WithComponent("transcription")}
}

// Provider returns the backing provider.
func (e *Engine) Provider() Provider { return e.provider }

// Transcribe transcribes every segment in order. A single segment yields a
// plain transcript; several yield a chunked transcript whose times are
// absolute. Any chunk failure aborts the whole call.
func (e *Engine) Transcribe(ctx context.Context, source []audio.Segment, timestamps bool, onChunk ChunkFunc) (transcript.Transcript, error) {
	var out transcript.Transcript
	if len(source) == 0 {
		return out, errors.Transcription(fmt.Errorf("no audio to transcribe"))
	}
	out.Chunked = len(source) > 1

	op := "transcription." + e.provider.Name()
	for i, seg := range source {
		if err := ctx.Err(); err != nil {
			return transcript.Transcript{}, errors.Canceled(err)
		}

		start := time.Now()
		req := Request{AudioPath: seg.Path, Language: e.cfg.Language, Model: e.cfg.Model, Timestamps: timestamps}
		resp, err := resilience.Call(ctx, e.cfg.Call, op, func(ctx context.Context) (*Response, error) {
			return e.provider.Transcribe(ctx, req)
		})
		if err != nil {
			if ctx.Err() != nil {
				return transcript.Transcript{}, errors.Canceled(err)
			}
			return transcript.Transcript{}, errors.Transcription(err).
				WithDetail("chunk", i+1).
				WithDetail("chunks", len(source))
		}

		part := toTranscript(resp, timestamps)
		if out.Chunked {
			out.Append(i+1, seg.Start, part)
		} else {
			out.Segments = part.Segments
		}

		e.log.Debug("chunk transcribed", logger.Fields(
			"chunk", i+1,
			"chunks", len(source),
			logger.FieldDuration, time.Since(start).Milliseconds(),
		))
		if onChunk != nil {
			onChunk(i+1, len(source))
		}
	}
	return out, nil
}

// toTranscript converts one provider response. Utterance times are floored to
// whole seconds and kept in non-decreasing order. No speech yields no
// segments, which renders to "" and parses back the same.
func toTranscript(resp *Response, timestamps bool) transcript.Transcript {
	var t transcript.Transcript
	if timestamps && len(resp.Segments) > 0 {
		var prev time.Duration
		for _, s := range resp.Segments {
			start := transcript.Seconds(s.Start)
			if start < prev {
				start = prev
			}
			end := transcript.Seconds(s.End)
			if end < start {
				end = start
			}
			prev = start
			t.Segments = append(t.Segments, transcript.Segment{
				Start: start,
				End:   end,
				Text:  strings.TrimSpace(s.Text),
				Timed: true,
			})
		}
		return t
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" && len(resp.Segments) > 0 {
		parts := make([]string, 0, len(resp.Segments))
		for _, s := range resp.Segments {
			if p := strings.TrimSpace(s.Text); p != "" {
				parts = append(parts, p)
			}
		}
		text = strings.Join(parts, " ")
	}
	if text != "" {
		t.Segments = []transcript.Segment{{Text: text}}
	}
	return t
}
