package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/voxpersona/audio"
	"github.com/kbukum/voxpersona/errors"
	"github.com/kbukum/voxpersona/logger"
	"github.com/kbukum/voxpersona/media"
	"github.com/kbukum/voxpersona/observability"
	"github.com/kbukum/voxpersona/persona"
	"github.com/kbukum/voxpersona/settings"
	"github.com/kbukum/voxpersona/store"
	"github.com/kbukum/voxpersona/transcript"
	"github.com/kbukum/voxpersona/transcription"
	"github.com/kbukum/voxpersona/translation"
)

// Extractor turns a media asset into a WAV file owned by the caller.
type Extractor interface {
	Extract(ctx context.Context, asset media.Asset) (string, error)
}

// Prober is implemented by extractors that can report a media duration
// before extraction.
type Prober interface {
	Probe(ctx context.Context, path string) (time.Duration, error)
}

// Splitter cuts a WAV file into bounded chunks.
type Splitter interface {
	Split(ctx context.Context, wavPath string, max time.Duration) ([]audio.Segment, error)
}

// Transcriber turns chunks into a transcript.
type Transcriber interface {
	Transcribe(ctx context.Context, source []audio.Segment, timestamps bool, onChunk transcription.ChunkFunc) (transcript.Transcript, error)
}

// Translator translates transcript text, keeping timestamp markers.
type Translator interface {
	Translate(ctx context.Context, text, target string) (string, error)
}

// PersonaSource returns the persona extractor for a generator base URL.
type PersonaSource interface {
	For(baseURL string) (*persona.Extractor, error)
}

// Recorder persists pipeline output.
type Recorder interface {
	AddTranscription(ctx context.Context, t *store.Transcription) error
	AddPersona(ctx context.Context, transcriptionID uint, name, prompt string) (*store.Persona, error)
}

// Deps are the collaborators of an Orchestrator.
type Deps struct {
	Extractor  Extractor
	Chunker    Splitter
	Engine     Transcriber
	Translator Translator
	Personas   PersonaSource
	Store      Recorder
	// Metrics may be nil.
	Metrics *observability.PipelineMetrics
}

// RunContext carries per-run state. Settings are a snapshot taken when the
// run starts.
type RunContext struct {
	RunID    string
	Settings settings.Settings
	Progress ProgressFunc
}

// Input describes one uploaded media file.
type Input struct {
	AssetPath string
	// Filename is the name recorded for the transcription. Defaults to the
	// base name of AssetPath.
	Filename          string
	ClientID          uint
	IncludeTimestamps bool
	// TargetLanguage is a translation target code. Empty or "Original"
	// skips translation.
	TargetLanguage string
	// OwnsAsset hands the asset to the run, which deletes it when done.
	OwnsAsset bool
}

// Result is the output of a successful run.
type Result struct {
	RunID           string `json:"run_id"`
	Text            string `json:"text"`
	TranslatedText  string `json:"translated_text,omitempty"`
	TargetLanguage  string `json:"target_language,omitempty"`
	TranscriptionID uint   `json:"transcription_id"`
	PersonaName     string `json:"persona_name,omitempty"`
	// PersonaError is set when persona generation failed.
	PersonaError string `json:"persona_error,omitempty"`
	// Warning is set when translation failed under the persist_original
	// policy.
	Warning string `json:"warning,omitempty"`
}

// Orchestrator runs pipelines. It holds no per-run state and is safe for
// concurrent use.
type Orchestrator struct {
	deps Deps
	cfg  Config
	log  *logger.Logger
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(deps Deps, cfg Config, log *logger.Logger) *Orchestrator {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.Nop()
	}
	return &Orchestrator{deps: deps, cfg: cfg, log: log.WithComponent("pipeline")}
}

// run is the state of one pipeline execution.
type run struct {
	o        *Orchestrator
	rc       RunContext
	in       Input
	log      *logger.Logger
	progress tracker

	wavPath  string
	segments []audio.Segment
}

// Run executes the pipeline for in. On failure the error is a *StageError
// naming the failing stage, and no result is returned.
func (o *Orchestrator) Run(ctx context.Context, rc RunContext, in Input) (res *Result, err error) {
	if rc.RunID == "" {
		rc.RunID = uuid.NewString()
	}
	if in.Filename == "" {
		in.Filename = filepath.Base(in.AssetPath)
	}
	target := normalizeTarget(in.TargetLanguage)

	ctx = logger.ContextWithRunID(ctx, rc.RunID)
	ctx, span := observability.StartSpan(ctx, observability.SpanPipelineRun,
		attribute.String(observability.AttrRunID, rc.RunID),
		attribute.Int64(observability.AttrClientID, int64(in.ClientID)),
		attribute.String(observability.AttrTargetLanguage, target),
	)

	r := &run{o: o, rc: rc, in: in, log: o.log.WithContext(ctx).WithFields(logger.Fields(logger.FieldClientID, in.ClientID)), progress: tracker{fn: rc.Progress}}
	start := time.Now()
	defer func() {
		r.cleanup()
		outcome := "success"
		if err != nil {
			outcome = "failure"
			if errors.HasCode(err, errors.ErrCodeCanceled) {
				outcome = "canceled"
			}
			r.progress.report(StageFailed, r.progress.last, "Failed: "+err.Error())
			r.log.Error("Pipeline failed", logger.MergeWithError(logger.Fields(
				logger.FieldStage, string(failedStage(err)),
				logger.FieldDuration, time.Since(start).Milliseconds(),
			), err))
		}
		o.deps.Metrics.RecordRun(ctx, outcome)
		span.SetAttributes(attribute.String(observability.AttrOutcome, outcome))
		observability.EndSpan(span, err)
	}()

	if err := r.validate(target); err != nil {
		return nil, err
	}
	r.log.Info("Pipeline started", logger.Fields(
		"file", in.Filename,
		"timestamps", in.IncludeTimestamps,
		"language", displayTarget(target),
	))

	if err := r.stage(ctx, StageExtracting, r.extract); err != nil {
		return nil, err
	}
	if err := r.stage(ctx, StageChunking, r.chunk); err != nil {
		return nil, err
	}

	var tr transcript.Transcript
	if err := r.stage(ctx, StageTranscribing, func(ctx context.Context) error {
		var err error
		tr, err = r.transcribe(ctx)
		return err
	}); err != nil {
		return nil, err
	}

	res = &Result{RunID: rc.RunID, Text: tr.Render()}
	if target != "" {
		err := r.stage(ctx, StageTranslating, func(ctx context.Context) error {
			return r.translate(ctx, target, res)
		})
		if err != nil {
			if ctx.Err() != nil || o.cfg.TranslationFailure != OnTranslationFailurePersistOriginal {
				return nil, err
			}
			res.Warning = err.Error()
			res.TranslatedText, res.TargetLanguage = "", ""
			r.log.Warn("Translation failed, keeping original", logger.ErrorFields("pipeline.translate", err))
		}
	}

	if err := r.stage(ctx, StagePersisting, func(ctx context.Context) error {
		return r.persist(ctx, res)
	}); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int64(observability.AttrTranscriptionID, int64(res.TranscriptionID)))

	if err := r.stage(ctx, StageProfiling, func(ctx context.Context) error {
		return r.profile(ctx, res)
	}); err != nil {
		res.PersonaError = err.Error()
		r.log.WithError(err).Warn("Persona generation failed", logger.Fields(
			logger.FieldTranscriptionID, res.TranscriptionID,
		))
	}

	r.progress.report(StageDone, progressDone, "Done")
	r.log.Info("Pipeline finished", logger.Fields(
		logger.FieldTranscriptionID, res.TranscriptionID,
		logger.FieldDuration, time.Since(start).Milliseconds(),
	))
	return res, nil
}

func (r *run) validate(target string) error {
	if r.in.ClientID == 0 {
		return &StageError{Stage: StageExtracting, Err: errors.InvalidInput("client_id", "is required")}
	}
	if target == "" {
		return nil
	}
	if !translation.Supported(target) {
		return &StageError{Stage: StageTranslating, Err: errors.UnsupportedLanguage(target)}
	}
	if r.o.deps.Translator == nil {
		return &StageError{Stage: StageTranslating, Err: errors.InvalidInput("language", "translation is not configured")}
	}
	return nil
}

// stage runs fn as stage s: checks for cancellation, traces and times it,
// and wraps a failure in a StageError.
func (r *run) stage(ctx context.Context, s Stage, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return &StageError{Stage: s, Err: errors.Canceled(err)}
	}
	ctx, span := observability.StartSpan(ctx, observability.SpanPipelineStage,
		attribute.String(observability.AttrStage, string(s)))
	start := time.Now()
	err := fn(ctx)
	r.o.deps.Metrics.RecordStage(ctx, string(s), time.Since(start))
	observability.EndSpan(span, err)

	r.log.Debug("Stage finished", logger.Fields(
		logger.FieldStage, string(s),
		logger.FieldDuration, time.Since(start).Milliseconds(),
		logger.FieldStatus, statusOf(err),
	))
	if err != nil {
		return &StageError{Stage: s, Err: err}
	}
	return nil
}

func (r *run) extract(ctx context.Context) error {
	r.progress.report(StageExtracting, progressExtracting, "Extracting audio...")
	asset, err := media.NewAsset(r.in.AssetPath)
	if err != nil {
		return errors.Extraction(err)
	}
	if !media.IsExtractable(asset.Ext) {
		return errors.Extraction(fmt.Errorf("unsupported file type %q", asset.Ext))
	}
	if p, ok := r.o.deps.Extractor.(Prober); ok {
		if d, err := p.Probe(ctx, asset.Path); err != nil {
			r.log.Warn("Could not probe media duration", logger.ErrorFields("pipeline.probe", err))
		} else {
			trace.SpanFromContext(ctx).SetAttributes(attribute.Float64(observability.AttrMediaDuration, d.Seconds()))
			r.log.Debug("Media probed", logger.Fields("media_duration_s", d.Seconds(), "size", asset.Size))
		}
	}
	path, err := r.o.deps.Extractor.Extract(ctx, asset)
	if err != nil {
		return err
	}
	r.wavPath = path
	r.progress.report(StageExtracting, progressExtracted, "Audio extracted")
	return nil
}

func (r *run) chunk(ctx context.Context) error {
	r.progress.report(StageChunking, progressChunking, "Splitting audio into chunks...")
	segments, err := r.o.deps.Chunker.Split(ctx, r.wavPath, r.o.cfg.MaxSegment)
	if err != nil {
		return err
	}
	r.segments = segments
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int(observability.AttrChunks, len(segments)))
	return nil
}

func (r *run) transcribe(ctx context.Context) (transcript.Transcript, error) {
	total := len(r.segments)
	r.progress.report(StageTranscribing, progressChunking, fmt.Sprintf("Transcribing %d chunk(s)...", total))
	return r.o.deps.Engine.Transcribe(ctx, r.segments, r.in.IncludeTimestamps, func(done, total int) {
		r.progress.report(StageTranscribing, chunkProgress(done, total),
			fmt.Sprintf("Transcribed chunk %d/%d", done, total))
	})
}

func (r *run) translate(ctx context.Context, target string, res *Result) error {
	r.progress.report(StageTranslating, progressTranslating, "Translating to "+translation.Name(target)+"...")
	out, err := r.o.deps.Translator.Translate(ctx, res.Text, target)
	if err != nil {
		return err
	}
	res.TranslatedText, res.TargetLanguage = out, translation.Canonical(target)
	return nil
}

func (r *run) persist(ctx context.Context, res *Result) error {
	r.progress.report(StagePersisting, progressPersisting, "Saving transcription...")
	rec := &store.Transcription{
		ClientID:          r.in.ClientID,
		Filename:          r.in.Filename,
		OriginalText:      res.Text,
		IncludeTimestamps: r.in.IncludeTimestamps,
	}
	if res.TargetLanguage != "" {
		translated, lang := res.TranslatedText, res.TargetLanguage
		rec.TranslatedText, rec.TargetLanguage = &translated, &lang
	}
	if err := r.o.deps.Store.AddTranscription(ctx, rec); err != nil {
		return err
	}
	res.TranscriptionID = rec.ID
	return nil
}

func (r *run) profile(ctx context.Context, res *Result) error {
	r.progress.report(StageProfiling, progressProfiling, "Generating persona...")
	if r.o.deps.Personas == nil {
		return errors.Persona(fmt.Errorf("no persona generator configured"))
	}
	ex, err := r.o.deps.Personas.For(r.rc.Settings.APIBase)
	if err != nil {
		return errors.Persona(err)
	}
	profile, err := ex.Analyze(ctx, res.Text, generation(r.rc.Settings))
	if err != nil {
		return err
	}
	if _, err := r.o.deps.Store.AddPersona(ctx, res.TranscriptionID, profile.Name, profile.SystemPrompt); err != nil {
		return err
	}
	res.PersonaName = profile.Name
	return nil
}

// cleanup removes every temporary file the run owns.
func (r *run) cleanup() {
	audio.Cleanup(r.segments)
	if r.wavPath != "" {
		if err := os.Remove(r.wavPath); err != nil && !os.IsNotExist(err) {
			r.log.Warn("Removing extracted audio failed", logger.ErrorFields("pipeline.cleanup", err))
		}
	}
	if r.in.OwnsAsset && r.in.AssetPath != "" {
		if err := os.Remove(r.in.AssetPath); err != nil && !os.IsNotExist(err) {
			r.log.Warn("Removing upload failed", logger.ErrorFields("pipeline.cleanup", err))
		}
	}
}

func generation(s settings.Settings) persona.Generation {
	return persona.Generation{Model: s.Model, Options: s.Options()}
}

// normalizeTarget returns the canonical target code, or "" when no
// translation is wanted.
func normalizeTarget(code string) string {
	code = strings.TrimSpace(code)
	if code == "" || strings.EqualFold(code, store.OriginalLanguage) {
		return ""
	}
	return translation.Canonical(code)
}

func displayTarget(code string) string {
	if code == "" {
		return store.OriginalLanguage
	}
	return code
}

func failedStage(err error) Stage {
	var se *StageError
	if stderrors.As(err, &se) {
		return se.Stage
	}
	return StageFailed
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
