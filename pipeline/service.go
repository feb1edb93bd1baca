package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kbukum/voxpersona/errors"
	"github.com/kbukum/voxpersona/llm"
	"github.com/kbukum/voxpersona/logger"
	"github.com/kbukum/voxpersona/persona"
	"github.com/kbukum/voxpersona/settings"
	"github.com/kbukum/voxpersona/store"
)

// SettingsSource supplies the current persisted settings.
type SettingsSource interface {
	Current() settings.Settings
}

// Service is the application façade used by the HTTP layer. It starts
// pipeline runs with a settings snapshot and implements the operations on
// persisted transcriptions.
type Service struct {
	orch       *Orchestrator
	store      *store.Store
	settings   SettingsSource
	translator Translator
	personas   PersonaSource
	log        *logger.Logger
}

// NewService creates a Service. translator may be nil when translation is
// disabled.
func NewService(orch *Orchestrator, st *store.Store, src SettingsSource, translator Translator, personas PersonaSource, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		orch:       orch,
		store:      st,
		settings:   src,
		translator: translator,
		personas:   personas,
		log:        log.WithComponent("service"),
	}
}

// Store returns the underlying store.
func (s *Service) Store() *store.Store { return s.store }

// Settings returns the current settings snapshot.
func (s *Service) Settings() settings.Settings { return s.settings.Current() }

// Transcribe runs the pipeline for one upload using the current settings.
func (s *Service) Transcribe(ctx context.Context, in Input, progress ProgressFunc) (*Result, error) {
	return s.orch.Run(ctx, RunContext{
		RunID:    uuid.NewString(),
		Settings: s.settings.Current(),
		Progress: progress,
	}, in)
}

// RegeneratePersona re-analyzes a stored transcript and replaces its
// persona.
func (s *Service) RegeneratePersona(ctx context.Context, transcriptionID uint) (*store.Persona, error) {
	t, err := s.store.GetTranscription(ctx, transcriptionID)
	if err != nil {
		return nil, err
	}
	cur := s.settings.Current()
	ex, err := s.extractor(cur)
	if err != nil {
		return nil, err
	}
	profile, err := ex.Analyze(ctx, t.OriginalText, generation(cur))
	if err != nil {
		return nil, err
	}
	p, err := s.store.UpdatePersona(ctx, t.ID, profile.Name, profile.SystemPrompt)
	if err != nil {
		return nil, err
	}
	s.log.WithContext(ctx).Info("Persona regenerated", logger.Fields(
		logger.FieldTranscriptionID, t.ID,
		"persona", p.Name,
	))
	return p, nil
}

// Chat answers message in the voice of the transcription's persona. history
// holds earlier turns supplied by the caller.
func (s *Service) Chat(ctx context.Context, transcriptionID uint, message string, history []llm.Message) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", errors.InvalidInput("message", "must not be empty")
	}
	p, err := s.store.GetPersona(ctx, transcriptionID)
	if err != nil {
		return "", err
	}
	cur := s.settings.Current()
	ex, err := s.extractor(cur)
	if err != nil {
		return "", err
	}
	return ex.Respond(ctx, generation(cur), p.SystemPrompt, message, history...)
}

// ChangeLanguage translates a stored transcription's original text into
// language and records it. "Original" or an empty language drops the
// translation.
func (s *Service) ChangeLanguage(ctx context.Context, transcriptionID uint, language string) (*store.Transcription, error) {
	target := normalizeTarget(language)
	if target == "" {
		return s.store.SetTranslation(ctx, transcriptionID, store.OriginalLanguage, "")
	}
	if s.translator == nil {
		return nil, errors.InvalidInput("language", "translation is not configured")
	}
	t, err := s.store.GetTranscription(ctx, transcriptionID)
	if err != nil {
		return nil, err
	}
	out, err := s.translator.Translate(ctx, t.OriginalText, target)
	if err != nil {
		return nil, err
	}
	return s.store.SetTranslation(ctx, t.ID, target, out)
}

// Export renders a client's transcriptions as one text document.
func (s *Service) Export(ctx context.Context, clientID uint, ids ...uint) (string, error) {
	return s.store.ExportTranscriptions(ctx, clientID, ids...)
}

// Models lists the generator models for the configured API base.
func (s *Service) Models(ctx context.Context) []string {
	ex, err := s.extractor(s.settings.Current())
	if err != nil {
		s.log.Warn("No generator for model listing", logger.ErrorFields("service.models", err))
		return []string{persona.DefaultModel}
	}
	return ex.Models(ctx)
}

func (s *Service) extractor(cur settings.Settings) (*persona.Extractor, error) {
	if s.personas == nil {
		return nil, errors.Persona(fmt.Errorf("no persona generator configured"))
	}
	ex, err := s.personas.For(cur.APIBase)
	if err != nil {
		return nil, errors.Persona(err)
	}
	return ex, nil
}
