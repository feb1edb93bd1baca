// Package persona derives a conversational persona from a transcript and
// answers chat messages in that persona's voice.
package persona

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kbukum/voxpersona/errors"
	"github.com/kbukum/voxpersona/llm"
	"github.com/kbukum/voxpersona/logger"
	"github.com/kbukum/voxpersona/resilience"
)

const (
	// FallbackName is used when the generator response has no usable NAME:
	// section.
	FallbackName = "AI Assistant"
	// DefaultModel is offered when the model list cannot be fetched.
	DefaultModel = "mistral:instruct"
)

const analysisPrompt = `You are an expert in analyzing speech patterns, communication styles, and personality traits.
Given a transcript, create:
1. A name for the speaker based on their characteristics (e.g., "Tech Enthusiast Sarah", "Professor James", etc.)
2. A detailed system prompt that captures:
   - Speaking style and patterns
   - Vocabulary and language choices
   - Personality traits and characteristics
   - Expertise and knowledge areas
   - Common phrases and expressions
   - Tone and emotional patterns

Format your response exactly as follows:
NAME: [speaker name]
PROMPT: [detailed system prompt]`

const analysisRequest = "Analyze this transcript and create a persona:\n\n%s\n\nRemember to format your response with NAME: and PROMPT: sections."

// Profile is a generated persona.
type Profile struct {
	Name         string `json:"name"`
	SystemPrompt string `json:"system_prompt"`
}

// Validate reports whether both fields are non-empty.
func (p Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("persona name is empty")
	}
	if strings.TrimSpace(p.SystemPrompt) == "" {
		return fmt.Errorf("persona prompt is empty")
	}
	return nil
}

// Generation selects the model and sampling options for one call.
type Generation struct {
	Model   string
	Options llm.Options
}

// Config configures an Extractor.
type Config struct {
	Call resilience.Policy `yaml:"call" mapstructure:"call"`
}

// Extractor generates personas and persona replies through an llm.Provider.
type Extractor struct {
	provider llm.Provider
	cfg      Config
	log      *logger.Logger
}

// NewExtractor creates an Extractor.
func NewExtractor(p llm.Provider, cfg Config, log *logger.Logger) *Extractor {
	if log == nil {
		log = logger.Nop()
	}
	return &Extractor{provider: p, cfg: cfg, log: log.WithComponent("persona")}
}

// Analyze asks the generator for a persona describing the speaker in text.
// A response without the NAME:/PROMPT: layout falls back to FallbackName and
// the raw response. A blank response or an empty field is an error.
func (e *Extractor) Analyze(ctx context.Context, text string, gen Generation) (Profile, error) {
	start := time.Now()
	resp, err := e.complete(ctx, llm.CompletionRequest{
		Model:        gen.Model,
		SystemPrompt: analysisPrompt,
		Messages:     []llm.Message{{Role: llm.RoleUser, Content: fmt.Sprintf(analysisRequest, text)}},
		Options:      gen.Options,
	})
	if err != nil {
		return Profile{}, err
	}

	profile := Parse(resp)
	if err := profile.Validate(); err != nil {
		return Profile{}, errors.Persona(err)
	}
	e.log.Debug("Persona generated", logger.Fields(
		"persona", profile.Name,
		logger.FieldDuration, time.Since(start).Milliseconds(),
	))
	return profile, nil
}

// Respond answers userMessage in the voice described by systemPrompt. The
// caller supplies any prior turns in history; nothing is remembered here.
func (e *Extractor) Respond(ctx context.Context, gen Generation, systemPrompt, userMessage string, history ...llm.Message) (string, error) {
	return e.complete(ctx, llm.CompletionRequest{
		Model:        gen.Model,
		SystemPrompt: systemPrompt,
		Messages:     llm.Conversation(history, userMessage),
		Options:      gen.Options,
	})
}

// Models lists the generator's models, falling back to DefaultModel when the
// list is unavailable or empty.
func (e *Extractor) Models(ctx context.Context) []string {
	models, err := e.provider.ListModels(ctx)
	if err != nil {
		e.log.Warn("Listing models failed, using default", logger.ErrorFields("persona.models", err))
		return []string{DefaultModel}
	}
	names := make([]string, 0, len(models))
	for _, m := range models {
		names = append(names, m.Name)
	}
	if len(names) == 0 {
		return []string{DefaultModel}
	}
	return names
}

func (e *Extractor) complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	op := "llm." + e.provider.Name()
	resp, err := resilience.Call(ctx, e.cfg.Call, op, func(ctx context.Context) (*llm.CompletionResponse, error) {
		return e.provider.Complete(ctx, req)
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", errors.Canceled(err)
		}
		return "", errors.Persona(err)
	}
	if strings.TrimSpace(resp.Content) == "" {
		return "", errors.Persona(fmt.Errorf("empty response from %s", e.provider.Name()))
	}
	return resp.Content, nil
}

// Parse extracts a Profile from a generator response. The name is the text
// between the first "NAME:" and the following "PROMPT:"; the prompt is
// everything after that "PROMPT:". Any other layout yields FallbackName and
// the raw response, whitespace included.
func Parse(response string) Profile {
	fallback := Profile{Name: FallbackName, SystemPrompt: response}

	_, afterName, ok := strings.Cut(response, "NAME:")
	if !ok {
		return fallback
	}
	name, prompt, ok := strings.Cut(afterName, "PROMPT:")
	if !ok {
		return fallback
	}
	return Profile{Name: strings.TrimSpace(name), SystemPrompt: strings.TrimSpace(prompt)}
}
