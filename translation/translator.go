// Package translation translates transcripts through a pluggable provider
// while leaving timestamp and chunk markers untouched.
//
// # Backends
//
//   - translation/libretranslate: LibreTranslate-compatible POST /translate
//   - translation/google: the public translate_a/single endpoint
package translation

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/kbukum/voxpersona/errors"
	"github.com/kbukum/voxpersona/logger"
	"github.com/kbukum/voxpersona/provider"
	"github.com/kbukum/voxpersona/resilience"
)

// Provider translates plain text. The source language is auto-detected.
type Provider interface {
	provider.Provider
	Translate(ctx context.Context, text, target string) (string, error)
}

// NewRegistry creates an empty registry of translation providers.
func NewRegistry() *provider.Registry[Provider] {
	return provider.NewRegistry[Provider]()
}

// Config configures a Translator.
type Config struct {
	Call resilience.Policy `yaml:"call" mapstructure:"call"`
	// Concurrency bounds parallel line translations of marked transcripts.
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// Translator wraps a Provider with marker handling, timeout and retry.
type Translator struct {
	provider Provider
	cfg      Config
	log      *logger.Logger
}

// NewTranslator creates a Translator.
func NewTranslator(p Provider, cfg Config, log *logger.Logger) *Translator {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Translator{provider: p, cfg: cfg, log: log.WithComponent("translation")}
}

// Provider returns the backing provider.
func (t *Translator) Provider() Provider { return t.provider }

// Translate translates text into target. When text carries bracket markers
// every line is handled separately: a leading "[...]" marker is kept verbatim
// and only the content after it is translated; blank and marker-only lines
// pass through. Any failed line fails the whole call.
func (t *Translator) Translate(ctx context.Context, text, target string) (string, error) {
	if !Supported(target) {
		return "", errors.UnsupportedLanguage(target)
	}
	target = Canonical(target)

	if !strings.Contains(text, "[") || !strings.Contains(text, "]") {
		if strings.TrimSpace(text) == "" {
			return text, nil
		}
		return t.call(ctx, text, target)
	}

	lines := strings.Split(text, "\n")
	out := make([]string, len(lines))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.cfg.Concurrency)

	for i, line := range lines {
		marker, content := SplitMarker(line)
		if strings.TrimSpace(line) == "" || content == "" {
			out[i] = line
			continue
		}
		g.Go(func() error {
			translated, err := t.call(gctx, content, target)
			if err != nil {
				return err
			}
			translated = flatten(translated)
			if marker != "" {
				translated = marker + " " + translated
			}
			out[i] = translated
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}
	return strings.Join(out, "\n"), nil
}

func (t *Translator) call(ctx context.Context, text, target string) (string, error) {
	op := "translation." + t.provider.Name()
	out, err := resilience.Call(ctx, t.cfg.Call, op, func(ctx context.Context) (string, error) {
		return t.provider.Translate(ctx, text, target)
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", errors.Canceled(err)
		}
		return "", errors.Translation(err).WithDetail("language", target)
	}
	return out, nil
}

// SplitMarker separates a leading "[...]" marker from the rest of a line.
// Lines without a marker return an empty marker and the whole line.
func SplitMarker(line string) (marker, content string) {
	if strings.HasPrefix(line, "[") {
		if end := strings.Index(line, "]"); end >= 0 {
			return line[:end+1], strings.TrimSpace(line[end+1:])
		}
	}
	return "", line
}

// flatten keeps one translated line per source line.
func flatten(s string) string {
	s = strings.TrimSpace(s)
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	return strings.Join(strings.Fields(strings.NewReplacer("\r", " ", "\n", " ").Replace(s)), " ")
}
