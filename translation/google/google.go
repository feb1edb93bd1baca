// Package google implements translation.Provider using the public
// translate_a/single endpoint (client=gtx) with automatic source detection.
package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kbukum/voxpersona/provider"
	"github.com/kbukum/voxpersona/translation"
)

// ProviderName is the registered name for this provider.
const ProviderName = "google"

// Config holds configuration for the Google provider.
type Config struct {
	URL     string        `yaml:"url" mapstructure:"url"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// MaxChars bounds the text sent per request; longer input is split at
	// whitespace.
	MaxChars int `yaml:"max_chars" mapstructure:"max_chars"`
}

// Provider implements translation.Provider.
type Provider struct {
	cfg    Config
	client *http.Client
}

// NewProvider creates a Google provider.
func NewProvider(cfg Config) *Provider {
	if cfg.URL == "" {
		cfg.URL = "https://translate.googleapis.com"
	}
	cfg.URL = strings.TrimRight(cfg.URL, "/")
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxChars <= 0 {
		cfg.MaxChars = 4500
	}
	return &Provider{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}}
}

// Factory builds a Provider from config options.
func Factory(opts map[string]any) (translation.Provider, error) {
	var cfg Config
	if err := provider.Decode(opts, &cfg); err != nil {
		return nil, err
	}
	return NewProvider(cfg), nil
}

func (p *Provider) Name() string { return ProviderName }

// IsAvailable translates a single word.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	_, err := p.translatePiece(ctx, "hello", "fr")
	return err == nil
}

// Translate translates text, splitting it into request-sized pieces.
func (p *Provider) Translate(ctx context.Context, text, target string) (string, error) {
	pieces := split(text, p.cfg.MaxChars)
	out := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		t, err := p.translatePiece(ctx, piece, target)
		if err != nil {
			return "", err
		}
		out = append(out, t)
	}
	return strings.Join(out, " "), nil
}

func (p *Provider) translatePiece(ctx context.Context, text, target string) (string, error) {
	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", "auto")
	q.Set("tl", target)
	q.Set("dt", "t")
	q.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.URL+"/translate_a/single?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return "", provider.TransportError(ctx, ProviderName, err)
	}
	defer resp.Body.Close()
	if err := provider.CheckResponse(ProviderName, resp); err != nil {
		return "", err
	}

	var payload []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode google response: %w", err)
	}
	if len(payload) == 0 {
		return "", fmt.Errorf("google: empty response")
	}
	var sentences [][]json.RawMessage
	if err := json.Unmarshal(payload[0], &sentences); err != nil {
		return "", fmt.Errorf("decode google sentences: %w", err)
	}
	var b strings.Builder
	for _, s := range sentences {
		if len(s) == 0 {
			continue
		}
		var part string
		if err := json.Unmarshal(s[0], &part); err == nil {
			b.WriteString(part)
		}
	}
	return b.String(), nil
}

// split cuts text into pieces of at most max runes, preferring whitespace.
func split(text string, max int) []string {
	if utf8.RuneCountInString(text) <= max {
		return []string{text}
	}
	var pieces []string
	runes := []rune(text)
	for len(runes) > max {
		cut := max
		for i := max; i > max/2; i-- {
			if runes[i] == ' ' || runes[i] == '\n' {
				cut = i
				break
			}
		}
		pieces = append(pieces, strings.TrimSpace(string(runes[:cut])))
		runes = runes[cut:]
	}
	if rest := strings.TrimSpace(string(runes)); rest != "" {
		pieces = append(pieces, rest)
	}
	return pieces
}
