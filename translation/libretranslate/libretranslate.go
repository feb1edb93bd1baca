// Package libretranslate implements translation.Provider for
// LibreTranslate-compatible servers.
package libretranslate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kbukum/voxpersona/provider"
	"github.com/kbukum/voxpersona/translation"
)

// ProviderName is the registered name for this provider.
const ProviderName = "libretranslate"

// Config holds configuration for the LibreTranslate provider.
type Config struct {
	URL     string        `yaml:"url" mapstructure:"url"`
	APIKey  string        `yaml:"api_key" mapstructure:"api_key"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// Provider implements translation.Provider.
type Provider struct {
	cfg    Config
	client *http.Client
}

// NewProvider creates a LibreTranslate provider.
func NewProvider(cfg Config) *Provider {
	if cfg.URL == "" {
		cfg.URL = "http://localhost:5000"
	}
	cfg.URL = strings.TrimRight(cfg.URL, "/")
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
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

// IsAvailable checks the /languages endpoint.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	return provider.Ping(ctx, p.client, p.cfg.URL+"/languages")
}

// codes maps table codes to LibreTranslate's where they differ.
var codes = map[string]string{
	"zh-CN": "zh",
	"zh-TW": "zt",
}

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error"`
}

// Translate sends text for translation with source auto-detection.
func (p *Provider) Translate(ctx context.Context, text, target string) (string, error) {
	if c, ok := codes[target]; ok {
		target = c
	}
	body, err := json.Marshal(translateRequest{Q: text, Source: "auto", Target: target, Format: "text", APIKey: p.cfg.APIKey})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.URL+"/translate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", provider.TransportError(ctx, ProviderName, err)
	}
	defer resp.Body.Close()
	if err := provider.CheckResponse(ProviderName, resp); err != nil {
		return "", err
	}

	var out translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode libretranslate response: %w", err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("libretranslate: %s", out.Error)
	}
	return out.TranslatedText, nil
}
