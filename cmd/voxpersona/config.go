package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/kbukum/voxpersona/config"
	"github.com/kbukum/voxpersona/database"
	"github.com/kbukum/voxpersona/llm/ollama"
	"github.com/kbukum/voxpersona/media"
	"github.com/kbukum/voxpersona/observability"
	"github.com/kbukum/voxpersona/persona"
	"github.com/kbukum/voxpersona/pipeline"
	"github.com/kbukum/voxpersona/server"
	"github.com/kbukum/voxpersona/transcription"
	"github.com/kbukum/voxpersona/transcription/whisper"
	"github.com/kbukum/voxpersona/translation"
	"github.com/kbukum/voxpersona/translation/google"
)

// Config is the voxpersona process configuration.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Database      database.Config      `yaml:"database" mapstructure:"database"`
	Media         media.Config         `yaml:"media" mapstructure:"media"`
	Pipeline      pipeline.Config      `yaml:"pipeline" mapstructure:"pipeline"`
	Transcription TranscriptionConfig  `yaml:"transcription" mapstructure:"transcription"`
	Translation   TranslationConfig    `yaml:"translation" mapstructure:"translation"`
	LLM           LLMConfig            `yaml:"llm" mapstructure:"llm"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`

	// SettingsPath is the JSON file holding the user-editable generation
	// settings.
	SettingsPath string `yaml:"settings_path" mapstructure:"settings_path"`
}

// TranscriptionConfig selects the speech-to-text backend.
type TranscriptionConfig struct {
	Provider string                     `yaml:"provider" mapstructure:"provider"`
	Options  map[string]any             `yaml:"options" mapstructure:"options"`
	Engine   transcription.EngineConfig `yaml:"engine" mapstructure:"engine"`
}

// TranslationConfig selects the translation backend. Provider "none"
// disables translation.
type TranslationConfig struct {
	Provider   string             `yaml:"provider" mapstructure:"provider"`
	Options    map[string]any     `yaml:"options" mapstructure:"options"`
	Translator translation.Config `yaml:"translator" mapstructure:"translator"`
}

// LLMConfig selects the generator backend. The base URL comes from the
// persisted settings.
type LLMConfig struct {
	Provider string         `yaml:"provider" mapstructure:"provider"`
	Options  map[string]any `yaml:"options" mapstructure:"options"`
	Persona  persona.Config `yaml:"persona" mapstructure:"persona"`
}

// translationDisabled is the provider name that turns translation off.
const translationDisabled = "none"

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Database.ApplyDefaults()
	c.Media.ApplyDefaults()
	c.Pipeline.ApplyDefaults()
	if c.Transcription.Provider == "" {
		c.Transcription.Provider = whisper.ProviderName
	}
	if c.Translation.Provider == "" {
		c.Translation.Provider = google.ProviderName
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = ollama.ProviderName
	}
	if c.Observability.ServiceName == "" {
		c.Observability.ServiceName = c.Name
	}
	if c.Observability.ServiceVersion == "" {
		c.Observability.ServiceVersion = c.Version
	}
	if c.Observability.Environment == "" {
		c.Observability.Environment = c.Environment
	}
	c.Observability.ApplyDefaults()
	if c.SettingsPath == "" {
		c.SettingsPath = filepath.Join("data", "settings.json")
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 15 * time.Second
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	checks := []struct {
		name string
		fn   func() error
	}{
		{"service", c.ServiceConfig.Validate},
		{"server", c.Server.Validate},
		{"database", c.Database.Validate},
		{"media", c.Media.Validate},
		{"pipeline", c.Pipeline.Validate},
		{"observability", c.Observability.Validate},
	}
	for _, chk := range checks {
		if err := chk.fn(); err != nil {
			return fmt.Errorf("%s: %w", chk.name, err)
		}
	}
	if c.SettingsPath == "" {
		return fmt.Errorf("settings_path is required")
	}
	return nil
}
