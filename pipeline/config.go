package pipeline

import (
	"fmt"
	"time"

	"github.com/kbukum/voxpersona/audio"
)

// What to do when translation fails after a successful transcription.
const (
	// OnTranslationFailureFail fails the whole run.
	OnTranslationFailureFail = "fail"
	// OnTranslationFailurePersistOriginal stores the untranslated
	// transcript and reports the translation error as a warning.
	OnTranslationFailurePersistOriginal = "persist_original"
)

// Config configures the orchestrator.
type Config struct {
	// MaxSegment bounds the length of each transcribed chunk.
	MaxSegment time.Duration `yaml:"max_segment" mapstructure:"max_segment"`
	// TranslationFailure is "fail" or "persist_original".
	TranslationFailure string `yaml:"translation_failure" mapstructure:"translation_failure"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.MaxSegment <= 0 {
		c.MaxSegment = audio.DefaultMaxSegment
	}
	if c.TranslationFailure == "" {
		c.TranslationFailure = OnTranslationFailureFail
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch c.TranslationFailure {
	case OnTranslationFailureFail, OnTranslationFailurePersistOriginal:
	default:
		return fmt.Errorf("pipeline.translation_failure must be %q or %q, got %q",
			OnTranslationFailureFail, OnTranslationFailurePersistOriginal, c.TranslationFailure)
	}
	if c.MaxSegment < time.Second {
		return fmt.Errorf("pipeline.max_segment must be at least 1s, got %v", c.MaxSegment)
	}
	return nil
}
