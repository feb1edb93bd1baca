// Package settings holds the user-editable generation settings (model,
// server address, sampling options) in a JSON file.
//
// The file is read once when opened and rewritten on every change. A missing
// file is not an error: defaults apply until the first Update. Edits made by
// another process are picked up by Watch.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/kbukum/voxpersona/llm"
	"github.com/kbukum/voxpersona/logger"
	"github.com/kbukum/voxpersona/validation"
)

// Settings are the generation settings snapshot handed to each run.
type Settings struct {
	APIBase       string  `json:"api_base" mapstructure:"api_base" validate:"required,url"`
	Model         string  `json:"model" mapstructure:"model" validate:"required"`
	Temperature   float64 `json:"temperature" mapstructure:"temperature" validate:"gte=0,lte=2"`
	TopP          float64 `json:"top_p" mapstructure:"top_p" validate:"gte=0,lte=1"`
	TopK          int     `json:"top_k" mapstructure:"top_k" validate:"gte=0"`
	RepeatPenalty float64 `json:"repeat_penalty" mapstructure:"repeat_penalty" validate:"gte=0"`
	MaxTokens     int     `json:"max_tokens" mapstructure:"max_tokens" validate:"gte=1"`
	ContextWindow int     `json:"context_window" mapstructure:"context_window" validate:"gte=1"`
}

// Defaults returns the settings used when no file exists.
func Defaults() Settings {
	return Settings{
		APIBase:       "http://localhost:11434",
		Model:         "mistral:instruct",
		Temperature:   0.7,
		TopP:          0.9,
		TopK:          40,
		RepeatPenalty: 1.1,
		MaxTokens:     1024,
		ContextWindow: 4096,
	}
}

// Options returns the sampling options for an LLM request.
func (s Settings) Options() llm.Options {
	return llm.Options{
		Temperature:   s.Temperature,
		TopP:          s.TopP,
		TopK:          s.TopK,
		RepeatPenalty: s.RepeatPenalty,
		MaxTokens:     s.MaxTokens,
		ContextWindow: s.ContextWindow,
	}
}

// Validate checks value ranges.
func (s Settings) Validate() error {
	return validation.Struct(s)
}

func (s Settings) toMap() map[string]any {
	return map[string]any{
		"api_base":       s.APIBase,
		"model":          s.Model,
		"temperature":    s.Temperature,
		"top_p":          s.TopP,
		"top_k":          s.TopK,
		"repeat_penalty": s.RepeatPenalty,
		"max_tokens":     s.MaxTokens,
		"context_window": s.ContextWindow,
	}
}

// Store owns the settings file.
type Store struct {
	mu      sync.RWMutex
	v       *viper.Viper
	path    string
	current Settings
	log     *logger.Logger
}

// Open loads settings from path. Keys missing from the file take their
// default value.
func Open(path string, log *logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.Nop()
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	for k, val := range Defaults().toMap() {
		v.SetDefault(k, val)
	}

	s := &Store{v: v, path: path, log: log.WithComponent("settings")}
	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read settings %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("stat settings %s: %w", path, err)
	}

	cur, err := s.decode()
	if err != nil {
		return nil, err
	}
	s.current = cur
	return s, nil
}

// Path returns the settings file location.
func (s *Store) Path() string { return s.path }

// Current returns the active settings.
func (s *Store) Current() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update validates next, makes it current and rewrites the file.
func (s *Store) Update(next Settings) (Settings, error) {
	if err := next.Validate(); err != nil {
		return Settings{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.write(next); err != nil {
		return Settings{}, err
	}
	s.current = next
	s.log.Info("Settings updated", logger.Fields("model", next.Model, "api_base", next.APIBase))
	return next, nil
}

// Reset restores the defaults and rewrites the file.
func (s *Store) Reset() (Settings, error) {
	return s.Update(Defaults())
}

// Watch reloads the file whenever it changes on disk and calls onChange with
// the new settings. Invalid edits are logged and ignored. The file is
// created from the current settings if it does not exist yet.
func (s *Store) Watch(onChange func(Settings)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		if err := s.write(s.current); err != nil {
			return err
		}
	}
	s.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		next, changed, err := s.reload()
		if err != nil {
			s.log.Warn("Ignoring invalid settings file", logger.ErrorFields("settings.reload", err))
			return
		}
		if changed && onChange != nil {
			onChange(next)
		}
	})
	s.v.WatchConfig()
	return nil
}

func (s *Store) reload() (Settings, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.v.ReadInConfig(); err != nil {
		return Settings{}, false, err
	}
	next, err := s.decode()
	if err != nil {
		return Settings{}, false, err
	}
	changed := next != s.current
	s.current = next
	if changed {
		s.log.Info("Settings reloaded from disk", logger.Fields("model", next.Model))
	}
	return next, changed, nil
}

func (s *Store) decode() (Settings, error) {
	var out Settings
	if err := s.v.Unmarshal(&out); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	if err := out.Validate(); err != nil {
		return Settings{}, err
	}
	return out, nil
}

func (s *Store) write(next Settings) error {
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create settings dir: %w", err)
		}
	}
	w := viper.New()
	w.SetConfigType("json")
	for k, val := range next.toMap() {
		w.Set(k, val)
	}
	if err := w.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("write settings %s: %w", s.path, err)
	}
	return nil
}
