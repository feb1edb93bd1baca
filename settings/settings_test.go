package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestOpenMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	s, err := Open(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Current(); got != Defaults() {
		t.Errorf("Current() = %+v, want defaults", got)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("opening must not create the file")
	}
}

func TestOpenPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(`{"model":"llama3","temperature":0.2}`), 0o600); err != nil {
		t.Fatal(err)
	}
	s, err := Open(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	got := s.Current()
	if got.Model != "llama3" || got.Temperature != 0.2 {
		t.Errorf("Current() = %+v", got)
	}
	if got.TopK != 40 || got.APIBase != "http://localhost:11434" {
		t.Errorf("defaults not applied: %+v", got)
	}
}

func TestOpenInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(`{"max_tokens":0}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path, nil); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestUpdateRewritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")
	s, err := Open(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	next := s.Current()
	next.Model = "phi3"
	next.MaxTokens = 256
	if _, err := s.Update(next); err != nil {
		t.Fatal(err)
	}

	reopened, err := Open(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := reopened.Current(); got != next {
		t.Errorf("reopened = %+v, want %+v", got, next)
	}

	if _, err := s.Reset(); err != nil {
		t.Fatal(err)
	}
	reopened, err = Open(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := reopened.Current(); got != Defaults() {
		t.Errorf("after reset = %+v", got)
	}
}

func TestUpdateRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	s, err := Open(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	bad := s.Current()
	bad.TopP = 3
	if _, err := s.Update(bad); err == nil {
		t.Fatal("expected error")
	}
	if s.Current() != Defaults() {
		t.Error("invalid update must not change current settings")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("invalid update must not write the file")
	}
}

func TestWatchPicksUpExternalEdits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	s, err := Open(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	changes := make(chan Settings, 8)
	if err := s.Watch(func(next Settings) { changes <- next }); err != nil {
		t.Fatal(err)
	}

	// Give the watcher a moment to register before editing.
	time.Sleep(100 * time.Millisecond)
	edited := Defaults()
	edited.Model = "gemma"
	data := []byte(`{"api_base":"http://localhost:11434","model":"gemma","temperature":0.7,"top_p":0.9,"top_k":40,"repeat_penalty":1.1,"max_tokens":1024,"context_window":4096}`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case got := <-changes:
			if got.Model == "gemma" {
				if s.Current() != edited {
					t.Errorf("Current() = %+v", s.Current())
				}
				return
			}
		case <-deadline:
			t.Fatal("change not observed")
		}
	}
}

func TestOptions(t *testing.T) {
	o := Defaults().Options()
	if o.MaxTokens != 1024 || o.ContextWindow != 4096 || o.TopK != 40 {
		t.Errorf("Options() = %+v", o)
	}
}
