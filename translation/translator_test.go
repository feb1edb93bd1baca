package translation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kbukum/voxpersona/errors"
	"github.com/kbukum/voxpersona/resilience"
)

type fakeProvider struct {
	mu    sync.Mutex
	calls []string
	fail  string
	err   error
}

func (f *fakeProvider) Name() string                         { return "fake" }
func (f *fakeProvider) IsAvailable(ctx context.Context) bool { return true }

func (f *fakeProvider) Translate(ctx context.Context, text, target string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, text)
	f.mu.Unlock()
	if f.fail != "" && strings.Contains(text, f.fail) {
		return "", f.err
	}
	return target + ":" + strings.ToUpper(text), nil
}

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func noRetry() Config {
	return Config{Call: resilience.Policy{Retry: resilience.RetryConfig{MaxAttempts: 1}}}
}

func TestTranslatePreservesMarkers(t *testing.T) {
	p := &fakeProvider{}
	tr := NewTranslator(p, noRetry(), nil)

	in := strings.Join([]string{
		"[CHUNK 1]",
		"[00:00:00 - 00:00:04] hello there",
		"[00:00:04 - 00:00:09]",
		"",
		"[CHUNK 2]",
		"[00:05:00 - 00:05:02]   good bye  ",
		"plain line",
	}, "\n")

	out, err := tr.Translate(context.Background(), in, "fr")
	if err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"[CHUNK 1]",
		"[00:00:00 - 00:00:04] fr:HELLO THERE",
		"[00:00:04 - 00:00:09]",
		"",
		"[CHUNK 2]",
		"[00:05:00 - 00:05:02] fr:GOOD BYE",
		"fr:PLAIN LINE",
	}, "\n")
	if out != want {
		t.Errorf("got:\n%s\nwant:\n%s", out, want)
	}
	if n := p.callCount(); n != 3 {
		t.Errorf("provider calls = %d, want 3", n)
	}
}

func TestTranslateWholeText(t *testing.T) {
	p := &fakeProvider{}
	tr := NewTranslator(p, noRetry(), nil)

	out, err := tr.Translate(context.Background(), "first line\nsecond line", "DE")
	if err != nil {
		t.Fatal(err)
	}
	if out != "de:FIRST LINE\nSECOND LINE" {
		t.Errorf("out = %q", out)
	}
	if n := p.callCount(); n != 1 {
		t.Errorf("provider calls = %d, want 1", n)
	}
}

func TestTranslateBlankText(t *testing.T) {
	p := &fakeProvider{}
	tr := NewTranslator(p, noRetry(), nil)

	out, err := tr.Translate(context.Background(), "  \n", "fr")
	if err != nil {
		t.Fatal(err)
	}
	if out != "  \n" || p.callCount() != 0 {
		t.Errorf("out = %q, calls = %d", out, p.callCount())
	}
}

func TestTranslateUnsupportedLanguage(t *testing.T) {
	p := &fakeProvider{}
	tr := NewTranslator(p, noRetry(), nil)

	_, err := tr.Translate(context.Background(), "[00:00:00 - 00:00:01] hi", "xx")
	if !errors.HasCode(err, errors.ErrCodeUnsupportedLanguage) {
		t.Fatalf("err = %v, want UNSUPPORTED_LANGUAGE", err)
	}
	if n := p.callCount(); n != 0 {
		t.Errorf("provider calls = %d, want 0", n)
	}
}

func TestTranslatePartialFailure(t *testing.T) {
	p := &fakeProvider{fail: "broken", err: fmt.Errorf("boom")}
	tr := NewTranslator(p, noRetry(), nil)

	in := "[00:00:00 - 00:00:01] fine\n[00:00:01 - 00:00:02] broken\n[00:00:02 - 00:00:03] fine again"
	out, err := tr.Translate(context.Background(), in, "es")
	if err == nil {
		t.Fatalf("expected error, got %q", out)
	}
	if out != "" {
		t.Errorf("out = %q, want empty", out)
	}
	if !errors.HasCode(err, errors.ErrCodeTranslationFailed) {
		t.Errorf("err = %v, want TRANSLATION_FAILED", err)
	}
}

func TestTranslateRetriesRetryable(t *testing.T) {
	p := &flakyProvider{failures: 2}
	cfg := Config{Call: resilience.Policy{Retry: resilience.RetryConfig{
		MaxAttempts: 3, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond,
	}}}
	tr := NewTranslator(p, cfg, nil)

	out, err := tr.Translate(context.Background(), "hola", "en")
	if err != nil {
		t.Fatal(err)
	}
	if out != "hello" || p.attempts != 3 {
		t.Errorf("out = %q after %d attempts", out, p.attempts)
	}
}

type flakyProvider struct {
	failures int
	attempts int
}

func (f *flakyProvider) Name() string                         { return "flaky" }
func (f *flakyProvider) IsAvailable(ctx context.Context) bool { return true }

func (f *flakyProvider) Translate(ctx context.Context, text, target string) (string, error) {
	f.attempts++
	if f.attempts <= f.failures {
		return "", errors.ServiceUnavailable("flaky")
	}
	return "hello", nil
}

func TestSplitMarker(t *testing.T) {
	tests := []struct {
		line, marker, content string
	}{
		{"[00:00:01 - 00:00:02] text", "[00:00:01 - 00:00:02]", "text"},
		{"[CHUNK 3]", "[CHUNK 3]", ""},
		{"no marker", "", "no marker"},
		{"[unterminated text", "", "[unterminated text"},
		{"[a] b ] c", "[a]", "b ] c"},
	}
	for _, tt := range tests {
		m, c := SplitMarker(tt.line)
		if m != tt.marker || c != tt.content {
			t.Errorf("SplitMarker(%q) = %q, %q; want %q, %q", tt.line, m, c, tt.marker, tt.content)
		}
	}
}

func TestFlatten(t *testing.T) {
	if got := flatten("  one\ntwo\r\n three "); got != "one two three" {
		t.Errorf("flatten = %q", got)
	}
}
