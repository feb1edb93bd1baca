package pipeline

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/voxpersona/errors"
	"github.com/kbukum/voxpersona/llm"
	"github.com/kbukum/voxpersona/store"
)

func seedTranscription(t *testing.T, h *harness) *store.Transcription {
	t.Helper()
	tr := &store.Transcription{ClientID: h.client.ID, Filename: "a.mp4", OriginalText: "[00:00:00 - 00:00:05] hello there"}
	if err := h.store.AddTranscription(context.Background(), tr); err != nil {
		t.Fatal(err)
	}
	return tr
}

func TestServiceTranscribeUsesSettingsSnapshot(t *testing.T) {
	h := newHarness(t, time.Minute, Config{})
	res, err := h.service.Transcribe(context.Background(), Input{AssetPath: h.upload(t, "a.mp4"), ClientID: h.client.ID}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.RunID == "" || res.TranscriptionID == 0 {
		t.Errorf("result = %+v", res)
	}
	h.gen.mu.Lock()
	defer h.gen.mu.Unlock()
	if h.gen.last.Model != "mistral:instruct" || h.gen.last.Options.Temperature != 0.7 {
		t.Errorf("generation request = %+v", h.gen.last)
	}
}

func TestServiceRegeneratePersonaReplaces(t *testing.T) {
	h := newHarness(t, time.Minute, Config{})
	ctx := context.Background()
	tr := seedTranscription(t, h)

	p, err := h.service.RegeneratePersona(ctx, tr.ID)
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "Coach Ana" {
		t.Errorf("first = %+v", p)
	}

	h.gen.reply = "NAME: Professor Ana\nPROMPT: Lecture patiently."
	p, err = h.service.RegeneratePersona(ctx, tr.ID)
	if err != nil {
		t.Fatal(err)
	}
	got, _ := h.store.GetPersona(ctx, tr.ID)
	if got.Name != "Professor Ana" || got.SystemPrompt != "Lecture patiently." || got.ID != p.ID {
		t.Errorf("after regenerate = %+v", got)
	}

	if _, err := h.service.RegeneratePersona(ctx, 999); !errors.HasCode(err, errors.ErrCodeNotFound) {
		t.Errorf("missing transcription err = %v", err)
	}
}

func TestServiceChat(t *testing.T) {
	h := newHarness(t, time.Minute, Config{})
	ctx := context.Background()
	tr := seedTranscription(t, h)

	if _, err := h.service.Chat(ctx, tr.ID, "hi", nil); !errors.HasCode(err, errors.ErrCodeNotFound) {
		t.Errorf("chat without persona err = %v", err)
	}
	if _, err := h.store.AddPersona(ctx, tr.ID, "Ana", "You are Ana."); err != nil {
		t.Fatal(err)
	}
	h.gen.reply = "Hello!"
	history := []llm.Message{{Role: llm.RoleUser, Content: "hey"}, {Role: llm.RoleAssistant, Content: "hi"}}
	reply, err := h.service.Chat(ctx, tr.ID, "how are you?", history)
	if err != nil {
		t.Fatal(err)
	}
	if reply != "Hello!" {
		t.Errorf("reply = %q", reply)
	}
	h.gen.mu.Lock()
	last := h.gen.last
	h.gen.mu.Unlock()
	if last.SystemPrompt != "You are Ana." || len(last.Messages) != 3 || last.Messages[2].Content != "how are you?" {
		t.Errorf("request = %+v", last)
	}

	if _, err := h.service.Chat(ctx, tr.ID, "  ", nil); !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("empty message err = %v", err)
	}
}

func TestServiceChangeLanguage(t *testing.T) {
	h := newHarness(t, time.Minute, Config{})
	ctx := context.Background()
	tr := seedTranscription(t, h)

	got, err := h.service.ChangeLanguage(ctx, tr.ID, "ES")
	if err != nil {
		t.Fatal(err)
	}
	if got.Language() != "es" || got.Text() != "[00:00:00 - 00:00:05] es:HELLO THERE" {
		t.Errorf("translated = %q (%s)", got.Text(), got.Language())
	}

	got, err = h.service.ChangeLanguage(ctx, tr.ID, "Original")
	if err != nil {
		t.Fatal(err)
	}
	if got.TranslatedText != nil || got.Text() != tr.OriginalText {
		t.Errorf("reverted = %+v", got)
	}

	if _, err := h.service.ChangeLanguage(ctx, tr.ID, "klingon"); !errors.HasCode(err, errors.ErrCodeUnsupportedLanguage) {
		t.Errorf("unsupported err = %v", err)
	}
	h.mt.fail = true
	if _, err := h.service.ChangeLanguage(ctx, tr.ID, "fr"); !errors.HasCode(err, errors.ErrCodeTranslationFailed) {
		t.Errorf("failing translator err = %v", err)
	}
	after, _ := h.store.GetTranscription(ctx, tr.ID)
	if after.TranslatedText != nil {
		t.Error("failed translation changed the record")
	}
}

func TestServiceExportAndModels(t *testing.T) {
	h := newHarness(t, time.Minute, Config{})
	ctx := context.Background()
	seedTranscription(t, h)

	out, err := h.service.Export(ctx, h.client.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "File: a.mp4") || !strings.Contains(out, "Language: Original") {
		t.Errorf("export = %q", out)
	}

	models := h.service.Models(ctx)
	if len(models) != 2 || models[0] != "mistral:instruct" {
		t.Errorf("models = %v", models)
	}
}
