package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_New_Retryable(t *testing.T) {
	tests := []struct {
		code      ErrorCode
		retryable bool
	}{
		{ErrCodeTimeout, true},
		{ErrCodeServiceUnavailable, true},
		{ErrCodeNotFound, false},
		{ErrCodeInvalidInput, false},
		{ErrCodeUnsupportedLanguage, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := New(tt.code, "msg", http.StatusInternalServerError)
			if err.Retryable != tt.retryable {
				t.Errorf("Retryable = %v, want %v", err.Retryable, tt.retryable)
			}
		})
	}
}

func TestAppError_NotFound(t *testing.T) {
	err := NotFound("client", "7")
	if err.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected 404, got %d", err.HTTPStatus)
	}
	if err.Details["resource"] != "client" || err.Details["id"] != "7" {
		t.Errorf("unexpected details %v", err.Details)
	}
	if _, ok := NotFound("client", "").Details["id"]; ok {
		t.Error("expected no id detail when id is empty")
	}
}

func TestStageErrorsInheritRetryable(t *testing.T) {
	transient := Timeout("whisper")
	err := Transcription(transient)
	if err.Code != ErrCodeTranscriptionFailed {
		t.Fatalf("code = %s", err.Code)
	}
	if !err.Retryable {
		t.Error("transcription wrapping a timeout should be retryable")
	}

	permanent := Translation(fmt.Errorf("bad payload"))
	if permanent.Retryable {
		t.Error("translation wrapping a plain error should not be retryable")
	}
}

func TestExternalServiceRetryableByStatus(t *testing.T) {
	tests := []struct {
		status    int
		retryable bool
	}{
		{0, true},
		{http.StatusBadGateway, true},
		{http.StatusTooManyRequests, true},
		{http.StatusBadRequest, false},
		{http.StatusNotFound, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			if got := ExternalService("ollama", tt.status, nil).Retryable; got != tt.retryable {
				t.Errorf("Retryable = %v, want %v", got, tt.retryable)
			}
		})
	}
}

func TestHasCodeWalksChain(t *testing.T) {
	inner := UnsupportedLanguage("xx")
	outer := Translation(inner)
	wrapped := fmt.Errorf("stage TRANSLATING: %w", outer)

	if !HasCode(wrapped, ErrCodeTranslationFailed) {
		t.Error("expected TRANSLATION_FAILED in chain")
	}
	if !HasCode(wrapped, ErrCodeUnsupportedLanguage) {
		t.Error("expected UNSUPPORTED_LANGUAGE in chain")
	}
	if HasCode(wrapped, ErrCodeNotFound) {
		t.Error("NOT_FOUND is not in chain")
	}
	if HasCode(stderrors.New("plain"), ErrCodeInternal) {
		t.Error("plain errors carry no code")
	}
}

func TestAppError_ErrorString(t *testing.T) {
	err := Extraction(fmt.Errorf("ffmpeg exited 1"))
	s := err.Error()
	if !strings.Contains(s, "EXTRACTION_FAILED") || !strings.Contains(s, "ffmpeg exited 1") {
		t.Errorf("Error() = %q", s)
	}
	if !stderrors.Is(err, err.Cause) {
		t.Error("expected errors.Is to reach the cause")
	}
}

func TestToResponse(t *testing.T) {
	resp := InvalidInput("email", "must be set").WithDetail("hint", "x").ToResponse()
	if resp.Error.Code != ErrCodeInvalidInput {
		t.Errorf("code = %s", resp.Error.Code)
	}
	if resp.Error.Details["field"] != "email" || resp.Error.Details["hint"] != "x" {
		t.Errorf("details = %v", resp.Error.Details)
	}
}

func TestAsAppError(t *testing.T) {
	if _, ok := AsAppError(stderrors.New("x")); ok {
		t.Error("plain error is not an AppError")
	}
	app, ok := AsAppError(fmt.Errorf("wrap: %w", Persistence(nil)))
	if !ok || app.Code != ErrCodePersistenceFailed {
		t.Errorf("AsAppError = %v, %v", app, ok)
	}
	if !IsRetryable(Timeout("x")) || IsRetryable(stderrors.New("x")) {
		t.Error("IsRetryable mismatch")
	}
}
