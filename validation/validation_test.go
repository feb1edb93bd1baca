package validation

import (
	"strings"
	"testing"

	"github.com/kbukum/voxpersona/errors"
)

type clientRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	Email string `json:"email" validate:"required,email"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name    string
		req     clientRequest
		wantErr string
	}{
		{"valid", clientRequest{Name: "Ada", Email: "ada@example.com"}, ""},
		{"missing name", clientRequest{Email: "ada@example.com"}, "name: is required"},
		{"bad email", clientRequest{Name: "Ada", Email: "nope"}, "email: must be a valid email address"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.req)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
			if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
				t.Errorf("expected INVALID_INPUT, got %v", err)
			}
		})
	}
}

type langRequest struct {
	Language string `json:"language" validate:"omitempty,testlang"`
}

func TestRegisterRule(t *testing.T) {
	if err := RegisterRule("testlang", func(s string) bool { return s == "fr" }); err != nil {
		t.Fatal(err)
	}
	if err := Struct(langRequest{Language: "fr"}); err != nil {
		t.Errorf("fr should pass: %v", err)
	}
	if err := Struct(langRequest{}); err != nil {
		t.Errorf("empty should pass: %v", err)
	}
	if err := Struct(langRequest{Language: "xx"}); err == nil {
		t.Error("xx should fail")
	}
}

func TestValidatorChain(t *testing.T) {
	v := New().
		Required("prompt", "  ").
		MaxLength("name", "abcdef", 3).
		OneOf("policy", "maybe", []string{"fail", "persist_original"}).
		Custom(true, "ok", "never")
	if len(v.Errors()) != 3 {
		t.Fatalf("errors = %v", v.Errors())
	}
	app, ok := errors.AsAppError(v.Validate())
	if !ok || app.Details["fields"] == nil {
		t.Fatalf("expected AppError with fields, got %v", app)
	}
	if New().Validate() != nil {
		t.Error("empty validator should return nil")
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		want    uint
		wantErr bool
	}{
		{"12", 12, false},
		{"0", 0, true},
		{"-1", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseID("id", tt.in)
			if (err != nil) != tt.wantErr || got != tt.want {
				t.Errorf("ParseID(%q) = %d, %v", tt.in, got, err)
			}
		})
	}
}

func TestToSnakeCase(t *testing.T) {
	if got := toSnakeCase("TargetLanguage"); got != "target_language" {
		t.Errorf("toSnakeCase = %q", got)
	}
}
