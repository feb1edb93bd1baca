package version

import (
	"testing"
)

func stamp(t *testing.T, version, commit, buildTime string) {
	t.Helper()
	oldV, oldC, oldB := Version, Commit, BuildTime
	Version, Commit, BuildTime = version, commit, buildTime
	t.Cleanup(func() { Version, Commit, BuildTime = oldV, oldC, oldB })
}

func TestGetFallsBackToConfiguredVersion(t *testing.T) {
	stamp(t, "", "", "")

	if got := Get("0.3.0").Version; got != "0.3.0" {
		t.Errorf("Version = %q, want 0.3.0", got)
	}
	if got := Get("").Version; got != "dev" {
		t.Errorf("Version = %q, want dev", got)
	}
}

func TestGetPrefersStampedValues(t *testing.T) {
	stamp(t, "1.2.0", "abc1234def", "2025-03-01T10:00:00Z")

	info := Get("0.3.0")
	if info.Version != "1.2.0" {
		t.Errorf("Version = %q", info.Version)
	}
	if info.Commit != "abc1234def" {
		t.Errorf("Commit = %q", info.Commit)
	}
	if info.BuildTime.Year() != 2025 {
		t.Errorf("BuildTime = %v", info.BuildTime)
	}
}

func TestInfoString(t *testing.T) {
	tests := []struct {
		info Info
		want string
	}{
		{Info{Version: "dev"}, "dev"},
		{Info{Version: "1.2.0", Commit: "abc1234def"}, "1.2.0 (abc1234)"},
		{Info{Version: "1.2.0", Commit: "abc", Modified: true}, "1.2.0 (abc, dirty)"},
	}
	for _, tt := range tests {
		if got := tt.info.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
