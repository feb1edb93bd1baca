package audio

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/youpy/go-wav"

	"github.com/kbukum/voxpersona/errors"
)

const testRate = 100

// writeTestWAV writes a mono 16-bit WAV of the given length whose sample
// values encode their own position, so chunk contents can be checked.
func writeTestWAV(t *testing.T, dir string, length time.Duration) string {
	t.Helper()
	path := filepath.Join(dir, "source.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	n := int(length / time.Second * testRate)
	w := wav.NewWriter(f, uint32(n), 1, testRate, 16)
	samples := make([]wav.Sample, n)
	for i := range samples {
		samples[i].Values[0] = i % 30000
	}
	if err := w.WriteSamples(samples); err != nil {
		t.Fatal(err)
	}
	return path
}

func readSamples(t *testing.T, path string) []int {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	r := wav.NewReader(f)
	var out []int
	for {
		batch, err := r.ReadSamples(4096)
		for _, s := range batch {
			out = append(out, s.Values[0])
		}
		if err != nil {
			break
		}
	}
	return out
}

func TestPlanCoverage(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		total := time.Duration(1+r.Int63n(int64(3*time.Hour))) * time.Nanosecond
		max := time.Duration(1+r.Int63n(int64(20*time.Minute))) * time.Nanosecond
		spans := Plan(total, max)
		if len(spans) == 0 {
			t.Fatalf("no spans for total=%v max=%v", total, max)
		}
		var sum time.Duration
		for j, s := range spans {
			if s.Duration <= 0 || s.Duration > max {
				t.Fatalf("span %d duration %v out of (0,%v]", j, s.Duration, max)
			}
			if s.Start != sum {
				t.Fatalf("span %d starts at %v, want %v", j, s.Start, sum)
			}
			sum += s.Duration
		}
		if sum != total {
			t.Fatalf("sum %v != total %v", sum, total)
		}
	}
}

func TestPlanEdgeCases(t *testing.T) {
	if got := Plan(time.Minute, 5*time.Minute); len(got) != 1 || got[0].Duration != time.Minute {
		t.Errorf("short input: %+v", got)
	}
	if got := Plan(10*time.Minute, 5*time.Minute); len(got) != 2 {
		t.Errorf("exact multiple: %+v", got)
	}
	if Plan(0, time.Minute) != nil || Plan(time.Minute, 0) != nil {
		t.Error("non-positive input should yield nil")
	}
}

func TestSplitTwelveMinutes(t *testing.T) {
	dir := t.TempDir()
	src := writeTestWAV(t, dir, 12*time.Minute)

	segs, err := NewChunker(nil).Split(context.Background(), src, 5*time.Minute)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	defer Cleanup(segs)

	want := Plan(12*time.Minute, 5*time.Minute)
	if len(segs) != len(want) {
		t.Fatalf("got %d segments, want %d", len(segs), len(want))
	}
	original := readSamples(t, src)
	pos := 0
	for i, s := range segs {
		if s.Span() != want[i] {
			t.Errorf("segment %d span %+v, want %+v", i, s.Span(), want[i])
		}
		if s.Index != i+1 || !s.Temp {
			t.Errorf("segment %d: %+v", i, s)
		}
		got := readSamples(t, s.Path)
		for j, v := range got {
			if v != original[pos+j] {
				t.Fatalf("segment %d sample %d = %d, want %d", i, j, v, original[pos+j])
			}
		}
		pos += len(got)
		d, err := Duration(s.Path)
		if err != nil || d != want[i].Duration {
			t.Errorf("Duration(segment %d) = %v, %v", i, d, err)
		}
	}
	if pos != len(original) {
		t.Errorf("chunks hold %d samples, source has %d", pos, len(original))
	}

	Cleanup(segs)
	for _, s := range segs {
		if _, err := os.Stat(s.Path); !os.IsNotExist(err) {
			t.Errorf("chunk %s not removed", s.Path)
		}
	}
	if _, err := os.Stat(src); err != nil {
		t.Errorf("source must survive cleanup: %v", err)
	}
}

func TestSplitShortInputIsOneSegment(t *testing.T) {
	src := writeTestWAV(t, t.TempDir(), 90*time.Second)
	segs, err := NewChunker(nil).Split(context.Background(), src, 5*time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if len(segs) != 1 || segs[0].Path != src || segs[0].Temp || segs[0].Duration != 90*time.Second {
		t.Fatalf("segments = %+v", segs)
	}
	Cleanup(segs)
	if _, err := os.Stat(src); err != nil {
		t.Errorf("cleanup removed the source: %v", err)
	}
}

func TestSplitCanceledRemovesChunks(t *testing.T) {
	dir := t.TempDir()
	src := writeTestWAV(t, dir, 3*time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewChunker(nil).Split(ctx, src, time.Minute)
	if !errors.HasCode(err, errors.ErrCodeCanceled) {
		t.Fatalf("err = %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("expected only the source left, found %d files", len(entries))
	}
}

func TestSplitInvalidInput(t *testing.T) {
	dir := t.TempDir()
	bogus := filepath.Join(dir, "bogus.wav")
	if err := os.WriteFile(bogus, []byte("not a wav file at all"), 0o600); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		path string
		max  time.Duration
	}{
		{"missing file", filepath.Join(dir, "nope.wav"), time.Minute},
		{"garbage", bogus, time.Minute},
		{"zero max", bogus, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewChunker(nil).Split(context.Background(), tt.path, tt.max)
			if !errors.HasCode(err, errors.ErrCodeChunkingFailed) {
				t.Errorf("err = %v, want CHUNKING_FAILED", err)
			}
		})
	}
}

func TestSplitUnevenMaxTilesSource(t *testing.T) {
	dir := t.TempDir()
	src := writeTestWAV(t, dir, 10*time.Second)
	max := 3333 * time.Millisecond

	segs, err := NewChunker(nil).Split(context.Background(), src, max)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	defer Cleanup(segs)

	if want := len(Plan(10*time.Second, max)); len(segs) != want {
		t.Fatalf("got %d segments, want %d", len(segs), want)
	}
	var next time.Duration
	samples := 0
	for i, s := range segs {
		if s.Start != next {
			t.Errorf("segment %d starts at %v, want %v", i, s.Start, next)
		}
		if s.Duration <= 0 || s.Duration > max {
			t.Errorf("segment %d duration %v out of (0,%v]", i, s.Duration, max)
		}
		next = s.Span().End()
		samples += len(readSamples(t, s.Path))
	}
	if next != 10*time.Second || samples != 10*testRate {
		t.Errorf("segments end at %v with %d samples", next, samples)
	}
}
