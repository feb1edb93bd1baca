package transcript

import (
	"fmt"
	"math/rand"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00:00"},
		{59*time.Second + 900*time.Millisecond, "00:00:59"},
		{5 * time.Minute, "00:05:00"},
		{time.Hour + 2*time.Minute + 3*time.Second, "01:02:03"},
		{101 * time.Hour, "101:00:00"},
		{-time.Second, "00:00:00"},
	}
	for _, tt := range tests {
		if got := FormatTimestamp(tt.in); got != tt.want {
			t.Errorf("FormatTimestamp(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	got, err := ParseTimestamp("101:02:03")
	if err != nil || got != 101*time.Hour+2*time.Minute+3*time.Second {
		t.Errorf("ParseTimestamp = %v, %v", got, err)
	}
	for _, bad := range []string{"", "00:00", "00:61:00", "aa:bb:cc"} {
		if _, err := ParseTimestamp(bad); err == nil {
			t.Errorf("ParseTimestamp(%q) should fail", bad)
		}
	}
}

func TestRenderTimed(t *testing.T) {
	tr := Transcript{Segments: []Segment{
		{Start: 0, End: 4 * time.Second, Text: "Hello there.", Timed: true},
		{Start: 4 * time.Second, End: 9 * time.Second, Text: "General Kenobi.", Timed: true},
	}}
	want := "[00:00:00 - 00:00:04] Hello there.\n[00:00:04 - 00:00:09] General Kenobi."
	if got := tr.Render(); got != want {
		t.Errorf("Render =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderUntimedHasNoMarkers(t *testing.T) {
	tr := Transcript{Segments: []Segment{{Text: "just words"}}}
	if got := tr.Render(); got != "just words" {
		t.Errorf("Render = %q", got)
	}
}

func TestRenderChunked(t *testing.T) {
	var tr Transcript
	tr.Chunked = true
	tr.Append(1, 0, Transcript{Segments: []Segment{{Start: 0, End: 2 * time.Second, Text: "a", Timed: true}}})
	tr.Append(2, 5*time.Minute, Transcript{Segments: []Segment{{Start: time.Second, End: 3 * time.Second, Text: "b", Timed: true}}})
	tr.Append(3, 10*time.Minute, Transcript{Segments: []Segment{{Text: ""}}})

	want := "[CHUNK 1]\n[00:00:00 - 00:00:02] a\n\n[CHUNK 2]\n[00:05:01 - 00:05:03] b\n\n[CHUNK 3]\n"
	got := tr.Render()
	if got != want {
		t.Fatalf("Render =\n%q\nwant\n%q", got, want)
	}

	back, err := Parse(got)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(back, tr) {
		t.Errorf("Parse(Render) =\n%+v\nwant\n%+v", back, tr)
	}
}

func TestParseMixedGroup(t *testing.T) {
	text := "intro line\nsecond line\n[00:00:01 - 00:00:02] timed"
	tr, err := Parse(text)
	if err != nil {
		t.Fatal(err)
	}
	if len(tr.Segments) != 2 {
		t.Fatalf("segments = %+v", tr.Segments)
	}
	if tr.Segments[0].Timed || tr.Segments[0].Text != "intro line\nsecond line" {
		t.Errorf("first = %+v", tr.Segments[0])
	}
	if !tr.Segments[1].Timed || tr.Segments[1].Text != "timed" {
		t.Errorf("second = %+v", tr.Segments[1])
	}
}

func TestParseEmpty(t *testing.T) {
	tr, err := Parse("")
	if err != nil || len(tr.Segments) != 0 {
		t.Errorf("Parse(\"\") = %+v, %v", tr, err)
	}
}

func TestAppendEmptyChunkKeepsMarker(t *testing.T) {
	tr := Transcript{Chunked: true}
	tr.Append(1, 0, Transcript{Segments: []Segment{{Start: time.Second, End: 2 * time.Second, Text: "hi", Timed: true}}})
	tr.Append(2, 5*time.Minute, Transcript{})

	want := "[CHUNK 1]\n[00:00:01 - 00:00:02] hi\n\n[CHUNK 2]\n"
	if got := tr.Render(); got != want {
		t.Fatalf("Render = %q, want %q", got, want)
	}
	back, err := Parse(want)
	if err != nil || !reflect.DeepEqual(back, tr) {
		t.Errorf("Parse = %+v, %v; want %+v", back, err, tr)
	}
}

var words = []string{"hello", "world", "go", "[bracket]", "voilà", "日本", "  spaced", "x - y"}

func randomTranscript(r *rand.Rand) Transcript {
	tr := Transcript{Chunked: r.Intn(2) == 0}
	chunks := 1
	if tr.Chunked {
		chunks = 1 + r.Intn(4)
	}
	var at time.Duration
	for c := 1; c <= chunks; c++ {
		n := 1 + r.Intn(5)
		if !tr.Chunked && r.Intn(4) == 0 {
			n = 0
		}
		for i := 0; i < n; i++ {
			length := time.Duration(r.Intn(30)) * time.Second
			text := make([]string, r.Intn(4))
			for j := range text {
				text[j] = words[r.Intn(len(words))]
			}
			seg := Segment{Start: at, End: at + length, Text: strings.Join(text, " "), Timed: true}
			if tr.Chunked {
				seg.Chunk = c
			}
			tr.Segments = append(tr.Segments, seg)
			at += length
		}
	}
	return tr
}

func TestRenderParseRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		tr := randomTranscript(r)
		text := tr.Render()
		back, err := Parse(text)
		if err != nil {
			t.Fatalf("case %d: Parse error %v for %q", i, err, text)
		}
		if len(tr.Segments) == 0 {
			if len(back.Segments) != 0 {
				t.Fatalf("case %d: expected no segments, got %+v", i, back.Segments)
			}
			continue
		}
		if !reflect.DeepEqual(back, tr) {
			t.Fatalf("case %d: round trip mismatch\ntext: %q\ngot:  %+v\nwant: %+v", i, text, back, tr)
		}
	}
}

func TestSegmentsNonDecreasing(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		tr := randomTranscript(r)
		for j, s := range tr.Segments {
			if s.Start > s.End {
				t.Fatalf("segment %d start after end", j)
			}
			if j > 0 && s.Start < tr.Segments[j-1].Start {
				t.Fatalf("segment %d out of order", j)
			}
		}
	}
}

func ExampleTranscript_Render() {
	tr := Transcript{Segments: []Segment{{Start: 65 * time.Second, End: 70 * time.Second, Text: "Hi", Timed: true}}}
	fmt.Println(tr.Render())
	// Output: [00:01:05 - 00:01:10] Hi
}
