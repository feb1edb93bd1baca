// Package transcript models speech-to-text output and its text rendering.
//
// A rendered transcript is plain text. Timed segments are prefixed with a
// "[HH:MM:SS - HH:MM:SS]" marker, one per line. When the audio was split into
// chunks, every chunk's lines are preceded by a "[CHUNK n]" line and chunk
// groups are separated by a blank line:
//
//	[CHUNK 1]
//	[00:00:00 - 00:00:04] Hello and welcome.
//	[00:00:04 - 00:00:09] Today we talk about Go.
//
//	[CHUNK 2]
//	[00:05:00 - 00:05:03] Back again.
//
// Parse inverts Render exactly for segments whose times are whole seconds.
package transcript

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Segment is one utterance, or a whole untimed block of text.
type Segment struct {
	// Chunk is the 1-based chunk the segment came from; 0 when unchunked.
	Chunk int
	Start time.Duration
	End   time.Duration
	Text  string
	// Timed is false for plain text without a time range.
	Timed bool
}

// Transcript is an ordered list of segments.
type Transcript struct {
	Segments []Segment
	// Chunked renders chunk boundary markers between segment groups.
	Chunked bool
}

var (
	timedLine = regexp.MustCompile(`^\[(\d{2,}:\d{2}:\d{2}) - (\d{2,}:\d{2}:\d{2})\]`)
	chunkLine = regexp.MustCompile(`^\[CHUNK (\d+)\]$`)
)

// ChunkMarker returns the boundary line that introduces chunk n.
func ChunkMarker(n int) string {
	return fmt.Sprintf("[CHUNK %d]", n)
}

// FormatTimestamp renders d as HH:MM:SS, truncated to whole seconds. Hours
// grow beyond two digits for very long inputs.
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	s := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s/60)%60, s%60)
}

// ParseTimestamp parses an HH:MM:SS value produced by FormatTimestamp.
func ParseTimestamp(s string) (time.Duration, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("transcript: invalid timestamp %q", s)
	}
	var total int64
	for i, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil || n < 0 || (i > 0 && n > 59) {
			return 0, fmt.Errorf("transcript: invalid timestamp %q", s)
		}
		total = total*60 + n
	}
	return time.Duration(total) * time.Second, nil
}

// Seconds converts provider seconds to a whole-second duration.
func Seconds(f float64) time.Duration {
	if f <= 0 {
		return 0
	}
	return time.Duration(int64(f)) * time.Second
}

// Marker returns the "[start - end]" prefix of a timed segment.
func (s Segment) Marker() string {
	return "[" + FormatTimestamp(s.Start) + " - " + FormatTimestamp(s.End) + "]"
}

func (s Segment) line() string {
	if !s.Timed {
		return s.Text
	}
	if s.Text == "" {
		return s.Marker()
	}
	return s.Marker() + " " + s.Text
}

// Render flattens the transcript to text.
func (t Transcript) Render() string {
	if !t.Chunked {
		lines := make([]string, len(t.Segments))
		for i, s := range t.Segments {
			lines[i] = s.line()
		}
		return strings.Join(lines, "\n")
	}

	var b strings.Builder
	current := -1
	for _, s := range t.Segments {
		if s.Chunk != current {
			if current != -1 {
				b.WriteString("\n\n")
			}
			b.WriteString(ChunkMarker(s.Chunk))
			current = s.Chunk
		}
		b.WriteByte('\n')
		b.WriteString(s.line())
	}
	return b.String()
}

// Text returns the spoken text without any markers, one segment per line.
func (t Transcript) Text() string {
	parts := make([]string, 0, len(t.Segments))
	for _, s := range t.Segments {
		if s.Text != "" {
			parts = append(parts, s.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// Append adds the segments of other, tagging them with chunk n and shifting
// their times by offset. An empty other still adds one empty segment so the
// chunk keeps its marker.
func (t *Transcript) Append(n int, offset time.Duration, other Transcript) {
	if len(other.Segments) == 0 {
		t.Segments = append(t.Segments, Segment{Chunk: n})
		return
	}
	for _, s := range other.Segments {
		s.Chunk = n
		if s.Timed {
			s.Start += offset
			s.End += offset
		}
		t.Segments = append(t.Segments, s)
	}
}

// Parse reads text produced by Render back into a Transcript.
func Parse(text string) (Transcript, error) {
	var t Transcript
	if text == "" {
		return t, nil
	}
	lines := strings.Split(text, "\n")

	if _, ok := chunkNumber(lines[0]); !ok {
		segs, err := parseGroup(0, lines)
		t.Segments = segs
		return t, err
	}

	t.Chunked = true
	start := 0
	for start < len(lines) {
		n, _ := chunkNumber(lines[start])
		end := start + 1
		for end < len(lines) {
			if _, ok := chunkNumber(lines[end]); ok {
				break
			}
			end++
		}
		body := lines[start+1 : end]
		// the blank separator before the next group belongs to neither
		if end < len(lines) && len(body) > 0 && body[len(body)-1] == "" {
			body = body[:len(body)-1]
		}
		segs, err := parseGroup(n, body)
		if err != nil {
			return Transcript{}, err
		}
		t.Segments = append(t.Segments, segs...)
		start = end
	}
	return t, nil
}

func chunkNumber(line string) (int, bool) {
	m := chunkLine.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	return n, err == nil
}

// parseGroup reads the lines of one chunk. Consecutive plain lines form a
// single untimed segment.
func parseGroup(chunk int, lines []string) ([]Segment, error) {
	var (
		segs  []Segment
		plain []string
	)
	flush := func() {
		if plain != nil {
			segs = append(segs, Segment{Chunk: chunk, Text: strings.Join(plain, "\n")})
			plain = nil
		}
	}
	for _, line := range lines {
		m := timedLine.FindStringSubmatchIndex(line)
		if m == nil {
			plain = append(plain, line)
			continue
		}
		flush()
		start, err := ParseTimestamp(line[m[2]:m[3]])
		if err != nil {
			return nil, err
		}
		end, err := ParseTimestamp(line[m[4]:m[5]])
		if err != nil {
			return nil, err
		}
		segs = append(segs, Segment{
			Chunk: chunk,
			Start: start,
			End:   end,
			Text:  strings.TrimPrefix(line[m[1]:], " "),
			Timed: true,
		})
	}
	flush()
	return segs, nil
}
