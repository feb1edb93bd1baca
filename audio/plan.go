package audio

import "time"

// Span is a contiguous time range of audio.
type Span struct {
	Start    time.Duration
	Duration time.Duration
}

// End returns the exclusive end of the span.
func (s Span) End() time.Duration { return s.Start + s.Duration }

// Plan splits total into consecutive spans of at most max. The spans cover
// total with no gap or overlap; only the last one may be shorter. A total no
// longer than max yields one span. Non-positive inputs yield nil.
func Plan(total, max time.Duration) []Span {
	if total <= 0 || max <= 0 {
		return nil
	}
	n := int((total + max - 1) / max)
	spans := make([]Span, 0, n)
	for start := time.Duration(0); start < total; start += max {
		d := max
		if rest := total - start; rest < d {
			d = rest
		}
		spans = append(spans, Span{Start: start, Duration: d})
	}
	return spans
}
