package transcription

// Request holds parameters for a transcription call.
type Request struct {
	AudioPath string `json:"audio_path"`
	// Language hints the spoken language (e.g. "en"); empty means detect.
	Language string `json:"language,omitempty"`
	Model    string `json:"model,omitempty"`
	// Timestamps asks for per-utterance segments.
	Timestamps bool `json:"timestamps"`
}

// Response holds the result of a transcription call.
type Response struct {
	Text     string    `json:"text"`
	Segments []Segment `json:"segments,omitempty"`
	// Duration is the audio duration in seconds, when known.
	Duration float64 `json:"duration,omitempty"`
	Language string  `json:"language,omitempty"`
}

// Segment is a time-aligned utterance; times are seconds from the start of
// the submitted audio.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}
