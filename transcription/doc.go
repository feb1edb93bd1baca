// Package transcription turns audio into transcripts through a pluggable
// speech-to-text provider.
//
// # Backends
//
//   - transcription/whisper: faster-whisper HTTP sidecar
//   - transcription/openai: OpenAI-compatible /v1/audio/transcriptions
//
// Engine drives a provider over the chunks produced by the audio package,
// one chunk at a time and in order, and stitches the results into a single
// transcript.Transcript.
package transcription
