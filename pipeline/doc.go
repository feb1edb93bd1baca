// Package pipeline runs the transcription pipeline: extract audio, split it
// into chunks, transcribe, optionally translate, persist, and derive a
// persona.
//
// Stages run strictly in order:
//
//	EXTRACTING → CHUNKING → TRANSCRIBING → [TRANSLATING] → PERSISTING → PROFILING → DONE
//
// Any stage except PROFILING can end the run in FAILED. Temporary files
// (extracted WAV, chunk files, and an owned upload) are removed on every exit
// path. A persona generation failure is logged and reported on the Result but
// does not fail the run.
//
//	orch := pipeline.NewOrchestrator(deps, cfg, log)
//	res, err := orch.Run(ctx, pipeline.RunContext{Settings: s, Progress: report}, pipeline.Input{
//		AssetPath: "/tmp/upload.mp4", ClientID: 7, IncludeTimestamps: true, TargetLanguage: "fr",
//	})
//
// Service wraps the orchestrator together with the store for the operations
// that act on already persisted transcriptions (persona regeneration, chat,
// language changes, export).
package pipeline
