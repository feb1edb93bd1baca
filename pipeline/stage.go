package pipeline

import "fmt"

// Stage names a pipeline state.
type Stage string

const (
	StageExtracting   Stage = "EXTRACTING"
	StageChunking     Stage = "CHUNKING"
	StageTranscribing Stage = "TRANSCRIBING"
	StageTranslating  Stage = "TRANSLATING"
	StagePersisting   Stage = "PERSISTING"
	StageProfiling    Stage = "PROFILING"
	StageDone         Stage = "DONE"
	StageFailed       Stage = "FAILED"
)

// Progress values reported when a stage starts.
const (
	progressExtracting  = 0.0
	progressExtracted   = 0.2
	progressChunking    = 0.25
	progressTranscribed = 0.6
	progressTranslating = 0.7
	progressPersisting  = 0.8
	progressProfiling   = 0.9
	progressDone        = 1.0
)

// ProgressFunc observes stage transitions. value is in [0,1] and never
// decreases within a run.
type ProgressFunc func(stage Stage, value float64, label string)

// StageError reports which stage failed a run.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("pipeline %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// tracker forwards progress to a ProgressFunc while keeping it monotonic.
type tracker struct {
	fn    ProgressFunc
	stage Stage
	last  float64
}

func (t *tracker) report(stage Stage, value float64, label string) {
	if value < t.last {
		value = t.last
	}
	if value > 1 {
		value = 1
	}
	t.stage, t.last = stage, value
	if t.fn != nil {
		t.fn(stage, value, label)
	}
}

// chunkProgress maps finished chunks onto the TRANSCRIBING range.
func chunkProgress(done, total int) float64 {
	if total <= 0 {
		return progressChunking
	}
	if done >= total {
		return progressTranscribed
	}
	return progressChunking + (progressTranscribed-progressChunking)*float64(done)/float64(total)
}
