package ui

import (
	"github.com/ethnogram/ethnogram/internal/engine"
)

// ProgressMsg reports a stage-boundary update from the analysis engine.
type ProgressMsg struct {
	Stage engine.Stage
	Done  float64 // fraction of stages completed, 0.0 to 1.0
}

// FileStartMsg indicates analysis of a new file has started.
type FileStartMsg struct {
	FileIndex int
	FileName  string
}

// FileCompleteMsg indicates a file has finished analysing. Result is nil
// when Err is set; a cancelled run carries a Result with the cancelled
// outcome and no analysis data.
type FileCompleteMsg struct {
	FileIndex int
	Result    *engine.Result
	Err       error
}

// AllCompleteMsg indicates every queued file has been analysed.
type AllCompleteMsg struct{}
