// Package engine sequences the analysis stages over a decoded signal. It is
// the sole owner of the in-progress run: stages return immutable values and
// never touch state outside their own result.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mdobak/go-xerrors"

	"github.com/ethnogram/ethnogram/internal/analysis"
	"github.com/ethnogram/ethnogram/internal/audio"
	"github.com/ethnogram/ethnogram/internal/culture"
)

// Stage identifies a step of the analysis pipeline. Order matters: stages
// execute strictly sequentially and progress is reported as completed
// stages over the total.
type Stage int

const (
	StagePreprocess Stage = iota
	StageRhythm
	StagePitch
	StageSpectral
	StageScaleID
	StageCulturalMatch

	stageCount = int(StageCulturalMatch) + 1
)

var stageNames = map[Stage]string{
	StagePreprocess:    "Preprocess",
	StageRhythm:        "Rhythm",
	StagePitch:         "Pitch",
	StageSpectral:      "Spectral",
	StageScaleID:       "Scale",
	StageCulturalMatch: "Cultural Match",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// Outcome is the terminal state of a run. Cancellation is a distinct
// outcome, not a failure: callers offer a retry only for OutcomeFailed.
type Outcome int

const (
	OutcomeDone Outcome = iota
	OutcomeCancelled
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDone:
		return "done"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeFailed:
		return "failed"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// ErrInvalidOptions reports an Options value that cannot drive a run.
var ErrInvalidOptions = errors.New("engine: invalid options")

// Options bounds the cost of a run. Max frame counts cap the pitch and
// spectral loops so worst-case cost is independent of clip length beyond
// the trimmed window.
type Options struct {
	MaxDurationSec    float64 // analysis window length cap
	MaxPitchFrames    int
	MaxSpectralFrames int
	TopNCultures      int
	MainsHz           float64          // 50 or 60 enables the hum diagnostic; 0 disables it
	CultureTable      []culture.Record // nil selects the built-in table
}

// DefaultOptions returns the bounds used when the caller does not override
// them.
func DefaultOptions() Options {
	return Options{
		MaxDurationSec:    30.0,
		MaxPitchFrames:    400,
		MaxSpectralFrames: 300,
		TopNCultures:      culture.DefaultTopN,
	}
}

func (o Options) validate() error {
	if o.MaxDurationSec <= 0 {
		return fmt.Errorf("%w: max duration %.2fs must be positive", ErrInvalidOptions, o.MaxDurationSec)
	}
	if o.MaxPitchFrames <= 0 {
		return fmt.Errorf("%w: max pitch frames %d must be positive", ErrInvalidOptions, o.MaxPitchFrames)
	}
	if o.MaxSpectralFrames <= 0 {
		return fmt.Errorf("%w: max spectral frames %d must be positive", ErrInvalidOptions, o.MaxSpectralFrames)
	}
	if o.TopNCultures <= 0 {
		return fmt.Errorf("%w: top-N %d must be positive", ErrInvalidOptions, o.TopNCultures)
	}
	if o.MainsHz != 0 && o.MainsHz != 50 && o.MainsHz != 60 {
		return fmt.Errorf("%w: mains frequency %.0f Hz must be 0, 50 or 60", ErrInvalidOptions, o.MainsHz)
	}
	return nil
}

// Fault is a stage-internal invariant violation, tagged with the stage it
// originated in. Numeric edge cases never produce one; only structural
// problems (corrupt signal, malformed culture table) do.
type Fault struct {
	Stage Stage
	Err   error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%s stage: %v", f.Stage, f.Err)
}

func (f *Fault) Unwrap() error { return f.Err }

// ProgressFunc observes stage boundaries. done is the fraction of stages
// completed in [0,1].
type ProgressFunc func(stage Stage, done float64)

// StageTiming records how long one stage ran.
type StageTiming struct {
	Stage   Stage
	Elapsed time.Duration
}

// Result aggregates everything a completed run produced. Only OutcomeDone
// populates the analysis fields; a cancelled or failed run discards its
// partial results.
type Result struct {
	Outcome     Outcome
	FailedStage Stage // meaningful only when Outcome is OutcomeFailed

	WindowSec     float64
	Rhythm        analysis.RhythmProfile
	Pitch         analysis.PitchSeries
	PitchStats    analysis.PitchStats
	HasPitchStats bool
	Spectral      analysis.SpectralProfile
	Scale         analysis.ScaleMatch
	Similarity    []culture.Score

	Timings []StageTiming
	Elapsed time.Duration
}

// Run executes the full pipeline over sig. Cancellation is cooperative:
// the context is checked at every stage boundary and inside the pitch and
// spectral frame loops, so the effect may lag by up to one yield interval.
// A cancelled run returns a Result with OutcomeCancelled and a nil error;
// a stage fault returns OutcomeFailed alongside the *Fault.
func Run(ctx context.Context, sig *audio.Signal, opts Options, progress ProgressFunc) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	table := opts.CultureTable
	if table == nil {
		table = culture.DefaultTable()
	}

	start := time.Now()
	res := &Result{}
	report := func(stage Stage, completed int) {
		if progress != nil {
			progress(stage, float64(completed)/float64(stageCount))
		}
	}
	timed := func(stage Stage, began time.Time) {
		res.Timings = append(res.Timings, StageTiming{Stage: stage, Elapsed: time.Since(began)})
	}
	cancelled := func() *Result {
		return &Result{Outcome: OutcomeCancelled, Elapsed: time.Since(start)}
	}
	failed := func(stage Stage, err error) (*Result, error) {
		fault := &Fault{Stage: stage, Err: xerrors.New(err)}
		return &Result{Outcome: OutcomeFailed, FailedStage: stage, Elapsed: time.Since(start)}, fault
	}

	// Preprocess
	report(StagePreprocess, 0)
	began := time.Now()
	win, err := audio.Trim(sig, opts.MaxDurationSec)
	if err != nil {
		return failed(StagePreprocess, err)
	}
	res.WindowSec = win.Duration()
	timed(StagePreprocess, began)
	if ctx.Err() != nil {
		return cancelled(), nil
	}

	// Rhythm: numeric edge cases default, so this stage cannot fault.
	report(StageRhythm, 1)
	began = time.Now()
	res.Rhythm = analysis.AnalyzeRhythm(win)
	timed(StageRhythm, began)
	if ctx.Err() != nil {
		return cancelled(), nil
	}

	// Pitch
	report(StagePitch, 2)
	began = time.Now()
	res.Pitch, err = analysis.TrackPitch(ctx, win, opts.MaxPitchFrames)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return cancelled(), nil
		}
		return failed(StagePitch, err)
	}
	res.PitchStats, res.HasPitchStats = res.Pitch.Stats()
	timed(StagePitch, began)
	if ctx.Err() != nil {
		return cancelled(), nil
	}

	// Spectral
	report(StageSpectral, 3)
	began = time.Now()
	res.Spectral, err = analysis.AnalyzeSpectrum(ctx, win, opts.MaxSpectralFrames, opts.MainsHz)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return cancelled(), nil
		}
		return failed(StageSpectral, err)
	}
	timed(StageSpectral, began)
	if ctx.Err() != nil {
		return cancelled(), nil
	}

	// Scale identification: sparse series falls back, never faults.
	report(StageScaleID, 4)
	began = time.Now()
	res.Scale = analysis.IdentifyScale(res.Pitch)
	timed(StageScaleID, began)
	if ctx.Err() != nil {
		return cancelled(), nil
	}

	// Cultural match
	report(StageCulturalMatch, 5)
	began = time.Now()
	res.Similarity, err = culture.MatchCultures(res.Rhythm, res.Scale, &res.Spectral, table, opts.TopNCultures)
	if err != nil {
		return failed(StageCulturalMatch, err)
	}
	timed(StageCulturalMatch, began)

	res.Outcome = OutcomeDone
	res.Elapsed = time.Since(start)
	report(StageCulturalMatch, stageCount)
	return res, nil
}
