// Package audio provides the decoded signal types consumed by the analysis
// pipeline, the analysis-window preprocessor, and a minimal PCM WAV reader
// for the command line front end.
package audio

import (
	"errors"
	"fmt"
)

// ErrEmptySignal is returned when a signal with zero samples reaches the
// preprocessor. It is the only failure the preprocessor can produce.
var ErrEmptySignal = errors.New("audio: signal has no samples")

// Signal is a decoded, single-channel audio clip. Samples are normalised to
// [-1, 1]. A Signal is immutable once produced: analysis stages read it but
// never modify it.
type Signal struct {
	Samples    []float64
	SampleRate int
}

// Duration returns the clip length in seconds.
func (s *Signal) Duration() float64 {
	if s.SampleRate <= 0 {
		return 0
	}
	return float64(len(s.Samples)) / float64(s.SampleRate)
}

// Window is a bounded prefix of a Signal. It caps the cost of every analysis
// stage: no stage ever reads past the window.
type Window struct {
	Samples    []float64
	SampleRate int
}

// Duration returns the window length in seconds.
func (w *Window) Duration() float64 {
	if w.SampleRate <= 0 {
		return 0
	}
	return float64(len(w.Samples)) / float64(w.SampleRate)
}

// Trim bounds a signal to at most maxDurationSec seconds from offset 0.
// No resampling takes place; the window shares the signal's backing array.
func Trim(sig *Signal, maxDurationSec float64) (*Window, error) {
	if sig == nil || len(sig.Samples) == 0 {
		return nil, ErrEmptySignal
	}
	if sig.SampleRate <= 0 {
		return nil, fmt.Errorf("audio: invalid sample rate %d", sig.SampleRate)
	}
	if maxDurationSec <= 0 {
		return nil, fmt.Errorf("audio: invalid max duration %.3f", maxDurationSec)
	}

	maxSamples := int(float64(sig.SampleRate) * maxDurationSec)
	if maxSamples > len(sig.Samples) {
		maxSamples = len(sig.Samples)
	}

	return &Window{
		Samples:    sig.Samples[:maxSamples],
		SampleRate: sig.SampleRate,
	}, nil
}
