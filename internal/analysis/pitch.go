package analysis

import (
	"context"
	"fmt"
	"math"

	"github.com/ethnogram/ethnogram/internal/audio"
)

// Pitch tracking tuning constants.
const (
	pitchFrameSize = 2048 // samples per analysis frame
	pitchMinFreq   = 50.0 // Hz - lowest trackable fundamental
	pitchMaxFreq   = 2000.0

	// A normalised autocorrelation peak must reach this value to count as a
	// confident pitch. Below it the frame is treated as unpitched.
	pitchCorrThreshold = 0.85

	// Frames with RMS below this are silence; skipped without correlation.
	pitchMinRMS = 1e-3

	// Cancellation is observed every this many frames during a track walk.
	pitchYieldInterval = 16
)

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// PitchSample is one accepted framewise pitch estimate.
type PitchSample struct {
	FrequencyHz  float64
	TimestampSec float64
}

// PitchSeries is the ordered sequence of accepted pitch estimates for a
// window. Frequencies are restricted to (0, 2000) Hz; out-of-range estimates
// are discarded at tracking time, never substituted.
type PitchSeries []PitchSample

// PitchStats are the aggregate statistics of a PitchSeries. They are
// undefined for an empty series; call sites report "N/A" when ok is false.
type PitchStats struct {
	MeanHz   float64
	MinHz    float64
	MaxHz    float64
	StdDevHz float64
}

// DetectPitch estimates the fundamental frequency of a single frame using
// normalised autocorrelation over the lag range covering ~50-2000 Hz. The
// first strong correlation peak wins; its lag is refined by parabolic
// interpolation before conversion to Hz. Returns 0 when no confident pitch
// is present.
func DetectPitch(frame []float64, sampleRate int) float64 {
	if sampleRate <= 0 || len(frame) < 2 {
		return 0
	}

	// Silence check before the O(n*lags) correlation work.
	sumSq := 0.0
	for _, s := range frame {
		sumSq += s * s
	}
	if math.Sqrt(sumSq/float64(len(frame))) < pitchMinRMS {
		return 0
	}

	minLag := int(float64(sampleRate) / pitchMaxFreq)
	if minLag < 2 {
		minLag = 2
	}
	maxLag := int(float64(sampleRate) / pitchMinFreq)
	if maxLag > len(frame)/2 {
		maxLag = len(frame) / 2
	}
	if maxLag <= minLag {
		return 0
	}

	// Energy-matched normalisation keeps a periodic signal's peaks near 1.0
	// at every lag, unlike dividing by the lag-0 energy alone.
	corr := make([]float64, maxLag+2)
	for lag := minLag - 1; lag <= maxLag+1 && lag < len(frame); lag++ {
		var cross, e1, e2 float64
		n := len(frame) - lag
		for i := 0; i < n; i++ {
			cross += frame[i] * frame[i+lag]
			e1 += frame[i] * frame[i]
			e2 += frame[i+lag] * frame[i+lag]
		}
		denom := math.Sqrt(e1 * e2)
		if denom > 0 && lag < len(corr) {
			corr[lag] = cross / denom
		}
	}

	for lag := minLag; lag <= maxLag && lag+1 < len(corr); lag++ {
		if corr[lag] < pitchCorrThreshold {
			continue
		}
		if corr[lag] < corr[lag-1] || corr[lag] < corr[lag+1] {
			continue
		}
		refined := refinePeakLag(corr, lag)
		if refined <= 0 {
			return 0
		}
		return float64(sampleRate) / refined
	}
	return 0
}

// refinePeakLag applies parabolic interpolation around an integer-lag peak.
// Needed to hit ±2% accuracy at high frequencies, where integer lag
// resolution alone is too coarse.
func refinePeakLag(corr []float64, lag int) float64 {
	if lag <= 0 || lag+1 >= len(corr) {
		return float64(lag)
	}
	y0, y1, y2 := corr[lag-1], corr[lag], corr[lag+1]
	denom := y0 - 2*y1 + y2
	if denom == 0 {
		return float64(lag)
	}
	offset := 0.5 * (y0 - y2) / denom
	if offset > 0.5 {
		offset = 0.5
	} else if offset < -0.5 {
		offset = -0.5
	}
	return float64(lag) + offset
}

// TrackPitch walks the window with a fixed frame stride, collecting accepted
// pitch estimates with timestamps. The frame count is capped by maxFrames to
// bound runtime, and ctx is observed every pitchYieldInterval frames so the
// caller can cancel mid-walk.
func TrackPitch(ctx context.Context, win *audio.Window, maxFrames int) (PitchSeries, error) {
	if maxFrames <= 0 || len(win.Samples) < pitchFrameSize {
		return nil, nil
	}

	var series PitchSeries
	frames := 0
	for start := 0; start+pitchFrameSize <= len(win.Samples) && frames < maxFrames; start += pitchFrameSize {
		if frames%pitchYieldInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		frames++

		f := DetectPitch(win.Samples[start:start+pitchFrameSize], win.SampleRate)
		if f <= 0 || f >= pitchMaxFreq {
			continue
		}
		series = append(series, PitchSample{
			FrequencyHz:  f,
			TimestampSec: float64(start) / float64(win.SampleRate),
		})
	}
	return series, nil
}

// FrequencyToMIDINote converts a frequency in Hz to the nearest MIDI note
// number (A440 = 69).
func FrequencyToMIDINote(freq float64) int {
	if freq <= 0 {
		return 0
	}
	return int(math.Round(69 + 12*math.Log2(freq/440.0)))
}

// MIDIToNoteName converts a MIDI note number to scientific pitch notation,
// e.g. 69 -> "A4". Octave is floor(midi/12) - 1.
func MIDIToNoteName(midi int) string {
	pc := midi % 12
	if pc < 0 {
		pc += 12
	}
	octave := int(math.Floor(float64(midi)/12.0)) - 1
	return fmt.Sprintf("%s%d", noteNames[pc], octave)
}

// Stats computes aggregate pitch statistics. ok is false for an empty
// series; the aggregates are undefined in that case.
func (s PitchSeries) Stats() (stats PitchStats, ok bool) {
	if len(s) == 0 {
		return PitchStats{}, false
	}
	stats.MinHz = s[0].FrequencyHz
	stats.MaxHz = s[0].FrequencyHz
	sum := 0.0
	for _, p := range s {
		sum += p.FrequencyHz
		if p.FrequencyHz < stats.MinHz {
			stats.MinHz = p.FrequencyHz
		}
		if p.FrequencyHz > stats.MaxHz {
			stats.MaxHz = p.FrequencyHz
		}
	}
	stats.MeanHz = sum / float64(len(s))

	variance := 0.0
	for _, p := range s {
		d := p.FrequencyHz - stats.MeanHz
		variance += d * d
	}
	stats.StdDevHz = math.Sqrt(variance / float64(len(s)))
	return stats, true
}

// NoteHistogram counts occurrences of each note name across the series.
// The returned order slice preserves first-seen order for deterministic
// tie-breaking.
func (s PitchSeries) NoteHistogram() (counts map[string]int, order []string) {
	counts = make(map[string]int)
	for _, p := range s {
		name := MIDIToNoteName(FrequencyToMIDINote(p.FrequencyHz))
		if _, seen := counts[name]; !seen {
			order = append(order, name)
		}
		counts[name]++
	}
	return counts, order
}

// MostCommonNote returns the modal note of the series, ties broken by first
// appearance. Empty series returns "".
func (s PitchSeries) MostCommonNote() string {
	counts, order := s.NoteHistogram()
	best, bestCount := "", 0
	for _, name := range order {
		if counts[name] > bestCount {
			best = name
			bestCount = counts[name]
		}
	}
	return best
}
