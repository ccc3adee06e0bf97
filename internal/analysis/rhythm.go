// Package analysis implements the feature-extraction stages of the pipeline:
// onset/rhythm analysis, pitch tracking, spectral analysis, and scale
// identification. Every stage is a pure function over an audio window; numeric
// edge cases (silence, empty series, zero energy) resolve to documented
// defaults and never to errors.
package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/ethnogram/ethnogram/internal/audio"
)

// Rhythm analysis tuning constants.
const (
	// Onset detection
	onsetFrameSize      = 1024 // samples per energy frame
	onsetHopSize        = 512  // samples between frames
	onsetLocalWindow    = 10   // frames each side for the adaptive local average
	onsetThresholdRatio = 1.5  // frame energy must exceed ratio * local average
	onsetMinEnergy      = 1e-4 // absolute energy floor; rejects near-silence
	onsetMinGapMs       = 80.0 // refractory gap between onsets

	// Tempo plausibility clamp
	tempoMinBPM = 40.0
	tempoMaxBPM = 220.0

	// IOI histogram: 25 buckets of 60ms cover the full IOI range at 40 BPM.
	// Temporal complexity normalises entropy by log2 of the bucket count.
	ioiBucketWidthMs = 60.0
	ioiBucketCount   = 25

	// Polyrhythm detection: the two dominant IOI buckets must relate by a
	// simple non-unity ratio within this relative tolerance. Empirical value,
	// preserved as a default; changing it reclassifies prior results.
	polyrhythmTolerance = 0.12
)

// polyrhythmRatios are the simple ratios tested against the two dominant IOI
// buckets, in precedence order.
var polyrhythmRatios = []struct {
	value float64
	label string
}{
	{3.0 / 2.0, "3:2"},
	{4.0 / 3.0, "4:3"},
	{2.0, "2:1"},
	{5.0 / 4.0, "5:4"},
	{3.0, "3:1"},
}

// RhythmProfile summarises the temporal structure of an analysis window.
type RhythmProfile struct {
	Tempo              float64 // BPM; 0 when fewer than two onsets
	PeakCount          int     // detected onsets
	Regularity         float64 // 1 - CV(IOI), clamped to [0,1]
	Entropy            float64 // Shannon entropy of the IOI histogram (bits)
	TemporalComplexity float64 // entropy / log2(bucketCount), in [0,1]
	Polyrhythmic       bool
	PolyrhythmRatio    string  // e.g. "3:2"; empty when not polyrhythmic
	Percussiveness     float64 // zero-crossing rate of the window, in [0,1]
}

// AnalyzeRhythm detects onsets in the window and derives the rhythm profile.
// Silent or constant signals yield the defaulted profile (tempo 0,
// regularity 0); this function never fails.
func AnalyzeRhythm(win *audio.Window) RhythmProfile {
	profile := RhythmProfile{
		Percussiveness: zeroCrossingRate(win.Samples),
	}

	onsets := detectOnsets(win.Samples, win.SampleRate)
	profile.PeakCount = len(onsets)

	iois := ioisFromOnsets(onsets, win.SampleRate)
	if len(iois) == 0 {
		return profile
	}

	profile.Tempo = tempoFromIOIs(iois)
	profile.Regularity = regularityFromIOIs(iois)

	hist := ioiHistogram(iois)
	profile.Entropy = histogramEntropy(hist)
	profile.TemporalComplexity = clamp01(profile.Entropy / math.Log2(ioiBucketCount))
	profile.Polyrhythmic, profile.PolyrhythmRatio = detectPolyrhythm(hist)

	return profile
}

// detectOnsets returns the sample indices where sound events begin. A frame
// counts as an onset when its energy exceeds the adaptive local-average
// threshold; a local average tolerates dynamics that defeat a fixed global
// threshold. A refractory gap suppresses double triggers on a single attack.
func detectOnsets(samples []float64, sampleRate int) []int {
	energies := frameEnergies(samples)
	if len(energies) == 0 {
		return nil
	}

	minGapSamples := int(onsetMinGapMs / 1000.0 * float64(sampleRate))
	lastOnset := -minGapSamples - 1

	var onsets []int
	for i, e := range energies {
		if e < onsetMinEnergy {
			continue
		}
		if e <= onsetThresholdRatio*localAverage(energies, i) {
			continue
		}
		idx := i * onsetHopSize
		if idx-lastOnset <= minGapSamples {
			continue
		}
		onsets = append(onsets, idx)
		lastOnset = idx
	}
	return onsets
}

// frameEnergies computes mean-square energy per frame.
func frameEnergies(samples []float64) []float64 {
	if len(samples) < onsetFrameSize {
		return nil
	}
	n := (len(samples)-onsetFrameSize)/onsetHopSize + 1
	energies := make([]float64, n)
	for i := 0; i < n; i++ {
		start := i * onsetHopSize
		sum := 0.0
		for _, s := range samples[start : start+onsetFrameSize] {
			sum += s * s
		}
		energies[i] = sum / onsetFrameSize
	}
	return energies
}

// localAverage returns the mean energy of the frames surrounding i, excluding
// i itself.
func localAverage(energies []float64, i int) float64 {
	lo := i - onsetLocalWindow
	if lo < 0 {
		lo = 0
	}
	hi := i + onsetLocalWindow
	if hi >= len(energies) {
		hi = len(energies) - 1
	}
	sum, count := 0.0, 0
	for j := lo; j <= hi; j++ {
		if j == i {
			continue
		}
		sum += energies[j]
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// ioisFromOnsets derives inter-onset intervals in milliseconds from the gaps
// between consecutive onsets. Fewer than two onsets yields nil.
func ioisFromOnsets(onsets []int, sampleRate int) []float64 {
	if len(onsets) < 2 || sampleRate <= 0 {
		return nil
	}
	iois := make([]float64, len(onsets)-1)
	for i := 1; i < len(onsets); i++ {
		iois[i-1] = float64(onsets[i]-onsets[i-1]) / float64(sampleRate) * 1000.0
	}
	return iois
}

// tempoFromIOIs estimates tempo as 60000/median(IOI), clamped to the
// plausible [40, 220] BPM range.
func tempoFromIOIs(iois []float64) float64 {
	med := median(iois)
	if med <= 0 {
		return 0
	}
	bpm := 60000.0 / med
	if bpm < tempoMinBPM {
		bpm = tempoMinBPM
	} else if bpm > tempoMaxBPM {
		bpm = tempoMaxBPM
	}
	return bpm
}

// regularityFromIOIs measures how evenly spaced the onsets are:
// 1 - coefficient of variation, clamped to [0,1]. A perfectly even pulse
// scores 1; erratic spacing approaches 0.
func regularityFromIOIs(iois []float64) float64 {
	if len(iois) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range iois {
		mean += v
	}
	mean /= float64(len(iois))
	if mean <= 0 {
		return 0
	}
	variance := 0.0
	for _, v := range iois {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(iois))
	cv := math.Sqrt(variance) / mean
	return clamp01(1.0 - cv)
}

// ioiHistogram buckets IOIs into fixed 60ms-wide bins. Intervals beyond the
// last bin clamp into it.
func ioiHistogram(iois []float64) []int {
	hist := make([]int, ioiBucketCount)
	for _, ioi := range iois {
		b := int(ioi / ioiBucketWidthMs)
		if b < 0 {
			b = 0
		} else if b >= ioiBucketCount {
			b = ioiBucketCount - 1
		}
		hist[b]++
	}
	return hist
}

// histogramEntropy computes Shannon entropy (bits) of the normalised
// histogram. A single occupied bucket has zero entropy.
func histogramEntropy(hist []int) float64 {
	total := 0
	for _, c := range hist {
		total += c
	}
	if total == 0 {
		return 0
	}
	entropy := 0.0
	for _, c := range hist {
		if c == 0 {
			continue
		}
		p := float64(c) / float64(total)
		entropy -= p * math.Log2(p)
	}
	return entropy
}

// detectPolyrhythm inspects the two most frequent IOI buckets. When their
// centre values relate by a simple non-unity ratio within tolerance, the
// window is flagged polyrhythmic with that ratio.
func detectPolyrhythm(hist []int) (bool, string) {
	first, second := -1, -1
	for b, c := range hist {
		if c == 0 {
			continue
		}
		switch {
		case first == -1 || c > hist[first]:
			second = first
			first = b
		case second == -1 || c > hist[second]:
			second = b
		}
	}
	if first == -1 || second == -1 {
		return false, ""
	}

	longer := bucketCentreMs(first)
	shorter := bucketCentreMs(second)
	if longer < shorter {
		longer, shorter = shorter, longer
	}
	if shorter <= 0 {
		return false, ""
	}

	ratio := longer / shorter
	for _, cand := range polyrhythmRatios {
		if math.Abs(ratio-cand.value)/cand.value <= polyrhythmTolerance {
			return true, cand.label
		}
	}
	return false, ""
}

func bucketCentreMs(bucket int) float64 {
	return (float64(bucket) + 0.5) * ioiBucketWidthMs
}

// zeroCrossingRate counts sign changes per sample pair; a proxy for
// noisiness and percussive content.
func zeroCrossingRate(samples []float64) float64 {
	if len(samples) < 2 {
		return 0
	}
	crossings := 0
	for i := 1; i < len(samples); i++ {
		if (samples[i-1] >= 0) != (samples[i] >= 0) {
			crossings++
		}
	}
	return clamp01(float64(crossings) / float64(len(samples)-1))
}

// median returns the middle value of the series (mean of the two middles for
// even lengths). The input is not modified.
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2.0
	}
	return sorted[mid]
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// String renders a compact summary for debug logging.
func (p RhythmProfile) String() string {
	return fmt.Sprintf("tempo=%.1fbpm onsets=%d regularity=%.2f complexity=%.2f poly=%v",
		p.Tempo, p.PeakCount, p.Regularity, p.TemporalComplexity, p.Polyrhythmic)
}
