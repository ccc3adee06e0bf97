package analysis

import (
	"context"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/ethnogram/ethnogram/internal/audio"
)

// Spectral analysis tuning constants.
const (
	spectralFrameSize = 2048 // FFT window, Hann weighted
	spectralHopSize   = 1024 // stride between frames

	// Rolloff is the lowest frequency containing this fraction of total
	// energy. Empirical default; preserved rather than re-derived since it
	// feeds every downstream classification.
	rolloffEnergyThreshold = 0.85

	// Cancellation is observed every this many frames.
	spectralYieldInterval = 8

	// Mains hum diagnostic: harmonics of the mains fundamental inspected,
	// and the neighbouring bins included around each.
	humHarmonics    = 4
	humBinNeighbors = 1
)

// SpectralProfile summarises the averaged magnitude spectrum of a window.
type SpectralProfile struct {
	Magnitudes []float64 // bin-averaged half-spectrum (frameSize/2 bins)
	CentroidHz float64   // energy-weighted mean frequency; 0 for silence
	RolloffHz  float64   // 85%-energy frequency; 0 for silence
	Brightness float64   // centroid / (sampleRate/2), in [0,1]
	FrameCount int       // frames averaged

	// Advisory field-recording diagnostic: fraction of spectral magnitude
	// concentrated at the local mains frequency and its harmonics. Never
	// feeds similarity scoring.
	MainsHz  float64
	HumRatio float64
}

// AnalyzeSpectrum partitions the window into Hann-weighted frames at a fixed
// stride, computes each frame's magnitude spectrum, and bin-averages across
// frames. The frame count is capped by maxFrames; ctx is observed every few
// frames. mainsHz selects the fundamental for the hum diagnostic (0 disables
// it). Silence yields a zeroed profile, never an error.
func AnalyzeSpectrum(ctx context.Context, win *audio.Window, maxFrames int, mainsHz float64) (SpectralProfile, error) {
	profile := SpectralProfile{MainsHz: mainsHz}
	if maxFrames <= 0 || len(win.Samples) < spectralFrameSize || win.SampleRate <= 0 {
		return profile, nil
	}

	bins := spectralFrameSize / 2
	sum := make([]float64, bins)
	window := hannWindow(spectralFrameSize)
	frame := make([]float64, spectralFrameSize)

	frames := 0
	for start := 0; start+spectralFrameSize <= len(win.Samples) && frames < maxFrames; start += spectralHopSize {
		if frames%spectralYieldInterval == 0 {
			if err := ctx.Err(); err != nil {
				return SpectralProfile{MainsHz: mainsHz}, err
			}
		}
		frames++

		for i := 0; i < spectralFrameSize; i++ {
			frame[i] = win.Samples[start+i] * window[i]
		}
		spectrum := fft.FFTReal(frame)
		for i := 0; i < bins; i++ {
			sum[i] += cmplx.Abs(spectrum[i])
		}
	}
	if frames == 0 {
		return profile, nil
	}

	mags := make([]float64, bins)
	for i := range sum {
		mags[i] = sum[i] / float64(frames)
	}

	binHz := float64(win.SampleRate) / float64(spectralFrameSize)
	profile.Magnitudes = mags
	profile.FrameCount = frames
	profile.CentroidHz = spectralCentroid(mags, binHz)
	profile.RolloffHz = spectralRolloff(mags, binHz, rolloffEnergyThreshold)
	profile.Brightness = clamp01(profile.CentroidHz / (float64(win.SampleRate) / 2.0))
	if mainsHz > 0 {
		profile.HumRatio = humRatio(mags, binHz, mainsHz)
	}
	return profile, nil
}

// spectralCentroid computes the magnitude-weighted mean frequency. Returns 0
// when total magnitude is 0.
func spectralCentroid(mags []float64, binHz float64) float64 {
	var weighted, total float64
	for i, m := range mags {
		weighted += float64(i) * binHz * m
		total += m
	}
	if total == 0 {
		return 0
	}
	return weighted / total
}

// spectralRolloff returns the lowest bin frequency at which cumulative
// energy reaches the threshold fraction of total energy. Returns 0 for a
// silent spectrum.
func spectralRolloff(mags []float64, binHz, threshold float64) float64 {
	total := 0.0
	for _, m := range mags {
		total += m * m
	}
	if total == 0 {
		return 0
	}
	target := threshold * total
	cumulative := 0.0
	for i, m := range mags {
		cumulative += m * m
		if cumulative >= target {
			return float64(i) * binHz
		}
	}
	return float64(len(mags)-1) * binHz
}

// humRatio measures the share of spectral magnitude sitting on the mains
// fundamental and its first few harmonics.
func humRatio(mags []float64, binHz, mainsHz float64) float64 {
	total := 0.0
	for _, m := range mags {
		total += m
	}
	if total == 0 {
		return 0
	}

	hum := 0.0
	counted := make(map[int]bool)
	for h := 1; h <= humHarmonics; h++ {
		centre := int(math.Round(mainsHz * float64(h) / binHz))
		for b := centre - humBinNeighbors; b <= centre+humBinNeighbors; b++ {
			if b < 0 || b >= len(mags) || counted[b] {
				continue
			}
			counted[b] = true
			hum += mags[b]
		}
	}
	return clamp01(hum / total)
}

// hannWindow returns the Hann weighting used before each FFT to reduce
// spectral leakage.
func hannWindow(size int) []float64 {
	w := make([]float64, size)
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(size-1)))
	}
	return w
}
