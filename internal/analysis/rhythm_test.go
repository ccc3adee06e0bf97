package analysis

import (
	"math"
	"testing"

	"github.com/ethnogram/ethnogram/internal/audio"
)

const testSampleRate = 44100

// makeClickTrack synthesises a window with short tone bursts at fixed
// spacing over a quiet floor.
func makeClickTrack(durationSec, spacingSec float64) *audio.Window {
	samples := make([]float64, int(durationSec*testSampleRate))
	clickLen := int(0.010 * testSampleRate) // 10ms bursts
	for start := 0; start < len(samples); start += int(spacingSec * testSampleRate) {
		for i := 0; i < clickLen && start+i < len(samples); i++ {
			samples[start+i] = 0.9 * math.Sin(2*math.Pi*1000*float64(i)/testSampleRate)
		}
	}
	return &audio.Window{Samples: samples, SampleRate: testSampleRate}
}

func TestAnalyzeRhythmSilence(t *testing.T) {
	tests := []struct {
		name    string
		samples []float64
		desc    string
	}{
		{
			name:    "digital silence",
			samples: make([]float64, testSampleRate*2),
			desc:    "all-zero input must default, not fail",
		},
		{
			name: "constant DC offset",
			samples: func() []float64 {
				s := make([]float64, testSampleRate*2)
				for i := range s {
					s[i] = 0.5
				}
				return s
			}(),
			desc: "constant signal has no onsets",
		},
		{
			name:    "too short for a single frame",
			samples: make([]float64, 100),
			desc:    "sub-frame windows default cleanly",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			win := &audio.Window{Samples: tt.samples, SampleRate: testSampleRate}
			profile := AnalyzeRhythm(win)

			if profile.Tempo != 0 {
				t.Errorf("Tempo = %v, want 0 [%s]", profile.Tempo, tt.desc)
			}
			if profile.Regularity != 0 {
				t.Errorf("Regularity = %v, want 0 [%s]", profile.Regularity, tt.desc)
			}
			if profile.Polyrhythmic {
				t.Errorf("Polyrhythmic = true, want false [%s]", tt.desc)
			}
		})
	}
}

func TestAnalyzeRhythmClickTrack(t *testing.T) {
	// Clicks every 500ms for 10s: 120 BPM, near-perfect regularity.
	win := makeClickTrack(10.0, 0.5)
	profile := AnalyzeRhythm(win)

	if profile.PeakCount < 15 || profile.PeakCount > 21 {
		t.Errorf("PeakCount = %d, want ~20 for a 10s/500ms click track", profile.PeakCount)
	}
	if profile.Tempo < 115 || profile.Tempo > 125 {
		t.Errorf("Tempo = %.1f BPM, want ~120", profile.Tempo)
	}
	if profile.Regularity < 0.9 {
		t.Errorf("Regularity = %.3f, want > 0.9 for even clicks", profile.Regularity)
	}
	if profile.TemporalComplexity > 0.2 {
		t.Errorf("TemporalComplexity = %.3f, want near 0 for a single IOI bucket", profile.TemporalComplexity)
	}
	if profile.Polyrhythmic {
		t.Error("Polyrhythmic = true, want false for an even pulse")
	}
}

func TestTempoFromIOIs(t *testing.T) {
	tests := []struct {
		name string
		iois []float64
		want float64
		desc string
	}{
		{
			name: "500ms spacing",
			iois: []float64{500, 500, 500, 500},
			want: 120,
			desc: "60000/500 = 120 BPM",
		},
		{
			name: "median rejects one outlier",
			iois: []float64{500, 500, 500, 1500, 500},
			want: 120,
			desc: "a missed onset doubles one IOI but not the median",
		},
		{
			name: "clamped at slow end",
			iois: []float64{2000, 2000, 2000},
			want: tempoMinBPM,
			desc: "30 BPM raw clamps to 40",
		},
		{
			name: "clamped at fast end",
			iois: []float64{200, 200, 200},
			want: tempoMaxBPM,
			desc: "300 BPM raw clamps to 220",
		},
		{
			name: "no intervals",
			iois: nil,
			want: 0,
			desc: "fewer than two onsets yields tempo 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tempoFromIOIs(tt.iois); got != tt.want {
				t.Errorf("tempoFromIOIs() = %v, want %v [%s]", got, tt.want, tt.desc)
			}
		})
	}
}

func TestRegularityFromIOIs(t *testing.T) {
	tests := []struct {
		name    string
		iois    []float64
		wantMin float64
		wantMax float64
		desc    string
	}{
		{
			name:    "all equal",
			iois:    []float64{500, 500, 500, 500},
			wantMin: 1.0,
			wantMax: 1.0,
			desc:    "zero variation is perfect regularity",
		},
		{
			name:    "mild jitter",
			iois:    []float64{490, 510, 495, 505},
			wantMin: 0.97,
			wantMax: 1.0,
			desc:    "small jitter stays close to 1",
		},
		{
			name:    "erratic",
			iois:    []float64{100, 900, 150, 1200},
			wantMin: 0.0,
			wantMax: 0.5,
			desc:    "wild spacing collapses towards 0",
		},
		{
			name:    "empty",
			iois:    nil,
			wantMin: 0.0,
			wantMax: 0.0,
			desc:    "no intervals defaults to 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := regularityFromIOIs(tt.iois)
			if got < tt.wantMin || got > tt.wantMax {
				t.Errorf("regularityFromIOIs() = %v, want [%v, %v] [%s]", got, tt.wantMin, tt.wantMax, tt.desc)
			}
		})
	}
}

func TestIOIsFromOnsets(t *testing.T) {
	// Onsets at exact 500ms spacing at 44.1kHz.
	onsets := []int{0, 22050, 44100, 66150}
	iois := ioisFromOnsets(onsets, testSampleRate)

	if len(iois) != 3 {
		t.Fatalf("got %d IOIs, want 3", len(iois))
	}
	for i, ioi := range iois {
		if math.Abs(ioi-500.0) > 1e-9 {
			t.Errorf("IOI[%d] = %v ms, want 500", i, ioi)
		}
	}
	if tempo := tempoFromIOIs(iois); tempo != 120 {
		t.Errorf("tempo = %v, want exactly 120 BPM", tempo)
	}
	if reg := regularityFromIOIs(iois); reg != 1.0 {
		t.Errorf("regularity = %v, want exactly 1.0", reg)
	}

	if got := ioisFromOnsets([]int{100}, testSampleRate); got != nil {
		t.Errorf("single onset should yield nil IOIs, got %v", got)
	}
}

func TestHistogramEntropy(t *testing.T) {
	single := make([]int, ioiBucketCount)
	single[4] = 10
	if got := histogramEntropy(single); got != 0 {
		t.Errorf("single-bucket entropy = %v, want 0", got)
	}

	uniform := make([]int, ioiBucketCount)
	uniform[1], uniform[3], uniform[5], uniform[7] = 5, 5, 5, 5
	if got := histogramEntropy(uniform); math.Abs(got-2.0) > 1e-9 {
		t.Errorf("four equal buckets entropy = %v, want 2 bits", got)
	}

	if got := histogramEntropy(make([]int, ioiBucketCount)); got != 0 {
		t.Errorf("empty histogram entropy = %v, want 0", got)
	}
}

func TestDetectPolyrhythm(t *testing.T) {
	tests := []struct {
		name      string
		buckets   map[int]int
		wantPoly  bool
		wantRatio string
		desc      string
	}{
		{
			name:      "three against two",
			buckets:   map[int]int{6: 10, 10: 8}, // centres 390ms and 630ms, ratio 1.62
			wantPoly:  true,
			wantRatio: "3:2",
			desc:      "dominant buckets near a 3:2 relation",
		},
		{
			name:      "double time",
			buckets:   map[int]int{5: 12, 11: 9}, // centres 330ms and 690ms, ratio 2.09
			wantPoly:  true,
			wantRatio: "2:1",
			desc:      "octave-spaced IOIs read as 2:1",
		},
		{
			name:     "single bucket",
			buckets:  map[int]int{8: 20},
			wantPoly: false,
			desc:     "a lone IOI bucket cannot be polyrhythmic",
		},
		{
			name:     "unrelated buckets",
			buckets:  map[int]int{3: 10, 20: 10}, // centres 210ms and 1230ms, ratio 5.86
			wantPoly: false,
			desc:     "no simple ratio fits",
		},
		{
			name:     "empty",
			buckets:  nil,
			wantPoly: false,
			desc:     "no data, no flag",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hist := make([]int, ioiBucketCount)
			for b, c := range tt.buckets {
				hist[b] = c
			}
			poly, ratio := detectPolyrhythm(hist)
			if poly != tt.wantPoly {
				t.Errorf("polyrhythmic = %v, want %v [%s]", poly, tt.wantPoly, tt.desc)
			}
			if tt.wantPoly && ratio != tt.wantRatio {
				t.Errorf("ratio = %q, want %q [%s]", ratio, tt.wantRatio, tt.desc)
			}
		})
	}
}

func TestZeroCrossingRate(t *testing.T) {
	alternating := make([]float64, 1000)
	for i := range alternating {
		if i%2 == 0 {
			alternating[i] = 1
		} else {
			alternating[i] = -1
		}
	}
	if got := zeroCrossingRate(alternating); got != 1.0 {
		t.Errorf("alternating signal ZCR = %v, want 1.0", got)
	}

	constant := make([]float64, 1000)
	for i := range constant {
		constant[i] = 0.3
	}
	if got := zeroCrossingRate(constant); got != 0 {
		t.Errorf("constant signal ZCR = %v, want 0", got)
	}

	if got := zeroCrossingRate([]float64{0.5}); got != 0 {
		t.Errorf("single-sample ZCR = %v, want 0", got)
	}
}
