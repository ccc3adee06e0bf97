package logging

import (
	"strings"
	"testing"

	"github.com/ethnogram/ethnogram/internal/analysis"
	"github.com/ethnogram/ethnogram/internal/engine"
)

// healthyResult builds a completed result that should trigger no tips.
func healthyResult() *engine.Result {
	pitch := make(analysis.PitchSeries, 20)
	for i := range pitch {
		pitch[i] = analysis.PitchSample{FrequencyHz: 440, TimestampSec: float64(i) * 0.1}
	}
	return &engine.Result{
		Outcome:       engine.OutcomeDone,
		WindowSec:     20.0,
		Rhythm:        analysis.RhythmProfile{Tempo: 120, PeakCount: 20, Regularity: 0.9},
		Pitch:         pitch,
		PitchStats:    analysis.PitchStats{MeanHz: 440, MinHz: 440, MaxHz: 440},
		HasPitchStats: true,
		Spectral:      analysis.SpectralProfile{CentroidHz: 1500, Brightness: 0.2, HumRatio: 0.01},
		Scale:         analysis.ScaleMatch{ScaleName: "Major (Western)", TonicName: "C", Confidence: 0.9},
	}
}

func ruleIDs(tips []RecordingTip) []string {
	ids := make([]string, len(tips))
	for i, tip := range tips {
		ids[i] = tip.RuleID
	}
	return ids
}

func hasRule(tips []RecordingTip, id string) bool {
	for _, tip := range tips {
		if tip.RuleID == id {
			return true
		}
	}
	return false
}

func TestGenerateRecordingTipsHealthy(t *testing.T) {
	tips := GenerateRecordingTips(healthyResult(), 50)
	if len(tips) != 0 {
		t.Errorf("healthy result produced tips: %v", ruleIDs(tips))
	}
}

func TestGenerateRecordingTipsNilAndIncomplete(t *testing.T) {
	if tips := GenerateRecordingTips(nil, 50); tips != nil {
		t.Errorf("nil result produced tips: %v", ruleIDs(tips))
	}
	cancelled := &engine.Result{Outcome: engine.OutcomeCancelled}
	if tips := GenerateRecordingTips(cancelled, 50); tips != nil {
		t.Errorf("cancelled result produced tips: %v", ruleIDs(tips))
	}
}

func TestTipMainsHum(t *testing.T) {
	res := healthyResult()
	res.Spectral.HumRatio = 0.4

	tips := GenerateRecordingTips(res, 50)
	if !hasRule(tips, "mains_hum") {
		t.Fatalf("hum ratio 0.4 did not fire mains_hum: %v", ruleIDs(tips))
	}
	if tips[0].RuleID != "mains_hum" {
		t.Errorf("mains_hum not highest priority: %v", ruleIDs(tips))
	}
	if !strings.Contains(tips[0].Message, "50 Hz") {
		t.Errorf("hum tip does not name the mains frequency: %q", tips[0].Message)
	}

	// Diagnostic disabled: no hum tip regardless of ratio.
	if tips := GenerateRecordingTips(res, 0); hasRule(tips, "mains_hum") {
		t.Error("mains_hum fired with the diagnostic disabled")
	}
}

func TestTipNoOnsets(t *testing.T) {
	res := healthyResult()
	res.Rhythm.PeakCount = 0
	res.Scale.Confidence = 0.2

	tips := GenerateRecordingTips(res, 50)
	if !hasRule(tips, "no_onsets") {
		t.Errorf("zero onsets did not fire no_onsets: %v", ruleIDs(tips))
	}
	// The weak scale fit is implied by the silent clip and suppressed.
	if hasRule(tips, "low_scale_confidence") {
		t.Errorf("low_scale_confidence not suppressed by no_onsets: %v", ruleIDs(tips))
	}
}

func TestTipSparsePitchSuppressesScaleTip(t *testing.T) {
	res := healthyResult()
	res.Pitch = res.Pitch[:3]
	res.Scale.Confidence = 0.3

	tips := GenerateRecordingTips(res, 50)
	if !hasRule(tips, "sparse_pitch") {
		t.Errorf("3-sample series did not fire sparse_pitch: %v", ruleIDs(tips))
	}
	if hasRule(tips, "low_scale_confidence") {
		t.Errorf("low_scale_confidence not suppressed by sparse_pitch: %v", ruleIDs(tips))
	}
}

func TestTipLowScaleConfidence(t *testing.T) {
	res := healthyResult()
	res.Scale.Confidence = 0.3

	tips := GenerateRecordingTips(res, 50)
	if !hasRule(tips, "low_scale_confidence") {
		t.Errorf("confidence 0.3 did not fire low_scale_confidence: %v", ruleIDs(tips))
	}
}

func TestTipShortWindow(t *testing.T) {
	res := healthyResult()
	res.WindowSec = 3.0

	tips := GenerateRecordingTips(res, 50)
	if !hasRule(tips, "short_window") {
		t.Errorf("3s window did not fire short_window: %v", ruleIDs(tips))
	}
}

func TestTipNoiseDominatedSuppressesSparsePitch(t *testing.T) {
	res := healthyResult()
	res.Pitch = nil
	res.HasPitchStats = false
	res.Spectral.Brightness = 0.8

	tips := GenerateRecordingTips(res, 50)
	if !hasRule(tips, "noise_dominated") {
		t.Errorf("bright unpitched clip did not fire noise_dominated: %v", ruleIDs(tips))
	}
	if hasRule(tips, "sparse_pitch") {
		t.Errorf("sparse_pitch not suppressed by noise_dominated: %v", ruleIDs(tips))
	}
}

func TestTipsSortedAndCapped(t *testing.T) {
	res := healthyResult()
	res.Spectral.HumRatio = 0.4
	res.Rhythm.PeakCount = 0
	res.Pitch = nil
	res.HasPitchStats = false
	res.WindowSec = 2.0
	res.Scale.Confidence = 0.0
	res.Spectral.Brightness = 0.9

	tips := GenerateRecordingTips(res, 60)
	if len(tips) > MaxRecordingTips {
		t.Errorf("returned %d tips, cap is %d", len(tips), MaxRecordingTips)
	}
	for i := 1; i < len(tips); i++ {
		if tips[i].Priority > tips[i-1].Priority {
			t.Errorf("tips not sorted by priority: %v", ruleIDs(tips))
			break
		}
	}
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxWidth int
		indent   string
		want     string
	}{
		{"short_fits", "hello world", 40, "  ", "hello world"},
		{"wraps_once", "one two three four", 9, "  ", "one two\n  three\n  four"},
		{"empty", "", 10, "  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrapText(tt.text, tt.maxWidth, tt.indent)
			if got != tt.want {
				t.Errorf("wrapText(%q, %d) = %q, want %q", tt.text, tt.maxWidth, got, tt.want)
			}
		})
	}
}
