package logging

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ethnogram/ethnogram/internal/engine"
)

// RecordingTip represents a single piece of actionable field-recording
// advice derived from the extracted features.
type RecordingTip struct {
	Priority int    // Higher = more important (1-10)
	Message  string // Human-readable advice (1-2 sentences)
	RuleID   string // Identifier for testing/logging (e.g., "mains_hum")
}

// MaxRecordingTips is the maximum number of tips to return.
const MaxRecordingTips = 5

// GenerateRecordingTips inspects a completed analysis and returns
// prioritised suggestions for improving the next field recording.
func GenerateRecordingTips(res *engine.Result, mainsHz float64) []RecordingTip {
	if res == nil || res.Outcome != engine.OutcomeDone {
		return nil
	}

	var tips []RecordingTip
	firedRules := make(map[string]bool)

	rules := []func(*engine.Result, float64) *RecordingTip{
		tipMainsHum,
		tipNoOnsets,
		tipSparsePitch,
		tipLowScaleConfidence,
		tipShortWindow,
		tipNoiseDominated,
	}

	for _, rule := range rules {
		if tip := rule(res, mainsHz); tip != nil {
			tips = append(tips, *tip)
			firedRules[tip.RuleID] = true
		}
	}

	tips = applyExclusions(tips, firedRules)

	sort.Slice(tips, func(i, j int) bool {
		return tips[i].Priority > tips[j].Priority
	})

	if len(tips) > MaxRecordingTips {
		tips = tips[:MaxRecordingTips]
	}

	return tips
}

// applyExclusions removes tips implied by a more specific tip that has
// already fired. A weak scale fit is expected when the melody was barely
// tracked at all, so the broader tip is suppressed.
func applyExclusions(tips []RecordingTip, fired map[string]bool) []RecordingTip {
	var result []RecordingTip
	for _, tip := range tips {
		switch tip.RuleID {
		case "low_scale_confidence":
			if fired["sparse_pitch"] || fired["no_onsets"] {
				continue
			}
		case "sparse_pitch":
			if fired["noise_dominated"] {
				continue
			}
		}
		result = append(result, tip)
	}
	return result
}

// wrapText wraps text at word boundaries to fit within maxWidth columns.
// Continuation lines are prefixed with indent.
func wrapText(text string, maxWidth int, indent string) string {
	words := strings.Fields(text)
	var lines []string
	currentLine := ""

	for _, word := range words {
		if currentLine == "" {
			currentLine = word
		} else if len(currentLine)+1+len(word) <= maxWidth {
			currentLine += " " + word
		} else {
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n"+indent)
}

// tipMainsHum fires when a tenth or more of the spectral energy sits at
// the mains fundamental and its harmonics.
func tipMainsHum(res *engine.Result, mainsHz float64) *RecordingTip {
	if mainsHz <= 0 || res.Spectral.HumRatio < 0.1 {
		return nil
	}
	return &RecordingTip{
		Priority: 9,
		RuleID:   "mains_hum",
		Message: fmt.Sprintf("Strong %.0f Hz mains hum detected (%.0f%% of spectral energy) - "+
			"record on battery power or away from transformers and fluorescent lighting.",
			mainsHz, res.Spectral.HumRatio*100),
	}
}

// tipNoOnsets fires when no sound events were detected at all.
func tipNoOnsets(res *engine.Result, _ float64) *RecordingTip {
	if res.Rhythm.PeakCount > 0 {
		return nil
	}
	return &RecordingTip{
		Priority: 8,
		RuleID:   "no_onsets",
		Message: "No sound events were detected - the recording may be too quiet. " +
			"Raise the recorder gain or move closer to the performers.",
	}
}

// tipSparsePitch fires when hardly any confident pitches were tracked.
func tipSparsePitch(res *engine.Result, _ float64) *RecordingTip {
	if res.HasPitchStats && len(res.Pitch) >= 10 {
		return nil
	}
	return &RecordingTip{
		Priority: 7,
		RuleID:   "sparse_pitch",
		Message: "Very few confident pitches were tracked. Scale identification needs a " +
			"clear melodic line - try capturing a solo passage or placing the microphone nearer the lead instrument.",
	}
}

// tipLowScaleConfidence fires when pitches were tracked but fit no scale
// template well.
func tipLowScaleConfidence(res *engine.Result, _ float64) *RecordingTip {
	if !res.HasPitchStats || res.Scale.Confidence >= 0.5 {
		return nil
	}
	return &RecordingTip{
		Priority: 5,
		RuleID:   "low_scale_confidence",
		Message: "The melody fits no scale template well. This can indicate tuning drift " +
			"across the clip, heterophonic texture, or a tuning system outside the template library.",
	}
}

// tipShortWindow fires for clips too short to characterise rhythm.
func tipShortWindow(res *engine.Result, _ float64) *RecordingTip {
	if res.WindowSec >= 5.0 {
		return nil
	}
	return &RecordingTip{
		Priority: 6,
		RuleID:   "short_window",
		Message: fmt.Sprintf("Only %.1f seconds were analysed. Tempo and regularity estimates "+
			"need at least a few rhythmic cycles - aim for clips of 15 seconds or more.", res.WindowSec),
	}
}

// tipNoiseDominated fires when the spectrum looks broadband-noise-like:
// very bright with essentially no tracked pitch.
func tipNoiseDominated(res *engine.Result, _ float64) *RecordingTip {
	if res.Spectral.Brightness < 0.4 || len(res.Pitch) > 0 {
		return nil
	}
	return &RecordingTip{
		Priority: 8,
		RuleID:   "noise_dominated",
		Message: "The spectrum is noise-dominated with no trackable pitch - check for wind " +
			"on the microphone, handling noise, or heavy background ambience.",
	}
}
