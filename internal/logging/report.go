// Analysis report generation. A report is a plain-text file written next
// to the input clip, structured as aligned metric tables with short
// interpretations so the numbers can be read without a reference manual.

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethnogram/ethnogram/internal/audio"
	"github.com/ethnogram/ethnogram/internal/engine"
)

// ============================================================================
// Feature Interpretation Functions
// ============================================================================
// These functions turn extracted feature values into human-readable
// characterisations. Thresholds follow common music-information-retrieval
// conventions, not hard standards.

// interpretTempo describes the tempo band in conventional terms.
func interpretTempo(bpm float64) string {
	switch {
	case bpm <= 0:
		return "no stable pulse detected"
	case bpm < 66:
		return "slow (adagio range)"
	case bpm < 96:
		return "moderate (andante range)"
	case bpm < 126:
		return "walking to brisk (moderato-allegro)"
	case bpm < 170:
		return "fast (allegro-vivace)"
	default:
		return "very fast (presto range)"
	}
}

// interpretRegularity describes how even the pulse is.
// 1.0 means metronomic inter-onset gaps; 0 means no consistent spacing.
func interpretRegularity(r float64) string {
	switch {
	case r > 0.9:
		return "metronomic, strict pulse"
	case r > 0.7:
		return "steady with natural variation"
	case r > 0.4:
		return "loose, rubato-like timing"
	default:
		return "free or unpulsed"
	}
}

// interpretComplexity describes the IOI-entropy based temporal complexity.
// Low values mean one dominant gap duration; high values mean many.
func interpretComplexity(c float64) string {
	switch {
	case c < 0.2:
		return "single dominant rhythmic figure"
	case c < 0.5:
		return "a few recurring figures"
	case c < 0.8:
		return "rhythmically varied"
	default:
		return "highly varied, near-random gaps"
	}
}

// interpretCentroid describes spectral "brightness" by where energy sits.
// Music ranges run wider than speech: a solo cello and a cymbal-heavy
// ensemble bracket the scale.
func interpretCentroid(hz float64) string {
	switch {
	case hz <= 0:
		return "silent window"
	case hz < 500:
		return "very dark, bass-dominated"
	case hz < 1500:
		return "warm, low-mid weighted"
	case hz < 3000:
		return "balanced"
	case hz < 6000:
		return "bright"
	default:
		return "very bright, percussive or noisy"
	}
}

// interpretHum describes the mains-hum diagnostic ratio: the share of
// spectral energy at the mains fundamental and its first harmonics.
func interpretHum(ratio float64) string {
	switch {
	case ratio < 0.02:
		return "no audible hum expected"
	case ratio < 0.1:
		return "slight hum, likely masked"
	case ratio < 0.3:
		return "noticeable mains hum"
	default:
		return "strong hum, consider a notch filter"
	}
}

// interpretConfidence describes a scale-fit confidence value.
func interpretConfidence(c float64) string {
	switch {
	case c >= 0.9:
		return "strong fit"
	case c >= 0.7:
		return "good fit"
	case c >= 0.5:
		return "plausible fit"
	case c > 0:
		return "weak fit, treat as a hint"
	default:
		return "no fit"
	}
}

// ============================================================================
// Report Generation
// ============================================================================

// ReportData contains everything needed to generate an analysis report.
type ReportData struct {
	InputPath string
	Metadata  *audio.Metadata
	StartTime time.Time
	EndTime   time.Time
	MainsHz   float64 // 0 when the hum diagnostic was disabled
	Result    *engine.Result
}

// GenerateReport writes a detailed analysis report next to the input file
// and returns its path. The report filename is <input>-analysis.log.
func GenerateReport(data ReportData) (string, error) {
	base := strings.TrimSuffix(data.InputPath, filepath.Ext(data.InputPath))
	logPath := base + "-analysis.log"

	f, err := os.Create(logPath)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	WriteReport(f, data)
	return logPath, nil
}

// WriteReport renders the full report to w. Split from GenerateReport so
// the same rendering serves file reports and terminal output.
func WriteReport(w io.Writer, data ReportData) {
	writeReportHeader(w, data)

	res := data.Result
	if res == nil {
		fmt.Fprintln(w, "No analysis result available.")
		return
	}
	if res.Outcome != engine.OutcomeDone {
		fmt.Fprintf(w, "Analysis outcome: %s — no results to report.\n", res.Outcome)
		return
	}

	writeTimingSummary(w, data)
	writeRhythmSection(w, res)
	writePitchSection(w, res)
	writeSpectralSection(w, res, data.MainsHz)
	writeScaleSection(w, res)
	writeSimilaritySection(w, res)
}

func writeSection(w io.Writer, title string) {
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("-", len(title)))
}

func writeReportHeader(w io.Writer, data ReportData) {
	fmt.Fprintln(w, "ETHNOGRAM ANALYSIS REPORT")
	fmt.Fprintln(w, strings.Repeat("=", 25))
	fmt.Fprintf(w, "Input:     %s\n", data.InputPath)
	if data.Metadata != nil {
		fmt.Fprintf(w, "Format:    %d Hz, %s, %d-bit, %s\n",
			data.Metadata.SampleRate,
			channelName(data.Metadata.Channels),
			data.Metadata.BitDepth,
			formatClipDuration(data.Metadata.Duration))
	}
	fmt.Fprintf(w, "Generated: %s\n\n", data.EndTime.Format("2006-01-02 15:04:05"))
}

func writeTimingSummary(w io.Writer, data ReportData) {
	writeSection(w, "Analysis Summary")
	res := data.Result
	fmt.Fprintf(w, "Window analysed: %.1f s\n", res.WindowSec)
	for _, t := range res.Timings {
		fmt.Fprintf(w, "  %-14s %s\n", t.Stage.String()+":", formatDuration(t.Elapsed))
	}
	fmt.Fprintf(w, "Total: %s\n\n", formatDuration(res.Elapsed))
}

func writeRhythmSection(w io.Writer, res *engine.Result) {
	writeSection(w, "Rhythm")
	r := res.Rhythm

	table := NewMetricTable("Value")
	table.AddMetricRow("Tempo", r.Tempo, 1, "BPM", interpretTempo(r.Tempo))
	table.AddMetricRow("Onsets", float64(r.PeakCount), 0, "", "")
	table.AddMetricRow("Regularity", r.Regularity, 2, "", interpretRegularity(r.Regularity))
	table.AddMetricRow("IOI entropy", r.Entropy, 2, "bits", "")
	table.AddMetricRow("Complexity", r.TemporalComplexity, 2, "", interpretComplexity(r.TemporalComplexity))
	table.AddRow("Percussiveness", []string{formatMetricPercent(r.Percussiveness, 1)}, "", "")
	fmt.Fprint(w, table.String())

	if r.Polyrhythmic {
		fmt.Fprintf(w, "Polyrhythm:  yes (%s)\n", r.PolyrhythmRatio)
	} else {
		fmt.Fprintln(w, "Polyrhythm:  not detected")
	}
	fmt.Fprintln(w)
}

func writePitchSection(w io.Writer, res *engine.Result) {
	writeSection(w, "Pitch")

	if !res.HasPitchStats {
		fmt.Fprintln(w, "No confident pitches detected; aggregates are N/A.")
		fmt.Fprintln(w)
		return
	}

	stats := res.PitchStats
	table := NewMetricTable("Value")
	table.AddMetricRow("Samples", float64(len(res.Pitch)), 0, "", "")
	table.AddMetricRow("Mean F0", stats.MeanHz, 1, "Hz", "")
	table.AddMetricRow("Min F0", stats.MinHz, 1, "Hz", "")
	table.AddMetricRow("Max F0", stats.MaxHz, 1, "Hz", "")
	table.AddMetricRow("Std dev", stats.StdDevHz, 1, "Hz", "")
	fmt.Fprint(w, table.String())

	if note := res.Pitch.MostCommonNote(); note != "" {
		fmt.Fprintf(w, "Most common note: %s\n", note)
	}
	fmt.Fprintln(w)
}

func writeSpectralSection(w io.Writer, res *engine.Result, mainsHz float64) {
	writeSection(w, "Spectrum")
	sp := res.Spectral
	silent := sp.CentroidHz == 0 && sp.RolloffHz == 0

	table := NewMetricTable("Value")
	table.AddRow("Centroid", []string{formatMetricSpectral(sp.CentroidHz, 0, silent)}, "Hz", interpretCentroid(sp.CentroidHz))
	table.AddRow("Rolloff (85%)", []string{formatMetricSpectral(sp.RolloffHz, 0, silent)}, "Hz", "")
	table.AddRow("Brightness", []string{formatMetricSpectral(sp.Brightness, 3, silent)}, "", "")
	table.AddMetricRow("Frames", float64(sp.FrameCount), 0, "", "")
	fmt.Fprint(w, table.String())

	if mainsHz > 0 && !silent {
		fmt.Fprintf(w, "Mains hum (%.0f Hz): %s — %s\n",
			mainsHz, formatMetricPercent(sp.HumRatio, 1), interpretHum(sp.HumRatio))
	}
	fmt.Fprintln(w)
}

func writeScaleSection(w io.Writer, res *engine.Result) {
	writeSection(w, "Scale")
	sc := res.Scale
	if sc.TonicName != "" {
		fmt.Fprintf(w, "Best fit:    %s, tonic %s\n", sc.ScaleName, sc.TonicName)
	} else {
		fmt.Fprintf(w, "Best fit:    %s\n", sc.ScaleName)
	}
	fmt.Fprintf(w, "Confidence:  %.2f (%s)\n\n", sc.Confidence, interpretConfidence(sc.Confidence))
}

func writeSimilaritySection(w io.Writer, res *engine.Result) {
	writeSection(w, "Tradition Similarity")
	if len(res.Similarity) == 0 {
		fmt.Fprintln(w, "No tradition scored above zero for this clip.")
		fmt.Fprintln(w)
		return
	}

	for i, s := range res.Similarity {
		fmt.Fprintf(w, "%d. %s (%s) — %d points\n", i+1, s.Name, s.Region, s.Points)
		for _, reason := range s.Reasons {
			fmt.Fprintf(w, "     • %s\n", reason)
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Scores are heuristic similarity hints, not identifications.")
}

// formatDuration renders a stage duration at millisecond resolution.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%d ms", d.Milliseconds())
	}
	return fmt.Sprintf("%.2f s", d.Seconds())
}

// formatClipDuration renders a clip length as m:ss.
func formatClipDuration(seconds float64) string {
	mins := int(seconds) / 60
	secs := seconds - float64(mins*60)
	return fmt.Sprintf("%d:%04.1f", mins, secs)
}

func channelName(channels int) string {
	switch channels {
	case 1:
		return "mono"
	case 2:
		return "stereo"
	default:
		return fmt.Sprintf("%d channels", channels)
	}
}
