package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ethnogram/ethnogram/internal/audio"
	"github.com/ethnogram/ethnogram/internal/culture"
	"github.com/ethnogram/ethnogram/internal/engine"
)

func TestGenerateReport(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "clip.wav")

	res := healthyResult()
	res.Similarity = []culture.Score{
		{CultureID: "western-classical", Name: "Western Classical", Region: "Europe", Points: 7,
			Reasons: []string{"steady pulse", "major scale family (Major (Western))"}},
	}
	res.Timings = []engine.StageTiming{
		{Stage: engine.StagePreprocess, Elapsed: 2 * time.Millisecond},
		{Stage: engine.StageRhythm, Elapsed: 40 * time.Millisecond},
	}

	logPath, err := GenerateReport(ReportData{
		InputPath: input,
		Metadata:  &audio.Metadata{Duration: 95.5, SampleRate: 44100, Channels: 2, BitDepth: 16},
		StartTime: time.Now(),
		EndTime:   time.Now(),
		MainsHz:   50,
		Result:    res,
	})
	if err != nil {
		t.Fatalf("GenerateReport() error = %v", err)
	}
	if want := filepath.Join(dir, "clip-analysis.log"); logPath != want {
		t.Errorf("report path = %q, want %q", logPath, want)
	}

	raw, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	content := string(raw)

	for _, section := range []string{"Rhythm", "Pitch", "Spectrum", "Scale", "Tradition Similarity"} {
		if !strings.Contains(content, section) {
			t.Errorf("report missing %q section", section)
		}
	}
	if !strings.Contains(content, "120.0") {
		t.Error("report missing tempo value")
	}
	if !strings.Contains(content, "Western Classical") {
		t.Error("report missing similarity entry")
	}
	if !strings.Contains(content, "steady pulse") {
		t.Error("report missing score reasons")
	}
	if !strings.Contains(content, "stereo") {
		t.Error("report missing channel layout")
	}
}

func TestWriteReportNonDoneOutcome(t *testing.T) {
	var b strings.Builder
	WriteReport(&b, ReportData{
		InputPath: "clip.wav",
		EndTime:   time.Now(),
		Result:    &engine.Result{Outcome: engine.OutcomeCancelled},
	})
	if !strings.Contains(b.String(), "cancelled") {
		t.Errorf("cancelled outcome not reported:\n%s", b.String())
	}
	if strings.Contains(b.String(), "Tradition Similarity") {
		t.Error("cancelled report still renders analysis sections")
	}
}

func TestDisplayResultsIncludesTips(t *testing.T) {
	res := healthyResult()
	res.Spectral.HumRatio = 0.4

	var b strings.Builder
	DisplayResults(&b, "clip.wav", nil, res, 50)

	out := b.String()
	if !strings.Contains(out, "Recording Tips") {
		t.Errorf("display output missing tips section:\n%s", out)
	}
	if !strings.Contains(out, "mains hum") {
		t.Errorf("display output missing hum tip:\n%s", out)
	}
}
