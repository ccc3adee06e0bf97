package logging

import (
	"math"
	"strings"
	"testing"
)

func TestFormatMetric(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		decimals int
		want     string
	}{
		{"zero", 0.0, 2, "0.00"},
		{"positive", 3.14159, 2, "3.14"},
		{"negative", -16.5, 1, "-16.5"},
		{"large", 12345.6789, 2, "12345.68"},
		{"small_normal", 0.001, 3, "0.001"},
		{"very_small_scientific", 0.00001, 2, "1.00e-05"},
		{"very_small_negative", -0.00001, 2, "-1.00e-05"},
		{"nan", math.NaN(), 2, MissingValue},
		{"positive_inf", math.Inf(1), 2, MissingValue},
		{"negative_inf", math.Inf(-1), 2, MissingValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatMetric(tt.value, tt.decimals)
			if got != tt.want {
				t.Errorf("formatMetric(%v, %d) = %q, want %q", tt.value, tt.decimals, got, tt.want)
			}
		})
	}
}

func TestFormatMetricSpectral(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		silent bool
		want   string
	}{
		{"normal", 1234.5, false, "1234"},
		{"silent", 1234.5, true, SilentValue},
		{"silent_zero", 0.0, true, SilentValue},
		{"nan", math.NaN(), false, MissingValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatMetricSpectral(tt.value, 0, tt.silent)
			if got != tt.want {
				t.Errorf("formatMetricSpectral(%v, 0, %v) = %q, want %q", tt.value, tt.silent, got, tt.want)
			}
		})
	}
}

func TestFormatMetricPercent(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		decimals int
		want     string
	}{
		{"half", 0.5, 1, "50.0%"},
		{"full", 1.0, 0, "100%"},
		{"zero", 0.0, 1, "0.0%"},
		{"nan", math.NaN(), 1, MissingValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatMetricPercent(tt.value, tt.decimals)
			if got != tt.want {
				t.Errorf("formatMetricPercent(%v, %d) = %q, want %q", tt.value, tt.decimals, got, tt.want)
			}
		})
	}
}

func TestMetricTableEmpty(t *testing.T) {
	table := NewMetricTable("Value")
	if got := table.String(); got != "" {
		t.Errorf("empty table rendered %q, want empty string", got)
	}
}

func TestMetricTableAlignment(t *testing.T) {
	table := NewMetricTable("Value")
	table.AddMetricRow("Tempo", 120.0, 1, "BPM", "walking pace")
	table.AddMetricRow("Regularity", 0.95, 2, "", "")
	table.AddMetricRow("Missing", math.NaN(), 1, "Hz", "")

	out := table.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 { // header + 3 rows
		t.Fatalf("rendered %d lines, want 4:\n%s", len(lines), out)
	}

	if !strings.Contains(lines[0], "Value") {
		t.Errorf("header line missing column name: %q", lines[0])
	}
	if !strings.Contains(lines[0], "Interpretation") {
		t.Errorf("header line missing interpretation column: %q", lines[0])
	}
	if !strings.Contains(lines[1], "120.0") || !strings.Contains(lines[1], "BPM") {
		t.Errorf("tempo row malformed: %q", lines[1])
	}
	if !strings.Contains(lines[1], "walking pace") {
		t.Errorf("tempo row missing interpretation: %q", lines[1])
	}
	if !strings.Contains(lines[3], MissingValue) {
		t.Errorf("NaN row did not render the missing placeholder: %q", lines[3])
	}

	// Labels are left-aligned at column zero.
	for i, prefix := range []string{"Tempo", "Regularity", "Missing"} {
		if !strings.HasPrefix(lines[i+1], prefix) {
			t.Errorf("row %d does not start with its label: %q", i+1, lines[i+1])
		}
	}
}

func TestMetricTableNoInterpretation(t *testing.T) {
	table := NewMetricTable("Value")
	table.AddMetricRow("Onsets", 17, 0, "", "")

	out := table.String()
	if strings.Contains(out, "Interpretation") {
		t.Errorf("table without interpretations shows the column header:\n%s", out)
	}
}

func TestMetricTableMissingValues(t *testing.T) {
	table := NewMetricTable("A", "B")
	table.AddRow("Partial", []string{"1.0"}, "", "")

	out := table.String()
	if !strings.Contains(out, MissingValue) {
		t.Errorf("short value slice did not pad with placeholder:\n%s", out)
	}
}
