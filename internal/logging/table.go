// Package logging generates plain-text analysis reports for analysed audio
// files. This file contains reusable table formatting infrastructure for
// aligned metric tables.

package logging

import (
	"fmt"
	"math"
	"strings"
)

// MetricRow represents a single row in a metric table.
// Values are pre-formatted strings to allow for mixed formatting
// (decimals, scientific notation).
type MetricRow struct {
	Label          string   // Row label, e.g., "Tempo"
	Values         []string // One value per column
	Unit           string   // Unit suffix, e.g., "BPM", "Hz", "" for unitless
	Interpretation string   // Optional interpretation text (only shown if non-empty)
}

// MetricTable formats aligned columns for metric display.
// Handles variable column widths, missing values, and an optional
// interpretation column.
type MetricTable struct {
	Headers []string
	Rows    []MetricRow
}

// NewMetricTable creates a MetricTable with the given column headers.
func NewMetricTable(headers ...string) *MetricTable {
	return &MetricTable{
		Headers: headers,
		Rows:    make([]MetricRow, 0),
	}
}

// AddRow adds a row with pre-formatted values.
func (t *MetricTable) AddRow(label string, values []string, unit string, interpretation string) {
	t.Rows = append(t.Rows, MetricRow{
		Label:          label,
		Values:         values,
		Unit:           unit,
		Interpretation: interpretation,
	})
}

// AddMetricRow adds a single-value row, formatting the number automatically.
// Pass math.NaN() for a missing value - it will display as "-".
func (t *MetricTable) AddMetricRow(label string, value float64, decimals int, unit string, interpretation string) {
	t.Rows = append(t.Rows, MetricRow{
		Label:          label,
		Values:         []string{formatMetric(value, decimals)},
		Unit:           unit,
		Interpretation: interpretation,
	})
}

// String renders the table with aligned columns.
// - Labels are left-aligned
// - Values are right-aligned within their column
// - Units are appended after the last value column
// - Interpretation column only shown if any row has one
func (t *MetricTable) String() string {
	if len(t.Rows) == 0 {
		return ""
	}

	hasInterpretation := false
	for _, row := range t.Rows {
		if row.Interpretation != "" {
			hasInterpretation = true
			break
		}
	}

	labelWidth := 0
	for _, row := range t.Rows {
		if len(row.Label) > labelWidth {
			labelWidth = len(row.Label)
		}
	}

	// Value column widths, seeded from the header widths
	valueWidths := make([]int, len(t.Headers))
	for i, header := range t.Headers {
		valueWidths[i] = len(header)
	}
	for _, row := range t.Rows {
		for i, val := range row.Values {
			if i < len(valueWidths) && len(val) > valueWidths[i] {
				valueWidths[i] = len(val)
			}
		}
	}

	unitWidth := 0
	for _, row := range t.Rows {
		if len(row.Unit) > unitWidth {
			unitWidth = len(row.Unit)
		}
	}

	var sb strings.Builder

	// Header row, skipped entirely when every header is blank
	showHeaders := false
	for _, h := range t.Headers {
		if h != "" {
			showHeaders = true
			break
		}
	}
	if showHeaders {
		sb.WriteString(strings.Repeat(" ", labelWidth+2))
		for i, header := range t.Headers {
			sb.WriteString(fmt.Sprintf("%*s  ", valueWidths[i], header))
		}
		if unitWidth > 0 {
			sb.WriteString(strings.Repeat(" ", unitWidth+1))
		}
		if hasInterpretation {
			sb.WriteString("Interpretation")
		}
		sb.WriteString("\n")
	}

	for _, row := range t.Rows {
		sb.WriteString(fmt.Sprintf("%-*s  ", labelWidth, row.Label))

		for i := 0; i < len(t.Headers); i++ {
			val := MissingValue
			if i < len(row.Values) && row.Values[i] != "" {
				val = row.Values[i]
			}
			sb.WriteString(fmt.Sprintf("%*s  ", valueWidths[i], val))
		}

		if unitWidth > 0 {
			sb.WriteString(fmt.Sprintf("%-*s ", unitWidth, row.Unit))
		}

		if hasInterpretation {
			sb.WriteString(row.Interpretation)
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

// MissingValue is the placeholder for unavailable measurements.
const MissingValue = "-"

// formatMetric formats a numeric value with appropriate precision.
// Handles:
// - Regular floats: formatted to specified decimal places
// - Very small values (< 0.0001): scientific notation
// - NaN/Inf: returns MissingValue
func formatMetric(value float64, decimals int) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return MissingValue
	}

	if value != 0 && math.Abs(value) < 0.0001 {
		return fmt.Sprintf("%.2e", value)
	}

	format := fmt.Sprintf("%%.%df", decimals)
	return fmt.Sprintf(format, value)
}

// SilentValue is the placeholder for spectral metrics on a silent window.
// There is no spectrum to describe.
const SilentValue = "n/a"

// formatMetricSpectral formats a spectral metric, substituting SilentValue
// when the window carried no energy.
func formatMetricSpectral(value float64, decimals int, silent bool) string {
	if silent {
		return SilentValue
	}
	return formatMetric(value, decimals)
}

// formatMetricPercent renders a [0,1] fraction as a percentage.
func formatMetricPercent(value float64, decimals int) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return MissingValue
	}
	format := fmt.Sprintf("%%.%df%%%%", decimals)
	return fmt.Sprintf(format, value*100)
}
