package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ethnogram/ethnogram/internal/engine"
)

// renderAnalysisView renders the main analysis view.
func renderAnalysisView(m Model) string {
	var b strings.Builder

	b.WriteString(renderHeader(m))
	b.WriteString("\n\n")

	b.WriteString(renderFileQueue(m))
	b.WriteString("\n\n")

	b.WriteString(renderOverallProgress(m))

	return b.String()
}

// renderHeader renders the application header.
func renderHeader(m Model) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#2E8B57")).
		Render("Ethnogram 🌍 - Musical Tradition Analyzer")

	subtitle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		Italic(true).
		Render(fmt.Sprintf("Analyzing %d file(s)", m.TotalFiles))

	return title + "\n" + subtitle
}

// renderFileQueue renders the list of files with their status.
func renderFileQueue(m Model) string {
	var b strings.Builder

	for i, file := range m.Files {
		b.WriteString(renderFileEntry(file, i, m.CurrentIndex))
		b.WriteString("\n")
	}

	return b.String()
}

// renderFileEntry renders a single file entry in the queue.
func renderFileEntry(file FileProgress, index int, currentIndex int) string {
	fileName := filepath.Base(file.InputPath)

	switch file.Status {
	case StatusComplete:
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#00AA00")).Render("✓")
		return fmt.Sprintf(" %s %s\n   %s", icon, fileName, resultSummary(file.Result))

	case StatusAnalyzing:
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500")).Render("⚙")
		return fmt.Sprintf(" %s %s\n%s", icon, fileName, renderFileDetails(file))

	case StatusCancelled:
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Render("◌")
		return fmt.Sprintf(" %s %s\n   Cancelled", icon, fileName)

	case StatusError:
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#A40000")).Render("✗")
		return fmt.Sprintf(" %s %s\n   Error: %v", icon, fileName, file.Err)

	default:
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Render("○")
		return fmt.Sprintf(" %s %s\n   Queued...", icon, fileName)
	}
}

// renderFileDetails renders detailed progress for the active file.
func renderFileDetails(file FileProgress) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#2E8B57")).
		Padding(0, 1).
		Width(60)

	var content strings.Builder

	content.WriteString(fmt.Sprintf("Stage: %s\n", file.Stage))
	content.WriteString(renderProgressBar(file.Progress, 40))
	content.WriteString("\n\n")

	elapsed := file.ElapsedTime.Seconds()
	var remaining float64
	if file.Progress > 0 {
		remaining = (elapsed / file.Progress) - elapsed
	}
	content.WriteString(fmt.Sprintf("⏱  Elapsed: %.1fs | Remaining: ~%.1fs", elapsed, remaining))

	return box.Render(content.String())
}

// renderProgressBar renders a progress bar.
func renderProgressBar(progress float64, width int) string {
	filled := int(progress * float64(width))
	empty := width - filled

	bar := strings.Repeat("█", filled) + strings.Repeat("░", empty)
	percentage := int(progress * 100)

	return fmt.Sprintf("%s %d%%", bar, percentage)
}

// renderOverallProgress renders the overall progress footer.
func renderOverallProgress(m Model) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#888888")).
		Padding(0, 1).
		Width(60)

	var content string
	if m.CurrentIndex >= 0 && m.CurrentIndex < len(m.Files) {
		currentFile := m.CurrentIndex + 1 // 1-indexed for display
		content = fmt.Sprintf("Analyzing file %d of %d (%d complete)",
			currentFile, m.TotalFiles, m.CompletedFiles)
	} else {
		content = fmt.Sprintf("Overall Progress: %d/%d complete", m.CompletedFiles, m.TotalFiles)
	}

	return box.Render(content)
}

// renderCompletionSummary renders the final completion summary.
func renderCompletionSummary(m Model) string {
	var b strings.Builder

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00AA00")).
		Render("✨ Analysis Complete!")
	b.WriteString(header)
	b.WriteString("\n\n")

	for _, file := range m.Files {
		if file.Status == StatusComplete && file.Result != nil {
			b.WriteString(renderCompletedFile(file))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", 60))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%d of %d file(s) analysed", m.CompletedFiles, m.TotalFiles))
	if m.FailedFiles > 0 {
		b.WriteString(fmt.Sprintf(", %d failed", m.FailedFiles))
	}
	b.WriteString("\nSimilarity scores are heuristic hints, not identifications.\n")

	return b.String()
}

// renderCompletedFile renders a summary for a completed file.
func renderCompletedFile(file FileProgress) string {
	fileName := filepath.Base(file.InputPath)
	icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#00AA00")).Render("✓")

	var b strings.Builder
	fmt.Fprintf(&b, " %s %s\n   %s\n", icon, fileName, resultSummary(file.Result))

	res := file.Result
	if len(res.Similarity) > 0 {
		fmt.Fprintf(&b, "   Closest traditions:\n")
		for i, s := range res.Similarity {
			fmt.Fprintf(&b, "     %d. %s (%s) — %d pts\n", i+1, s.Name, s.Region, s.Points)
		}
	} else {
		fmt.Fprintf(&b, "   No tradition scored above zero.\n")
	}

	return b.String()
}

// resultSummary condenses a completed result into one line.
func resultSummary(res *engine.Result) string {
	if res == nil {
		return "no result"
	}

	tempo := "no tempo"
	if res.Rhythm.Tempo > 0 {
		tempo = fmt.Sprintf("%.0f BPM", res.Rhythm.Tempo)
	}

	scale := res.Scale.ScaleName
	if res.Scale.TonicName != "" {
		scale = fmt.Sprintf("%s in %s", res.Scale.ScaleName, res.Scale.TonicName)
	}

	top := "no match"
	if len(res.Similarity) > 0 {
		top = fmt.Sprintf("%s (%d pts)", res.Similarity[0].Name, res.Similarity[0].Points)
	}

	return fmt.Sprintf("%s | %s | Top: %s", tempo, scale, top)
}
