// Package ui provides the Bubbletea terminal user interface for ethnogram.
package ui

import (
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/ethnogram/ethnogram/internal/engine"
)

var log = newDiscardLogger()

func newDiscardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// SetLogger routes UI debug logging to the given logger. The default
// discards everything.
func SetLogger(l *logrus.Logger) {
	if l != nil {
		log = l
	}
}

// FileStatus represents the analysis state of a single file.
type FileStatus int

const (
	StatusQueued FileStatus = iota
	StatusAnalyzing
	StatusComplete
	StatusCancelled
	StatusError
)

// FileProgress tracks one queued audio file through the pipeline.
type FileProgress struct {
	InputPath string
	Status    FileStatus

	// Stage tracking
	Stage    engine.Stage
	Progress float64 // 0.0 to 1.0

	StartTime   time.Time
	ElapsedTime time.Duration

	// Populated on completion
	Result *engine.Result
	Err    error
}

// Model is the Bubbletea model for the analysis UI.
type Model struct {
	Files          []FileProgress
	CurrentIndex   int
	TotalFiles     int
	CompletedFiles int
	FailedFiles    int

	StartTime time.Time
	Done      bool

	// Channel for receiving progress updates from the analysis worker
	ProgressChan chan tea.Msg

	Width  int
	Height int
}

// NewModel creates a UI model for the given input files.
func NewModel(inputFiles []string) Model {
	files := make([]FileProgress, len(inputFiles))
	for i, path := range inputFiles {
		files[i] = FileProgress{
			InputPath: path,
			Status:    StatusQueued,
		}
	}

	return Model{
		Files:        files,
		CurrentIndex: -1, // no file analysing yet
		TotalFiles:   len(inputFiles),
		StartTime:    time.Now(),
		ProgressChan: make(chan tea.Msg, 100),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return waitForProgress(m.ProgressChan)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		log.Debugf("window size: %dx%d", m.Width, m.Height)

	case ProgressMsg:
		log.Debugf("progress: stage %s, %.0f%%", msg.Stage, msg.Done*100)
		if m.CurrentIndex >= 0 && m.CurrentIndex < len(m.Files) {
			fp := &m.Files[m.CurrentIndex]
			fp.Stage = msg.Stage
			fp.Progress = msg.Done
			fp.ElapsedTime = time.Since(fp.StartTime)
		}
		return m, waitForProgress(m.ProgressChan)

	case FileStartMsg:
		log.Debugf("file start: index=%d, file=%s", msg.FileIndex, msg.FileName)
		m.CurrentIndex = msg.FileIndex
		m.Files[m.CurrentIndex].Status = StatusAnalyzing
		m.Files[m.CurrentIndex].StartTime = time.Now()
		return m, waitForProgress(m.ProgressChan)

	case FileCompleteMsg:
		log.Debugf("file complete: index=%d, err=%v", msg.FileIndex, msg.Err)
		if m.CurrentIndex >= 0 && m.CurrentIndex < len(m.Files) {
			fp := &m.Files[m.CurrentIndex]
			fp.Result = msg.Result
			fp.Err = msg.Err
			fp.ElapsedTime = time.Since(fp.StartTime)

			switch {
			case msg.Err != nil:
				fp.Status = StatusError
				m.FailedFiles++
			case msg.Result != nil && msg.Result.Outcome == engine.OutcomeCancelled:
				fp.Status = StatusCancelled
			default:
				fp.Status = StatusComplete
				m.CompletedFiles++
			}
		}
		return m, waitForProgress(m.ProgressChan)

	case AllCompleteMsg:
		log.Debug("all files complete")
		m.Done = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the UI.
func (m Model) View() string {
	if m.Width == 0 {
		return fmt.Sprintf("Initializing...\nFiles: %d\nCurrent: %d\n", len(m.Files), m.CurrentIndex)
	}

	if m.Done {
		return renderCompletionSummary(m)
	}

	return renderAnalysisView(m)
}

// waitForProgress creates a command that waits for progress messages.
func waitForProgress(progressChan chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-progressChan
	}
}
