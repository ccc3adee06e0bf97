package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/ethnogram/ethnogram/internal/audio"
	"github.com/ethnogram/ethnogram/internal/cli"
	"github.com/ethnogram/ethnogram/internal/engine"
	"github.com/ethnogram/ethnogram/internal/logging"
	"github.com/ethnogram/ethnogram/internal/mains"
	"github.com/ethnogram/ethnogram/internal/ui"
)

var (
	version = "0.0.1"
)

// CLI defines the command-line interface
type CLI struct {
	Version           bool     `short:"v" help:"Show version information"`
	Logs              bool     `help:"Save a detailed analysis report next to each input file"`
	NoTui             bool     `name:"no-tui" help:"Print plain-text results instead of the interactive view"`
	NoHum             bool     `name:"no-hum" help:"Disable the mains-hum diagnostic"`
	MaxDuration       float64  `name:"max-duration" default:"30" help:"Maximum seconds of audio to analyse per file"`
	MaxPitchFrames    int      `name:"max-pitch-frames" default:"400" help:"Frame cap for the pitch tracker"`
	MaxSpectralFrames int      `name:"max-spectral-frames" default:"300" help:"Frame cap for the spectral analyzer"`
	Top               int      `name:"top" default:"5" help:"Number of tradition matches to report"`
	Files             []string `arg:"" name:"files" help:"WAV files to analyse" type:"existingfile" optional:""`
}

func main() {
	cliArgs := &CLI{}
	ctx := kong.Parse(cliArgs,
		kong.Name("ethnogram"),
		kong.Description("Audio feature extraction and musical-tradition similarity"),
		kong.UsageOnError(),
		kong.Vars{
			"version": version,
		},
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	if cliArgs.Version {
		cli.PrintVersion(version)
		os.Exit(0)
	}

	if len(cliArgs.Files) == 0 {
		cli.PrintError("No input files specified")
		ctx.PrintUsage(false)
		os.Exit(1)
	}

	opts := engine.DefaultOptions()
	opts.MaxDurationSec = cliArgs.MaxDuration
	opts.MaxPitchFrames = cliArgs.MaxPitchFrames
	opts.MaxSpectralFrames = cliArgs.MaxSpectralFrames
	opts.TopNCultures = cliArgs.Top
	if !cliArgs.NoHum {
		opts.MainsHz = mains.Frequency()
	}

	log := newDebugLogger()
	ui.SetLogger(log)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if cliArgs.NoTui {
		os.Exit(runPlain(runCtx, cliArgs, opts, log))
	}
	runTUI(runCtx, stop, cliArgs, opts, log)
}

// newDebugLogger writes debug output to ethnogram-debug.log; logging is
// silently disabled when the file cannot be created.
func newDebugLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.DebugLevel)
	f, err := os.Create("ethnogram-debug.log")
	if err != nil {
		log.SetOutput(io.Discard)
		return log
	}
	log.SetOutput(f)
	return log
}

// runPlain analyses each file sequentially and prints text results.
// Returns the process exit code: non-zero if any file failed.
func runPlain(ctx context.Context, cliArgs *CLI, opts engine.Options, log *logrus.Logger) int {
	exitCode := 0
	for _, inputPath := range cliArgs.Files {
		sig, meta, err := audio.ReadWAVFile(inputPath)
		if err != nil {
			cli.PrintError(fmt.Sprintf("%s: %v", inputPath, err))
			exitCode = 1
			continue
		}

		res, err := engine.Run(ctx, sig, opts, func(stage engine.Stage, done float64) {
			log.Debugf("%s: stage %s (%.0f%%)", inputPath, stage, done*100)
		})
		if err != nil {
			cli.PrintError(fmt.Sprintf("%s: %v", inputPath, err))
			exitCode = 1
			continue
		}
		if res.Outcome == engine.OutcomeCancelled {
			fmt.Println("Analysis cancelled.")
			return 130
		}

		logging.DisplayResults(os.Stdout, inputPath, meta, res, opts.MainsHz)
		if cliArgs.Logs {
			if logPath, err := logging.GenerateReport(reportData(inputPath, meta, opts, res)); err != nil {
				log.Warnf("report for %s failed: %v", inputPath, err)
			} else {
				fmt.Printf("Report written to %s\n", logPath)
			}
		}
	}
	return exitCode
}

// runTUI drives the Bubbletea interface with analysis running in a
// background worker, one file at a time.
func runTUI(ctx context.Context, stop context.CancelFunc, cliArgs *CLI, opts engine.Options, log *logrus.Logger) {
	model := ui.NewModel(cliArgs.Files)
	p := tea.NewProgram(model, tea.WithAltScreen())

	go func() {
		for i, inputPath := range cliArgs.Files {
			if ctx.Err() != nil {
				break
			}
			log.Debugf("starting file %d: %s", i, inputPath)
			p.Send(ui.FileStartMsg{
				FileIndex: i,
				FileName:  inputPath,
			})

			sig, meta, err := audio.ReadWAVFile(inputPath)
			if err != nil {
				log.Errorf("read %s: %v", inputPath, err)
				p.Send(ui.FileCompleteMsg{FileIndex: i, Err: err})
				continue
			}

			res, err := engine.Run(ctx, sig, opts, func(stage engine.Stage, done float64) {
				p.Send(ui.ProgressMsg{Stage: stage, Done: done})
			})
			if err != nil {
				log.Errorf("analyse %s: %v", inputPath, err)
				p.Send(ui.FileCompleteMsg{FileIndex: i, Err: err})
				continue
			}

			if cliArgs.Logs && res.Outcome == engine.OutcomeDone {
				if logPath, err := logging.GenerateReport(reportData(inputPath, meta, opts, res)); err != nil {
					log.Warnf("report for %s failed: %v", inputPath, err)
				} else {
					log.Debugf("report written to %s", logPath)
				}
			}

			p.Send(ui.FileCompleteMsg{FileIndex: i, Result: res})
		}

		log.Debug("all files done")
		p.Send(ui.AllCompleteMsg{})
	}()

	if _, err := p.Run(); err != nil {
		cli.PrintError(fmt.Sprintf("UI error: %v", err))
		os.Exit(1)
	}
	// Stop the worker if the user quit mid-run.
	stop()
}

func reportData(inputPath string, meta *audio.Metadata, opts engine.Options, res *engine.Result) logging.ReportData {
	now := time.Now()
	return logging.ReportData{
		InputPath: inputPath,
		Metadata:  meta,
		StartTime: now.Add(-res.Elapsed),
		EndTime:   now,
		MainsHz:   opts.MainsHz,
		Result:    res,
	}
}
