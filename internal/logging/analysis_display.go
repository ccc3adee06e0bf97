// Terminal display of analysis results for non-interactive runs (piped
// output, CI, --no-tui). Reuses the report renderer and appends the
// recording tips that the file report omits.

package logging

import (
	"fmt"
	"io"
	"time"

	"github.com/ethnogram/ethnogram/internal/audio"
	"github.com/ethnogram/ethnogram/internal/engine"
)

// DisplayResults writes a full result breakdown to w.
func DisplayResults(w io.Writer, inputPath string, metadata *audio.Metadata, res *engine.Result, mainsHz float64) {
	WriteReport(w, ReportData{
		InputPath: inputPath,
		Metadata:  metadata,
		EndTime:   time.Now(),
		MainsHz:   mainsHz,
		Result:    res,
	})

	tips := GenerateRecordingTips(res, mainsHz)
	if len(tips) == 0 {
		return
	}

	fmt.Fprintln(w)
	writeSection(w, "Recording Tips")
	for _, tip := range tips {
		fmt.Fprintf(w, "• %s\n", wrapText(tip.Message, 76, "  "))
	}
}
