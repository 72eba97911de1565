package download

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dustin/go-humanize"
	"golang.org/x/term"
)

// progressStep is the minimum number of bytes between two redraws.
const progressStep = 1 << 20

// NewProgressPrinter returns a ProgressFunc drawing a single self-overwriting
// line on out. When out is not a terminal only the final size is printed.
func NewProgressPrinter(out io.Writer, label string) ProgressFunc {
	interactive := false
	if f, ok := out.(*os.File); ok {
		interactive = term.IsTerminal(int(f.Fd()))
	}

	var (
		mu   sync.Mutex
		last int64 = -1
	)
	return func(done, total int64) {
		mu.Lock()
		defer mu.Unlock()

		finished := total > 0 && done >= total
		if !interactive {
			if finished {
				_, _ = fmt.Fprintf(out, "%s: %s\n", label, humanize.Bytes(uint64(done)))
			}
			return
		}
		if !finished && last >= 0 && done-last < progressStep {
			return
		}
		last = done
		_, _ = fmt.Fprintf(out, "\r%s", FormatProgress(label, done, total))
		if finished {
			_, _ = fmt.Fprintln(out)
		}
	}
}

// FormatProgress renders "label: 12 MB / 300 MB (4%)", or without the total
// when it is unknown.
func FormatProgress(label string, done, total int64) string {
	if total <= 0 {
		return fmt.Sprintf("%s: %s", label, humanize.Bytes(uint64(done)))
	}
	pct := done * 100 / total
	return fmt.Sprintf("%s: %s / %s (%d%%)", label, humanize.Bytes(uint64(done)), humanize.Bytes(uint64(total)), pct)
}
