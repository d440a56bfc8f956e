package renderer

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/mattn/go-isatty"
)

// ProgressReporter prints the number of scanlines still to render.
// On a terminal the count is rewritten in place; otherwise a line is
// printed each time another tenth of the image completes.
type ProgressReporter struct {
	mu          sync.Mutex
	w           io.Writer
	total       int
	remaining   int
	interactive bool
	lastDecile  int
	width       int
}

// NewProgressReporter creates a reporter for totalRows scanlines
func NewProgressReporter(w io.Writer, totalRows int) *ProgressReporter {
	return &ProgressReporter{
		w:           w,
		total:       totalRows,
		remaining:   totalRows,
		interactive: isTerminal(w),
		width:       len(strconv.Itoa(totalRows)),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// RowDone records one completed scanline
func (p *ProgressReporter) RowDone() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.remaining > 0 {
		p.remaining--
	}
	if p.interactive {
		fmt.Fprintf(p.w, "\rScanlines remaining: %*d ", p.width, p.remaining)
		return
	}

	decile := (p.total - p.remaining) * 10 / max(1, p.total)
	if decile > p.lastDecile {
		p.lastDecile = decile
		fmt.Fprintf(p.w, "Scanlines remaining: %d\n", p.remaining)
	}
}

// Remaining returns the number of scanlines not yet reported done
func (p *ProgressReporter) Remaining() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.remaining
}

// Finish terminates the progress output
func (p *ProgressReporter) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.interactive {
		fmt.Fprint(p.w, "\n")
	}
	fmt.Fprint(p.w, "Done!\n")
}
