package renderer

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/df07/go-pathtracer/pkg/core"
)

// WriterLogger writes log lines to an io.Writer, serializing concurrent calls
type WriterLogger struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterLogger creates a logger that writes to w
func NewWriterLogger(w io.Writer) core.Logger {
	return &WriterLogger{w: w}
}

// NewDefaultLogger creates a logger that writes to stdout
func NewDefaultLogger() core.Logger {
	return NewWriterLogger(os.Stdout)
}

// Printf implements core.Logger
func (l *WriterLogger) Printf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, format, args...)
}
