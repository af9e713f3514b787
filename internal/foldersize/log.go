package foldersize

import (
	"fmt"
	"io"
	"sync"
)

// logger provides conditional debug output. The zero value discards everything.
type logger struct {
	w  io.Writer
	mu *sync.Mutex
}

// newLogger returns a logger writing to w, or a disabled logger if w is nil.
func newLogger(w io.Writer) logger {
	return logger{w: w, mu: &sync.Mutex{}}
}

// printf prints a debug line if logging is enabled.
func (l logger) printf(format string, args ...any) {
	if l.w == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.w, "[debug]: "+format+"\n", args...)
}
