package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/idelchi/sizefolder/internal/export"
	"github.com/idelchi/sizefolder/internal/foldersize"
)

// DefaultProgressInterval is the minimum interval between progress line redraws.
const DefaultProgressInterval = 100 * time.Millisecond

// terminalFile returns w as a file if it is a terminal.
func terminalFile(w io.Writer) (*os.File, bool) {
	f, ok := w.(*os.File)
	if !ok || !isatty.IsTerminal(f.Fd()) {
		return nil, false
	}

	return f, true
}

// progressLine renders a single, in-place status line on a terminal.
type progressLine struct {
	out      *os.File
	mu       sync.Mutex
	bytes    map[string]int64
	total    int64
	last     time.Time
	interval time.Duration
}

// newProgressLine creates a progress line and hides the cursor.
func newProgressLine(out *os.File) *progressLine {
	fmt.Fprint(out, "\033[?25l")

	return &progressLine{
		out:      out,
		bytes:    make(map[string]int64),
		interval: DefaultProgressInterval,
	}
}

// update records a progress event and redraws at most once per interval.
func (p *progressLine) update(e foldersize.ProgressEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.total += e.Bytes - p.bytes[e.Subfolder]
	p.bytes[e.Subfolder] = e.Bytes

	if time.Since(p.last) < p.interval {
		return
	}

	p.last = time.Now()

	msg := fmt.Sprintf("Scanning… %s  %s", humanize.IBytes(uint64(max(p.total, 0))), e.Current) //nolint:gosec // Clamped
	if width, _, err := term.GetSize(int(p.out.Fd())); err == nil && width > 1 { //nolint:gosec // Fd fits in int
		runes := []rune(msg)
		if len(runes) > width-1 {
			msg = string(runes[:width-1])
		}
	}

	fmt.Fprintf(p.out, "\r\033[2K%s\r", msg)
}

// clear removes the status line and restores the cursor.
func (p *progressLine) clear() {
	fmt.Fprint(p.out, "\r\033[2K\r")
	fmt.Fprint(p.out, "\033[?25h")
}

// logic runs a scan with the given options and prints the results.
func logic(ctx context.Context, options Options, stdout, stderr io.Writer) error {
	var debug io.Writer
	if options.Debug {
		debug = stderr
	}

	// Interrupt cancels the scan cooperatively; results are still printed.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	coordinator := foldersize.NewCoordinator(debug)

	req := options.request()
	if abs, err := filepath.Abs(req.Root); err == nil {
		req.Root = abs
	}

	events, cancel, err := coordinator.Run(ctx, req)
	if err != nil {
		return err
	}
	defer cancel()

	var onProgress func(foldersize.ProgressEvent)

	var progress *progressLine

	if tty, ok := terminalFile(stderr); ok && options.Output == "table" && !options.Debug {
		progress = newProgressLine(tty)
		onProgress = progress.update
	}

	summary := foldersize.Collect(req.Root, events, onProgress)

	if progress != nil {
		progress.clear()
	}

	if summary.Err != nil {
		return summary.Err
	}

	// "-" is served by the csv output below.
	if options.CSV != "" && options.CSV != "-" {
		if err := export.WriteFile(options.CSV, summary.Results, export.Options{IncludeAll: options.All}); err != nil {
			return fmt.Errorf("exporting CSV: %w", err)
		}

		fmt.Fprintf(stderr, "Saved CSV: %s\n", options.CSV)
	}

	view := options.view()

	switch options.Output {
	case "json":
		err = PrintJSON(summary, view, stdout)
	case "csv":
		err = export.WriteCSV(stdout, summary.Results, export.Options{IncludeAll: options.All})
	case "paths":
		err = PrintPaths(summary, view, stdout)
	case "table":
		err = PrintTable(summary, view, stdout)
	default:
		err = fmt.Errorf("unknown output format: %s", options.Output)
	}

	if err != nil {
		return err
	}

	if summary.Cancelled() {
		return errors.New("scan cancelled before all subfolders were sized")
	}

	return nil
}
