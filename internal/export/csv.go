// Package export writes scan results to CSV.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gofrs/flock"

	"github.com/idelchi/sizefolder/internal/foldersize"
	"github.com/idelchi/sizefolder/internal/report"
)

// Header is the CSV header row.
var Header = []string{"folder", "bytes", "human_readable", "absolute_path"} //nolint:gochecknoglobals // CSV contract

// Options controls which results are exported.
type Options struct {
	// IncludeAll also writes error and cancelled results.
	IncludeAll bool
}

// humanReadable renders the size cell, annotated with the status unless the result is ok.
func humanReadable(r foldersize.SubfolderResult) string {
	size := report.FormatSize(r.Size)

	if r.Status == foldersize.StatusOK {
		return size
	}

	return fmt.Sprintf("%s (%s)", size, r.Status)
}

// WriteCSV writes the header and one row per exportable result, in the given order.
// Results with status ok or partial are exported; error and cancelled results
// only with IncludeAll.
func WriteCSV(w io.Writer, results []foldersize.SubfolderResult, opts Options) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, r := range results {
		if !r.Status.Complete() && !opts.IncludeAll {
			continue
		}

		row := []string{r.Name, strconv.FormatInt(r.Size, 10), humanReadable(r), r.Path}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row for %s: %w", r.Path, err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// WriteFile exports results to path. The file is written to
// a temporary sibling and renamed into place while holding path+".lock", so readers
// and concurrent exporters never observe a partial file.
func WriteFile(path string, results []foldersize.SubfolderResult, opts Options) error {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, results, opts); err != nil {
		return err
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("locking %s: %w", path, err)
	}

	defer lock.Unlock() //nolint:errcheck // Best-effort release

	return atomicWrite(path, buf.Bytes())
}

// atomicWrite writes data to a temporary file next to path and renames it over path.
func atomicWrite(path string, data []byte) (retErr error) {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".sizefolder-export-*.tmp")
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}

	tmpPath := tmp.Name()

	defer func() {
		if retErr != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("writing export file: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing export file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing export file: %w", err)
	}

	if err := os.Chmod(tmpPath, 0o644); err != nil { //nolint:gosec // Exported reports are meant to be readable
		return fmt.Errorf("setting export file permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming export file to %s: %w", path, err)
	}

	return nil
}
