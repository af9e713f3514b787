package foldersize

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charlievieth/fastwalk"
)

// sizer walks one subfolder. A single sizer is shared by all workers of a run;
// it holds no per-walk state.
type sizer struct {
	matcher  *Matcher
	tracker  *HardlinkTracker
	maxDepth int
	log      logger
}

// tally accumulates the counters of one walk. fastwalk invokes the callback
// from several goroutines, so counters are atomic and progress emission is
// serialized to keep per-subfolder events ordered.
type tally struct {
	bytes  atomic.Int64
	files  atomic.Int64
	dirs   atomic.Int64
	errors atomic.Int64

	emitMu sync.Mutex
}

// rootError marks a failure to read the subfolder itself.
type rootError struct {
	err error
}

func (e *rootError) Error() string { return e.err.Error() }
func (e *rootError) Unwrap() error { return e.err }

// SizeSubtree sizes the directory at path on its own, outside of a Coordinator run.
// A nil tracker gets a fresh one following req.Dedup. emit may be nil.
func SizeSubtree(
	ctx context.Context,
	path string,
	req Request,
	tracker *HardlinkTracker,
	emit func(ProgressEvent),
) SubfolderResult {
	if tracker == nil {
		tracker = NewHardlinkTracker(req.Dedup)
	}

	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	s := &sizer{
		matcher:  NewMatcher(req.Excludes),
		tracker:  tracker,
		maxDepth: req.MaxDepth,
	}

	return s.size(ctx, path, emit)
}

// calculateDepth returns the depth of a path relative to the root.
func calculateDepth(path, root string) int {
	relPath := strings.TrimPrefix(path, root)

	relPath = strings.TrimPrefix(relPath, string(filepath.Separator))
	if relPath == "" {
		return 0
	}

	return strings.Count(relPath, string(filepath.Separator)) + 1
}

// relative returns path relative to root in slash form.
func relative(path, root string) string {
	rel := strings.TrimPrefix(path, root)

	return filepath.ToSlash(strings.TrimPrefix(rel, string(filepath.Separator)))
}

// size walks the subfolder at path and returns its terminal result.
//
// Entering a directory below the subfolder consumes one unit of depth; once the
// budget is spent, directories are no longer entered. Symbolic links are skipped.
// Progress is emitted for the subfolder itself, for every directory entered and
// once more with the final total when the walk completes.
// Unreadable entries below the subfolder are tallied and downgrade the result to
// partial. Cancellation is observed whenever a directory is reached.
//
//nolint:gocognit,funlen // Walk callback is easier to follow inline.
func (s *sizer) size(ctx context.Context, path string, emit func(ProgressEvent)) SubfolderResult {
	start := time.Now()

	result := SubfolderResult{Name: filepath.Base(path), Path: path}

	finish := func(status Status, err error) SubfolderResult {
		result.Status = status
		result.Elapsed = time.Since(start)

		if err != nil {
			result.Err = err.Error()
		}

		if !status.Complete() {
			result.Size = 0
		}

		s.log.printf("%s: %s (%d bytes, %d files, %d errors)", status, path, result.Size, result.Files, result.Errors)

		return result
	}

	if ctx.Err() != nil {
		return finish(StatusCancelled, nil)
	}

	root := longPath(path)

	info, err := os.Lstat(root)
	if err != nil {
		return finish(StatusError, fmt.Errorf("accessing subfolder: %w", err))
	}

	if !info.IsDir() {
		return finish(StatusError, fmt.Errorf("%w: %s", ErrNotDirectory, path))
	}

	var t tally

	report := func(current string) {
		if emit == nil {
			return
		}

		t.emitMu.Lock()
		defer t.emitMu.Unlock()

		emit(ProgressEvent{Subfolder: path, Bytes: t.bytes.Load(), Current: current})
	}

	conf := &fastwalk.Config{
		Follow: false, // Don't follow symlinks
	}

	//nolint:varnamelen // d is standard for DirEntry
	walkErr := fastwalk.Walk(conf, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root {
				return &rootError{err: err}
			}

			s.log.printf("error accessing path %s: %v", p, err)
			t.errors.Add(1)

			return nil
		}

		if p == root {
			if err := ctx.Err(); err != nil {
				return err
			}

			report(path)

			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}

		rel := relative(p, root)

		if d.IsDir() {
			if s.matcher.ShouldExclude(d.Name(), rel) {
				s.log.printf("excluding directory: %s", p)

				return fastwalk.SkipDir
			}

			if s.maxDepth != Unlimited && calculateDepth(p, root) > s.maxDepth {
				return fastwalk.SkipDir
			}

			// Check cancellation at every directory boundary
			if err := ctx.Err(); err != nil {
				return err
			}

			t.dirs.Add(1)
			report(filepath.Join(path, filepath.FromSlash(rel)))

			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		if s.matcher.ShouldExclude(d.Name(), rel) {
			return nil
		}

		fileInfo, err := d.Info()
		if err != nil {
			s.log.printf("error reading %s: %v", p, err)
			t.errors.Add(1)

			return nil //nolint:nilerr // Unreadable entries are tallied, not fatal
		}

		if s.tracker.Enabled() {
			if id, links, ok := fileIdentity(p, fileInfo); ok && links > 1 && !s.tracker.TryClaim(id.dev, id.ino) {
				return nil
			}
		}

		t.files.Add(1)
		t.bytes.Add(fileInfo.Size())

		return nil
	})

	result.Size = t.bytes.Load()
	result.Files = t.files.Load()
	result.Dirs = t.dirs.Load()
	result.Errors = t.errors.Load()

	var rootErr *rootError

	switch {
	case ctx.Err() != nil, errors.Is(walkErr, context.Canceled), errors.Is(walkErr, context.DeadlineExceeded):
		return finish(StatusCancelled, nil)
	case errors.As(walkErr, &rootErr):
		return finish(StatusError, fmt.Errorf("listing subfolder: %w", rootErr.err))
	case walkErr != nil:
		return finish(StatusError, fmt.Errorf("walking subfolder: %w", walkErr))
	}

	// The last event of a completed walk carries the final total.
	report(path)

	if result.Errors > 0 {
		return finish(StatusPartial, nil)
	}

	return finish(StatusOK, nil)
}
