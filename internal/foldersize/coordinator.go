package foldersize

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// eventBuffer is the capacity of a run's event channel. Producers block once
// it is full; events are never dropped.
const eventBuffer = 64

// run is the state shared by all workers of one scan.
type run struct {
	id      uuid.UUID
	req     Request
	tracker *HardlinkTracker
	sizer   *sizer
	started time.Time
}

// Coordinator runs scans, one at a time.
type Coordinator struct {
	log     logger
	running atomic.Bool
	active  atomic.Int64
}

// NewCoordinator creates a coordinator. Debug output goes to debug when it is not nil.
func NewCoordinator(debug io.Writer) *Coordinator {
	return &Coordinator{log: newLogger(debug)}
}

// Running reports whether a scan is in flight.
func (c *Coordinator) Running() bool {
	return c.running.Load()
}

// Active returns the number of subfolders currently being sized.
func (c *Coordinator) Active() int {
	return int(c.active.Load())
}

// Run starts a scan of req.Root and returns its event stream together with a
// function that requests cooperative cancellation.
//
// Invalid requests, an unusable root and a scan already in flight are reported
// through the returned error, in which case nothing is started. Otherwise the
// stream yields progress, one ResultEvent per immediate subfolder in completion
// order (or a single ErrorEvent if the root cannot be listed) and finally a
// CompletedEvent, after which the channel is closed. The caller must drain the
// stream: workers block rather than drop events.
func (c *Coordinator) Run(ctx context.Context, req Request) (<-chan Event, context.CancelFunc, error) {
	req, err := req.normalize()
	if err != nil {
		return nil, nil, err
	}

	if !c.running.CompareAndSwap(false, true) {
		return nil, nil, ErrScanInProgress
	}

	info, err := os.Stat(longPath(req.Root))
	if err != nil {
		c.running.Store(false)

		return nil, nil, fmt.Errorf("%w: %w", ErrRootInaccessible, err)
	}

	if !info.IsDir() {
		c.running.Store(false)

		return nil, nil, fmt.Errorf("%w: %w: %s", ErrRootInaccessible, ErrNotDirectory, req.Root)
	}

	tracker := NewHardlinkTracker(req.Dedup)

	r := &run{
		id:      uuid.New(),
		req:     req,
		tracker: tracker,
		sizer: &sizer{
			matcher:  NewMatcher(req.Excludes),
			tracker:  tracker,
			maxDepth: req.MaxDepth,
			log:      c.log,
		},
		started: time.Now(),
	}

	ctx, cancel := context.WithCancel(ctx)
	events := make(chan Event, eventBuffer)

	c.log.printf("run %s: root=%s workers=%d max-depth=%d dedup=%t excludes=%v",
		r.id, req.Root, req.Workers, req.MaxDepth, req.Dedup, req.Excludes)

	go func() {
		defer cancel()
		defer close(events)

		c.execute(ctx, r, events)

		c.log.printf("run %s: completed in %v, %d hard-linked files tracked", r.id, time.Since(r.started), r.tracker.Len())
		c.running.Store(false)
		events <- CompletedEvent{}
	}()

	return events, cancel, nil
}

// execute lists the root and sizes every child directory on a fixed-size pool.
// It returns once every dispatched task has delivered its result.
func (c *Coordinator) execute(ctx context.Context, r *run, events chan<- Event) {
	entries, err := os.ReadDir(longPath(r.req.Root))
	if err != nil {
		events <- ErrorEvent{Err: fmt.Errorf("%w: listing root: %w", ErrRootInaccessible, err)}

		return
	}

	emit := func(e ProgressEvent) {
		events <- e
	}

	var group errgroup.Group

	group.SetLimit(r.req.Workers)

	for _, entry := range entries {
		// Only real directories are targets; symlinks to directories report false here.
		if !entry.IsDir() {
			continue
		}

		path := filepath.Join(r.req.Root, entry.Name())

		group.Go(func() error {
			c.active.Add(1)
			defer c.active.Add(-1)

			events <- ResultEvent{Result: r.sizer.size(ctx, path, emit)}

			return nil
		})
	}

	_ = group.Wait() //nolint:errcheck // Tasks report through events
}
