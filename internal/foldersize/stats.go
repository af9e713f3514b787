package foldersize

import (
	"time"
)

// Summary holds the outcome of a whole scan.
type Summary struct {
	// Root is the scanned directory.
	Root string `json:"root"`
	// Results contains one entry per immediate subfolder, in completion order.
	Results []SubfolderResult `json:"results"`
	// TotalBytes is the cumulative size of all ok and partial results.
	TotalBytes int64 `json:"total_bytes"`
	// TotalFiles is the cumulative file count of all ok and partial results.
	TotalFiles int64 `json:"total_files"`
	// StatusCounts maps each terminal status to the number of results with it.
	StatusCounts map[Status]int `json:"status_counts"`
	// ErrorCount is the number of unreadable entries across all subfolders.
	ErrorCount int64 `json:"error_count"`
	// Err is the scan-level failure, if any.
	Err error `json:"-"`
	// Error is Err as text for serialization.
	Error string `json:"error,omitempty"`
	// Elapsed is the total time taken for the scan.
	Elapsed time.Duration `json:"elapsed"`
}

// Cancelled reports whether any subfolder was cancelled.
func (s *Summary) Cancelled() bool {
	return s.StatusCounts[StatusCancelled] > 0
}

// collector aggregates results read from one event stream.
type collector struct {
	summary Summary
}

// newCollector creates a collector for a scan of root.
func newCollector(root string) *collector {
	return &collector{
		summary: Summary{
			Root:         root,
			Results:      make([]SubfolderResult, 0),
			StatusCounts: make(map[Status]int),
		},
	}
}

// add records one terminal result.
func (c *collector) add(r SubfolderResult) {
	c.summary.Results = append(c.summary.Results, r)
	c.summary.StatusCounts[r.Status]++
	c.summary.ErrorCount += r.Errors

	if r.Status.Complete() {
		c.summary.TotalBytes += r.Size
		c.summary.TotalFiles += r.Files
	}
}

// fail records a scan-level error.
func (c *collector) fail(err error) {
	c.summary.Err = err
	c.summary.Error = err.Error()
}

// Collect drains events until the stream closes and returns the summary.
// onProgress, if not nil, is called for every progress event. root is only
// used to label the summary.
func Collect(root string, events <-chan Event, onProgress func(ProgressEvent)) *Summary {
	start := time.Now()
	c := newCollector(root)

	for event := range events {
		switch e := event.(type) {
		case ProgressEvent:
			if onProgress != nil {
				onProgress(e)
			}
		case ResultEvent:
			c.add(e.Result)
		case ErrorEvent:
			c.fail(e.Err)
		case CompletedEvent:
		}
	}

	c.summary.Elapsed = time.Since(start)

	return &c.summary
}
