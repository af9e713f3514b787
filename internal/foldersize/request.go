package foldersize

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// Unlimited disables the depth limit when used as Request.MaxDepth.
const Unlimited = -1

var (
	// ErrInvalidRequest is returned for requests that cannot be scanned.
	ErrInvalidRequest = errors.New("invalid scan request")
	// ErrRootInaccessible is returned when the scan root cannot be read.
	ErrRootInaccessible = errors.New("root inaccessible")
	// ErrNotDirectory is returned when a path expected to be a directory is not one.
	ErrNotDirectory = errors.New("not a directory")
	// ErrScanInProgress is returned when a scan is started while another is still running.
	ErrScanInProgress = errors.New("scan already in progress")
)

// Request describes a single scan invocation.
type Request struct {
	// Root is the directory whose immediate subfolders are sized.
	Root string `json:"root"`
	// Excludes contains shell-style glob patterns to skip.
	Excludes []string `json:"excludes"`
	// MaxDepth is the number of directory levels entered below each subfolder (Unlimited = no limit).
	MaxDepth int `json:"max_depth"`
	// Workers is the number of subfolders sized concurrently.
	Workers int `json:"workers"`
	// Dedup enables hard link deduplication across the run.
	Dedup bool `json:"dedup"`
	// TopN limits presented results (0 = all).
	TopN int `json:"top_n"`
}

// DefaultWorkers returns the default worker count: twice the CPU count, at least four.
func DefaultWorkers() int {
	return max(4, runtime.NumCPU()*2)
}

// SplitPatterns splits a comma-separated pattern list, trimming whitespace
// and dropping empty entries.
func SplitPatterns(list string) []string {
	var patterns []string

	for _, p := range strings.Split(list, ",") {
		if p = strings.TrimSpace(p); p != "" {
			patterns = append(patterns, p)
		}
	}

	return patterns
}

// normalize validates the request and returns a copy with an absolute root
// and cleaned exclusion patterns.
func (r Request) normalize() (Request, error) {
	if r.Root == "" {
		return r, fmt.Errorf("%w: empty root", ErrInvalidRequest)
	}

	if r.Workers < 1 {
		return r, fmt.Errorf("%w: worker count must be at least 1, got %d", ErrInvalidRequest, r.Workers)
	}

	if r.MaxDepth < Unlimited {
		return r, fmt.Errorf("%w: max depth must be %d or greater, got %d", ErrInvalidRequest, Unlimited, r.MaxDepth)
	}

	if r.TopN < 0 {
		return r, fmt.Errorf("%w: top-N cannot be negative", ErrInvalidRequest)
	}

	root, err := filepath.Abs(r.Root)
	if err != nil {
		return r, fmt.Errorf("resolving absolute path: %w", err)
	}

	excludes := make([]string, 0, len(r.Excludes))
	for _, e := range r.Excludes {
		excludes = append(excludes, SplitPatterns(e)...)
	}

	r.Root = root
	r.Excludes = excludes

	return r, nil
}
