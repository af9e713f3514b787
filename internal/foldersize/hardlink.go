package foldersize

import "sync"

// fileID identifies a file independently of the names that reference it.
// Inode numbers are only unique per device, so both are required.
type fileID struct {
	dev uint64
	ino uint64
}

// HardlinkTracker remembers which file identities have already been credited
// during one scan run. It is shared by all workers of the run.
type HardlinkTracker struct {
	mu      sync.Mutex
	enabled bool
	seen    map[fileID]struct{}
}

// NewHardlinkTracker creates a tracker. A disabled tracker claims every identity
// and never stores anything.
func NewHardlinkTracker(enabled bool) *HardlinkTracker {
	t := &HardlinkTracker{enabled: enabled}
	if enabled {
		t.seen = make(map[fileID]struct{})
	}

	return t
}

// Enabled reports whether the tracker deduplicates.
func (t *HardlinkTracker) Enabled() bool {
	return t != nil && t.enabled
}

// TryClaim returns true the first time the (device, inode) pair is claimed and
// false afterwards. The check and the insert happen under one lock so that two
// workers reaching the same inode through different names cannot both win.
func (t *HardlinkTracker) TryClaim(dev, ino uint64) bool {
	if !t.Enabled() {
		return true
	}

	return t.claim(fileID{dev: dev, ino: ino})
}

func (t *HardlinkTracker) claim(id fileID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.seen[id]; ok {
		return false
	}

	t.seen[id] = struct{}{}

	return true
}

// Len returns the number of identities claimed so far.
func (t *HardlinkTracker) Len() int {
	if !t.Enabled() {
		return 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.seen)
}
