package foldersize

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unlimited() Request {
	return Request{MaxDepth: Unlimited, Workers: 1}
}

func TestSizeSubtreeCountsAllFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", 10)
	writeFile(t, dir, "sub/b.txt", 20)
	writeFile(t, dir, "sub/deep/c.txt", 30)
	mkdir(t, dir, "empty")

	result := SizeSubtree(context.Background(), dir, unlimited(), nil, nil)

	assert.Equal(t, StatusOK, result.Status)
	assert.Equal(t, int64(60), result.Size)
	assert.Equal(t, int64(3), result.Files)
	assert.Equal(t, int64(3), result.Dirs)
	assert.Equal(t, filepath.Base(dir), result.Name)
	assert.Empty(t, result.Err)
}

func TestSizeSubtreeMaxDepth(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", 10)
	writeFile(t, dir, "sub/b.txt", 20)
	writeFile(t, dir, "sub/deep/c.txt", 30)
	writeFile(t, dir, "sub/deep/deeper/d.txt", 40)

	tests := []struct {
		depth int
		want  int64
	}{
		{0, 10},
		{1, 30},
		{2, 60},
		{3, 100},
		{Unlimited, 100},
	}

	for _, tt := range tests {
		req := Request{MaxDepth: tt.depth, Workers: 1}
		result := SizeSubtree(context.Background(), dir, req, nil, nil)

		assert.Equal(t, StatusOK, result.Status, "depth %d", tt.depth)
		assert.Equal(t, tt.want, result.Size, "depth %d", tt.depth)
	}
}

func TestSizeSubtreeMaxDepthZeroIgnoresExcludes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", 10)
	writeFile(t, dir, "kept/b.txt", 20)

	req := Request{MaxDepth: 0, Workers: 1, Excludes: []string{"nothing-matches"}}
	result := SizeSubtree(context.Background(), dir, req, nil, nil)

	assert.Equal(t, int64(10), result.Size)
}

func TestSizeSubtreeExcludes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "keep.txt", 5)
	writeFile(t, dir, "scratch.tmp", 100)
	writeFile(t, dir, "node_modules/x.js", 1000)
	writeFile(t, dir, "pkg/node_modules/deep/y.js", 1000)
	writeFile(t, dir, "pkg/index.js", 7)

	req := unlimited()
	req.Excludes = []string{"node_modules,*.tmp"}

	result := SizeSubtree(context.Background(), dir, req, nil, nil)

	assert.Equal(t, StatusOK, result.Status)
	assert.Equal(t, int64(12), result.Size)
	assert.Equal(t, int64(2), result.Files)
}

func TestSizeSubtreeSkipsSymlinks(t *testing.T) {
	outside := t.TempDir()
	target := writeFile(t, outside, "big.bin", 1000)

	dir := t.TempDir()
	writeFile(t, dir, "real.txt", 10)

	if err := os.Symlink(target, filepath.Join(dir, "file-link")); err != nil {
		t.Skipf("symlink not available on this platform: %v", err)
	}

	require.NoError(t, os.Symlink(outside, filepath.Join(dir, "dir-link")))

	result := SizeSubtree(context.Background(), dir, unlimited(), nil, nil)

	assert.Equal(t, StatusOK, result.Status)
	assert.Equal(t, int64(10), result.Size)
	assert.Equal(t, int64(1), result.Files)
}

func TestSizeSubtreeHardlinkDedup(t *testing.T) {
	dir := t.TempDir()
	original := writeFile(t, dir, "a/original.bin", 100)

	if err := os.Link(original, filepath.Join(dir, "b-copy.bin")); err != nil {
		t.Skipf("hard links not available: %v", err)
	}

	deduped := unlimited()
	deduped.Dedup = true

	result := SizeSubtree(context.Background(), dir, deduped, nil, nil)
	assert.Equal(t, int64(100), result.Size)

	result = SizeSubtree(context.Background(), dir, unlimited(), nil, nil)
	assert.Equal(t, int64(200), result.Size)
}

func TestSizeSubtreeSharedTracker(t *testing.T) {
	root := t.TempDir()
	original := writeFile(t, root, "A/f.bin", 100)
	mkdir(t, root, "B")

	if err := os.Link(original, filepath.Join(root, "B", "g.bin")); err != nil {
		t.Skipf("hard links not available: %v", err)
	}

	req := unlimited()
	req.Dedup = true
	tracker := NewHardlinkTracker(true)

	a := SizeSubtree(context.Background(), filepath.Join(root, "A"), req, tracker, nil)
	b := SizeSubtree(context.Background(), filepath.Join(root, "B"), req, tracker, nil)

	assert.Equal(t, int64(100), a.Size)
	assert.Equal(t, int64(0), b.Size)
}

func TestSizeSubtreeUnreadableDirectoryIsPartial(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for this user")
	}

	dir := t.TempDir()
	writeFile(t, dir, "ok.txt", 10)
	locked := mkdir(t, dir, "locked")
	writeFile(t, dir, "locked/hidden.txt", 50)

	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	result := SizeSubtree(context.Background(), dir, unlimited(), nil, nil)

	assert.Equal(t, StatusPartial, result.Status)
	assert.Equal(t, int64(10), result.Size)
	assert.Positive(t, result.Errors)
}

func TestSizeSubtreeUnreadableRootIsError(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for this user")
	}

	dir := t.TempDir()
	writeFile(t, dir, "x.txt", 10)
	require.NoError(t, os.Chmod(dir, 0o000))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	result := SizeSubtree(context.Background(), dir, unlimited(), nil, nil)

	assert.Equal(t, StatusError, result.Status)
	assert.Zero(t, result.Size)
	assert.NotEmpty(t, result.Err)
}

func TestSizeSubtreeNotADirectory(t *testing.T) {
	file := writeFile(t, t.TempDir(), "plain.txt", 10)

	result := SizeSubtree(context.Background(), file, unlimited(), nil, nil)

	assert.Equal(t, StatusError, result.Status)
	assert.Zero(t, result.Size)
	assert.Contains(t, result.Err, ErrNotDirectory.Error())
}

func TestSizeSubtreeMissing(t *testing.T) {
	result := SizeSubtree(context.Background(), filepath.Join(t.TempDir(), "gone"), unlimited(), nil, nil)

	assert.Equal(t, StatusError, result.Status)
	assert.Zero(t, result.Size)
}

func TestSizeSubtreeCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", 10)
	writeFile(t, dir, "sub/b.txt", 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := SizeSubtree(ctx, dir, unlimited(), nil, nil)

	assert.Equal(t, StatusCancelled, result.Status)
	assert.Zero(t, result.Size, "cancelled results never carry a size")
}

func TestSizeSubtreeProgressIsMonotonic(t *testing.T) {
	dir := t.TempDir()

	for _, sub := range []string{"a", "b", "c", "a/x", "b/y"} {
		writeFile(t, dir, sub+"/f.bin", 100)
	}

	var (
		mu     sync.Mutex
		events []ProgressEvent
	)

	emit := func(e ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()

		events = append(events, e)
	}

	result := SizeSubtree(context.Background(), dir, unlimited(), nil, emit)

	require.Equal(t, StatusOK, result.Status)
	require.Len(t, events, int(result.Dirs)+2, "subfolder, each directory entered and the final total")
	assert.Equal(t, result.Size, events[len(events)-1].Bytes)

	for i, e := range events {
		assert.Equal(t, result.Path, e.Subfolder)
		assert.LessOrEqual(t, e.Bytes, result.Size)

		if i > 0 {
			assert.GreaterOrEqual(t, e.Bytes, events[i-1].Bytes)
		}
	}
}

func TestSizeSubtreeProgressForFlatSubfolder(t *testing.T) {
	dir := t.TempDir()

	for i := range 50 {
		writeFile(t, dir, fmt.Sprintf("f%02d.bin", i), 100)
	}

	var events []ProgressEvent

	result := SizeSubtree(context.Background(), dir, unlimited(), nil, func(e ProgressEvent) {
		events = append(events, e)
	})

	require.Equal(t, StatusOK, result.Status)
	require.Equal(t, int64(5000), result.Size)
	require.NotEmpty(t, events)

	last := events[len(events)-1]
	assert.Equal(t, result.Size, last.Bytes)
	assert.Equal(t, result.Path, last.Subfolder)
}

func TestSizeSubtreeFinalProgressCarriesTotal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "x/f.bin", 10)
	writeFile(t, dir, "g.bin", 20)

	var events []ProgressEvent

	result := SizeSubtree(context.Background(), dir, unlimited(), nil, func(e ProgressEvent) {
		events = append(events, e)
	})

	require.Equal(t, int64(30), result.Size)
	require.NotEmpty(t, events)
	assert.Equal(t, int64(30), events[len(events)-1].Bytes)
}

func TestSizeSubtreeCancelledEmitsNoFinalProgress(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "f.bin", 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var events []ProgressEvent

	result := SizeSubtree(ctx, dir, unlimited(), nil, func(e ProgressEvent) {
		events = append(events, e)
	})

	assert.Equal(t, StatusCancelled, result.Status)
	assert.Empty(t, events)
}
