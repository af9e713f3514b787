package foldersize

// Event is an item of a scan's event stream.
type Event interface {
	isEvent()
}

// ProgressEvent reports the running total of a subfolder still being sized.
// Bytes never decreases between two events for the same subfolder.
type ProgressEvent struct {
	// Subfolder is the absolute path of the subfolder being sized.
	Subfolder string
	// Bytes is the cumulative size counted so far.
	Bytes int64
	// Current is the directory that was just reached.
	Current string
}

func (ProgressEvent) isEvent() {}

// ResultEvent carries the terminal result of one subfolder.
type ResultEvent struct {
	Result SubfolderResult
}

func (ResultEvent) isEvent() {}

// ErrorEvent reports a scan-level failure. No results follow it.
type ErrorEvent struct {
	Err error
}

func (ErrorEvent) isEvent() {}

// CompletedEvent is the last event of every run.
type CompletedEvent struct{}

func (CompletedEvent) isEvent() {}
