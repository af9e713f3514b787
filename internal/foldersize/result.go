package foldersize

import (
	"fmt"
	"time"
)

// Status is the terminal state of one subfolder scan.
type Status int

const (
	// StatusOK means every entry was read.
	StatusOK Status = iota
	// StatusPartial means some entries could not be read but the walk completed.
	StatusPartial
	// StatusError means the subfolder itself could not be read.
	StatusError
	// StatusCancelled means the walk was stopped before it finished.
	StatusCancelled
)

var statusNames = map[Status]string{ //nolint:gochecknoglobals // Lookup table
	StatusOK:        "ok",
	StatusPartial:   "partial",
	StatusError:     "error",
	StatusCancelled: "cancelled",
}

// String returns the lowercase status name.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}

	return fmt.Sprintf("Status(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	for status, name := range statusNames {
		if name == string(text) {
			*s = status

			return nil
		}
	}

	return fmt.Errorf("unknown status %q", text)
}

// Complete reports whether the size of a result with this status is meaningful.
func (s Status) Complete() bool {
	return s == StatusOK || s == StatusPartial
}

// SubfolderResult is the outcome of sizing one immediate subfolder.
type SubfolderResult struct {
	// Name is the subfolder's base name.
	Name string `json:"name"`
	// Path is the subfolder's absolute path.
	Path string `json:"path"`
	// Size is the total logical size in bytes. Zero unless Status is ok or partial.
	Size int64 `json:"size"`
	// Files is the number of files counted.
	Files int64 `json:"files"`
	// Dirs is the number of directories entered below the subfolder.
	Dirs int64 `json:"dirs"`
	// Errors is the number of entries that could not be read.
	Errors int64 `json:"errors"`
	// Status is the terminal state.
	Status Status `json:"status"`
	// Err describes why the subfolder could not be read when Status is error.
	Err string `json:"error,omitempty"`
	// Elapsed is the time spent on the subfolder.
	Elapsed time.Duration `json:"elapsed"`
}
