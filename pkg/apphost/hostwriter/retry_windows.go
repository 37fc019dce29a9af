//go:build windows
// +build windows

package hostwriter

import (
	"errors"
	"syscall"

	"golang.org/x/sys/windows"
)

// isTransientIOError classifies OS errors worth retrying. On Windows the
// usual offenders are sharing and lock violations from antivirus and search
// indexer handles; ERROR_ACCESS_DENIED is included because scanners hold
// exclusive handles with that failure mode while a file is being inspected.
func isTransientIOError(err error) bool {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return false
	}

	switch errno {
	case windows.ERROR_SHARING_VIOLATION,
		windows.ERROR_LOCK_VIOLATION,
		windows.ERROR_ACCESS_DENIED:
		return true
	}
	return false
}
