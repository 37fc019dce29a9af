//go:build !windows
// +build !windows

package hostwriter

import (
	"errors"
	"syscall"

	"golang.org/x/sys/unix"
)

// isTransientIOError classifies OS errors worth retrying: interrupted
// syscalls and short-lived contention on the destination file. Anything else
// (missing file, real permission denial, malformed template) is fatal.
func isTransientIOError(err error) bool {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return false
	}

	switch errno {
	case unix.EINTR, unix.EAGAIN, unix.EBUSY, unix.ETXTBSY:
		return true
	}
	return false
}
