//go:build !windows
// +build !windows

package hostwriter

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sys/unix"
)

// setFilePermissions applies mode to path, retrying the chmod syscall itself
// whenever it is interrupted. EINTR is the only error handled here — it is a
// property of the syscall, not of the file — so the loop is unbounded for it;
// every other failure is wrapped with the OS error and the path.
func setFilePermissions(path string, mode uint32, logger hclog.Logger) error {
	for {
		err := unix.Chmod(path, mode)
		if err == nil {
			logger.Debug("Set apphost permissions", "path", path, "mode", fmt.Sprintf("%04o", mode))
			return nil
		}
		if errors.Is(err, unix.EINTR) {
			continue
		}
		return fmt.Errorf("failed to set mode %04o on %s: %w", mode, path, err)
	}
}
