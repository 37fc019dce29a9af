//go:build windows
// +build windows

package hostwriter

import "github.com/hashicorp/go-hclog"

// setFilePermissions is a no-op on Windows: POSIX mode bits do not apply, and
// the copied template is already executable.
func setFilePermissions(path string, mode uint32, logger hclog.Logger) error {
	logger.Trace("Skipping permission bits on Windows", "path", path)
	return nil
}
