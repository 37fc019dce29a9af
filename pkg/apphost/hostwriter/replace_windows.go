//go:build windows
// +build windows

package hostwriter

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sys/windows"
)

// atomicReplace swaps destPath for sourcePath in one MoveFileEx call,
// retrying on the short-lived locks Windows scanners put on freshly written
// executables.
func atomicReplace(sourcePath, destPath string, logger hclog.Logger) error {
	fromPtr, err := windows.UTF16PtrFromString(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to convert source path to UTF-16: %w", err)
	}
	toPtr, err := windows.UTF16PtrFromString(destPath)
	if err != nil {
		return fmt.Errorf("failed to convert dest path to UTF-16: %w", err)
	}

	var flags uint32 = windows.MOVEFILE_REPLACE_EXISTING | windows.MOVEFILE_WRITE_THROUGH

	maxAttempts := 3
	delay := 50 * time.Millisecond

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = windows.MoveFileEx(fromPtr, toPtr, flags)
		if err == nil {
			if attempt > 1 {
				logger.Debug("Replaced file after retry", "attempt", attempt)
			}
			return nil
		}
		if attempt == maxAttempts {
			return fmt.Errorf("failed to replace %s after %d attempts (Windows file lock): %w", destPath, maxAttempts, err)
		}

		logger.Debug("Retrying file replacement (Windows file lock)",
			"attempt", attempt,
			"next_delay_ms", delay.Milliseconds(),
			"error", err)
		time.Sleep(delay)
		delay *= 2
	}

	return nil
}
