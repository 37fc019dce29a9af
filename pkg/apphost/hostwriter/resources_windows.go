//go:build windows
// +build windows

package hostwriter

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/tc-hib/winres"
)

// copiedResourceTypes are the native resources carried over from the managed
// payload: version info, icons and the side-by-side manifest. Everything else
// in the payload stays where it is.
var copiedResourceTypes = []winres.Identifier{
	winres.RT_VERSION,
	winres.RT_ICON,
	winres.RT_GROUP_ICON,
	winres.RT_MANIFEST,
}

// copyResources copies the payload's version/icon/manifest resources into the
// destination apphost. The destination is rebuilt through a temporary file
// and swapped in atomically, because resource insertion rewrites the whole
// image.
func copyResources(destPath, sourcePath string, logger hclog.Logger) error {
	logger.Info("Copying native resources into apphost",
		"destination", destPath,
		"source", sourcePath)

	sourceFile, err := os.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to open resource source %s: %w", sourcePath, err)
	}
	sourceSet, err := winres.LoadFromEXE(sourceFile)
	sourceFile.Close()
	if err != nil {
		return fmt.Errorf("failed to load resources from %s: %w", sourcePath, err)
	}

	// Existing template resources stay in place; payload resources of the
	// copied types win on conflict.
	destFile, err := os.Open(destPath)
	if err != nil {
		return fmt.Errorf("failed to open apphost %s: %w", destPath, err)
	}
	destSet, err := winres.LoadFromEXE(destFile)
	destFile.Close()
	if err != nil {
		logger.Debug("Apphost has no resource section yet, starting empty")
		destSet = &winres.ResourceSet{}
	}

	copied := 0
	sourceSet.Walk(func(typeID, resID winres.Identifier, langID uint16, data []byte) bool {
		for _, want := range copiedResourceTypes {
			if typeID == want {
				if err := destSet.Set(typeID, resID, langID, data); err != nil {
					logger.Warn("Failed to copy resource entry",
						"type", typeID,
						"resource", resID,
						"error", err)
					return true
				}
				copied++
				break
			}
		}
		return true
	})

	logger.Debug("Collected payload resources", "entries", copied)

	// Explicit closes throughout: Windows refuses to replace a file that
	// still has an open handle.
	input, err := os.Open(destPath)
	if err != nil {
		return fmt.Errorf("failed to reopen apphost %s: %w", destPath, err)
	}
	tempPath := destPath + ".tmp"
	output, err := os.Create(tempPath)
	if err != nil {
		input.Close()
		return fmt.Errorf("failed to create temporary apphost: %w", err)
	}

	if err := destSet.WriteToEXE(output, input); err != nil {
		output.Close()
		input.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to write resources into apphost: %w", err)
	}
	if err := output.Close(); err != nil {
		input.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to close temporary apphost: %w", err)
	}
	if err := input.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close apphost: %w", err)
	}

	if err := atomicReplace(tempPath, destPath, logger); err != nil {
		os.Remove(tempPath)
		return err
	}

	logger.Info("✅ Copied native resources", "entries", copied, "destination", destPath)
	return nil
}
