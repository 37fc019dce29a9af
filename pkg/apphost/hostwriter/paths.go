package hostwriter

import (
	"runtime"
	"strings"
)

// Windows extended-length path handling. Paths at or beyond the classic
// MAX_PATH limit are silently truncated or rejected by the Win32 layer unless
// they carry the \\?\ prefix. The transformations here are pure string
// massaging with no I/O, so they are testable on every platform; only
// NormalizeForWrite consults the runtime OS.

const (
	extendedPathPrefix = `\\?\`
	devicePathPrefix   = `\\.\`
	uncExtendedPrefix  = `\\?\UNC\`

	// windowsMaxPath is the classic Win32 path limit, including the
	// terminating NUL.
	windowsMaxPath = 260
)

// NormalizeForWrite returns path in a form safe for subsequent file
// operations on the current OS. On Windows, long absolute paths gain the
// extended-length prefix; everywhere else the path is returned unchanged.
func NormalizeForWrite(path string) string {
	if runtime.GOOS != "windows" {
		return path
	}
	return AddExtendedPathPrefix(path)
}

// AddExtendedPathPrefix prefixes a long absolute Windows path with \\?\
// (or \\?\UNC\ for network shares). Short paths, relative paths and paths
// that already carry an extended or device prefix are returned unchanged:
// relative paths cannot be expressed in the extended-length form at all, and
// short ones do not need it.
func AddExtendedPathPrefix(path string) string {
	if len(path) < windowsMaxPath {
		return path
	}
	if strings.HasPrefix(path, extendedPathPrefix) || strings.HasPrefix(path, devicePathPrefix) {
		return path
	}

	// The extended-length form disables separator normalization, so forward
	// slashes must be rewritten before prefixing.
	normalized := strings.ReplaceAll(path, "/", `\`)

	switch {
	case strings.HasPrefix(normalized, `\\`):
		// \\server\share\... becomes \\?\UNC\server\share\...
		return uncExtendedPrefix + normalized[2:]
	case isDriveAbsolute(normalized):
		return extendedPathPrefix + normalized
	default:
		return path
	}
}

// isDriveAbsolute reports whether path is rooted at a drive letter, e.g.
// C:\users\... .
func isDriveAbsolute(path string) bool {
	if len(path) < 3 {
		return false
	}
	drive := path[0]
	if !('a' <= drive && drive <= 'z' || 'A' <= drive && drive <= 'Z') {
		return false
	}
	return path[1] == ':' && path[2] == '\\'
}
