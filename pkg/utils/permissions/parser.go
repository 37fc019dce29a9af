// Package permissions provides utilities for parsing and handling file permissions
package permissions

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultAppHostPerms is the mode applied to a freshly written apphost:
// owner read/write/execute, group and other read/execute.
const DefaultAppHostPerms = 0o755

// ParseOctalString parses an octal permission string into a uint16.
// Handles formats like "755", "0755", "0o755". An empty string yields the
// apphost default.
func ParseOctalString(s string) (uint16, error) {
	if s == "" {
		return DefaultAppHostPerms, nil
	}

	// Remove common prefixes
	s = strings.TrimPrefix(s, "0o")
	s = strings.TrimPrefix(s, "0")

	// Parse as octal
	val, err := strconv.ParseUint(s, 8, 16)
	if err != nil {
		return DefaultAppHostPerms, fmt.Errorf("invalid permission string %q: %w", s, err)
	}

	return uint16(val), nil
}

// FormatOctal formats a permission value as an octal string
func FormatOctal(perm uint16) string {
	return fmt.Sprintf("0%o", perm)
}

// IsExecutable checks if permissions include execute bit for owner
func IsExecutable(perm uint16) bool {
	return perm&0o100 != 0
}
