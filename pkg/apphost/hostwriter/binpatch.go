package hostwriter

import (
	"bytes"
	"fmt"

	apperrors "github.com/provide-io/apphost/go/apphost/pkg/apphost/errors"
)

// searchInView locates the first occurrence of pattern in the mapped view.
// Returns the byte offset and whether a match was found. Does not mutate.
func searchInView(view, pattern []byte) (int, bool) {
	off := bytes.Index(view, pattern)
	if off < 0 {
		return 0, false
	}
	return off, true
}

// searchAndReplace finds the unique occurrence of pattern in view and
// overwrites it with replacement. The replacement must not be longer than the
// pattern; when pad is true a shorter replacement is zero-filled up to the
// pattern length so the slot stays null-terminated.
//
// A missing pattern means the template is malformed or incompatible and is
// reported as ErrPlaceholderNotFound.
func searchAndReplace(view, pattern, replacement []byte, pad bool) error {
	if len(replacement) > len(pattern) {
		return fmt.Errorf("replacement (%d bytes) exceeds pattern length (%d bytes)", len(replacement), len(pattern))
	}

	off, found := searchInView(view, pattern)
	if !found {
		return apperrors.ErrPlaceholderNotFound
	}

	copy(view[off:], replacement)

	if pad {
		for i := off + len(replacement); i < off+len(pattern); i++ {
			view[i] = 0
		}
	}

	return nil
}
