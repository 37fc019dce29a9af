package hostwriter

import (
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
)

// mappedView is a scoped read-write memory mapping over a file. It is opened
// immediately before a patch sequence and closed before any later stage that
// reopens the file through a separate handle, so external tools (resource
// editors, codesign checks) never race against a live mapping.
type mappedView struct {
	file     *os.File
	data     mmap.MMap
	writable bool
}

func openMappedView(path string, writable bool) (*mappedView, error) {
	flag := os.O_RDONLY
	prot := mmap.RDONLY
	if writable {
		flag = os.O_RDWR
		prot = mmap.RDWR
	}

	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	m, err := mmap.Map(f, prot, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to map %s: %w", path, err)
	}

	return &mappedView{file: f, data: m, writable: writable}, nil
}

// close flushes pending mapped writes, unmaps the view and releases the file
// handle. The first failure wins; the remaining teardown still runs.
func (v *mappedView) close() error {
	var firstErr error

	if v.writable {
		if err := v.data.Flush(); err != nil {
			firstErr = fmt.Errorf("failed to flush mapped view: %w", err)
		}
	}
	if err := v.data.Unmap(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("failed to unmap view: %w", err)
	}
	if err := v.file.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("failed to close mapped file: %w", err)
	}

	return firstErr
}
