package hostwriter

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
)

// 64-bit Mach-O layout, little-endian on disk for the targets we produce
// apphosts for (amd64/arm64 macOS).
const (
	machoMagic64      = 0xfeedfacf
	machoHeader64Size = 32

	lcSegment64     = 0x19
	lcCodeSignature = 0x1d

	// Offsets within the mach_header_64.
	machoNcmdsOffset      = 16
	machoSizeofcmdsOffset = 20

	// Offsets within an LC_SEGMENT_64 command.
	segnameOffset  = 8
	segFilesizeOff = 48

	// Offsets within an LC_CODE_SIGNATURE command.
	sigDataoffOffset  = 8
	sigDatasizeOffset = 12
)

var linkEditSegName = []byte("__LINKEDIT\x00\x00\x00\x00\x00\x00")

// removeCodeSignature detects an embedded Apple code-signature load command
// in a 64-bit Mach-O image and removes it: the load command is zeroed, the
// header counts and the __LINKEDIT file size are adjusted, and the file is
// truncated at the start of the signature data. The result is a structurally
// valid unsigned Mach-O binary.
//
// This runs unconditionally on every platform, so any non-Mach-O input (PE,
// ELF, arbitrary bytes) is a silent no-op, never an error. Returns whether a
// signature was stripped.
func removeCodeSignature(path string, logger hclog.Logger) (bool, error) {
	view, err := openMappedView(path, true)
	if err != nil {
		return false, err
	}

	data := view.data
	if len(data) < machoHeader64Size || binary.LittleEndian.Uint32(data[0:4]) != machoMagic64 {
		logger.Trace("Not a 64-bit Mach-O image, leaving signature untouched", "path", path)
		return false, view.close()
	}

	ncmds := binary.LittleEndian.Uint32(data[machoNcmdsOffset : machoNcmdsOffset+4])
	sizeofcmds := binary.LittleEndian.Uint32(data[machoSizeofcmdsOffset : machoSizeofcmdsOffset+4])

	sigCmdOffset := -1
	var sigCmdSize, sigDataOff, sigDataSize uint32
	linkEditOffset := -1

	cmdOffset := machoHeader64Size
	for i := uint32(0); i < ncmds; i++ {
		if cmdOffset+8 > len(data) {
			logger.Debug("Load command table runs past end of file, treating as non-Mach-O", "path", path)
			return false, view.close()
		}
		cmd := binary.LittleEndian.Uint32(data[cmdOffset : cmdOffset+4])
		cmdSize := int(binary.LittleEndian.Uint32(data[cmdOffset+4 : cmdOffset+8]))
		if cmdSize < 8 || cmdOffset+cmdSize > len(data) {
			logger.Debug("Malformed load command size, treating as non-Mach-O", "path", path, "command", i)
			return false, view.close()
		}

		switch cmd {
		case lcCodeSignature:
			if cmdSize >= 16 {
				sigCmdOffset = cmdOffset
				sigCmdSize = uint32(cmdSize)
				sigDataOff = binary.LittleEndian.Uint32(data[cmdOffset+sigDataoffOffset : cmdOffset+sigDataoffOffset+4])
				sigDataSize = binary.LittleEndian.Uint32(data[cmdOffset+sigDatasizeOffset : cmdOffset+sigDatasizeOffset+4])
			}
		case lcSegment64:
			if cmdSize >= segFilesizeOff+8 &&
				bytesEqual(data[cmdOffset+segnameOffset:cmdOffset+segnameOffset+16], linkEditSegName) {
				linkEditOffset = cmdOffset
			}
		}

		cmdOffset += cmdSize
	}

	if sigCmdOffset < 0 {
		logger.Debug("Mach-O image carries no code signature", "path", path)
		return false, view.close()
	}

	// The signature blob must be the file's tail, otherwise truncation would
	// eat real content.
	if int64(sigDataOff)+int64(sigDataSize) != int64(len(data)) {
		logger.Warn("Code signature is not at end of file, leaving image unchanged",
			"path", path,
			"data_off", sigDataOff,
			"data_size", sigDataSize,
			"file_size", len(data))
		return false, view.close()
	}

	logger.Debug("Stripping Mach-O code signature",
		"path", path,
		"signature_bytes", sigDataSize,
		"new_size", sigDataOff)

	binary.LittleEndian.PutUint32(data[machoNcmdsOffset:machoNcmdsOffset+4], ncmds-1)
	binary.LittleEndian.PutUint32(data[machoSizeofcmdsOffset:machoSizeofcmdsOffset+4], sizeofcmds-sigCmdSize)
	for i := sigCmdOffset; i < sigCmdOffset+int(sigCmdSize); i++ {
		data[i] = 0
	}

	if linkEditOffset >= 0 {
		fsOff := linkEditOffset + segFilesizeOff
		linkEditFilesize := binary.LittleEndian.Uint64(data[fsOff : fsOff+8])
		binary.LittleEndian.PutUint64(data[fsOff:fsOff+8], linkEditFilesize-uint64(sigDataSize))
	}

	if err := view.close(); err != nil {
		return false, err
	}

	if err := os.Truncate(path, int64(sigDataOff)); err != nil {
		return false, fmt.Errorf("failed to truncate stripped Mach-O %s: %w", path, err)
	}

	return true, nil
}
