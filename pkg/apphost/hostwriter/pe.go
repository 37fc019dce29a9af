package hostwriter

import (
	"encoding/binary"
	"fmt"

	apperrors "github.com/provide-io/apphost/go/apphost/pkg/apphost/errors"
)

const (
	// e_lfanew: 4-byte little-endian offset of the PE header, stored at 0x3C
	// in the DOS header.
	peHeaderOffsetLocation = 0x3C

	coffHeaderSize = 20

	// Subsystem lives at offset 68 of the optional header for both PE32 and
	// PE32+ images.
	subsystemFieldOffset = 68

	imageSubsystemWindowsGUI = 2
)

var peSignature = []byte{'P', 'E', 0, 0}

// isPEImage checks whether the mapped view holds a Windows PE image by
// inspecting the DOS magic and the PE signature, without parsing the rest of
// the format. ELF and Mach-O inputs fail the first check already.
func isPEImage(view []byte) bool {
	if len(view) < peHeaderOffsetLocation+4 {
		return false
	}
	if view[0] != 'M' || view[1] != 'Z' {
		return false
	}

	peOffset := int(binary.LittleEndian.Uint32(view[peHeaderOffsetLocation : peHeaderOffsetLocation+4]))
	if peOffset < 0 || peOffset+len(peSignature) > len(view) {
		return false
	}

	return bytesEqual(view[peOffset:peOffset+len(peSignature)], peSignature)
}

// setWindowsGUISubsystem overwrites the PE subsystem field with the Windows
// GUI subsystem code so the apphost starts without a console window. Calling
// this on a non-PE view is a programmer error reported as ErrNotPEImage.
func setWindowsGUISubsystem(view []byte) error {
	if !isPEImage(view) {
		return apperrors.ErrNotPEImage
	}

	peOffset := int(binary.LittleEndian.Uint32(view[peHeaderOffsetLocation : peHeaderOffsetLocation+4]))
	subsystemOffset := peOffset + len(peSignature) + coffHeaderSize + subsystemFieldOffset
	if subsystemOffset+2 > len(view) {
		return fmt.Errorf("subsystem field at 0x%x beyond file bounds (%d bytes)", subsystemOffset, len(view))
	}

	binary.LittleEndian.PutUint16(view[subsystemOffset:subsystemOffset+2], imageSubsystemWindowsGUI)
	return nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
