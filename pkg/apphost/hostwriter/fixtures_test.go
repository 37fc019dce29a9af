package hostwriter

// Synthetic executable fixtures. Templates are byte buffers with the
// placeholder region and the bundle header region embedded once, wrapped in
// PE / Mach-O / plain-junk framing depending on the scenario.

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// placeholderRegion is the slot as a template carries it: the hex seed
// followed by zeros up to capacity.
func placeholderRegion() []byte {
	return appBinaryPathPlaceholder()
}

// bundleRegion is the zeroed offset field followed by the signature.
func bundleRegion() []byte {
	region := make([]byte, bundleOffsetFieldSize+len(bundleSignature))
	copy(region[bundleOffsetFieldSize:], bundleSignature)
	return region
}

// plainTemplate is a non-PE, non-Mach-O template: junk framing around the
// placeholder and bundle regions.
func plainTemplate() []byte {
	buf := []byte("APPHOST-TEMPLATE\x00\x01\x02\x03")
	buf = append(buf, placeholderRegion()...)
	buf = append(buf, []byte("\x7fELF-not-really")...)
	buf = append(buf, bundleRegion()...)
	buf = append(buf, []byte("trailing template bytes")...)
	return buf
}

// peTemplate is a minimal console-subsystem PE image followed by the
// placeholder and bundle regions.
func peTemplate() []byte {
	const peOffset = 0x80
	header := make([]byte, peOffset+4+coffHeaderSize+96)
	header[0] = 'M'
	header[1] = 'Z'
	binary.LittleEndian.PutUint32(header[peHeaderOffsetLocation:], peOffset)
	copy(header[peOffset:], peSignature)
	// PE32+ magic and console subsystem
	binary.LittleEndian.PutUint16(header[peOffset+4+coffHeaderSize:], 0x20B)
	binary.LittleEndian.PutUint16(header[peOffset+4+coffHeaderSize+subsystemFieldOffset:], 3)

	buf := header
	buf = append(buf, placeholderRegion()...)
	buf = append(buf, bundleRegion()...)
	return buf
}

const machoFixtureSigSize = 64

// machoTemplate is a minimal signed 64-bit Mach-O image: header, a
// __LINKEDIT segment command, a code-signature command, the placeholder and
// bundle regions as payload, and a fake signature blob at the tail.
func machoTemplate() []byte {
	payload := append(placeholderRegion(), bundleRegion()...)

	const (
		segCmdSize = 72
		sigCmdSize = 16
	)
	contentStart := machoHeader64Size + segCmdSize + sigCmdSize
	sigDataOff := contentStart + len(payload)
	total := sigDataOff + machoFixtureSigSize

	buf := make([]byte, total)
	binary.LittleEndian.PutUint32(buf[0:], machoMagic64)
	binary.LittleEndian.PutUint32(buf[4:], 0x0100000c)  // cputype arm64
	binary.LittleEndian.PutUint32(buf[12:], 2)          // filetype MH_EXECUTE
	binary.LittleEndian.PutUint32(buf[machoNcmdsOffset:], 2)
	binary.LittleEndian.PutUint32(buf[machoSizeofcmdsOffset:], segCmdSize+sigCmdSize)

	seg := machoHeader64Size
	binary.LittleEndian.PutUint32(buf[seg:], lcSegment64)
	binary.LittleEndian.PutUint32(buf[seg+4:], segCmdSize)
	copy(buf[seg+segnameOffset:], linkEditSegName)
	binary.LittleEndian.PutUint64(buf[seg+40:], uint64(contentStart)) // fileoff
	binary.LittleEndian.PutUint64(buf[seg+segFilesizeOff:], uint64(len(payload)+machoFixtureSigSize))

	sig := seg + segCmdSize
	binary.LittleEndian.PutUint32(buf[sig:], lcCodeSignature)
	binary.LittleEndian.PutUint32(buf[sig+4:], sigCmdSize)
	binary.LittleEndian.PutUint32(buf[sig+sigDataoffOffset:], uint32(sigDataOff))
	binary.LittleEndian.PutUint32(buf[sig+sigDatasizeOffset:], machoFixtureSigSize)

	copy(buf[contentStart:], payload)
	for i := sigDataOff; i < total; i++ {
		buf[i] = 0xCA
	}
	return buf
}

// writeTemplate drops template bytes into a temp dir and returns the path.
func writeTemplate(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}
