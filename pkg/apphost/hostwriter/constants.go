// Package hostwriter produces native apphost launchers for managed
// application payloads by patching a prebuilt template executable in place.
package hostwriter

// Binary constants of the apphost template format. These values are embedded
// in existing templates and must never change.

const (
	// appBinaryPathPlaceholderSeed is the printable marker at the start of the
	// placeholder region: SHA-256 of "foobar", hex-encoded.
	appBinaryPathPlaceholderSeed = "c3ab8ff13720e8ad9047dd39466b3c8974e592c2fa383d4a3960714caef0c4f2"

	// MaxAppBinaryPathBytes is the capacity of the placeholder region reserved
	// in the template. The UTF-8 encoded payload path must fit in it.
	MaxAppBinaryPathBytes = 1024

	// bundleOffsetFieldSize is the width of the little-endian offset field
	// immediately preceding the bundle signature.
	bundleOffsetFieldSize = 8
)

// bundleSignature is the 32-byte SHA-256-derived anchor that locates the
// bundle header region. The 8 bytes before it hold the file offset of the
// bundle metadata; zero means the apphost is not a single-file bundle.
var bundleSignature = []byte{
	0x8b, 0x12, 0x02, 0xb9, 0x6a, 0x61, 0x20, 0x38,
	0x72, 0x7b, 0x93, 0x02, 0x14, 0xd7, 0xa0, 0x32,
	0x13, 0xf5, 0xb9, 0xe6, 0xef, 0xae, 0x33, 0x18,
	0xee, 0x3b, 0x2d, 0xce, 0x24, 0xb3, 0x6a, 0xae,
}

// appBinaryPathPlaceholder returns the full placeholder pattern: the hex seed
// followed by zeros up to the region capacity. A valid template contains this
// pattern exactly once.
func appBinaryPathPlaceholder() []byte {
	p := make([]byte, MaxAppBinaryPathBytes)
	copy(p, appBinaryPathPlaceholderSeed)
	return p
}
