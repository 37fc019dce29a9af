package hostwriter

import (
	"encoding/binary"
	"os"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"
)

func TestRemoveCodeSignatureStripsMachO(t *testing.T) {
	logger := hclog.NewNullLogger()
	template := machoTemplate()
	path := writeTemplate(t, "apphost", template)

	stripped, err := removeCodeSignature(path, logger)
	require.NoError(t, err)
	require.True(t, stripped)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// file shrank by exactly the signature blob
	require.Len(t, data, len(template)-machoFixtureSigSize)

	// header no longer announces the signature command
	require.EqualValues(t, 1, binary.LittleEndian.Uint32(data[machoNcmdsOffset:]))
	require.EqualValues(t, 72, binary.LittleEndian.Uint32(data[machoSizeofcmdsOffset:]))

	// the command entry itself is zeroed
	sigCmd := machoHeader64Size + 72
	for i := sigCmd; i < sigCmd+16; i++ {
		require.Zero(t, data[i], "signature command byte %d", i)
	}

	// __LINKEDIT shrank with the file
	segFilesize := binary.LittleEndian.Uint64(data[machoHeader64Size+segFilesizeOff:])
	require.EqualValues(t, len(data)-(machoHeader64Size+72+16), segFilesize)
}

func TestRemoveCodeSignatureIdempotent(t *testing.T) {
	logger := hclog.NewNullLogger()
	path := writeTemplate(t, "apphost", machoTemplate())

	stripped, err := removeCodeSignature(path, logger)
	require.NoError(t, err)
	require.True(t, stripped)

	after, err := os.ReadFile(path)
	require.NoError(t, err)

	stripped, err = removeCodeSignature(path, logger)
	require.NoError(t, err)
	require.False(t, stripped, "second pass finds no signature")

	again, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, after, again)
}

func TestRemoveCodeSignatureNoOpOnOtherFormats(t *testing.T) {
	logger := hclog.NewNullLogger()

	testCases := []struct {
		name string
		data []byte
	}{
		{"pe", peTemplate()},
		{"plain", plainTemplate()},
		{"short", []byte{0xcf, 0xfa}},
		{"macho magic only", append([]byte{0xcf, 0xfa, 0xed, 0xfe}, make([]byte, 64)...)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeTemplate(t, "input", tc.data)

			stripped, err := removeCodeSignature(path, logger)
			require.NoError(t, err)
			require.False(t, stripped)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			require.Equal(t, tc.data, data, "file must stay byte-identical")
		})
	}
}

func TestRemoveCodeSignatureRefusesMidFileSignature(t *testing.T) {
	// A signature that does not reach EOF cannot be stripped by truncation.
	template := machoTemplate()
	template = append(template, []byte("overlay data after the signature")...)
	path := writeTemplate(t, "apphost", template)

	stripped, err := removeCodeSignature(path, hclog.NewNullLogger())
	require.NoError(t, err)
	require.False(t, stripped)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, template, data)
}
