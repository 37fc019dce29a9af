package hostwriter

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/provide-io/apphost/go/apphost/pkg/apphost/errors"
)

func TestIsPEImage(t *testing.T) {
	testCases := []struct {
		name string
		view []byte
		want bool
	}{
		{"pe template", peTemplate(), true},
		{"plain junk", plainTemplate(), false},
		{"mach-o", machoTemplate(), false},
		{"elf magic", append([]byte("\x7fELF"), make([]byte, 128)...), false},
		{"too short", []byte("MZ"), false},
		{"mz without pe signature", append([]byte("MZ"), make([]byte, 0x80)...), false},
		{"empty", nil, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, isPEImage(tc.view))
		})
	}
}

func TestSetWindowsGUISubsystem(t *testing.T) {
	view := peTemplate()

	peOffset := int(binary.LittleEndian.Uint32(view[peHeaderOffsetLocation:]))
	subsystemOffset := peOffset + 4 + coffHeaderSize + subsystemFieldOffset
	require.EqualValues(t, 3, binary.LittleEndian.Uint16(view[subsystemOffset:]), "fixture starts as console")

	require.NoError(t, setWindowsGUISubsystem(view))
	require.EqualValues(t, imageSubsystemWindowsGUI, binary.LittleEndian.Uint16(view[subsystemOffset:]))

	// setting again is harmless
	require.NoError(t, setWindowsGUISubsystem(view))
	require.EqualValues(t, imageSubsystemWindowsGUI, binary.LittleEndian.Uint16(view[subsystemOffset:]))
}

func TestSetWindowsGUISubsystemRejectsNonPE(t *testing.T) {
	err := setWindowsGUISubsystem(plainTemplate())
	require.ErrorIs(t, err, apperrors.ErrNotPEImage)
}
