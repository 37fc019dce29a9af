package permissions

import "testing"

func TestParseOctalString(t *testing.T) {
	testCases := []struct {
		in      string
		want    uint16
		wantErr bool
	}{
		{"", DefaultAppHostPerms, false},
		{"755", 0o755, false},
		{"0755", 0o755, false},
		{"0o755", 0o755, false},
		{"700", 0o700, false},
		{"644", 0o644, false},
		{"rwx", 0, true},
		{"999", 0, true},
	}

	for _, tc := range testCases {
		got, err := ParseOctalString(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseOctalString(%q): expected error, got %04o", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseOctalString(%q): unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseOctalString(%q) = %04o, want %04o", tc.in, got, tc.want)
		}
	}
}

func TestFormatOctalRoundTrip(t *testing.T) {
	perm, err := ParseOctalString(FormatOctal(0o755))
	if err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
	if perm != 0o755 {
		t.Fatalf("round trip produced %04o", perm)
	}
	if !IsExecutable(perm) {
		t.Fatal("0755 must report executable")
	}
}
