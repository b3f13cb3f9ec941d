package extract

import "testing"

func TestPhoneAccepted(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"bare ten digits", "9991234567", "+529991234567"},
		{"inside sentence", "mi numero es 9991234567", "+529991234567"},
		{"spaced groups", "999 123 45 67", "+529991234567"},
		{"country prefix", "529991234567", "+529991234567"},
		{"plus country prefix", "+52 999 123 4567", "+529991234567"},
		{"prefix with extra digit", "5219991234567", "+529991234567"},
		{"dashes", "999-123-4567", "+529991234567"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Phone(tc.input)
			if !ok {
				t.Fatalf("Phone(%q) returned no match, want %q", tc.input, tc.want)
			}
			if got != tc.want {
				t.Errorf("Phone(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestPhoneRejected(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"too short", "999123456"},
		{"too long without prefix", "99912345678"},
		{"leading zero", "0991234567"},
		{"leading one", "1991234567"},
		{"no digits", "no tengo teléfono"},
		{"empty", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got, ok := Phone(tc.input); ok {
				t.Errorf("Phone(%q) = %q, want no match", tc.input, got)
			}
		})
	}
}

// Extraction followed by re-extraction of its own output is idempotent:
// "+529991234567" carries the 52 prefix and twelve digits, so the last ten
// are kept again.
func TestPhoneIdempotent(t *testing.T) {
	first, ok := Phone("9991234567")
	if !ok {
		t.Fatal("Phone returned no match for valid ten digits")
	}
	second, ok := Phone(first)
	if !ok {
		t.Fatalf("Phone(%q) returned no match on its own output", first)
	}
	if first != second {
		t.Errorf("Phone not idempotent: %q -> %q", first, second)
	}
}
