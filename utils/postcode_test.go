package utils

import "testing"

func TestNormalizePostcode(t *testing.T) {
	cases := map[string]string{
		"se17 3ry":   "SE173RY",
		"SE17 3RY":   "SE173RY",
		" sw1a 1aa ": "SW1A1AA",
		"NW1  8QL":   "NW18QL",
		"":           "",
	}
	for in, want := range cases {
		if got := NormalizePostcode(in); got != want {
			t.Errorf("NormalizePostcode(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidatePostcode(t *testing.T) {
	valid := []string{"SE17 3RY", "se173ry", "SW1A 1AA", "M1 1AE", "B33 8TH"}
	for _, pc := range valid {
		if !ValidatePostcode(pc) {
			t.Errorf("expected %q to be valid", pc)
		}
	}

	// Outward-only and junk inputs are rejected
	invalid := []string{"SE17", "NW1", "", "12345", "not a postcode"}
	for _, pc := range invalid {
		if ValidatePostcode(pc) {
			t.Errorf("expected %q to be invalid", pc)
		}
	}
}

func TestDisplayPostcode(t *testing.T) {
	if got := DisplayPostcode("SE173RY"); got != "SE17 3RY" {
		t.Errorf("DisplayPostcode(SE173RY) = %q", got)
	}
	if got := DisplayPostcode("sw1a1aa"); got != "SW1A 1AA" {
		t.Errorf("DisplayPostcode(sw1a1aa) = %q", got)
	}
	// Invalid input passes through untouched
	if got := DisplayPostcode("SE17"); got != "SE17" {
		t.Errorf("DisplayPostcode(SE17) = %q", got)
	}
}
