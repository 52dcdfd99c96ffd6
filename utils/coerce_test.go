package utils

import "testing"

func TestCoerceBool(t *testing.T) {
	cases := []struct {
		in     interface{}
		want   bool
		wantOK bool
	}{
		{true, true, true},
		{false, false, true},
		{"true", true, true},
		{"True", true, true},
		{" TRUE ", true, true},
		{"false", false, true},
		{"0", false, true},
		{"1", true, true},
		{float64(1), true, true},
		{float64(0), false, true},
		{1, true, true},
		{0, false, true},
		{"banana", false, false},
		{"", false, false},
		{nil, false, false},
		{[]string{"true"}, false, false},
	}

	for _, tc := range cases {
		got, ok := CoerceBool(tc.in)
		if got != tc.want || ok != tc.wantOK {
			t.Errorf("CoerceBool(%#v) = (%v, %v), want (%v, %v)", tc.in, got, ok, tc.want, tc.wantOK)
		}
	}
}
