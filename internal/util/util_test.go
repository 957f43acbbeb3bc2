package util

import "testing"

func TestMaskToken(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"eyJhbGciOiJIUzI1NiJ9", "eyJh...NiJ9"},
		{"abcdef", "ab...ef"},
		{"abc", "a...c"},
		{"ab", "..."},
		{"", "..."},
	}
	for _, tc := range cases {
		if got := MaskToken(tc.in); got != tc.want {
			t.Fatalf("MaskToken(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
