package utils

import "testing"

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	tests := []struct {
		in, want string
	}{
		{"~/.config/habitual/habitual.json", "/home/tester/.config/habitual/habitual.json"},
		{"~", "/home/tester"},
		{"/tmp/habitual.db", "/tmp/habitual.db"},
		{"relative.json", "relative.json"},
		{"~other/file", "~other/file"},
	}
	for _, tt := range tests {
		got, err := ExpandPath(tt.in)
		if err != nil {
			t.Fatalf("ExpandPath(%q) failed: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
