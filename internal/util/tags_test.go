package util

import "testing"

func TestNormalizeTag(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Physics", "physics"},
		{"  Exam Prep ", "exam prep"},
		{"EXAM-PREP", "exam-prep"},
		{"C++", "c++"},
		{"C#", "c#"},
		{"🐉 dragons", "🐉 dragons"},
		{"   ", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeTag(tt.input); got != tt.want {
			t.Errorf("NormalizeTag(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
