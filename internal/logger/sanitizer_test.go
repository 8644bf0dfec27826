package logger

import (
	"errors"
	"testing"
)

func TestSanitizer_Sanitize(t *testing.T) {
	s := NewSanitizer()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "windows user path",
			input:    "copying C:\\Users\\john\\Documents\\file.txt",
			expected: "copying ***:\\Users\\***\\Documents\\file.txt",
		},
		{
			name:     "unix home path",
			input:    "source /home/john/photos",
			expected: "source /home/***/photos",
		},
		{
			name:     "macos home path",
			input:    "dest /Users/jane/Backup",
			expected: "dest /Users/***/Backup",
		},
		{
			name:     "root home",
			input:    "/root/data",
			expected: "/***/data",
		},
		{
			name:     "no home",
			input:    "/srv/data/a.txt",
			expected: "/srv/data/a.txt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Sanitize(tt.input); got != tt.expected {
				t.Errorf("Sanitize() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSanitizer_SanitizeArgs(t *testing.T) {
	s := NewSanitizer()

	args := []any{
		"path", "/home/john/a.txt",
		"error", errors.New("open /home/john/a.txt: permission denied"),
		"size", 1024,
	}
	result := s.SanitizeArgs(args)

	if result[1] != "/home/***/a.txt" {
		t.Errorf("string value = %v", result[1])
	}
	if result[3] != "open /home/***/a.txt: permission denied" {
		t.Errorf("error value = %v", result[3])
	}
	if result[5] != 1024 {
		t.Errorf("int value changed: %v", result[5])
	}
	if args[1] != "/home/john/a.txt" {
		t.Error("input slice was modified")
	}
}

func TestSanitizer_Nil(t *testing.T) {
	var s *Sanitizer
	if s.Sanitize("/home/john") != "/home/john" {
		t.Error("nil sanitizer must pass input through")
	}
	args := []any{"k", "v"}
	if got := s.SanitizeArgs(args); len(got) != 2 || got[1] != "v" {
		t.Errorf("nil SanitizeArgs = %v", got)
	}
}

func TestSanitizer_AddRule(t *testing.T) {
	s := NewSanitizer()

	if err := s.AddRule(`/mnt/secret/\S+`, "/mnt/secret/***"); err != nil {
		t.Fatalf("AddRule failed: %v", err)
	}

	got := s.Sanitize("copy /mnt/secret/plans.txt done")
	if got != "copy /mnt/secret/*** done" {
		t.Errorf("got %q", got)
	}

	if err := s.AddRule(`(`, "x"); err == nil {
		t.Error("expected error for invalid pattern")
	}
}
