package utils

import "testing"

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		ms       int64
		expected string
	}{
		{name: "zero", ms: 0, expected: "0s"},
		{name: "sub-second rounds down", ms: 900, expected: "0s"},
		{name: "seconds only", ms: 42000, expected: "42s"},
		{name: "exactly one minute", ms: 60000, expected: "1m 0s"},
		{name: "minutes and seconds", ms: 201000, expected: "3m 21s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDuration(tt.ms); got != tt.expected {
				t.Errorf("FormatDuration(%d) = %v, want %v", tt.ms, got, tt.expected)
			}
		})
	}
}
