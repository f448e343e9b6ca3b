package scpi

import "testing"

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		value   string
		want    bool
	}{
		{"short form exact", "MEASure", "MEAS", true},
		{"long form exact", "MEASure", "MEASURE", true},
		{"case insensitive short", "MEASure", "meas", true},
		{"case insensitive long", "MEASure", "measure", true},
		{"partial suffix rejected", "MEASure", "MEASUR", false},
		{"partial suffix rejected shorter", "MEASure", "MEA", false},
		{"second pattern short form", "STATus", "STAT", true},
		{"second pattern long form", "STATus", "STATUS", true},
		{"common command literal star", "*IDN?", "*IDN?", true},
		{"common command wrong case", "*IDN?", "*idn?", true},
		{"query mark mandatory", "NEXT?", "NEXT", false},
		{"three-letter short form", "CLEar", "CLE", true},
		{"three-letter short form long", "CLEar", "CLEAR", true},
		{"trailing garbage rejected", "MEASure", "MEASUREX", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchPattern(tt.pattern, tt.value); got != tt.want {
				t.Errorf("matchPattern(%q, %q) = %v, want %v", tt.pattern, tt.value, got, tt.want)
			}
		})
	}
}

func TestIsWhite(t *testing.T) {
	tests := []struct {
		name string
		b    byte
		want bool
	}{
		{"tab", '\t', true},
		{"space", ' ', true},
		{"linefeed excluded", '\n', false},
		{"letter", 'A', false},
		{"carriage return", '\r', true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isWhite(tt.b); got != tt.want {
				t.Errorf("isWhite(%q) = %v, want %v", tt.b, got, tt.want)
			}
		})
	}
}

func TestIsIdentChar(t *testing.T) {
	tests := []struct {
		name string
		b    byte
		want bool
	}{
		{"letter", 'A', true},
		{"digit", '5', true},
		{"underscore", '_', true},
		{"star", '*', true},
		{"question mark", '?', true},
		{"colon excluded", ':', false},
		{"space excluded", ' ', false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isIdentChar(tt.b); got != tt.want {
				t.Errorf("isIdentChar(%q) = %v, want %v", tt.b, got, tt.want)
			}
		})
	}
}
