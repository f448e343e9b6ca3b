package scpi

import "testing"

func TestConvertInt(t *testing.T) {
	tests := []struct {
		name     string
		tok      string
		wantVal  int32
		wantCode int32
	}{
		{"plain", "42", 42, 0},
		{"negative", "-7", -7, 0},
		{"explicit plus", "+5", 5, 0},
		{"kilo multiplier", "2k", 2000, 0},
		{"milli multiplier", "500m", 1, 0},
		{"mega multiplier", "3M", 3000000, 0},
		{"empty", "", 0, -121},
		{"not a number", "abc", 0, -121},
		{"unknown suffix", "5x", 0, -121},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, code, _ := convertInt(tt.tok)
			if code != tt.wantCode {
				t.Fatalf("convertInt(%q) code = %d, want %d", tt.tok, code, tt.wantCode)
			}
			if code == 0 && got != tt.wantVal {
				t.Errorf("convertInt(%q) = %d, want %d", tt.tok, got, tt.wantVal)
			}
		})
	}
}

func TestConvertFloat(t *testing.T) {
	tests := []struct {
		name     string
		tok      string
		wantCode int32
	}{
		{"plain", "3.25", 0},
		{"exponent", "1.5e3", 0},
		{"empty", "", -121},
		{"garbage", "xyz", -121},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, code, _ := convertFloat(tt.tok)
			if code != tt.wantCode {
				t.Errorf("convertFloat(%q) code = %d, want %d", tt.tok, code, tt.wantCode)
			}
		})
	}
}

func TestConvertBool(t *testing.T) {
	tests := []struct {
		name     string
		tok      string
		want     bool
		wantCode int32
	}{
		{"zero", "0", false, 0},
		{"one", "1", true, 0},
		{"on", "ON", true, 0},
		{"off lowercase", "off", false, 0},
		{"invalid", "maybe", false, -120},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, code, _ := convertBool(tt.tok)
			if code != tt.wantCode {
				t.Fatalf("convertBool(%q) code = %d, want %d", tt.tok, code, tt.wantCode)
			}
			if code == 0 && got != tt.want {
				t.Errorf("convertBool(%q) = %v, want %v", tt.tok, got, tt.want)
			}
		})
	}
}

func TestConvertChardata(t *testing.T) {
	tests := []struct {
		name     string
		tok      string
		wantCode int32
	}{
		{"plain word", "IMMediate", 0},
		{"with underscore", "FOO_BAR", 0},
		{"empty", "", -141},
		{"contains colon", "FOO:BAR", -141},
		{"too long", string(make([]byte, 65)), -144},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, code, _ := convertChardata(tt.tok)
			if code != tt.wantCode {
				t.Errorf("convertChardata(%q) code = %d, want %d", tt.tok, code, tt.wantCode)
			}
		})
	}
}
