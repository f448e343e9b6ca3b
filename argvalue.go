package scpi

import (
	"math"
	"strconv"
	"strings"
)

// ArgValue is a tagged argument value — exactly one of a 32-bit int, 32-bit
// float, bool, bounded text, or a blob length is valid at a time, selected
// by Type.
type ArgValue struct {
	typ     ParamType
	i       int32
	f       float32
	b       bool
	s       string
	blobLen uint32
}

func (v ArgValue) Type() ParamType { return v.typ }
func (v ArgValue) Int() int32      { return v.i }
func (v ArgValue) Float() float32  { return v.f }
func (v ArgValue) Bool() bool      { return v.b }
func (v ArgValue) String() string  { return v.s }
func (v ArgValue) BlobLen() uint32 { return v.blobLen }

var multipliers = map[byte]float64{
	'k': 1e3, 'M': 1e6, 'G': 1e9,
	'm': 1e-3, 'u': 1e-6, 'n': 1e-9, 'p': 1e-12,
}

// convertInt parses "[+-]?digits[mult]", returning the SCPI error code
// (0 for success) and the offending text for the error extra field.
func convertInt(tok string) (int32, int32, string) {
	if tok == "" {
		return 0, -121, tok
	}
	s := tok
	i := 0
	if s[i] == '+' || s[i] == '-' {
		i++
	}
	digitsStart := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i == digitsStart {
		return 0, -121, tok
	}
	numPart := s[:i]
	mult := 1.0
	if i < len(s) {
		m, ok := multipliers[s[i]]
		if !ok || i+1 != len(s) {
			return 0, -121, tok
		}
		mult = m
		i++
	}
	val, err := strconv.ParseInt(numPart, 10, 64)
	if err != nil {
		return 0, -120, tok
	}
	scaled := math.Round(float64(val) * mult)
	if scaled > math.MaxInt32 || scaled < math.MinInt32 {
		return 0, -120, tok
	}
	return int32(scaled), 0, ""
}

func convertFloat(tok string) (float32, int32, string) {
	if tok == "" {
		return 0, -121, tok
	}
	v, err := strconv.ParseFloat(tok, 32)
	if err != nil {
		return 0, -121, tok
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, -123, tok
	}
	return float32(v), 0, ""
}

func convertBool(tok string) (bool, int32, string) {
	switch strings.ToUpper(tok) {
	case "0", "OFF":
		return false, 0, ""
	case "1", "ON":
		return true, 0, ""
	default:
		return false, -120, tok
	}
}

// convertChardata validates an unquoted [A-Za-z0-9_]+ token, ≤ 64 chars.
func convertChardata(tok string) (string, int32, string) {
	if tok == "" {
		return "", -141, tok
	}
	if len(tok) > 64 {
		return "", -144, tok
	}
	for i := 0; i < len(tok); i++ {
		b := tok[i]
		if !isAlphaNum(b) && b != '_' {
			return "", -141, tok
		}
	}
	return tok, 0, ""
}
