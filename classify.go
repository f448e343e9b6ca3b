package scpi

import "strings"

// Character classification and header pattern matching per the SCPI-1999
// short/long form rule. Operates on the ASCII subset only — SCPI headers and
// arguments are never Unicode, so this intentionally bypasses unicode.IsSpace
// and friends.

// isWhite reports whether b is SCPI whitespace: any codepoint in [0..9] or
// [11..32]. Codepoint 10 (LF) is excluded — it is the sole line terminator,
// never whitespace.
func isWhite(b byte) bool {
	return b <= 9 || (b >= 11 && b <= 32)
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isAlphaNum(b byte) bool {
	return isAlpha(b) || isDigit(b)
}

// isIdentChar reports whether b may appear inside a header token: letters,
// digits, underscore, plus the leading '*' of a common command and the
// trailing '?' of a query.
func isIdentChar(b byte) bool {
	return isAlphaNum(b) || b == '_' || b == '*' || b == '?'
}

func toUpperByte(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}

// matchPattern implements the SCPI-1999 short/long header matching rule: a
// pattern such as "MEASure" mandates the uppercase prefix ("MEAS") and
// accepts the value only if it equals that prefix exactly, or equals the
// pattern's full upper-cased form exactly ("MEASURE") — there is no partial
// credit for matching some but not all of the optional lowercase suffix.
// Comparison is case-insensitive. A leading '*' is a literal, mandatory
// character, not part of the optional suffix.
//
// A trailing '?' in pattern marks a query and is handled separately from the
// short/long suffix rule: it is mandatory in value too, but it attaches
// after whichever form (short or long) the value chose, not at a fixed
// offset — "VOLTage?" must accept both "VOLT?" and "VOLTAGE?", so the '?' is
// stripped from both sides before the short/long comparison runs.
func matchPattern(pattern, value string) bool {
	if strings.HasSuffix(pattern, "?") {
		if !strings.HasSuffix(value, "?") {
			return false
		}
		pattern = pattern[:len(pattern)-1]
		value = value[:len(value)-1]
	} else if strings.HasSuffix(value, "?") {
		return false
	}

	shortLen := len(pattern)
	for i := 0; i < len(pattern); i++ {
		if pattern[i] >= 'a' && pattern[i] <= 'z' {
			shortLen = i
			break
		}
	}

	if len(value) != shortLen && len(value) != len(pattern) {
		return false
	}

	n := len(value)
	for i := 0; i < n; i++ {
		if toUpperByte(pattern[i]) != toUpperByte(value[i]) {
			return false
		}
	}
	return n == shortLen || n == len(pattern)
}
