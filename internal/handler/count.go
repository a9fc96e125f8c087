package handler

import (
	"math/big"
	"strings"
)

// ParseCount turns the raw count query value into the LIMIT argument.
//
// An empty value becomes DefaultRecentCount.  Otherwise the value is read
// like a lenient integer parse: leading whitespace, an optional sign and the
// leading decimal digits; anything after them is ignored ("10abc" is 10).
// A 0x or 0X prefix switches to hexadecimal digits ("0x10" is 16).
// When there are no leading digits the result is "NaN", which the database
// rejects, so the request fails with a 500 instead of silently falling back.
// Negative values pass through unchanged for the same reason.
func ParseCount(raw string) string {
	if raw == "" {
		return DefaultRecentCount
	}
	s := strings.TrimLeft(raw, " \t\n\r\v\f")

	sign := ""
	if s != "" && (s[0] == '+' || s[0] == '-') {
		if s[0] == '-' {
			sign = "-"
		}
		s = s[1:]
	}

	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return parseHex(sign, s[2:])
	}

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return "NaN"
	}

	digits := strings.TrimLeft(s[:end], "0")
	if digits == "" {
		return "0"
	}
	return sign + digits
}

// parseHex reads the leading hex digits of s and renders them in decimal.
func parseHex(sign, s string) string {
	end := 0
	for end < len(s) && isHexDigit(s[end]) {
		end++
	}
	if end == 0 {
		return "NaN"
	}
	n, _ := new(big.Int).SetString(s[:end], 16)
	if n.Sign() == 0 {
		return "0"
	}
	return sign + n.String()
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
