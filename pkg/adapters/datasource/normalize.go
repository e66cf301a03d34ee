package datasource

import (
	"math"
	"strconv"
	"strings"
)

// maxExactFloatInt is the largest integer a float64 holds exactly.
const maxExactFloatInt = 1 << 53

// NormalizeNumber rewrites numeric text to a canonical form so that values
// a spreadsheet would treat as the same number compare equal: "007", "7",
// "7.0" and "7e0" all become "7", "0.50" becomes "0.5". Anything that does
// not parse as a finite number is returned unchanged. Integers are never
// routed through float64, so distinct large keys stay distinct.
func NormalizeNumber(s string) string {
	if s == "" {
		return s
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return strconv.FormatInt(i, 10)
	}
	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return strconv.FormatUint(u, 10)
	}
	if sign, digits, ok := splitInteger(s); ok {
		digits = strings.TrimLeft(digits, "0")
		if digits == "" {
			return "0"
		}
		return sign + digits
	}

	// ParseFloat accepts "inf", "nan" and hex floats; only plain decimals are
	// numbers here.
	if !isDecimal(s) {
		return s
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return s
	}
	if f == math.Trunc(f) && math.Abs(f) < maxExactFloatInt {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func isDecimal(s string) bool {
	digits := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			digits++
		case c == '.' || c == 'e' || c == 'E' || c == '+' || c == '-':
		default:
			return false
		}
	}
	return digits > 0
}

// splitInteger reports whether s is an optionally signed run of decimal
// digits. A leading '+' is dropped from the returned sign.
func splitInteger(s string) (sign, digits string, ok bool) {
	switch s[0] {
	case '-':
		sign, digits = "-", s[1:]
	case '+':
		digits = s[1:]
	default:
		digits = s
	}
	if digits == "" {
		return "", "", false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return "", "", false
		}
	}
	return sign, digits, true
}
