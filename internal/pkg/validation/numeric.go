package validation

import (
	"strconv"
	"strings"
)

// SanitizeMarks keeps digits and a single decimal point and clamps the
// value to MaxMarks. An input with no usable number becomes "".
func SanitizeMarks(raw string) string {
	return sanitizeDecimal(raw, MaxMarks)
}

// SanitizeCapacity keeps digits only and clamps the value to MaxCapacity.
func SanitizeCapacity(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return ""
	}

	n, err := strconv.Atoi(digits)
	if err != nil || n > MaxCapacity {
		// overflow only happens for absurdly long digit runs, which are above max anyway
		return strconv.Itoa(MaxCapacity)
	}
	return digits
}

func sanitizeDecimal(raw string, max float64) string {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()

	// collapse everything after the first dot into one fractional part
	if parts := strings.Split(cleaned, "."); len(parts) > 2 {
		cleaned = parts[0] + "." + strings.Join(parts[1:], "")
	}
	if cleaned == "" {
		return ""
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return ""
	}
	if value > max {
		return strconv.FormatFloat(max, 'f', -1, 64)
	}
	return cleaned
}
