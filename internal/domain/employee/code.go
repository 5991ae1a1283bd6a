package employee

import (
	"fmt"
	"strconv"
	"strings"
)

const codePrefix = "EMP"

// NextEmployeeCode returns the code following last for the given year, in the form EMP{year}{seq}.
// The sequence keeps the width of the previous one, with a minimum of three digits.
func NextEmployeeCode(last string, year int) string {
	yearStr := strconv.Itoa(year)
	prefix := codePrefix + yearStr
	first := prefix + "001"

	if last == "" || !strings.HasPrefix(last, prefix) {
		return first
	}

	seq := strings.TrimPrefix(last, prefix)
	// Codes like EMP20262026002 carry the year twice.
	if strings.HasPrefix(seq, yearStr) && len(seq) > len(yearStr) {
		seq = strings.TrimPrefix(seq, yearStr)
	}

	n, ok := leadingNumber(seq)
	if !ok {
		return first
	}

	return fmt.Sprintf("%s%0*d", prefix, max(3, len(seq)), n+1)
}

// leadingNumber parses the run of digits at the start of s.
func leadingNumber(s string) (int, bool) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
