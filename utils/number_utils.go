package utils

import (
	"math"
	"strconv"
	"strings"
)

var currencyStripper = strings.NewReplacer("$", "", "€", "", "£", "", "¥", "", " ", "", "\u00a0", "")

// ParseNumber coerces a raw cell to a finite float. The second result is false
// for blanks, null tokens and anything that is not a finite number; callers
// treat those cells as missing instead of failing.
func ParseNumber(cell string) (float64, bool) {
	if IsNullCell(cell) {
		return 0, false
	}
	s := currencyStripper.Replace(strings.TrimSpace(cell))

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	if strings.Contains(s, ",") {
		if strings.Contains(s, ".") {
			s = strings.ReplaceAll(s, ",", "")
		} else if i := strings.LastIndex(s, ","); len(s)-i-1 == 3 {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if negative {
		v = -v
	}
	return v, true
}
