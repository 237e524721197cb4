package utils

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var numberPattern = regexp.MustCompile(`\d+\.?\d*`)

// ToFloat coerces survey-sheet values to a float. Clean numeric strings
// parse directly; noisy ones (units, stray symbols) fall back to the first
// numeric run; anything else is 0.
func ToFloat(value string) float64 {
	s := strings.TrimSpace(value)
	if s == "" {
		return 0
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if m := numberPattern.FindString(s); m != "" {
		if f, err := strconv.ParseFloat(m, 64); err == nil {
			return f
		}
	}
	return 0
}

// RoundTo rounds v to the given number of decimal places.
func RoundTo(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
