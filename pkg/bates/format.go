package bates

import (
	"fmt"
	"regexp"
	"strconv"
)

var numberPattern = regexp.MustCompile(`^(\D*)(\d+)(\D*)$`)

var digitPattern = regexp.MustCompile(`\d+`)

// Format produces a Bates identifier: prefix + zero-padded number + suffix.
// Numbers wider than the padding are not truncated.
func Format(number int64, prefix, suffix string, padding int) string {
	return fmt.Sprintf("%s%0*d%s", prefix, padding, number, suffix)
}

// Parse splits a Bates identifier around its first run of digits.
// Returns an error if the identifier contains no digits.
func Parse(id string) (prefix string, number int64, suffix string, err error) {
	m := numberPattern.FindStringSubmatch(id)
	if m == nil {
		return "", 0, "", fmt.Errorf("bates: no numeric component in %q", id)
	}

	n, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return "", 0, "", fmt.Errorf("bates: numeric component of %q: %w", id, err)
	}

	return m[1], n, m[3], nil
}

// ExtractNumber returns the value of the first run of digits in id,
// or 0 if id contains none. Mirrors the lenient parsing used when
// ingesting ranges produced by other tools.
func ExtractNumber(id string) int64 {
	m := digitPattern.FindString(id)
	if m == "" {
		return 0
	}
	n, err := strconv.ParseInt(m, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// PaddingOf returns the digit width of the first run of digits in id,
// or 0 if id contains none.
func PaddingOf(id string) int {
	return len(digitPattern.FindString(id))
}
