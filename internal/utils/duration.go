package utils

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// ParseWindow parses a human duration like "30m", "24h" or "7d" into a
// time.Duration. A bare integer is taken as seconds. "continuous" returns
// zero with no error, meaning no bound.
func ParseWindow(s string) (time.Duration, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	if s == "" {
		return 0, errors.New("empty duration")
	}

	if s == "continuous" {
		return 0, nil
	}

	unit := time.Second
	digits := s

	switch {
	case strings.HasSuffix(s, "d"):
		unit = 24 * time.Hour
		digits = s[:len(s)-1]
	case strings.HasSuffix(s, "h"):
		unit = time.Hour
		digits = s[:len(s)-1]
	case strings.HasSuffix(s, "m"):
		unit = time.Minute
		digits = s[:len(s)-1]
	case strings.HasSuffix(s, "s"):
		digits = s[:len(s)-1]
	}

	n, err := strconv.Atoi(digits)

	if err != nil || n < 0 {
		return 0, errors.New("invalid duration format: " + s)
	}

	return time.Duration(n) * unit, nil
}
