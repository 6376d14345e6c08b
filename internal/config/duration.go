package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ParseDuration converts a user supplied runtime into seconds. It accepts
// plain seconds ("2400", "2400.5"), Go duration strings ("40m", "1h2m3s")
// and clock notation ("40:00", "1:02:03").
func ParseDuration(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty duration")
	}
	var seconds float64
	switch {
	case strings.Contains(value, ":"):
		s, err := parseClock(value)
		if err != nil {
			return 0, err
		}
		seconds = s
	default:
		if s, err := strconv.ParseFloat(value, 64); err == nil {
			seconds = s
			break
		}
		d, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: use seconds, a duration like 40m, or 40:00", value)
		}
		seconds = d.Seconds()
	}
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return 0, fmt.Errorf("invalid duration %q: must be a non-negative number of seconds", value)
	}
	return seconds, nil
}

func parseClock(value string) (float64, error) {
	parts := strings.Split(value, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid clock duration %q", value)
	}
	var total float64
	for i, part := range parts {
		n, err := strconv.ParseFloat(part, 64)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid clock duration %q", value)
		}
		if i > 0 && n >= 60 {
			return 0, fmt.Errorf("invalid clock duration %q: field %q out of range", value, part)
		}
		total = total*60 + n
	}
	return total, nil
}
