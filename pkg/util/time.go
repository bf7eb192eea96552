package util

import (
	"regexp"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

var sincePattern = regexp.MustCompile(`^(\d+)([wdhms])$`)

var sinceUnits = map[string]time.Duration{
	"s": time.Second,
	"m": time.Minute,
	"h": time.Hour,
	"d": 24 * time.Hour,
	"w": 7 * 24 * time.Hour,
}

// ParseSince parses a cutoff such as "30m", "12h", "2d" or "1w". Unlike
// time.ParseDuration it accepts days and weeks, and exactly one unit.
func ParseSince(s string) (time.Duration, error) {
	m := sincePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, errors.Errorf("invalid since %q, the format is \\d+[wdhms]", s)
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid since %q", s)
	}
	return time.Duration(n) * sinceUnits[m[2]], nil
}
