package scheduling

import (
	"fmt"
	"strconv"
	"strings"
)

// MinutesOrZero parses an "HH:MM" clock string into minutes since midnight.
// Malformed input yields 0 instead of an error so that a dirty persisted
// record never aborts a sweep or an expansion mid-computation; API input is
// validated before it reaches this package.
func MinutesOrZero(clock string) int {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0
	}
	return h*60 + m
}

// FormatMinutes renders minutes since midnight as "HH:MM".
func FormatMinutes(mins int) string {
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}

// Conflicts reports whether two time ranges collide once inflated by the
// transition buffer. The buffer collapses to zero when both ranges belong to
// the same person, though strict overlap remains forbidden. A gap of exactly
// bufferMinutes is not a conflict.
func Conflicts(reqStart, reqEnd, otherStart, otherEnd int, samePerson bool, bufferMinutes int) bool {
	buffer := bufferMinutes
	if samePerson {
		buffer = 0
	}
	return reqStart < otherEnd+buffer && reqEnd > otherStart-buffer
}
