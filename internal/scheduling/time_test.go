package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinutesOrZero(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"00:00", 0},
		{"08:30", 510},
		{"20:30", 1230},
		{"9:05", 545},
		{"", 0},
		{"noon", 0},
		{"12h30", 0},
		{"ab:cd", 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, MinutesOrZero(tc.in), "input %q", tc.in)
	}
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "00:00", FormatMinutes(0))
	assert.Equal(t, "08:30", FormatMinutes(510))
	assert.Equal(t, "20:30", FormatMinutes(1230))
}

func TestConflictsBufferBoundary(t *testing.T) {
	const buffer = 30

	// 09:00-10:00 existing, request starting exactly buffer later is free.
	assert.False(t, Conflicts(630, 660, 540, 600, false, buffer), "gap of exactly the buffer is not a conflict")
	assert.True(t, Conflicts(629, 660, 540, 600, false, buffer), "gap one minute short of the buffer conflicts")

	// Symmetric on the other side.
	assert.False(t, Conflicts(480, 510, 540, 600, false, buffer))
	assert.True(t, Conflicts(480, 511, 540, 600, false, buffer))
}

func TestConflictsSamePersonExemption(t *testing.T) {
	// Back-to-back for the same person is allowed.
	assert.False(t, Conflicts(600, 660, 540, 600, true, 30))
	// Literal overlap stays forbidden even for the same person.
	assert.True(t, Conflicts(599, 660, 540, 600, true, 30))
}
