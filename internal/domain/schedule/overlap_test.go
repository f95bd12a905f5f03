package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlaps_Cases(t *testing.T) {
	tests := []struct {
		name         string
		startA, endA string
		startB, endB string
		want         bool
	}{
		{"partial", "10:00", "11:00", "10:30", "11:30", true},
		{"touching after", "10:00", "11:00", "11:00", "12:00", false},
		{"touching before", "10:00", "11:00", "09:00", "10:00", false},
		{"identical", "10:00", "11:00", "10:00", "11:00", true},
		{"contained", "09:00", "17:00", "12:00", "13:00", true},
		{"disjoint", "09:00", "10:00", "14:00", "15:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.startA, tt.endA, tt.startB, tt.endB))
		})
	}
}

func TestOverlaps_Symmetric(t *testing.T) {
	for a := 0; a < 6; a++ {
		for b := a + 1; b <= 6; b++ {
			for c := 0; c < 6; c++ {
				for d := c + 1; d <= 6; d++ {
					assert.Equal(t,
						Overlaps(a, b, c, d),
						Overlaps(c, d, a, b),
						"[%d,%d) vs [%d,%d)", a, b, c, d,
					)
				}
			}
		}
	}
}

func TestOverlapsTime(t *testing.T) {
	base := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	hour := time.Hour

	assert.True(t, OverlapsTime(base, base.Add(hour), base.Add(30*time.Minute), base.Add(90*time.Minute)))
	assert.False(t, OverlapsTime(base, base.Add(hour), base.Add(hour), base.Add(2*hour)))
	assert.True(t, OverlapsTime(base, base.Add(hour), base, base.Add(hour)))
}

func TestValidClock(t *testing.T) {
	for _, ok := range []string{"00:00", "09:30", "23:59"} {
		assert.True(t, ValidClock(ok), ok)
	}
	for _, bad := range []string{"", "9:30", "24:00", "12:60", "12-00", "12:00:00"} {
		assert.False(t, ValidClock(bad), bad)
	}
}

func TestValidRange(t *testing.T) {
	assert.True(t, ValidRange("09:00", "17:00"))
	assert.False(t, ValidRange("17:00", "09:00"))
	assert.False(t, ValidRange("09:00", "09:00"))
}

func TestClockOn(t *testing.T) {
	loc, err := time.LoadLocation("Australia/Sydney")
	require.NoError(t, err)

	day := time.Date(2025, 3, 10, 0, 0, 0, 0, loc)
	got, err := ClockOn(day, "08:30", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 8, 30, 0, 0, loc), got)

	_, err = ClockOn(day, "8:30", loc)
	assert.Error(t, err)
}
