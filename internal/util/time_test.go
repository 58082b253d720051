package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextMarketDate(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("should have loaded timezone America/New_York: %v", err)
	}

	testCases := []struct {
		name     string
		input    time.Time
		expected time.Time
	}{
		{
			name:     "Weekday before 4:30 PM",
			input:    time.Date(2024, 7, 23, 10, 0, 0, 0, ny),
			expected: time.Date(2024, 7, 23, 16, 30, 0, 0, ny),
		},
		{
			name:     "Weekday after 4:30 PM",
			input:    time.Date(2024, 7, 23, 17, 0, 0, 0, ny),
			expected: time.Date(2024, 7, 24, 16, 30, 0, 0, ny),
		},
		{
			name:     "Friday after 4:30 PM",
			input:    time.Date(2024, 7, 26, 18, 0, 0, 0, ny),
			expected: time.Date(2024, 7, 29, 16, 30, 0, 0, ny),
		},
		{
			name:     "Sunday",
			input:    time.Date(2024, 7, 28, 12, 0, 0, 0, ny),
			expected: time.Date(2024, 7, 29, 16, 30, 0, 0, ny),
		},
		{
			name:     "Exactly 4:30 PM",
			input:    time.Date(2024, 7, 23, 16, 30, 0, 0, ny),
			expected: time.Date(2024, 7, 23, 16, 30, 0, 0, ny),
		},
		{
			name:     "UTC input late on a Friday",
			input:    time.Date(2024, 7, 27, 1, 0, 0, 0, time.UTC), // Friday 9 PM in New York
			expected: time.Date(2024, 7, 29, 16, 30, 0, 0, ny),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := NextMarketDate(tc.input)
			assert.True(t, tc.expected.Equal(got), "expected %v, got %v", tc.expected, got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestTruncateDay(t *testing.T) {
	in := time.Date(2023, 3, 15, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC), TruncateDay(in))
}
