package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandRecurrenceSingle(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	windows, err := ExpandRecurrence(start, 90, CadenceNone, 0)
	require.NoError(t, err)
	require.Len(t, windows, 1)
	assert.Equal(t, start, windows[0].Start)
	assert.Equal(t, start.Add(90*time.Minute), windows[0].End)
}

func TestExpandRecurrenceWeekly(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	windows, err := ExpandRecurrence(start, 60, CadenceWeekly, 3)
	require.NoError(t, err)
	require.Len(t, windows, 3)
	for i, w := range windows {
		wantStart := start.AddDate(0, 0, 7*i)
		assert.Equal(t, wantStart, w.Start, "occurrence %d", i)
		assert.Equal(t, wantStart.Add(time.Hour), w.End, "occurrence %d", i)
	}
}

func TestExpandRecurrenceMonthlyUsesThirtyDaySteps(t *testing.T) {
	// Steps are a fixed 30 days, not calendar months: starting Jan 31 the
	// second occurrence lands on Mar 2, not Feb 28.
	start := time.Date(2026, 1, 31, 10, 0, 0, 0, time.UTC)

	windows, err := ExpandRecurrence(start, 60, CadenceMonthly, 2)
	require.NoError(t, err)
	require.Len(t, windows, 2)
	assert.Equal(t, time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC), windows[1].Start)
}

func TestExpandRecurrenceRejects(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		duration    int
		cadence     Cadence
		occurrences int
	}{
		{"zero duration", 0, CadenceNone, 1},
		{"negative duration", -30, CadenceWeekly, 2},
		{"unknown cadence", 60, Cadence("daily"), 2},
		{"weekly without occurrence count", 60, CadenceWeekly, 0},
		{"monthly with negative count", 60, CadenceMonthly, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExpandRecurrence(start, tt.duration, tt.cadence, tt.occurrences)
			assert.True(t, errors.Is(err, ErrValidation))
			assert.Equal(t, ReasonInvalidRecurrence, RejectionCode(err))
		})
	}
}
