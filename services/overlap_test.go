package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"meeting-room-backend/models"
)

func TestOverlaps(t *testing.T) {
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	at := func(h int) time.Time { return base.Add(time.Duration(h) * time.Hour) }

	tests := []struct {
		name           string
		s1, e1, s2, e2 time.Time
		want           bool
	}{
		{"disjoint before", at(0), at(1), at(2), at(3), false},
		{"disjoint after", at(2), at(3), at(0), at(1), false},
		{"touching back to back", at(0), at(1), at(1), at(2), false},
		{"touching reversed", at(1), at(2), at(0), at(1), false},
		{"partial overlap", at(0), at(2), at(1), at(3), true},
		{"contained", at(0), at(4), at(1), at(2), true},
		{"containing", at(1), at(2), at(0), at(4), true},
		{"identical", at(0), at(1), at(0), at(1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.s1, tt.e1, tt.s2, tt.e2))
			assert.Equal(t, tt.want, Overlaps(tt.s2, tt.e2, tt.s1, tt.e1), "overlap must be symmetric")
		})
	}
}

func TestFirstConflict(t *testing.T) {
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	existing := []models.Reservation{
		{ID: 1, RoomID: 1, StartTime: base, EndTime: base.Add(time.Hour)},
		{ID: 2, RoomID: 2, StartTime: base, EndTime: base.Add(time.Hour)},
		{ID: 3, RoomID: 1, StartTime: base.Add(2 * time.Hour), EndTime: base.Add(3 * time.Hour)},
	}

	t.Run("ignores other rooms", func(t *testing.T) {
		conflict := FirstConflict(existing, 2, base, base.Add(time.Hour), 0)
		if assert.NotNil(t, conflict) {
			assert.Equal(t, uint(2), conflict.ID)
		}
	})

	t.Run("free window", func(t *testing.T) {
		assert.Nil(t, FirstConflict(existing, 1, base.Add(time.Hour), base.Add(2*time.Hour), 0))
	})

	t.Run("excludes self for updates", func(t *testing.T) {
		assert.Nil(t, FirstConflict(existing, 1, base, base.Add(time.Hour), 1))
	})

	t.Run("exclusion does not hide other conflicts", func(t *testing.T) {
		conflict := FirstConflict(existing, 1, base.Add(90*time.Minute), base.Add(150*time.Minute), 1)
		if assert.NotNil(t, conflict) {
			assert.Equal(t, uint(3), conflict.ID)
		}
	})
}
