package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"meeting-room-backend/config"
	"meeting-room-backend/models"
)

func testPolicy() config.BookingPolicy {
	return config.DefaultBookingPolicy()
}

func TestEvaluatePolicy(t *testing.T) {
	// A Monday morning inside operating hours.
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	p := testPolicy()

	tests := []struct {
		name       string
		role       string
		start, end time.Time
		capacity   int
		attendees  int
		wantClass  error
		wantCode   string
	}{
		{
			name: "accepted",
			role: models.RoleUser, capacity: 10, attendees: 4,
			start: now.Add(48 * time.Hour), end: now.Add(49 * time.Hour),
		},
		{
			name: "end before start",
			role: models.RoleUser, capacity: 10, attendees: 4,
			start: now.Add(49 * time.Hour), end: now.Add(48 * time.Hour),
			wantClass: ErrValidation, wantCode: ReasonEndBeforeStart,
		},
		{
			name: "zero length",
			role: models.RoleUser, capacity: 10, attendees: 4,
			start: now.Add(48 * time.Hour), end: now.Add(48 * time.Hour),
			wantClass: ErrValidation, wantCode: ReasonEndBeforeStart,
		},
		{
			name: "no attendees",
			role: models.RoleUser, capacity: 10, attendees: 0,
			start: now.Add(48 * time.Hour), end: now.Add(49 * time.Hour),
			wantClass: ErrValidation, wantCode: ReasonInvalidAttendees,
		},
		{
			name: "insufficient lead time",
			role: models.RoleUser, capacity: 10, attendees: 4,
			start: now.Add(30 * time.Minute), end: now.Add(90 * time.Minute),
			wantClass: ErrPolicy, wantCode: ReasonInsufficientLeadTime,
		},
		{
			name: "lead time met exactly at one hour boundary is still short",
			role: models.RoleUser, capacity: 10, attendees: 4,
			start: now.Add(59 * time.Minute), end: now.Add(2 * time.Hour),
			wantClass: ErrPolicy, wantCode: ReasonInsufficientLeadTime,
		},
		{
			name: "starts before opening",
			role: models.RoleUser, capacity: 10, attendees: 4,
			start:     time.Date(2026, 3, 4, 7, 0, 0, 0, time.UTC),
			end:       time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC),
			wantClass: ErrPolicy, wantCode: ReasonOutsideOperatingHours,
		},
		{
			name: "starts at closing hour",
			role: models.RoleUser, capacity: 10, attendees: 4,
			start:     time.Date(2026, 3, 4, 20, 0, 0, 0, time.UTC),
			end:       time.Date(2026, 3, 4, 21, 0, 0, 0, time.UTC),
			wantClass: ErrPolicy, wantCode: ReasonOutsideOperatingHours,
		},
		{
			name: "ends exactly at close",
			role: models.RoleUser, capacity: 10, attendees: 4,
			start: time.Date(2026, 3, 4, 19, 0, 0, 0, time.UTC),
			end:   time.Date(2026, 3, 4, 20, 0, 0, 0, time.UTC),
		},
		{
			// The hour comparison ignores minutes; 20:30 has hour 20 too.
			name: "ends past close within the closing hour",
			role: models.RoleUser, capacity: 10, attendees: 4,
			start: time.Date(2026, 3, 4, 19, 30, 0, 0, time.UTC),
			end:   time.Date(2026, 3, 4, 20, 30, 0, 0, time.UTC),
		},
		{
			name: "ends after the closing hour",
			role: models.RoleUser, capacity: 10, attendees: 4,
			start:     time.Date(2026, 3, 4, 19, 0, 0, 0, time.UTC),
			end:       time.Date(2026, 3, 4, 21, 0, 0, 0, time.UTC),
			wantClass: ErrPolicy, wantCode: ReasonOutsideOperatingHours,
		},
		{
			name: "over capacity",
			role: models.RoleUser, capacity: 4, attendees: 5,
			start: now.Add(48 * time.Hour), end: now.Add(49 * time.Hour),
			wantClass: ErrPolicy, wantCode: ReasonCapacityExceeded,
		},
		{
			name: "guest beyond seven days",
			role: models.RoleGuest, capacity: 10, attendees: 4,
			start: now.AddDate(0, 0, 8), end: now.AddDate(0, 0, 8).Add(time.Hour),
			wantClass: ErrPolicy, wantCode: ReasonAdvanceCeiling,
		},
		{
			// 7 days and 23 hours still truncates to 7 whole days.
			name: "guest just under eight days is allowed",
			role: models.RoleGuest, capacity: 10, attendees: 4,
			start: time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC),
			end:   time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		},
		{
			name: "unknown role falls back to guest tier",
			role: "contractor", capacity: 10, attendees: 4,
			start: now.AddDate(0, 0, 10), end: now.AddDate(0, 0, 10).Add(time.Hour),
			wantClass: ErrPolicy, wantCode: ReasonAdvanceCeiling,
		},
		{
			name: "admin books a year out",
			role: models.RoleAdmin, capacity: 10, attendees: 4,
			start: time.Date(2026, 12, 21, 10, 0, 0, 0, time.UTC),
			end:   time.Date(2026, 12, 21, 11, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := EvaluatePolicy(p, tt.role, now, tt.start, tt.end, tt.capacity, tt.attendees)
			if tt.wantClass == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantClass), "expected class %v, got %v", tt.wantClass, err)
			assert.Equal(t, tt.wantCode, RejectionCode(err))
		})
	}
}

func TestEvaluatePolicyRuleOrder(t *testing.T) {
	// A request violating several rules at once reports the first one.
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	err := EvaluatePolicy(testPolicy(), models.RoleGuest, now,
		now.Add(time.Hour), now.Add(30*time.Minute), 1, 0)
	assert.Equal(t, ReasonEndBeforeStart, RejectionCode(err))
}

func TestEvaluatePolicyFractionalLeadTime(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	p := testPolicy()
	p.LeadTimeHours = 0.5

	start := now.Add(45 * time.Minute)
	assert.NoError(t, EvaluatePolicy(p, models.RoleUser, now, start, start.Add(time.Hour), 10, 2))

	start = now.Add(20 * time.Minute)
	err := EvaluatePolicy(p, models.RoleUser, now, start, start.Add(time.Hour), 10, 2)
	assert.Equal(t, ReasonInsufficientLeadTime, RejectionCode(err))
}
