package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"meeting-room-backend/models"
)

func TestDefaultBookingPolicy(t *testing.T) {
	p := DefaultBookingPolicy()

	assert.Equal(t, 8, p.OpenHour)
	assert.Equal(t, 20, p.CloseHour)
	assert.Equal(t, 1.0, p.LeadTimeHours)
	assert.Equal(t, time.Hour, p.ModificationCutoff)
	assert.Equal(t, time.Hour, p.CancellationDeadline)
}

func TestAdvanceCeilingFor(t *testing.T) {
	p := DefaultBookingPolicy()

	assert.Equal(t, 7, p.AdvanceCeilingFor(models.RoleGuest))
	assert.Equal(t, 30, p.AdvanceCeilingFor(models.RoleUser))
	assert.Equal(t, 90, p.AdvanceCeilingFor(models.RoleDepartmentHead))
	assert.Equal(t, 365, p.AdvanceCeilingFor(models.RoleAdmin))
	assert.Equal(t, 7, p.AdvanceCeilingFor("intern"), "unknown roles get the guest tier")
}

func TestPolicyFromEnv(t *testing.T) {
	t.Setenv("BOOKING_OPEN_HOUR", "9")
	t.Setenv("BOOKING_CLOSE_HOUR", "18")
	t.Setenv("BOOKING_LEAD_TIME_HOURS", "0.5")
	t.Setenv("BOOKING_MODIFICATION_CUTOFF_HOURS", "2")
	t.Setenv("BOOKING_MAX_ADVANCE_DAYS", "guest=3, user=14,department_head=60")

	p := PolicyFromEnv()

	assert.Equal(t, 9, p.OpenHour)
	assert.Equal(t, 18, p.CloseHour)
	assert.Equal(t, 0.5, p.LeadTimeHours)
	assert.Equal(t, 2*time.Hour, p.ModificationCutoff)
	assert.Equal(t, 3, p.AdvanceCeilingFor(models.RoleGuest))
	assert.Equal(t, 14, p.AdvanceCeilingFor(models.RoleUser))
	assert.Equal(t, 60, p.AdvanceCeilingFor(models.RoleDepartmentHead))
	assert.Equal(t, 365, p.AdvanceCeilingFor(models.RoleAdmin), "unset roles keep their default")
}

func TestPolicyFromEnvIgnoresMalformedValues(t *testing.T) {
	t.Setenv("BOOKING_OPEN_HOUR", "noon")
	t.Setenv("BOOKING_CLOSE_HOUR", "25")
	t.Setenv("BOOKING_LEAD_TIME_HOURS", "-1")
	t.Setenv("BOOKING_MAX_ADVANCE_DAYS", "guest=soon,user")

	p := PolicyFromEnv()
	defaults := DefaultBookingPolicy()

	assert.Equal(t, defaults.OpenHour, p.OpenHour)
	assert.Equal(t, defaults.CloseHour, p.CloseHour)
	assert.Equal(t, defaults.LeadTimeHours, p.LeadTimeHours)
	assert.Equal(t, defaults.MaxAdvanceDays, p.MaxAdvanceDays)
}
