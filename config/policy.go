package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"meeting-room-backend/models"
)

// BookingPolicy carries the admission knobs. Loaded once at startup; never
// mutated afterwards, so it is safe to share across request goroutines.
type BookingPolicy struct {
	// Operating hours as whole hours of the day, [OpenHour, CloseHour).
	OpenHour  int
	CloseHour int

	// Minimum gap between "now" and the booking start. Fractional hours are
	// allowed (e.g. 0.5 for thirty minutes).
	LeadTimeHours float64

	// Maximum days a booking may be placed in advance, per role. Roles not
	// present fall back to the guest tier.
	MaxAdvanceDays map[string]int

	// How long before start time updates and cancellations are still allowed.
	ModificationCutoff   time.Duration
	CancellationDeadline time.Duration
}

// DefaultBookingPolicy mirrors the deployment defaults.
func DefaultBookingPolicy() BookingPolicy {
	return BookingPolicy{
		OpenHour:      8,
		CloseHour:     20,
		LeadTimeHours: 1,
		MaxAdvanceDays: map[string]int{
			models.RoleGuest:          7,
			models.RoleUser:           30,
			models.RoleDepartmentHead: 90,
			models.RoleAdmin:          365,
		},
		ModificationCutoff:   time.Hour,
		CancellationDeadline: time.Hour,
	}
}

// AdvanceCeilingFor resolves the advance-booking ceiling for a role,
// defaulting to the guest tier for unknown roles.
func (p BookingPolicy) AdvanceCeilingFor(role string) int {
	if days, ok := p.MaxAdvanceDays[role]; ok {
		return days
	}
	return p.MaxAdvanceDays[models.RoleGuest]
}

// PolicyFromEnv builds the booking policy from environment variables on top of
// the defaults. Malformed values are logged and ignored rather than fatal;
// the defaults are always usable.
func PolicyFromEnv() BookingPolicy {
	p := DefaultBookingPolicy()

	if v := os.Getenv("BOOKING_OPEN_HOUR"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 && n < 24 {
			p.OpenHour = n
		} else {
			log.Printf("warning: ignoring invalid BOOKING_OPEN_HOUR %q", v)
		}
	}
	if v := os.Getenv("BOOKING_CLOSE_HOUR"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 24 {
			p.CloseHour = n
		} else {
			log.Printf("warning: ignoring invalid BOOKING_CLOSE_HOUR %q", v)
		}
	}
	if v := os.Getenv("BOOKING_LEAD_TIME_HOURS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			p.LeadTimeHours = f
		} else {
			log.Printf("warning: ignoring invalid BOOKING_LEAD_TIME_HOURS %q", v)
		}
	}
	if v := os.Getenv("BOOKING_MODIFICATION_CUTOFF_HOURS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			p.ModificationCutoff = time.Duration(f * float64(time.Hour))
		} else {
			log.Printf("warning: ignoring invalid BOOKING_MODIFICATION_CUTOFF_HOURS %q", v)
		}
	}
	if v := os.Getenv("BOOKING_CANCELLATION_DEADLINE_HOURS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			p.CancellationDeadline = time.Duration(f * float64(time.Hour))
		} else {
			log.Printf("warning: ignoring invalid BOOKING_CANCELLATION_DEADLINE_HOURS %q", v)
		}
	}

	// BOOKING_MAX_ADVANCE_DAYS="guest=7,user=30,department_head=90,admin=365"
	if v := os.Getenv("BOOKING_MAX_ADVANCE_DAYS"); v != "" {
		for _, pair := range strings.Split(v, ",") {
			role, days, ok := strings.Cut(strings.TrimSpace(pair), "=")
			if !ok {
				log.Printf("warning: ignoring malformed BOOKING_MAX_ADVANCE_DAYS entry %q", pair)
				continue
			}
			n, err := strconv.Atoi(strings.TrimSpace(days))
			if err != nil || n <= 0 {
				log.Printf("warning: ignoring malformed BOOKING_MAX_ADVANCE_DAYS entry %q", pair)
				continue
			}
			p.MaxAdvanceDays[strings.TrimSpace(role)] = n
		}
	}

	return p
}
