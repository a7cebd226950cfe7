package services

import (
	"fmt"
	"time"

	"meeting-room-backend/config"
)

// EvaluatePolicy applies the booking rules in a fixed order; the first failing
// rule decides the rejection and later rules are not consulted. Pure: the same
// inputs always yield the same decision.
//
// The operating-hours rule compares whole hours only and ignores minutes, so a
// booking ending at close:30 slips through when close:00 would not. That is a
// deliberate carry-over from the previous system; minute precision would be a
// behaviour change for existing clients.
func EvaluatePolicy(p config.BookingPolicy, role string, now, start, end time.Time, roomCapacity, numAttendees int) error {
	if !end.After(start) {
		return validationRejection(ReasonEndBeforeStart, "end time must be after start time")
	}
	if numAttendees <= 0 {
		return validationRejection(ReasonInvalidAttendees, "number of attendees must be positive")
	}

	if start.Sub(now).Hours() < p.LeadTimeHours {
		return policyRejection(ReasonInsufficientLeadTime,
			fmt.Sprintf("bookings require at least %.4g hours of lead time", p.LeadTimeHours))
	}

	startHour := start.Hour()
	endHour := end.Hour()
	if startHour < p.OpenHour || startHour >= p.CloseHour ||
		endHour <= p.OpenHour || endHour > p.CloseHour {
		return policyRejection(ReasonOutsideOperatingHours,
			fmt.Sprintf("room is bookable between %02d:00 and %02d:00", p.OpenHour, p.CloseHour))
	}

	if numAttendees > roomCapacity {
		return policyRejection(ReasonCapacityExceeded,
			fmt.Sprintf("room capacity is %d, requested %d attendees", roomCapacity, numAttendees))
	}

	ceiling := p.AdvanceCeilingFor(role)
	// Whole days, truncated: 7 days 23h out still counts as 7 days.
	daysAhead := int(start.Sub(now).Hours() / 24)
	if daysAhead > ceiling {
		return policyRejection(ReasonAdvanceCeiling,
			fmt.Sprintf("role %q may book at most %d days in advance", role, ceiling))
	}

	return nil
}
