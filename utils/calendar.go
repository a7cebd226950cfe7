package utils

import (
	"fmt"

	ics "github.com/arran4/golang-ical"

	"meeting-room-backend/models"
)

// BuildCalendarInvite renders the reservations as an iCalendar REQUEST so the
// confirmation email can carry an importable invite. Recurring series become
// one VEVENT per occurrence; the expansion already happened at admission time.
func BuildCalendarInvite(reservations []models.Reservation, roomName, organizerEmail string) ([]byte, error) {
	if len(reservations) == 0 {
		return nil, fmt.Errorf("no reservations to render")
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodRequest)
	cal.SetProductId("-//meeting-room-backend//reservation//EN")

	for _, r := range reservations {
		event := cal.AddEvent(fmt.Sprintf("%s@meeting-room-backend", r.ReferenceCode))
		event.SetCreatedTime(r.CreatedAt)
		event.SetStartAt(r.StartTime)
		event.SetEndAt(r.EndTime)
		event.SetLocation(roomName)

		summary := r.Purpose
		if summary == "" {
			summary = fmt.Sprintf("Room booking %s", r.ReferenceCode)
		}
		event.SetSummary(summary)
		if r.Description != "" {
			event.SetDescription(r.Description)
		}
		if organizerEmail != "" {
			event.SetOrganizer("mailto:" + organizerEmail)
		}
	}

	return []byte(cal.Serialize()), nil
}
