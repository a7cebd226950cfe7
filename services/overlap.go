package services

import (
	"time"

	"meeting-room-backend/models"
)

// Overlaps reports whether the half-open intervals [s1,e1) and [s2,e2)
// intersect. Touching intervals (e1 == s2) do not conflict.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// FirstConflict scans same-room reservations and returns the first one whose
// window intersects [start,end). The reservation identified by excludeID is
// skipped so an update can re-validate against everything but itself. Pass
// excludeID 0 for a fresh create. Which conflict is returned when several
// exist depends only on the order of the input slice.
func FirstConflict(existing []models.Reservation, roomID uint, start, end time.Time, excludeID uint) *models.Reservation {
	for i := range existing {
		r := &existing[i]
		if r.RoomID != roomID {
			continue
		}
		if excludeID != 0 && r.ID == excludeID {
			continue
		}
		if Overlaps(start, end, r.StartTime, r.EndTime) {
			return r
		}
	}
	return nil
}
