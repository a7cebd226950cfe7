package services

import (
	"fmt"
	"time"
)

type Cadence string

const (
	CadenceNone    Cadence = ""
	CadenceWeekly  Cadence = "weekly"
	CadenceMonthly Cadence = "monthly"
)

// Window is one concrete [Start,End) occurrence of a reservation request.
type Window struct {
	Start time.Time
	End   time.Time
}

// ExpandRecurrence materializes the occurrence windows for a request.
// Occurrence i of a weekly series starts i*7 days after baseStart; a monthly
// series steps by a fixed 30 days, not by calendar month. The 30-day
// approximation matches the previous system and stays until product decides
// otherwise.
//
// A cadence of none always yields exactly one window. For weekly and monthly,
// occurrences must be a positive count.
func ExpandRecurrence(baseStart time.Time, durationMinutes int, cadence Cadence, occurrences int) ([]Window, error) {
	if durationMinutes <= 0 {
		return nil, validationRejection(ReasonInvalidRecurrence, "duration must be a positive number of minutes")
	}

	duration := time.Duration(durationMinutes) * time.Minute

	switch cadence {
	case CadenceNone:
		return []Window{{Start: baseStart, End: baseStart.Add(duration)}}, nil
	case CadenceWeekly, CadenceMonthly:
		if occurrences <= 0 {
			return nil, validationRejection(ReasonInvalidRecurrence,
				fmt.Sprintf("recurrence %q requires a positive occurrence count", cadence))
		}
	default:
		return nil, validationRejection(ReasonInvalidRecurrence,
			fmt.Sprintf("unsupported recurrence %q", cadence))
	}

	stepDays := 7
	if cadence == CadenceMonthly {
		stepDays = 30
	}

	windows := make([]Window, 0, occurrences)
	for i := 0; i < occurrences; i++ {
		start := baseStart.AddDate(0, 0, stepDays*i)
		windows = append(windows, Window{Start: start, End: start.Add(duration)})
	}
	return windows, nil
}
