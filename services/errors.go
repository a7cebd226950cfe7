package services

import "errors"

// Failure classes handled at the orchestrator boundary. Controllers translate
// these to HTTP statuses; nothing below this package inspects HTTP at all.
var (
	ErrValidation            = errors.New("validation error")
	ErrPolicy                = errors.New("policy rejection")
	ErrConflict              = errors.New("booking conflict")
	ErrNotFound              = errors.New("not found")
	ErrForbidden             = errors.New("forbidden")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrPersistence           = errors.New("persistence failure")
)

// Machine-readable rejection codes surfaced to clients.
const (
	ReasonEndBeforeStart        = "end_before_start"
	ReasonInvalidAttendees      = "invalid_attendee_count"
	ReasonInsufficientLeadTime  = "insufficient_lead_time"
	ReasonOutsideOperatingHours = "outside_operating_hours"
	ReasonCapacityExceeded      = "capacity_exceeded"
	ReasonAdvanceCeiling        = "exceeds_advance_ceiling"
	ReasonReservationOverlap    = "reservation_overlap"
	ReasonBlackoutPeriod        = "blackout_period"
	ReasonModificationCutoff    = "modification_cutoff_passed"
	ReasonCancellationDeadline  = "cancellation_deadline_passed"
	ReasonInvalidRecurrence     = "invalid_recurrence"
)

// Rejection is a client-facing refusal carrying a stable reason code. It wraps
// one of the sentinel classes above so callers can branch with errors.Is while
// still reading the code for response payloads.
type Rejection struct {
	Class   error
	Code    string
	Message string
}

func (r *Rejection) Error() string { return r.Message }

func (r *Rejection) Unwrap() error { return r.Class }

func validationRejection(code, message string) error {
	return &Rejection{Class: ErrValidation, Code: code, Message: message}
}

func policyRejection(code, message string) error {
	return &Rejection{Class: ErrPolicy, Code: code, Message: message}
}

func conflictRejection(code, message string) error {
	return &Rejection{Class: ErrConflict, Code: code, Message: message}
}

// RejectionCode extracts the reason code from err, or "" when err carries none.
func RejectionCode(err error) string {
	var r *Rejection
	if errors.As(err, &r) {
		return r.Code
	}
	return ""
}
