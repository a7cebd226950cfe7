package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"meeting-room-backend/config"
	"meeting-room-backend/events"
	"meeting-room-backend/models"
	"meeting-room-backend/repository"
	"meeting-room-backend/utils"
)

// ReservationService sequences an admission attempt: validate input, fetch the
// room, evaluate policy, check blackouts, expand recurrence, then run the
// per-occurrence overlap check and the inserts inside one room-locked
// transaction. Events and confirmation email happen only after commit and are
// best-effort.
type ReservationService struct {
	store    repository.ReservationStore
	rooms    RoomDirectory
	users    UserDirectory
	events   EventPublisher
	notifier Notifier
	policy   config.BookingPolicy
	log      *logrus.Logger

	// Injectable clock for tests.
	now func() time.Time
}

func NewReservationService(
	store repository.ReservationStore,
	rooms RoomDirectory,
	users UserDirectory,
	events EventPublisher,
	notifier Notifier,
	policy config.BookingPolicy,
	log *logrus.Logger,
) *ReservationService {
	return &ReservationService{
		store:    store,
		rooms:    rooms,
		users:    users,
		events:   events,
		notifier: notifier,
		policy:   policy,
		log:      log,
		now:      time.Now,
	}
}

// SetClock overrides the service's time source. Policy decisions are made
// against this clock.
func (s *ReservationService) SetClock(now func() time.Time) {
	s.now = now
}

type CreateReservationInput struct {
	RoomID          uint
	StartTime       time.Time
	DurationMinutes int
	NumAttendees    int
	Purpose         string
	Description     string
	Attendees       []string
	Recurrence      string
	Occurrences     int
}

// Create runs the full admission pipeline and returns every occurrence it
// persisted. All occurrences of a recurring request commit together or not at
// all.
func (s *ReservationService) Create(ctx context.Context, identity Identity, token string, in CreateReservationInput) ([]models.Reservation, error) {
	if in.RoomID == 0 {
		return nil, validationRejection("missing_room_id", "room_id is required")
	}
	if in.StartTime.IsZero() {
		return nil, validationRejection("missing_start_time", "start_time is required")
	}
	if in.DurationMinutes <= 0 {
		return nil, validationRejection("invalid_duration", "duration_minutes must be positive")
	}
	cadence := Cadence(in.Recurrence)
	occurrences := in.Occurrences
	if cadence == CadenceNone {
		occurrences = 1
	} else if occurrences == 0 {
		occurrences = 1
	}

	start := in.StartTime
	end := start.Add(time.Duration(in.DurationMinutes) * time.Minute)
	now := s.now()

	room, err := s.rooms.GetRoom(ctx, in.RoomID, token)
	if err != nil {
		return nil, err
	}

	if err := EvaluatePolicy(s.policy, identity.Role, now, start, end, room.Capacity, in.NumAttendees); err != nil {
		return nil, err
	}

	if err := s.checkBlackout(ctx, in.RoomID, start, end, token); err != nil {
		return nil, err
	}

	windows, err := ExpandRecurrence(start, in.DurationMinutes, cadence, occurrences)
	if err != nil {
		return nil, err
	}

	attendeesJSON, err := marshalAttendees(in.Attendees)
	if err != nil {
		return nil, validationRejection("invalid_attendees", "attendee list could not be encoded")
	}

	seriesID := ""
	if len(windows) > 1 {
		seriesID = uuid.NewString()
	}

	created := make([]models.Reservation, 0, len(windows))
	err = s.store.WithRoomLock(ctx, in.RoomID, func(tx repository.ReservationTx) error {
		for _, w := range windows {
			conflict, err := tx.FindOverlapping(in.RoomID, w.Start, w.End, 0)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrPersistence, err)
			}
			if conflict != nil {
				return conflictRejection(ReasonReservationOverlap,
					fmt.Sprintf("room %d is already reserved from %s to %s",
						in.RoomID, conflict.StartTime.Format(time.RFC3339), conflict.EndTime.Format(time.RFC3339)))
			}

			r := models.Reservation{
				ReferenceCode: utils.NewReferenceCode(),
				SeriesID:      seriesID,
				UserID:        identity.UserID,
				RoomID:        in.RoomID,
				StartTime:     w.Start,
				EndTime:       w.End,
				Purpose:       in.Purpose,
				Description:   in.Description,
				NumAttendees:  in.NumAttendees,
				Attendees:     attendeesJSON,
			}
			if err := tx.Insert(&r); err != nil {
				return fmt.Errorf("%w: %v", ErrPersistence, err)
			}
			created = append(created, r)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrLockUnavailable) {
			return nil, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
		}
		return nil, err
	}

	s.afterCommit(ctx, events.EventTypeCreated, created, room.Name, token)
	return created, nil
}

type UpdateReservationInput struct {
	RoomID          *uint
	StartTime       *time.Time
	DurationMinutes *int
	NumAttendees    *int
	Purpose         *string
	Description     *string
}

// Update re-validates a mutation against the modification cutoff and, when the
// room or window changed, re-runs room lookup, policy and the overlap check
// (excluding the reservation itself) under the room lock.
func (s *ReservationService) Update(ctx context.Context, identity Identity, token string, id uint, in UpdateReservationInput) (*models.Reservation, error) {
	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	if err := s.authorize(identity, existing); err != nil {
		return nil, err
	}

	now := s.now()
	if now.Add(s.policy.ModificationCutoff).After(existing.StartTime) {
		return nil, policyRejection(ReasonModificationCutoff,
			fmt.Sprintf("reservations may only be modified more than %s before they start", s.policy.ModificationCutoff))
	}

	roomID := existing.RoomID
	if in.RoomID != nil {
		roomID = *in.RoomID
	}
	start := existing.StartTime
	if in.StartTime != nil {
		start = *in.StartTime
	}
	end := existing.EndTime
	if in.DurationMinutes != nil {
		if *in.DurationMinutes <= 0 {
			return nil, validationRejection("invalid_duration", "duration_minutes must be positive")
		}
		end = start.Add(time.Duration(*in.DurationMinutes) * time.Minute)
	} else if in.StartTime != nil {
		end = start.Add(existing.EndTime.Sub(existing.StartTime))
	}
	numAttendees := existing.NumAttendees
	if in.NumAttendees != nil {
		numAttendees = *in.NumAttendees
	}

	timingChanged := roomID != existing.RoomID || !start.Equal(existing.StartTime) || !end.Equal(existing.EndTime)
	if timingChanged || numAttendees != existing.NumAttendees {
		room, err := s.rooms.GetRoom(ctx, roomID, token)
		if err != nil {
			return nil, err
		}
		if err := EvaluatePolicy(s.policy, identity.Role, now, start, end, room.Capacity, numAttendees); err != nil {
			return nil, err
		}
		if err := s.checkBlackout(ctx, roomID, start, end, token); err != nil {
			return nil, err
		}
	}

	existing.RoomID = roomID
	existing.StartTime = start
	existing.EndTime = end
	existing.NumAttendees = numAttendees
	if in.Purpose != nil {
		existing.Purpose = *in.Purpose
	}
	if in.Description != nil {
		existing.Description = *in.Description
	}

	err = s.store.WithRoomLock(ctx, roomID, func(tx repository.ReservationTx) error {
		if timingChanged {
			conflict, err := tx.FindOverlapping(roomID, start, end, id)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrPersistence, err)
			}
			if conflict != nil {
				return conflictRejection(ReasonReservationOverlap,
					fmt.Sprintf("room %d is already reserved from %s to %s",
						roomID, conflict.StartTime.Format(time.RFC3339), conflict.EndTime.Format(time.RFC3339)))
			}
		}
		if err := tx.Update(existing); err != nil {
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrLockUnavailable) {
			return nil, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
		}
		return nil, err
	}

	s.events.Publish(ctx, events.EventTypeUpdated, *existing)
	return existing, nil
}

// Cancel deletes a reservation, subject to ownership and the cancellation
// deadline. The pre-deletion snapshot is what gets published.
func (s *ReservationService) Cancel(ctx context.Context, identity Identity, id uint) error {
	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return translateStoreErr(err)
	}
	if err := s.authorize(identity, existing); err != nil {
		return err
	}

	if s.now().Add(s.policy.CancellationDeadline).After(existing.StartTime) {
		return policyRejection(ReasonCancellationDeadline,
			fmt.Sprintf("reservations may only be cancelled more than %s before they start", s.policy.CancellationDeadline))
	}

	err = s.store.WithRoomLock(ctx, existing.RoomID, func(tx repository.ReservationTx) error {
		if err := tx.Delete(id); err != nil {
			if errors.Is(err, repository.ErrReservationNotFound) {
				return fmt.Errorf("%w: reservation %d", ErrNotFound, id)
			}
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrLockUnavailable) {
			return fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
		}
		return err
	}

	s.events.Publish(ctx, events.EventTypeDeleted, *existing)
	return nil
}

// Get loads a single reservation.
func (s *ReservationService) Get(ctx context.Context, id uint) (*models.Reservation, error) {
	r, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, translateStoreErr(err)
	}
	return r, nil
}

// List returns reservations ordered by start time. Non-admin callers may only
// list their own unless they scope the query to a room.
func (s *ReservationService) List(ctx context.Context, filter repository.ReservationFilter) ([]models.Reservation, error) {
	out, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return out, nil
}

// CheckAvailability is a read-only probe: it reports whether [start,end) is
// free for the room right now. The answer can go stale immediately; only the
// locked create path is authoritative.
func (s *ReservationService) CheckAvailability(ctx context.Context, roomID uint, start, end time.Time) (bool, *models.Reservation, error) {
	if !end.After(start) {
		return false, nil, validationRejection(ReasonEndBeforeStart, "end time must be after start time")
	}
	rows, err := s.store.ListForRoom(ctx, roomID, start, end)
	if err != nil {
		return false, nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	conflict := FirstConflict(rows, roomID, start, end, 0)
	return conflict == nil, conflict, nil
}

func (s *ReservationService) authorize(identity Identity, r *models.Reservation) error {
	if r.UserID != identity.UserID && identity.Role != models.RoleAdmin {
		return fmt.Errorf("%w: reservation %d belongs to another user", ErrForbidden, r.ID)
	}
	return nil
}

// checkBlackout fetches the room's blackout windows and rejects when the
// candidate window intersects any of them. Failure to reach the room service
// is a retryable infrastructure error, never a booking rejection.
func (s *ReservationService) checkBlackout(ctx context.Context, roomID uint, start, end time.Time, token string) error {
	blackouts, err := s.rooms.GetBlackoutPeriods(ctx, roomID, token)
	if err != nil {
		return err
	}
	for _, b := range blackouts {
		if Overlaps(start, end, b.Start, b.End) {
			reason := b.Reason
			if reason == "" {
				reason = "room unavailable"
			}
			return conflictRejection(ReasonBlackoutPeriod,
				fmt.Sprintf("room %d is blacked out from %s to %s: %s",
					roomID, b.Start.Format(time.RFC3339), b.End.Format(time.RFC3339), reason))
		}
	}
	return nil
}

// afterCommit publishes events and queues the confirmation email. Nothing in
// here may fail the already-committed request.
func (s *ReservationService) afterCommit(ctx context.Context, eventType string, reservations []models.Reservation, roomName, token string) {
	for _, r := range reservations {
		s.events.Publish(ctx, eventType, r)
	}

	if s.notifier == nil || len(reservations) == 0 {
		return
	}
	user, err := s.users.GetCurrentUser(ctx, token)
	if err != nil {
		s.log.WithError(err).Warn("could not resolve user for confirmation email, skipping")
		return
	}
	if user.Email == "" {
		return
	}
	if err := s.notifier.EnqueueConfirmation(ctx, reservations, roomName, user.Email, user.FullName); err != nil {
		s.log.WithError(err).Warn("could not enqueue confirmation email")
	}
}

func translateStoreErr(err error) error {
	if errors.Is(err, repository.ErrReservationNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return fmt.Errorf("%w: %v", ErrPersistence, err)
}

func marshalAttendees(attendees []string) (datatypes.JSON, error) {
	if len(attendees) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(attendees)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
