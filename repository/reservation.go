package repository

import (
	"context"
	"errors"
	"time"

	"meeting-room-backend/models"
)

var (
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrLockUnavailable means the per-room admission lock could not be taken
	// within the wait budget. Callers should treat this as retryable.
	ErrLockUnavailable = errors.New("room admission lock unavailable")
)

// ReservationFilter narrows List results. Zero values mean "any".
type ReservationFilter struct {
	UserID uint
	RoomID uint
}

// ReservationStore is the storage contract the admission orchestrator runs
// against. WithRoomLock serializes check-then-insert per room: while fn runs,
// no other caller can be inside WithRoomLock for the same room, and every
// write fn performs commits atomically with the checks it made.
type ReservationStore interface {
	WithRoomLock(ctx context.Context, roomID uint, fn func(tx ReservationTx) error) error

	GetByID(ctx context.Context, id uint) (*models.Reservation, error)
	List(ctx context.Context, filter ReservationFilter) ([]models.Reservation, error)
	ListForRoom(ctx context.Context, roomID uint, from, to time.Time) ([]models.Reservation, error)
}

// ReservationTx is the transactional view handed to WithRoomLock callbacks.
// Returning an error from the callback rolls back everything written through it.
type ReservationTx interface {
	FindOverlapping(roomID uint, start, end time.Time, excludeID uint) (*models.Reservation, error)
	Insert(r *models.Reservation) error
	Update(r *models.Reservation) error
	Delete(id uint) error
}
