package services

import (
	"context"
	"time"

	"meeting-room-backend/models"
)

// Identity is the verified caller, as produced by the auth middleware. The
// admission core trusts it verbatim.
type Identity struct {
	UserID uint
	Role   string
}

// RoomDetails is the slice of the room-service representation the admission
// core needs.
type RoomDetails struct {
	ID          uint
	Name        string
	Capacity    int
	Description string
}

// BlackoutWindow is a room-owned unavailability interval.
type BlackoutWindow struct {
	Start  time.Time
	End    time.Time
	Reason string
}

// UserDetails identifies the caller for notification purposes.
type UserDetails struct {
	ID       uint
	Email    string
	FullName string
	Role     string
}

// RoomDirectory is the room-inventory collaborator. Implementations must
// distinguish "room does not exist" (ErrNotFound) from "room service is
// unreachable" (ErrDependencyUnavailable); the orchestrator treats those as
// different failure classes.
type RoomDirectory interface {
	GetRoom(ctx context.Context, roomID uint, token string) (*RoomDetails, error)
	GetBlackoutPeriods(ctx context.Context, roomID uint, token string) ([]BlackoutWindow, error)
}

// UserDirectory resolves the caller's profile from the user service.
type UserDirectory interface {
	GetCurrentUser(ctx context.Context, token string) (*UserDetails, error)
}

// EventPublisher is the fire-and-forget notification sink. Publish failures
// are logged by implementations and never surface to the request.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, reservation models.Reservation)
}

// Notifier delivers post-commit confirmations (email with calendar invite).
// Enqueue failures must not fail the request that triggered them.
type Notifier interface {
	EnqueueConfirmation(ctx context.Context, reservations []models.Reservation, roomName, recipient, recipientName string) error
}
