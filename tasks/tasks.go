package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"meeting-room-backend/models"
)

// Task type names registered with the worker mux.
const (
	TypeReservationConfirmation = "reservation:confirmation"
)

// ReservationConfirmationPayload carries everything the worker needs to build
// and send a confirmation email, so it never has to call back into the other
// services.
type ReservationConfirmationPayload struct {
	Reservations  []models.Reservation `json:"reservations"`
	RoomName      string               `json:"room_name"`
	Recipient     string               `json:"recipient"`
	RecipientName string               `json:"recipient_name"`
}

// NewReservationConfirmationTask builds the asynq task for a confirmation
// email covering one reservation or a whole recurring series.
func NewReservationConfirmationTask(p ReservationConfirmationPayload) (*asynq.Task, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeReservationConfirmation, raw), nil
}
