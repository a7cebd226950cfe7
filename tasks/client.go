package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"meeting-room-backend/models"
)

// Enqueuer hands confirmation work to the background worker. It satisfies the
// notifier port of the reservation service.
type Enqueuer struct {
	client *asynq.Client
	log    *logrus.Logger
}

func NewEnqueuer(client *asynq.Client, log *logrus.Logger) *Enqueuer {
	return &Enqueuer{client: client, log: log}
}

func (e *Enqueuer) EnqueueConfirmation(ctx context.Context, reservations []models.Reservation, roomName, recipient, recipientName string) error {
	task, err := NewReservationConfirmationTask(ReservationConfirmationPayload{
		Reservations:  reservations,
		RoomName:      roomName,
		Recipient:     recipient,
		RecipientName: recipientName,
	})
	if err != nil {
		return fmt.Errorf("build confirmation task: %w", err)
	}

	info, err := e.client.EnqueueContext(ctx, task,
		asynq.MaxRetry(5),
		asynq.Timeout(30*time.Second),
		asynq.Queue("default"),
	)
	if err != nil {
		return fmt.Errorf("enqueue confirmation task: %w", err)
	}

	e.log.WithFields(logrus.Fields{
		"task_id":   info.ID,
		"queue":     info.Queue,
		"recipient": recipient,
	}).Debug("confirmation task enqueued")
	return nil
}
