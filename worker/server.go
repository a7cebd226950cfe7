package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"meeting-room-backend/tasks"
	"meeting-room-backend/utils"
)

// Server runs the background queue that delivers confirmation emails with
// calendar invites attached. It rides alongside the reservation service in
// the same process.
type Server struct {
	server *asynq.Server
	log    *logrus.Entry
}

func NewServer(redisOpt asynq.RedisClientOpt, logger *logrus.Logger) *Server {
	entry := logger.WithField("component", "worker")

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				retryCount, _ := asynq.GetRetryCount(ctx)
				maxRetry, _ := asynq.GetMaxRetry(ctx)
				entry.WithFields(logrus.Fields{
					"task_type": task.Type(),
					"retries":   retryCount,
					"max_retry": maxRetry,
				}).Errorf("task failed: %v", err)
			}),
		},
	)

	return &Server{server: server, log: entry}
}

// Start runs the worker loop. Call it from its own goroutine.
func (s *Server) Start() {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeReservationConfirmation, s.handleReservationConfirmation)

	s.log.Info("worker server starting")
	if err := s.server.Run(mux); err != nil {
		if !errors.Is(err, asynq.ErrServerClosed) {
			s.log.Fatalf("could not run worker server: %v", err)
		}
		s.log.Info("worker server stopped")
	}
}

func (s *Server) Shutdown() {
	s.log.Info("shutting down worker server")
	s.server.Shutdown()
}

func (s *Server) handleReservationConfirmation(ctx context.Context, task *asynq.Task) error {
	var p tasks.ReservationConfirmationPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		// Retrying a payload that cannot be decoded will never help.
		return fmt.Errorf("decode confirmation payload: %v: %w", err, asynq.SkipRetry)
	}
	if len(p.Reservations) == 0 {
		return fmt.Errorf("confirmation payload has no reservations: %w", asynq.SkipRetry)
	}

	invite, err := utils.BuildCalendarInvite(p.Reservations, p.RoomName, utils.EnvOrDefault("SMTP_FROM", "bookings@meeting-rooms.local"))
	if err != nil {
		return fmt.Errorf("build calendar invite: %w", err)
	}

	if err := utils.SendReservationConfirmation(p.Recipient, p.RecipientName, p.RoomName, p.Reservations, invite); err != nil {
		return fmt.Errorf("send confirmation email: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"recipient":    p.Recipient,
		"reservations": len(p.Reservations),
	}).Info("confirmation email sent")
	return nil
}
