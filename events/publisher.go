package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"meeting-room-backend/models"
)

// DefaultChannel is the pub/sub channel the reservation service publishes to
// and the user service listens on.
const DefaultChannel = "reservations"

// Reservation lifecycle event types.
const (
	EventTypeCreated = "RESERVATION_CREATED"
	EventTypeUpdated = "RESERVATION_UPDATED"
	EventTypeDeleted = "RESERVATION_DELETED"
)

// Envelope is the wire format of a reservation lifecycle event.
type Envelope struct {
	ID      string             `json:"id"`
	Type    string             `json:"type"`
	Payload models.Reservation `json:"payload"`
}

// RedisPublisher is the fire-and-forget notification sink. A failed publish
// is logged and dropped; reservation state is already committed by the time
// an event goes out and must not be affected.
type RedisPublisher struct {
	rdb     *redis.Client
	channel string
	log     *logrus.Logger
}

func NewRedisPublisher(rdb *redis.Client, channel string, log *logrus.Logger) *RedisPublisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisPublisher{rdb: rdb, channel: channel, log: log}
}

func (p *RedisPublisher) Publish(ctx context.Context, eventType string, reservation models.Reservation) {
	envelope := Envelope{
		ID:      uuid.NewString(),
		Type:    eventType,
		Payload: reservation,
	}
	raw, err := json.Marshal(envelope)
	if err != nil {
		p.log.WithError(err).Error("could not encode reservation event")
		return
	}

	// Detach from the request's cancellation but keep the call bounded.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	if err := p.rdb.Publish(pubCtx, p.channel, raw).Err(); err != nil {
		p.log.WithError(err).WithFields(logrus.Fields{
			"event_type":     eventType,
			"reservation_id": reservation.ID,
		}).Error("could not publish reservation event")
		return
	}
	p.log.WithFields(logrus.Fields{
		"event_id":       envelope.ID,
		"event_type":     eventType,
		"reservation_id": reservation.ID,
	}).Debug("reservation event published")
}
