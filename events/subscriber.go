package events

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// Subscriber consumes reservation events in the user service. Today it only
// records them; per-user notification preferences would hang off handleEvent.
type Subscriber struct {
	rdb     *redis.Client
	channel string
	log     *logrus.Logger
}

func NewSubscriber(rdb *redis.Client, channel string, log *logrus.Logger) *Subscriber {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Subscriber{rdb: rdb, channel: channel, log: log}
}

// Run blocks consuming events until ctx is cancelled. Malformed messages are
// logged and skipped; the loop never dies because of one bad payload.
func (s *Subscriber) Run(ctx context.Context) {
	pubsub := s.rdb.Subscribe(ctx, s.channel)
	defer pubsub.Close()

	s.log.WithField("channel", s.channel).Info("reservation event subscriber started")
	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			s.log.Info("reservation event subscriber stopped")
			return
		case msg, ok := <-ch:
			if !ok {
				s.log.Warn("reservation event channel closed")
				return
			}
			s.handleMessage(msg.Payload)
		}
	}
}

func (s *Subscriber) handleMessage(payload string) {
	var envelope Envelope
	if err := json.Unmarshal([]byte(payload), &envelope); err != nil {
		s.log.WithError(err).Error("could not decode reservation event")
		return
	}

	entry := s.log.WithFields(logrus.Fields{
		"event_id":       envelope.ID,
		"event_type":     envelope.Type,
		"reservation_id": envelope.Payload.ID,
		"user_id":        envelope.Payload.UserID,
		"room_id":        envelope.Payload.RoomID,
	})

	switch envelope.Type {
	case EventTypeCreated, EventTypeUpdated, EventTypeDeleted:
		entry.Info("reservation event received")
	default:
		entry.Warn("unknown reservation event type")
	}
}
