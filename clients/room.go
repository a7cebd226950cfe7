package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"meeting-room-backend/services"
)

// RoomClient talks to the room service. Every call carries a bounded timeout;
// an unreachable or erroring room service surfaces as
// services.ErrDependencyUnavailable so the caller can distinguish "room does
// not exist" from "we cannot know right now".
type RoomClient struct {
	baseURL string
	http    *http.Client
	log     *logrus.Logger
}

func NewRoomClient(baseURL string, timeout time.Duration, log *logrus.Logger) *RoomClient {
	return &RoomClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

type roomPayload struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Capacity    int    `json:"capacity"`
	Description string `json:"description"`
}

type blackoutPayload struct {
	ID        uint      `json:"id"`
	RoomID    uint      `json:"room_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Reason    string    `json:"reason"`
}

func (c *RoomClient) GetRoom(ctx context.Context, roomID uint, token string) (*services.RoomDetails, error) {
	var envelope struct {
		Success bool        `json:"success"`
		Data    roomPayload `json:"data"`
	}
	url := fmt.Sprintf("%s/api/rooms/%d", c.baseURL, roomID)
	if err := c.getJSON(ctx, url, token, roomID, &envelope); err != nil {
		return nil, err
	}
	return &services.RoomDetails{
		ID:          envelope.Data.ID,
		Name:        envelope.Data.Name,
		Capacity:    envelope.Data.Capacity,
		Description: envelope.Data.Description,
	}, nil
}

func (c *RoomClient) GetBlackoutPeriods(ctx context.Context, roomID uint, token string) ([]services.BlackoutWindow, error) {
	var envelope struct {
		Success bool              `json:"success"`
		Data    []blackoutPayload `json:"data"`
	}
	url := fmt.Sprintf("%s/api/rooms/%d/blackouts", c.baseURL, roomID)
	if err := c.getJSON(ctx, url, token, roomID, &envelope); err != nil {
		return nil, err
	}

	windows := make([]services.BlackoutWindow, 0, len(envelope.Data))
	for _, b := range envelope.Data {
		windows = append(windows, services.BlackoutWindow{
			Start:  b.StartTime,
			End:    b.EndTime,
			Reason: b.Reason,
		})
	}
	return windows, nil
}

func (c *RoomClient) getJSON(ctx context.Context, url, token string, roomID uint, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", services.ErrDependencyUnavailable, err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.WithError(err).WithField("url", url).Warn("room service unreachable")
		return fmt.Errorf("%w: room service: %v", services.ErrDependencyUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: room %d", services.ErrNotFound, roomID)
	case resp.StatusCode != http.StatusOK:
		c.log.WithFields(logrus.Fields{"url": url, "status": resp.StatusCode}).Warn("room service error response")
		return fmt.Errorf("%w: room service returned %d", services.ErrDependencyUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding room service response: %v", services.ErrDependencyUnavailable, err)
	}
	return nil
}
