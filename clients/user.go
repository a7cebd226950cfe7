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

// UserClient resolves the caller's profile from the user service, used only
// for notification addressing. Failures never block an admission.
type UserClient struct {
	baseURL string
	http    *http.Client
	log     *logrus.Logger
}

func NewUserClient(baseURL string, timeout time.Duration, log *logrus.Logger) *UserClient {
	return &UserClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

func (c *UserClient) GetCurrentUser(ctx context.Context, token string) (*services.UserDetails, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/users/me", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", services.ErrDependencyUnavailable, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.WithError(err).Warn("user service unreachable")
		return nil, fmt.Errorf("%w: user service: %v", services.ErrDependencyUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: user service returned %d", services.ErrDependencyUnavailable, resp.StatusCode)
	}

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			ID       uint   `json:"id"`
			Email    string `json:"email"`
			FullName string `json:"full_name"`
			Role     string `json:"role"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: decoding user service response: %v", services.ErrDependencyUnavailable, err)
	}

	return &services.UserDetails{
		ID:       envelope.Data.ID,
		Email:    envelope.Data.Email,
		FullName: envelope.Data.FullName,
		Role:     envelope.Data.Role,
	}, nil
}
