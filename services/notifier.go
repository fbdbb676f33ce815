package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sony/gobreaker"

	"github.com/Kamal-Bhagchandani/jira-lite/logging"
	"github.com/Kamal-Bhagchandani/jira-lite/models"
)

// Notifier delivers a message to a user. Delivery is best effort: services log
// failures and never surface them to the caller.
type Notifier interface {
	Notify(ctx context.Context, userID models.UserID, message string) error
}

// NotificationsClient posts notifications to an external endpoint through a
// circuit breaker, so a dead notifications host cannot slow down mutations.
type NotificationsClient struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

func NewNotificationsClient(baseURL string, client *http.Client, breaker *gobreaker.CircuitBreaker) *NotificationsClient {
	return &NotificationsClient{
		baseURL: baseURL,
		client:  client,
		breaker: breaker,
	}
}

func (c *NotificationsClient) Notify(ctx context.Context, userID models.UserID, message string) error {
	payload, err := json.Marshal(map[string]string{
		"userId":  userID.Hex(),
		"message": message,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	_, err = c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/notifications", bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		io.Copy(io.Discard, resp.Body)

		if resp.StatusCode >= http.StatusMultipleChoices {
			return nil, fmt.Errorf("notifications service returned status %d", resp.StatusCode)
		}
		return nil, nil
	})
	return err
}

// notify fans a message out without failing the operation that triggered it.
func notify(ctx context.Context, n Notifier, userID models.UserID, message string) {
	if n == nil {
		return
	}
	if err := n.Notify(ctx, userID, message); err != nil {
		logging.Logger.Warnf("Failed to notify user %s: %v", userID.Hex(), err)
	}
}
