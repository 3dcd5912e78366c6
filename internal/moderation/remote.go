package moderation

import (
	"context"
	"fmt"
	"time"

	"relawan-hub/internal/models"

	"resty.dev/v3"
)

// RemoteChecker delegates the verdict to an external moderation service
// speaking the same three-field contract (the generative-AI variant lives
// behind such a service). Failures here are where the configured fail-open
// policy matters.
type RemoteChecker struct {
	client *resty.Client
	url    string
}

// NewRemoteChecker builds a client for the given moderation endpoint.
func NewRemoteChecker(url string) *RemoteChecker {
	client := resty.NewWithTransportSettings(&resty.TransportSettings{
		DialerTimeout:         2 * time.Second,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   2 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
	})

	return &RemoteChecker{
		client: client,
		url:    url,
	}
}

func (c *RemoteChecker) Close() error {
	return c.client.Close()
}

// Check posts {"content": ...} to the moderation service and decodes the
// verdict. Any transport or protocol failure is returned to the caller,
// which applies the fail-open policy.
func (c *RemoteChecker) Check(ctx context.Context, content string) (*models.ModerationResult, error) {
	res, err := c.client.R().
		WithContext(ctx).
		SetBody(map[string]string{"content": content}).
		SetResult(&models.ModerationResult{}).
		Post(c.url)
	if err != nil {
		return nil, fmt.Errorf("moderation service request failed: %v", err)
	}

	if res.IsError() {
		return nil, fmt.Errorf("moderation service returned status %d", res.StatusCode())
	}

	return res.Result().(*models.ModerationResult), nil
}
