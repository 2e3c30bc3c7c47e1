package notifier

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client posts alert messages to a chat webhook.
type Client interface {
	Send(ctx context.Context, text string) error
}

// Config holds the webhook endpoint and optional bearer token.
type Config struct {
	WebhookURL string
	Token      string
	Timeout    time.Duration
}

// WebhookClient is a resty-backed implementation of Client. The payload shape
// ({"text": ...}) is accepted by Slack, Mattermost and Rocket.Chat incoming hooks.
type WebhookClient struct {
	httpClient *resty.Client
	url        string
}

// NewClient builds a webhook client from cfg.
func NewClient(cfg Config) *WebhookClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	restyClient := resty.New().
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	if cfg.Token != "" {
		restyClient.SetAuthToken(cfg.Token)
	}

	return &WebhookClient{httpClient: restyClient, url: cfg.WebhookURL}
}

type payload struct {
	Text string `json:"text"`
}

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Send delivers text to the webhook.
func (c *WebhookClient) Send(ctx context.Context, text string) error {
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload{Text: text}).
		SetError(apiErr).
		Post(c.url)
	if err != nil {
		return fmt.Errorf("post alert webhook: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		message := apiErr.Message
		if message == "" {
			message = apiErr.Error
		}
		if message == "" {
			message = resp.String()
		}
		return fmt.Errorf("alert webhook error: status=%d, message=%s", resp.StatusCode(), message)
	}

	return nil
}
