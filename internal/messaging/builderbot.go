package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/soportia/helpdesk/internal/config"
)

// Sender dispatches an outbound text message to a customer address.
type Sender interface {
	Send(ctx context.Context, recipient, text string) error
}

// BuilderBotClient sends WhatsApp messages through the BuilderBot API.
type BuilderBotClient struct {
	apiURL string
	apiKey string
	http   *http.Client
	logger *zap.Logger
}

// NewBuilderBotClient builds the client from configuration.
func NewBuilderBotClient(cfg config.MessagingConfig, logger *zap.Logger) *BuilderBotClient {
	return &BuilderBotClient{
		apiURL: cfg.APIURL,
		apiKey: cfg.APIKey,
		http:   &http.Client{Timeout: cfg.Timeout()},
		logger: logger,
	}
}

type sendMessageRequest struct {
	Number  string `json:"number"`
	Message string `json:"message"`
}

// Send posts the message. Callers treat failures as best-effort; the error
// is returned for logging, never to fail the triggering pipeline run.
func (c *BuilderBotClient) Send(ctx context.Context, recipient, text string) error {
	if c.apiURL == "" {
		return errors.New("builderbot api url not configured")
	}

	body, err := json.Marshal(sendMessageRequest{Number: recipient, Message: text})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-builderbot", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("builderbot send failed: status %d: %s", resp.StatusCode, snippet)
	}

	c.logger.Debug("outbound message dispatched", zap.String("recipient", recipient))
	return nil
}
