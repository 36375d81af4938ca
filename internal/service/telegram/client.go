package telegram

import (
	"context"
	"fmt"
	"time"

	drepo "NavPull/internal/domain/repository"
	xhttp "NavPull/pkg/http"
	applogger "NavPull/pkg/logger"
)

// Config holds Telegram Bot API credentials and transport settings.
type Config struct {
	BotToken string
	ChatID   string
	BaseURL  string // override for tests
	Timeout  time.Duration
}

// Client delivers messages to a fixed Telegram chat. Delivery is
// best-effort: errors and missing credentials log and return false, and
// nothing is ever retried or queued.
type Client struct {
	cfg    Config
	client *xhttp.Client
	logger *applogger.Logger
}

// New creates a Telegram notifier.
func New(cfg Config, logger *applogger.Logger) drepo.Notifier {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.telegram.org"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &Client{
		cfg:    cfg,
		client: xhttp.NewClient(xhttp.WithTimeout(cfg.Timeout)),
		logger: logger,
	}
}

// Send posts text to the configured chat and reports delivery.
func (c *Client) Send(ctx context.Context, text string) bool {
	if c.cfg.BotToken == "" || c.cfg.ChatID == "" {
		c.logger.Warn("telegram credentials missing, dropping message")
		return false
	}

	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    fmt.Sprintf("%s/bot%s/sendMessage", c.cfg.BaseURL, c.cfg.BotToken),
		Body: map[string]string{
			"chat_id": c.cfg.ChatID,
			"text":    text,
		},
	}, nil)
	if err != nil {
		c.logger.Warn("telegram send failed", applogger.Error(err))
		return false
	}
	return true
}
