package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/chris/standup/internal/db"
	"github.com/chris/standup/internal/scheduler"
)

// ErrNoDelivery means neither a DM recipient nor a webhook is available.
var ErrNoDelivery = errors.New("no delivery method available")

// DMSender sends a direct message; *Bot implements it.
type DMSender interface {
	SendDM(userID, content string) error
}

// Notifier delivers notifications as a DM to the last user who messaged
// the bot, falling back to a webhook.
type Notifier struct {
	dm         DMSender
	settings   Settings
	webhookURL string
	http       *http.Client
	log        *zap.SugaredLogger
}

// NewNotifier builds a notifier. dm may be nil when the bot isn't running.
func NewNotifier(dm DMSender, settings Settings, webhookURL string, log *zap.SugaredLogger) *Notifier {
	return &Notifier{dm: dm, settings: settings, webhookURL: webhookURL, http: http.DefaultClient, log: log}
}

func (n *Notifier) Notify(ctx context.Context, msg scheduler.Notification) error {
	content := format(msg)

	// Try DM first
	if n.dm != nil {
		userID, err := n.settings.GetSetting(db.KeyDiscordUserID)
		if err == nil && userID != "" {
			if err := n.dm.SendDM(userID, content); err != nil {
				n.log.Warnf("discord: DM send failed: %v", err)
			} else {
				return nil
			}
		}
	}
	// Fall back to webhook
	if n.webhookURL != "" {
		for _, chunk := range splitMessage(content, maxMessageLen) {
			if err := n.postWebhook(ctx, chunk); err != nil {
				return err
			}
		}
		return nil
	}
	return ErrNoDelivery
}

func format(msg scheduler.Notification) string {
	if msg.Body == "" {
		return "**" + msg.Title + "**"
	}
	return "**" + msg.Title + "**\n" + msg.Body
}

func (n *Notifier) postWebhook(ctx context.Context, content string) error {
	body, err := json.Marshal(map[string]string{"content": content})
	if err != nil {
		return fmt.Errorf("encoding webhook payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		return fmt.Errorf("posting webhook: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
