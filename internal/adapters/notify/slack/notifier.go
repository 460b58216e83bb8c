package slack

import (
	"context"
	"fmt"

	slackapi "github.com/slack-go/slack"

	"github.com/scalesec/org-policy-notifier/internal/core/ports"
	"github.com/scalesec/org-policy-notifier/internal/errors"
)

// Notifier posts one message per new constraint to an incoming-webhook URL.
// The webhook body is the usual {"text": "..."} JSON document.
type Notifier struct {
	webhookURL string
	logger     ports.Logger
}

func NewNotifier(webhookURL string, logger ports.Logger) (*Notifier, error) {
	if webhookURL == "" {
		return nil, errors.New(errors.CodeConfigValidation, "slack webhook URL cannot be empty")
	}
	return &Notifier{
		webhookURL: webhookURL,
		logger:     logger.WithFields(map[string]any{"notifier": "slack"}),
	}, nil
}

func (n *Notifier) Notify(ctx context.Context, policy string) error {
	msg := &slackapi.WebhookMessage{
		Text: fmt.Sprintf("New Organization Policy Detected: %s", policy),
	}

	n.logger.Infof(ctx, "Posting to Slack: %s", policy)
	if err := slackapi.PostWebhookContext(ctx, n.webhookURL, msg); err != nil {
		return errors.Wrap(err, errors.CodeUpstreamQuery,
			fmt.Sprintf("posting slack notification for %s", policy))
	}
	return nil
}
