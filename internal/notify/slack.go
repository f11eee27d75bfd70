package notify

import (
	"context"

	"github.com/slack-go/slack"
)

// slackAPI is the subset of the Slack client the notifier uses.
// Narrowed to an interface so tests can stub message delivery.
type slackAPI interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// SlackNotifier posts notifications to a Slack channel.
type SlackNotifier struct {
	client slackAPI
}

// NewSlackNotifier creates a Slack backend from a bot token.
func NewSlackNotifier(botToken string) *SlackNotifier {
	return &SlackNotifier{client: slack.New(botToken)}
}

// Name returns the backend name
func (s *SlackNotifier) Name() string {
	return "slack"
}

// Send posts the notification to the channel named by the notification.
func (s *SlackNotifier) Send(ctx context.Context, n Notification) error {
	_, _, err := s.client.PostMessageContext(
		ctx,
		n.Channel,
		slack.MsgOptionText(n.Text(), false),
	)
	if err != nil {
		return &BackendError{Backend: s.Name(), Err: err}
	}
	return nil
}
