package slack

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/target/seyren-notify/internal/domain/model"
	"github.com/target/seyren-notify/internal/observability/notify"
)

// ChannelName identifies Slack in results, logs and metrics.
const ChannelName = "slack"

const (
	defaultIconEmoji = ":seyren:"
	mentionText      = "<!channel>"
)

// Config captures the subset of Slack webhook behaviour we need.
type Config struct {
	// BaseURL is the platform's public URL used for check deep links.
	BaseURL         string
	DefaultChannel  string
	DefaultUsername string
	IconEmoji       string
	Transport       *notify.Transport
	Logger          *slog.Logger
}

// Notifier delivers check notifications to Slack incoming webhooks. The subscription
// target is the webhook URL with channel and username query parameters.
type Notifier struct {
	baseURL         string
	defaultChannel  string
	defaultUsername string
	iconEmoji       string
	transport       *notify.Transport
	logger          *slog.Logger
}

var _ notify.Notifier = (*Notifier)(nil)

// NewNotifier builds a Slack notifier. Callers should pass a validated config.
func NewNotifier(cfg Config) (*Notifier, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, errors.New("slack notifier base url is required")
	}

	transport := cfg.Transport
	if transport == nil {
		transport = notify.NewTransport(notify.TransportConfig{Logger: cfg.Logger})
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Notifier{
		baseURL:         baseURL,
		defaultChannel:  fallbackString(strings.TrimPrefix(strings.TrimSpace(cfg.DefaultChannel), "#"), notify.DefaultChannel),
		defaultUsername: fallbackString(strings.TrimSpace(cfg.DefaultUsername), notify.DefaultUsername),
		iconEmoji:       fallbackString(strings.TrimSpace(cfg.IconEmoji), defaultIconEmoji),
		transport:       transport,
		logger:          logger.With("component", "slack_notifier"),
	}, nil
}

// Name implements notify.Notifier.
func (n *Notifier) Name() string { return ChannelName }

// CanHandle implements notify.Notifier.
func (n *Notifier) CanHandle(t model.SubscriptionType) bool {
	return t == model.SubscriptionTypeSlack
}

// Deliver parses the subscription target, formats the message and posts it once.
// Only an InvalidInput error is returned; every other failure is in the Result.
func (n *Notifier) Deliver(ctx context.Context, d notify.Delivery) (notify.Result, error) {
	res := notify.Begin(ChannelName, &d)

	target, targetErr := notify.ParseTarget(d.Subscription.Target)
	channel, mention := target.Channel(n.defaultChannel)

	msg, err := notify.Format(notify.FormatInput{
		Check:        d.Check,
		Subscription: d.Subscription,
		Alerts:       d.Alerts,
		BaseURL:      n.baseURL,
		Mention:      mention,
	})
	if err != nil {
		return res, err
	}

	if targetErr != nil {
		res = res.Complete(0, targetErr)
		notify.LogResult(ctx, n.logger, &res)
		return res, nil
	}
	res.Endpoint = notify.RedactEndpoint(target.Endpoint)

	body, err := notify.EncodeJSON(n.buildMessage(&msg, channel, target.Username(n.defaultUsername)))
	if err != nil {
		res = res.Complete(0, err)
		notify.LogResult(ctx, n.logger, &res)
		return res, nil
	}

	status, err := n.transport.PostJSON(ctx, target.Endpoint, body)
	res = res.Complete(status, err)
	notify.LogResult(ctx, n.logger, &res)
	return res, nil
}

func fallbackString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
