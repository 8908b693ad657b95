package pagerduty

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/target/seyren-notify/internal/domain/model"
	apperrors "github.com/target/seyren-notify/internal/errors"
	"github.com/target/seyren-notify/internal/observability/notify"
)

// APIEndpoint is the PagerDuty Events API v2 ingest URL.
const APIEndpoint = "https://events.pagerduty.com/v2/enqueue"

// ChannelName identifies PagerDuty in results, logs and metrics.
const ChannelName = "pagerduty"

// Config captures runtime configuration for the PagerDuty channel.
type Config struct {
	BaseURL   string
	Endpoint  string
	Source    string
	Transport *notify.Transport
	Logger    *slog.Logger
}

// Notifier publishes check transitions via PagerDuty's Events API v2. The
// subscription target is the integration routing key.
type Notifier struct {
	baseURL   string
	endpoint  string
	source    string
	transport *notify.Transport
	logger    *slog.Logger
}

var _ notify.Notifier = (*Notifier)(nil)

// NewNotifier constructs a PagerDuty notifier from config.
func NewNotifier(cfg Config) (*Notifier, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, errors.New("pagerduty notifier base url is required")
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
		baseURL:   baseURL,
		endpoint:  fallbackString(strings.TrimSpace(cfg.Endpoint), APIEndpoint),
		source:    fallbackString(strings.TrimSpace(cfg.Source), "seyren"),
		transport: transport,
		logger:    logger.With("component", "pagerduty_notifier"),
	}, nil
}

// Name implements notify.Notifier.
func (n *Notifier) Name() string { return ChannelName }

// CanHandle implements notify.Notifier.
func (n *Notifier) CanHandle(t model.SubscriptionType) bool {
	return t == model.SubscriptionTypePagerDuty
}

// Deliver submits a trigger event, or a resolve event when the check is back to OK.
func (n *Notifier) Deliver(ctx context.Context, d notify.Delivery) (notify.Result, error) {
	res := notify.Begin(ChannelName, &d)

	msg, err := notify.Format(notify.FormatInput{
		Check:        d.Check,
		Subscription: d.Subscription,
		Alerts:       d.Alerts,
		BaseURL:      n.baseURL,
	})
	if err != nil {
		return res, err
	}

	routingKey, err := parseRoutingKey(d.Subscription.Target)
	if err != nil {
		res = res.Complete(0, err)
		notify.LogResult(ctx, n.logger, &res)
		return res, nil
	}
	res.Endpoint = notify.RedactEndpoint(n.endpoint)

	body, err := notify.EncodeJSON(n.buildEvent(routingKey, &d.Check, &msg))
	if err != nil {
		res = res.Complete(0, err)
		notify.LogResult(ctx, n.logger, &res)
		return res, nil
	}

	status, err := n.transport.PostJSON(ctx, n.endpoint, body)
	res = res.Complete(status, err)
	notify.LogResult(ctx, n.logger, &res)
	return res, nil
}

func parseRoutingKey(target string) (string, error) {
	key := strings.TrimSpace(target)
	if key == "" {
		return "", apperrors.Configuration("target", "pagerduty routing key is required")
	}
	if strings.ContainsAny(key, " \t\r\n/?") {
		return "", apperrors.Configuration("target", "pagerduty routing key is malformed")
	}
	return key, nil
}

type event struct {
	RoutingKey  string        `json:"routing_key"`
	EventAction string        `json:"event_action"`
	DedupKey    string        `json:"dedup_key"`
	Payload     *eventPayload `json:"payload,omitempty"`
	Links       []eventLink   `json:"links,omitempty"`
}

type eventPayload struct {
	Summary       string            `json:"summary"`
	Severity      string            `json:"severity"`
	Source        string            `json:"source"`
	Timestamp     string            `json:"timestamp,omitempty"`
	CustomDetails map[string]string `json:"custom_details,omitempty"`
}

type eventLink struct {
	Href string `json:"href"`
	Text string `json:"text"`
}

func (n *Notifier) buildEvent(routingKey string, check *model.Check, msg *notify.Message) event {
	ev := event{
		RoutingKey: routingKey,
		DedupKey:   "seyren:" + check.ID,
		Links:      []eventLink{{Href: msg.Link, Text: "View check"}},
	}

	if check.State == model.AlertTypeOK {
		ev.EventAction = "resolve"
		return ev
	}

	custom := make(map[string]string, len(msg.Fields)+1)
	for _, f := range msg.Fields {
		custom[f.Label] = f.Value
	}
	if check.Description != "" {
		custom["Check Description"] = check.Description
	}

	var timestamp string
	if !msg.Transition.Timestamp.IsZero() {
		timestamp = msg.Transition.Timestamp.UTC().Format(time.RFC3339)
	}

	ev.EventAction = "trigger"
	ev.Payload = &eventPayload{
		Summary:       fmt.Sprintf("%s is %s", check.Name, check.State),
		Severity:      severity(check.State),
		Source:        n.source,
		Timestamp:     timestamp,
		CustomDetails: custom,
	}
	return ev
}

// severity maps a check state onto the PagerDuty severity scale.
func severity(state model.AlertType) string {
	switch state {
	case model.AlertTypeError:
		return "critical"
	case model.AlertTypeWarn:
		return "warning"
	default:
		return "info"
	}
}

func fallbackString(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
