// Package webhook posts check notifications as JSON to arbitrary HTTP endpoints.
//
// The default body is a canonical document describing the check, the formatted
// fields and the full alert history. Operators can reshape it with a JMESPath
// expression, evaluated against that document, so the endpoint receives exactly
// the structure it expects.
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/target/seyren-notify/internal/domain/model"
	apperrors "github.com/target/seyren-notify/internal/errors"
	"github.com/target/seyren-notify/internal/observability/notify"
)

// ChannelName identifies the generic webhook in results, logs and metrics.
const ChannelName = "webhook"

// Evaluator abstracts JMESPath operations for testability.
type Evaluator interface {
	Validate(expr string) error
	Evaluate(expr string, data any) (any, error)
}

// jmespathEvaluator implements Evaluator using go-jmespath.
type jmespathEvaluator struct{}

func (jmespathEvaluator) Validate(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return nil
	}
	_, err := jmespath.Compile(expr)
	return err
}

func (jmespathEvaluator) Evaluate(expr string, data any) (any, error) {
	return jmespath.Search(expr, data)
}

// Config configures the webhook channel.
type Config struct {
	BaseURL string
	// BodyExpression is an optional JMESPath expression applied to the canonical document.
	BodyExpression string
	Evaluator      Evaluator
	Transport      *notify.Transport
	Logger         *slog.Logger
}

// Notifier delivers to HTTP subscriptions. The subscription target is the URL to POST to.
type Notifier struct {
	baseURL    string
	expression string
	evaluator  Evaluator
	transport  *notify.Transport
	logger     *slog.Logger
}

var _ notify.Notifier = (*Notifier)(nil)

// NewNotifier builds a webhook notifier, rejecting an invalid body expression up front.
func NewNotifier(cfg Config) (*Notifier, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, errors.New("webhook notifier base url is required")
	}

	evaluator := cfg.Evaluator
	if evaluator == nil {
		evaluator = jmespathEvaluator{}
	}
	expr := strings.TrimSpace(cfg.BodyExpression)
	if err := evaluator.Validate(expr); err != nil {
		return nil, fmt.Errorf("webhook body expression: %w", err)
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
		baseURL:    baseURL,
		expression: expr,
		evaluator:  evaluator,
		transport:  transport,
		logger:     logger.With("component", "webhook_notifier"),
	}, nil
}

// Name implements notify.Notifier.
func (n *Notifier) Name() string { return ChannelName }

// CanHandle implements notify.Notifier.
func (n *Notifier) CanHandle(t model.SubscriptionType) bool {
	return t == model.SubscriptionTypeHTTP
}

// Deliver posts the rendered document to the subscription URL.
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

	endpoint, err := parseEndpoint(d.Subscription.Target)
	if err != nil {
		res = res.Complete(0, err)
		notify.LogResult(ctx, n.logger, &res)
		return res, nil
	}
	res.Endpoint = notify.RedactEndpoint(endpoint)

	body, err := n.render(&d, &msg)
	if err != nil {
		res = res.Complete(0, err)
		notify.LogResult(ctx, n.logger, &res)
		return res, nil
	}

	status, err := n.transport.PostJSON(ctx, endpoint, body)
	res = res.Complete(status, err)
	notify.LogResult(ctx, n.logger, &res)
	return res, nil
}

func parseEndpoint(target string) (string, error) {
	raw := strings.TrimSpace(target)
	u, err := url.Parse(raw)
	if err != nil {
		return "", apperrors.WrapField(err, apperrors.ErrCodeConfiguration, "target", "parse webhook url")
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", apperrors.Configuration("target", "webhook target must be an http(s) url")
	}
	return u.String(), nil
}

type document struct {
	SeyrenURL    string           `json:"seyrenUrl"`
	Link         string           `json:"link"`
	Color        string           `json:"color"`
	Check        model.Check      `json:"check"`
	Subscription subscriptionView `json:"subscription"`
	Fields       []fieldView      `json:"fields"`
	Alerts       []model.Alert    `json:"alerts"`
}

// subscriptionView leaves out the target, which may embed credentials.
type subscriptionView struct {
	ID   string                 `json:"id"`
	Type model.SubscriptionType `json:"type"`
}

type fieldView struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

func (n *Notifier) render(d *notify.Delivery, msg *notify.Message) ([]byte, error) {
	fields := make([]fieldView, 0, len(msg.Fields))
	for _, f := range msg.Fields {
		fields = append(fields, fieldView{Title: f.Label, Value: f.Value, Short: f.Short})
	}

	doc := document{
		SeyrenURL:    n.baseURL,
		Link:         msg.Link,
		Color:        msg.Color,
		Check:        d.Check,
		Subscription: subscriptionView{ID: d.Subscription.ID, Type: d.Subscription.Type},
		Fields:       fields,
		Alerts:       msg.History,
	}

	if n.expression == "" {
		return notify.EncodeJSON(doc)
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode webhook document")
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "decode webhook document")
	}
	shaped, err := n.evaluator.Evaluate(n.expression, generic)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeConfiguration, "evaluate webhook body expression")
	}
	return notify.EncodeJSON(shaped)
}
