package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/target/seyren-notify/config"
	"github.com/target/seyren-notify/internal/domain/model"
	"github.com/target/seyren-notify/internal/observability/notify"
	"github.com/target/seyren-notify/internal/observability/notify/pagerduty"
	"github.com/target/seyren-notify/internal/observability/notify/slack"
	"github.com/target/seyren-notify/internal/observability/notify/webhook"
	"github.com/target/seyren-notify/internal/service/dispatcher"
)

// NotifierSet is the enabled channels and the subscription types they must cover.
type NotifierSet struct {
	Notifiers []notify.Notifier
	Required  []model.SubscriptionType
}

// BuildNotifiers constructs every enabled channel on a shared transport. An enabled
// channel that fails to build is a startup error.
func BuildNotifiers(cfg *config.AppConfig, logger *slog.Logger) (NotifierSet, error) {
	if logger == nil {
		logger = slog.Default()
	}

	transport := notify.NewTransport(notify.TransportConfig{
		Timeout:   cfg.Notifications.Timeout,
		UserAgent: cfg.Notifications.UserAgent,
		Logger:    logger,
	})

	var set NotifierSet
	nc := cfg.Notifications

	if nc.Slack.Enabled {
		n, err := slack.NewNotifier(slack.Config{
			BaseURL:         cfg.BaseURL,
			DefaultChannel:  nc.Slack.DefaultChannel,
			DefaultUsername: nc.Slack.DefaultUsername,
			IconEmoji:       nc.Slack.IconEmoji,
			Transport:       transport,
			Logger:          logger,
		})
		if err != nil {
			return NotifierSet{}, fmt.Errorf("initialise slack notifier: %w", err)
		}
		set.add(n, model.SubscriptionTypeSlack)
	}

	if nc.PagerDuty.Enabled {
		n, err := pagerduty.NewNotifier(pagerduty.Config{
			BaseURL:   cfg.BaseURL,
			Endpoint:  nc.PagerDuty.Endpoint,
			Source:    nc.PagerDuty.Source,
			Transport: transport,
			Logger:    logger,
		})
		if err != nil {
			return NotifierSet{}, fmt.Errorf("initialise pagerduty notifier: %w", err)
		}
		set.add(n, model.SubscriptionTypePagerDuty)
	}

	if nc.Webhook.Enabled {
		n, err := webhook.NewNotifier(webhook.Config{
			BaseURL:        cfg.BaseURL,
			BodyExpression: nc.Webhook.BodyExpression,
			Transport:      transport,
			Logger:         logger,
		})
		if err != nil {
			return NotifierSet{}, fmt.Errorf("initialise webhook notifier: %w", err)
		}
		set.add(n, model.SubscriptionTypeHTTP)
	}

	return set, nil
}

func (s *NotifierSet) add(n notify.Notifier, t model.SubscriptionType) {
	s.Notifiers = append(s.Notifiers, n)
	s.Required = append(s.Required, t)
}

// BuildRegistry builds the notifiers and checks they cover their types exactly once.
func BuildRegistry(cfg *config.AppConfig, logger *slog.Logger) (*dispatcher.Registry, error) {
	set, err := BuildNotifiers(cfg, logger)
	if err != nil {
		return nil, err
	}
	reg, err := dispatcher.NewRegistry(set.Notifiers, set.Required)
	if err != nil {
		return nil, fmt.Errorf("build notifier registry: %w", err)
	}
	return reg, nil
}
