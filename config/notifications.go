package config

import (
	"strings"
	"time"
)

const (
	defaultNotifyTimeout   = 5 * time.Second
	defaultNotifyUserAgent = "seyren-notify"
)

// NotificationsConfig controls the outbound channels and their shared transport.
type NotificationsConfig struct {
	Timeout   time.Duration           `env:"NOTIFY_TIMEOUT"    envDefault:"5s"`
	UserAgent string                  `env:"NOTIFY_USER_AGENT" envDefault:"seyren-notify"`
	Slack     SlackNotificationConfig `envPrefix:"NOTIFY_SLACK_"`
	PagerDuty PagerDutyConfig         `envPrefix:"NOTIFY_PAGERDUTY_"`
	Webhook   WebhookConfig           `envPrefix:"NOTIFY_WEBHOOK_"`
}

// Sanitize normalises notification configuration values.
func (c *NotificationsConfig) Sanitize() {
	if c.Timeout <= 0 {
		c.Timeout = defaultNotifyTimeout
	}
	if c.UserAgent = strings.TrimSpace(c.UserAgent); c.UserAgent == "" {
		c.UserAgent = defaultNotifyUserAgent
	}

	c.Slack.sanitize()
	c.PagerDuty.sanitize()
	c.Webhook.sanitize()
}

// SlackNotificationConfig controls the Slack webhook channel. Webhook URLs live on
// each subscription target; these are the fallbacks for the message envelope.
type SlackNotificationConfig struct {
	Enabled         bool   `env:"ENABLED"          envDefault:"true"`
	DefaultChannel  string `env:"DEFAULT_CHANNEL"  envDefault:"dev-ops"`
	DefaultUsername string `env:"DEFAULT_USERNAME" envDefault:"Seyren"`
	IconEmoji       string `env:"ICON_EMOJI"       envDefault:":seyren:"`
}

func (c *SlackNotificationConfig) sanitize() {
	c.DefaultChannel = strings.TrimPrefix(strings.TrimSpace(c.DefaultChannel), "#")
	c.DefaultUsername = strings.TrimSpace(c.DefaultUsername)
	c.IconEmoji = strings.TrimSpace(c.IconEmoji)
}

// PagerDutyConfig controls the PagerDuty Events API v2 channel. Routing keys live on
// each subscription target.
type PagerDutyConfig struct {
	Enabled  bool   `env:"ENABLED"  envDefault:"false"`
	Endpoint string `env:"ENDPOINT" envDefault:"https://events.pagerduty.com/v2/enqueue"`
	Source   string `env:"SOURCE"   envDefault:"seyren"`
}

func (c *PagerDutyConfig) sanitize() {
	c.Endpoint = strings.TrimSpace(c.Endpoint)
	if c.Source = strings.TrimSpace(c.Source); c.Source == "" {
		c.Source = "seyren"
	}
}

// WebhookConfig controls the generic HTTP channel.
type WebhookConfig struct {
	Enabled bool `env:"ENABLED" envDefault:"false"`
	// BodyExpression is an optional JMESPath expression reshaping the posted document.
	BodyExpression string `env:"BODY_EXPRESSION"`
}

func (c *WebhookConfig) sanitize() {
	c.BodyExpression = strings.TrimSpace(c.BodyExpression)
}
