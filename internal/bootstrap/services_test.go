package bootstrap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/seyren-notify/config"
	"github.com/target/seyren-notify/internal/domain/model"
	"github.com/target/seyren-notify/internal/testutil"
)

func baseConfig() *config.AppConfig {
	cfg := &config.AppConfig{BaseURL: "https://seyren.example"}
	cfg.Notifications.Slack.Enabled = true
	cfg.Sanitize()
	return cfg
}

func TestBuildNotifiersDefaultsToSlack(t *testing.T) {
	set, err := BuildNotifiers(baseConfig(), nil)
	require.NoError(t, err)
	require.Len(t, set.Notifiers, 1)
	assert.Equal(t, []model.SubscriptionType{model.SubscriptionTypeSlack}, set.Required)
}

func TestBuildRegistryAllChannels(t *testing.T) {
	cfg := baseConfig()
	cfg.Notifications.PagerDuty.Enabled = true
	cfg.Notifications.Webhook.Enabled = true

	reg, err := BuildRegistry(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, []model.SubscriptionType{
		model.SubscriptionTypeSlack,
		model.SubscriptionTypePagerDuty,
		model.SubscriptionTypeHTTP,
	}, reg.Types())
}

func TestBuildNotifiersRejectsBadExpression(t *testing.T) {
	cfg := baseConfig()
	cfg.Notifications.Webhook.Enabled = true
	cfg.Notifications.Webhook.BodyExpression = "check.[name"

	_, err := BuildNotifiers(cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "webhook")
}

func TestNewServicesWithoutLedger(t *testing.T) {
	c, err := NewServices(context.Background(), &ServiceDeps{Config: baseConfig()})
	require.NoError(t, err)
	defer c.Close()

	assert.NotNil(t, c.Dispatcher)
	assert.Nil(t, c.Outcomes)
	assert.Nil(t, c.Metrics)
}

func TestNewServicesRequiresConfig(t *testing.T) {
	_, err := NewServices(context.Background(), &ServiceDeps{})
	require.Error(t, err)
	_, err = NewServices(context.Background(), nil)
	require.Error(t, err)
}

func TestNewServicesLedgerUnreachable(t *testing.T) {
	cfg := baseConfig()
	cfg.Redis.Enabled = true
	cfg.Redis.URI = "127.0.0.1:1"

	_, err := NewServices(context.Background(), &ServiceDeps{Config: cfg})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outcome ledger")
}

func TestNewServicesWithInjectedRedis(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	client := testutil.SetupTestRedis(t)
	defer client.Close()

	c, err := NewServices(context.Background(), &ServiceDeps{Config: baseConfig(), Redis: client})
	require.NoError(t, err)
	defer c.Close()
	require.NotNil(t, c.Outcomes)

	rec, err := c.Outcomes.Last(context.Background(), "nothing-yet")
	require.NoError(t, err)
	assert.Nil(t, rec)
}
