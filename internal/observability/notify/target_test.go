package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/target/seyren-notify/internal/errors"
)

func TestParseTarget(t *testing.T) {
	target, err := ParseTarget("https://hooks.example/T?channel=ops!&username=bot&extra=%E2%9C%93")
	require.NoError(t, err)

	assert.Equal(t, "https://hooks.example/T", target.Endpoint)
	assert.Equal(t, "bot", target.Username(DefaultUsername))
	assert.Equal(t, "✓", target.Params.Get("extra"), "unknown keys are kept and decoded")

	channel, mention := target.Channel(DefaultChannel)
	assert.Equal(t, "ops", channel)
	assert.True(t, mention)
}

func TestParseTargetChannel(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantChannel string
		wantMention bool
		wantUser    string
	}{
		{name: "plain channel", raw: "https://h.example/x?channel=alerts", wantChannel: "alerts", wantUser: DefaultUsername},
		{name: "mention marker", raw: "https://h.example/x?channel=alerts!", wantChannel: "alerts", wantMention: true, wantUser: DefaultUsername},
		{name: "encoded marker", raw: "https://h.example/x?channel=alerts%21", wantChannel: "alerts", wantMention: true, wantUser: DefaultUsername},
		{name: "hash prefix", raw: "https://h.example/x?channel=%23alerts", wantChannel: "alerts", wantUser: DefaultUsername},
		{name: "defaults", raw: "https://h.example/x?foo=bar", wantChannel: DefaultChannel, wantUser: DefaultUsername},
		{name: "only marker", raw: "https://h.example/x?channel=!", wantChannel: DefaultChannel, wantMention: true, wantUser: DefaultUsername},
		{name: "encoded username", raw: "https://h.example/x?username=Night+Watch", wantChannel: DefaultChannel, wantUser: "Night Watch"},
		{name: "bang in username is not a mention", raw: "https://h.example/x?username=hey!", wantChannel: DefaultChannel, wantUser: "hey!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := ParseTarget(tt.raw)
			require.NoError(t, err)
			channel, mention := target.Channel(DefaultChannel)
			assert.Equal(t, tt.wantChannel, channel)
			assert.Equal(t, tt.wantMention, mention)
			assert.Equal(t, tt.wantUser, target.Username(DefaultUsername))
		})
	}
}

func TestParseTargetErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: "  "},
		{name: "no query", raw: "https://hooks.example/T"},
		{name: "empty query", raw: "https://hooks.example/T?"},
		{name: "relative", raw: "hooks.example/T?channel=ops"},
		{name: "not a url", raw: "://bad?channel=ops"},
		{name: "bad escape", raw: "https://hooks.example/T?channel=%zz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTarget(tt.raw)
			require.Error(t, err)
			assert.True(t, apperrors.IsConfiguration(err), "want configuration error, got %v", err)
			assert.Equal(t, "target", apperrors.GetField(err))
		})
	}
}

func TestRedactEndpoint(t *testing.T) {
	assert.Equal(t, "https://hooks.slack.com", RedactEndpoint("https://hooks.slack.com/services/T0/B0/secret"))
	assert.Equal(t, "", RedactEndpoint("not a url"))
}
