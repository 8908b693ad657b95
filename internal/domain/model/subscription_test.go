package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSubscriptionType(t *testing.T) {
	typ, ok := ParseSubscriptionType(" slack ")
	assert.True(t, ok)
	assert.Equal(t, SubscriptionTypeSlack, typ)

	_, ok = ParseSubscriptionType("carrier-pigeon")
	assert.False(t, ok)
}

func TestParseAlertType(t *testing.T) {
	state, ok := ParseAlertType("warn")
	assert.True(t, ok)
	assert.Equal(t, AlertTypeWarn, state)

	_, ok = ParseAlertType("CRITICAL")
	assert.False(t, ok)
}

func TestSubscriptionValidate(t *testing.T) {
	tests := []struct {
		name    string
		sub     Subscription
		wantErr string
	}{
		{
			name: "valid",
			sub:  Subscription{Type: SubscriptionTypeSlack, Target: "https://hooks.example/T?channel=ops"},
		},
		{
			name:    "missing target",
			sub:     Subscription{Type: SubscriptionTypeSlack},
			wantErr: "target is required",
		},
		{
			name:    "unknown type",
			sub:     Subscription{Type: "FAX", Target: "x"},
			wantErr: "invalid subscription type",
		},
		{
			name:    "half window",
			sub:     Subscription{Type: SubscriptionTypeHTTP, Target: "x", FromTime: "0900"},
			wantErr: "must be set together",
		},
		{
			name:    "bad clock",
			sub:     Subscription{Type: SubscriptionTypeHTTP, Target: "x", FromTime: "9am", ToTime: "1700"},
			wantErr: "fromTime",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sub.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSubscriptionShouldNotify(t *testing.T) {
	at := time.Date(2026, time.October, 16, 14, 30, 0, 0, time.UTC)
	otherDay := (at.Weekday() + 1) % 7

	tests := []struct {
		name string
		sub  Subscription
		to   AlertType
		want bool
	}{
		{name: "enabled, no restrictions", sub: Subscription{Enabled: true}, to: AlertTypeError, want: true},
		{name: "disabled", sub: Subscription{Enabled: false}, to: AlertTypeError, want: false},
		{name: "ignore warn", sub: Subscription{Enabled: true, IgnoreWarn: true}, to: AlertTypeWarn, want: false},
		{name: "ignore warn lets error through", sub: Subscription{Enabled: true, IgnoreWarn: true}, to: AlertTypeError, want: true},
		{name: "ignore error", sub: Subscription{Enabled: true, IgnoreError: true}, to: AlertTypeError, want: false},
		{name: "ignore ok", sub: Subscription{Enabled: true, IgnoreOK: true}, to: AlertTypeOK, want: false},
		{name: "unknown state never ignored", sub: Subscription{Enabled: true, IgnoreOK: true, IgnoreWarn: true}, to: AlertTypeUnknown, want: true},
		{name: "matching day", sub: Subscription{Enabled: true, Days: []time.Weekday{at.Weekday()}}, to: AlertTypeError, want: true},
		{name: "other day", sub: Subscription{Enabled: true, Days: []time.Weekday{otherDay}}, to: AlertTypeError, want: false},
		{name: "inside window", sub: Subscription{Enabled: true, FromTime: "0900", ToTime: "1700"}, to: AlertTypeError, want: true},
		{name: "outside window", sub: Subscription{Enabled: true, FromTime: "1500", ToTime: "1700"}, to: AlertTypeError, want: false},
		{name: "window boundary inclusive", sub: Subscription{Enabled: true, FromTime: "1430", ToTime: "1430"}, to: AlertTypeError, want: true},
		{name: "overnight window excludes afternoon", sub: Subscription{Enabled: true, FromTime: "2200", ToTime: "0600"}, to: AlertTypeError, want: false},
		{name: "overnight window includes late", sub: Subscription{Enabled: true, FromTime: "1200", ToTime: "0100"}, to: AlertTypeError, want: true},
		{name: "invalid window", sub: Subscription{Enabled: true, FromTime: "xx", ToTime: "1700"}, to: AlertTypeError, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sub.ShouldNotify(at, tt.to))
		})
	}
}

func TestLastAlertAndFormatValue(t *testing.T) {
	_, ok := LastAlert(nil)
	assert.False(t, ok)

	alerts := []Alert{
		{Target: "cpu.load", Value: 9.5, FromType: AlertTypeOK, ToType: AlertTypeWarn},
		{Target: "cpu.load", Value: 12.1, FromType: AlertTypeWarn, ToType: AlertTypeError},
	}
	last, ok := LastAlert(alerts)
	require.True(t, ok)
	assert.Equal(t, AlertTypeError, last.ToType)
	assert.Equal(t, "12.1", last.FormatValue())

	whole := Alert{Value: 3}
	assert.Equal(t, "3", whole.FormatValue())
}

func TestCheckURLFragment(t *testing.T) {
	c := Check{ID: "c1"}
	assert.Equal(t, "#/checks/c1", c.URLFragment())
}
