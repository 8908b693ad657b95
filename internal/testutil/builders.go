package testutil

import (
	"time"

	"github.com/target/seyren-notify/internal/domain/model"
)

// TestTime returns a fixed time for testing.
func TestTime() time.Time {
	return time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)
}

// CheckBuilder provides a fluent interface for building checks in tests.
type CheckBuilder struct {
	check model.Check
}

// NewCheck creates a CheckBuilder for an enabled check in ERROR.
func NewCheck(id string) *CheckBuilder {
	return &CheckBuilder{check: model.Check{
		ID:      id,
		Name:    "check " + id,
		State:   model.AlertTypeError,
		Enabled: true,
	}}
}

// WithName sets the check name.
func (b *CheckBuilder) WithName(name string) *CheckBuilder {
	b.check.Name = name
	return b
}

// WithState sets the check state.
func (b *CheckBuilder) WithState(state model.AlertType) *CheckBuilder {
	b.check.State = state
	return b
}

// WithDescription sets the check description.
func (b *CheckBuilder) WithDescription(desc string) *CheckBuilder {
	b.check.Description = desc
	return b
}

// Build returns the check.
func (b *CheckBuilder) Build() model.Check {
	return b.check
}

// NewSubscription returns an enabled, always-on subscription for a check.
func NewSubscription(id, checkID string, typ model.SubscriptionType, target string) model.Subscription {
	return model.Subscription{
		ID:      id,
		CheckID: checkID,
		Type:    typ,
		Target:  target,
		Enabled: true,
	}
}

// Transition returns a single alert moving a check between two states at TestTime.
func Transition(checkID string, from, to model.AlertType) model.Alert {
	return model.Alert{
		ID:        checkID + "-" + to.String(),
		CheckID:   checkID,
		Target:    "servers.web1.load",
		Value:     3.5,
		FromType:  from,
		ToType:    to,
		Timestamp: TestTime(),
	}
}
