//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// SubscriptionType identifies the notification channel a subscription delivers through.
type SubscriptionType string

const (
	SubscriptionTypeSlack     SubscriptionType = "SLACK"
	SubscriptionTypePagerDuty SubscriptionType = "PAGERDUTY"
	SubscriptionTypeHTTP      SubscriptionType = "HTTP"
	SubscriptionTypeEmail     SubscriptionType = "EMAIL"
)

// AllSubscriptionTypes lists every known subscription type in a stable order.
func AllSubscriptionTypes() []SubscriptionType {
	return []SubscriptionType{
		SubscriptionTypeSlack,
		SubscriptionTypePagerDuty,
		SubscriptionTypeHTTP,
		SubscriptionTypeEmail,
	}
}

// Valid returns true if the subscription type is known, whether or not a channel implements it.
func (t SubscriptionType) Valid() bool {
	switch t {
	case SubscriptionTypeSlack, SubscriptionTypePagerDuty, SubscriptionTypeHTTP, SubscriptionTypeEmail:
		return true
	default:
		return false
	}
}

// String returns the string representation of the subscription type.
func (t SubscriptionType) String() string {
	return string(t)
}

// ParseSubscriptionType normalizes a channel type string and reports whether it is known.
func ParseSubscriptionType(value string) (SubscriptionType, bool) {
	t := SubscriptionType(strings.ToUpper(strings.TrimSpace(value)))
	if t.Valid() {
		return t, true
	}
	return "", false
}

// Subscription binds a recipient to a check through one channel. Target grammar is
// channel specific (for SLACK a webhook URL carrying channel/username query params).
type Subscription struct {
	ID          string           `json:"id"`
	CheckID     string           `json:"checkId"`
	Type        SubscriptionType `json:"type"`
	Target      string           `json:"target"`
	Enabled     bool             `json:"enabled"`
	IgnoreWarn  bool             `json:"ignoreWarn,omitempty"`
	IgnoreError bool             `json:"ignoreError,omitempty"`
	IgnoreOK    bool             `json:"ignoreOk,omitempty"`
	// Days restricts delivery to the listed weekdays. Empty means every day.
	Days []time.Weekday `json:"days,omitempty"`
	// FromTime and ToTime bound the delivery window as "HHMM". Empty means all day.
	// A window with FromTime after ToTime wraps past midnight.
	FromTime string `json:"fromTime,omitempty"`
	ToTime   string `json:"toTime,omitempty"`
}

// Validate checks the fields every channel relies on.
func (s *Subscription) Validate() error {
	if strings.TrimSpace(s.Target) == "" {
		return errors.New("target is required")
	}
	if !s.Type.Valid() {
		return fmt.Errorf("invalid subscription type %q", s.Type)
	}
	if (s.FromTime == "") != (s.ToTime == "") {
		return errors.New("fromTime and toTime must be set together")
	}
	if s.FromTime != "" {
		if _, err := parseClock(s.FromTime); err != nil {
			return fmt.Errorf("fromTime: %w", err)
		}
		if _, err := parseClock(s.ToTime); err != nil {
			return fmt.Errorf("toTime: %w", err)
		}
	}
	return nil
}

// ShouldNotify reports whether a transition into state `to` observed at `at` should be
// delivered to this subscription. A subscription with an invalid window never notifies.
func (s *Subscription) ShouldNotify(at time.Time, to AlertType) bool {
	if !s.Enabled {
		return false
	}
	if s.ignores(to) {
		return false
	}
	if !s.activeOn(at.Weekday()) {
		return false
	}
	return s.inWindow(at)
}

func (s *Subscription) ignores(to AlertType) bool {
	switch to {
	case AlertTypeWarn:
		return s.IgnoreWarn
	case AlertTypeError:
		return s.IgnoreError
	case AlertTypeOK:
		return s.IgnoreOK
	default:
		return false
	}
}

func (s *Subscription) activeOn(day time.Weekday) bool {
	if len(s.Days) == 0 {
		return true
	}
	for _, d := range s.Days {
		if d == day {
			return true
		}
	}
	return false
}

func (s *Subscription) inWindow(at time.Time) bool {
	if s.FromTime == "" && s.ToTime == "" {
		return true
	}
	from, err := parseClock(s.FromTime)
	if err != nil {
		return false
	}
	to, err := parseClock(s.ToTime)
	if err != nil {
		return false
	}
	now := at.Hour()*60 + at.Minute()
	if from <= to {
		return now >= from && now <= to
	}
	return now >= from || now <= to
}

// parseClock converts "HHMM" into minutes past midnight.
func parseClock(v string) (int, error) {
	t, err := time.Parse("1504", strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("invalid time %q, want HHMM", v)
	}
	return t.Hour()*60 + t.Minute(), nil
}
