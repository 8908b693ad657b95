package notify

import (
	"context"
	"time"

	"github.com/target/seyren-notify/internal/domain/model"
	apperrors "github.com/target/seyren-notify/internal/errors"
)

// Outcome labels the result of one delivery attempt.
type Outcome string

const (
	OutcomeDelivered Outcome = "delivered"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeFailed    Outcome = "failed"
)

// Delivery is the input of a single notification: one check, one of its
// subscriptions and the time-ascending alert history of the current cycle.
type Delivery struct {
	Check        model.Check
	Subscription model.Subscription
	Alerts       []model.Alert
}

// Result describes what happened to a delivery. Err holds a ConfigurationError or
// DeliveryFailed error when Outcome is failed.
type Result struct {
	DeliveryID     string        `json:"deliveryId"`
	CheckID        string        `json:"checkId"`
	SubscriptionID string        `json:"subscriptionId"`
	Channel        string        `json:"channel"`
	Endpoint       string        `json:"endpoint,omitempty"`
	Outcome        Outcome       `json:"outcome"`
	StatusCode     int           `json:"statusCode,omitempty"`
	Reason         string        `json:"reason,omitempty"`
	Duration       time.Duration `json:"duration"`
	At             time.Time     `json:"at"`
	Err            error         `json:"-"`
}

// Failed reports whether the delivery ended in a contained failure.
func (r Result) Failed() bool {
	return r.Outcome == OutcomeFailed
}

// ErrorCode returns the taxonomy code of the contained failure, if any.
func (r Result) ErrorCode() apperrors.ErrorCode {
	return apperrors.GetCode(r.Err)
}

// Notifier delivers notifications for the subscription types it handles.
//
// Deliver reports configuration and transport faults through the returned Result
// and never as an error: one subscriber's fault must not block the others. The
// error return is reserved for InvalidInput, i.e. the caller broke the contract.
type Notifier interface {
	Name() string
	CanHandle(t model.SubscriptionType) bool
	Deliver(ctx context.Context, d Delivery) (Result, error)
}
