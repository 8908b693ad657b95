package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/target/seyren-notify/internal/errors"
)

// Begin opens a Result for a delivery on the named channel.
func Begin(channel string, d *Delivery) Result {
	return Result{
		DeliveryID:     uuid.NewString(),
		CheckID:        d.Check.ID,
		SubscriptionID: d.Subscription.ID,
		Channel:        channel,
		At:             time.Now(),
	}
}

// Complete closes a Result with the transport outcome.
func (r Result) Complete(status int, err error) Result {
	r.Duration = time.Since(r.At)
	r.StatusCode = status
	if err != nil {
		r.Outcome = OutcomeFailed
		r.Err = err
		r.Reason = err.Error()
		if r.StatusCode == 0 {
			r.StatusCode = apperrors.GetStatusCode(err)
		}
		return r
	}
	r.Outcome = OutcomeDelivered
	return r
}

// Skip closes a Result that was deliberately not sent.
func (r Result) Skip(reason string) Result {
	r.Duration = time.Since(r.At)
	r.Outcome = OutcomeSkipped
	r.Reason = reason
	return r
}

// LogResult writes the outcome of a delivery. Failures are warnings carrying enough
// context for an operator to find the subscription; successes are debug.
func LogResult(ctx context.Context, logger *slog.Logger, r *Result) {
	if logger == nil {
		return
	}
	attrs := []any{
		"delivery_id", r.DeliveryID,
		"check_id", r.CheckID,
		"subscription_id", r.SubscriptionID,
		"channel", r.Channel,
		"endpoint", r.Endpoint,
	}
	switch r.Outcome {
	case OutcomeFailed:
		attrs = append(attrs, "status", r.StatusCode, "error_code", string(r.ErrorCode()), "error", r.Err)
		logger.WarnContext(ctx, "notification delivery failed", attrs...)
	case OutcomeSkipped:
		attrs = append(attrs, "reason", r.Reason)
		logger.DebugContext(ctx, "notification skipped", attrs...)
	default:
		attrs = append(attrs, "status", r.StatusCode, "duration_ms", r.Duration.Milliseconds())
		logger.DebugContext(ctx, "notification delivered", attrs...)
	}
}

// EncodeJSON serializes a wire payload without HTML escaping, so chat markup such
// as <!channel> reaches the endpoint verbatim.
func EncodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode notification payload")
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
