// Package dispatcher fans a check's alert cycle out to its subscriptions through
// the notifier registered for each subscription type.
package dispatcher

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/target/seyren-notify/internal/core"
	"github.com/target/seyren-notify/internal/domain/model"
	apperrors "github.com/target/seyren-notify/internal/errors"
	"github.com/target/seyren-notify/internal/observability/metrics"
	"github.com/target/seyren-notify/internal/observability/notify"
	"github.com/target/seyren-notify/internal/observability/statsd"
)

// DefaultConcurrency bounds DispatchBatch when no limit is configured.
const DefaultConcurrency = 4

// Skip reasons reported on skipped results.
const (
	ReasonOtherCheck  = "subscription belongs to another check"
	ReasonSuppressed  = "subscription not active for this transition"
	ReasonUnsupported = "unsupported subscription type"
)

// Observers groups the optional sinks every result is reported to.
type Observers struct {
	Recorder core.OutcomeRecorder
	Metrics  statsd.Sink
	Logger   *slog.Logger
}

// Config tunes dispatch behaviour.
type Config struct {
	Concurrency int
	Now         func() time.Time
}

// ServiceOptions groups dependencies for Service.
type ServiceOptions struct {
	Registry  *Registry // Required
	Observers Observers // Optional
	Config    Config
}

// Service dispatches notifications for checks.
type Service struct {
	registry    *Registry
	recorder    core.OutcomeRecorder
	metrics     statsd.Sink
	logger      *slog.Logger
	concurrency int
	now         func() time.Time
}

// NewService constructs a dispatcher. It panics when the registry is missing.
func NewService(opts ServiceOptions) *Service {
	if opts.Registry == nil {
		panic("dispatcher: Registry is required")
	}

	logger := opts.Observers.Logger
	if logger == nil {
		logger = slog.Default()
	}
	concurrency := opts.Config.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	now := opts.Config.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		registry:    opts.Registry,
		recorder:    opts.Observers.Recorder,
		metrics:     opts.Observers.Metrics,
		logger:      logger.With("component", "dispatcher"),
		concurrency: concurrency,
		now:         now,
	}
}

// Report collects the per-subscription results of one check dispatch, in
// subscription order.
type Report struct {
	CheckID string          `json:"checkId"`
	Results []notify.Result `json:"results"`
}

// Count returns how many results ended with the given outcome.
func (r *Report) Count(o notify.Outcome) int {
	n := 0
	for i := range r.Results {
		if r.Results[i].Outcome == o {
			n++
		}
	}
	return n
}

// Failures returns the failed results.
func (r *Report) Failures() []notify.Result {
	var out []notify.Result
	for i := range r.Results {
		if r.Results[i].Failed() {
			out = append(out, r.Results[i])
		}
	}
	return out
}

// CheckDispatch is one unit of work for DispatchBatch.
type CheckDispatch struct {
	Check         model.Check
	Subscriptions []model.Subscription
	Alerts        []model.Alert
}

// DispatchCheck notifies every subscription of a check about its latest alert cycle.
//
// An empty alert history or a check without id or name is an InvalidInput error,
// returned before any subscription is looked at. Every other per-subscription fault is
// contained in the report and the loop moves on to the next subscription.
func (s *Service) DispatchCheck(
	ctx context.Context,
	check model.Check,
	subs []model.Subscription,
	alerts []model.Alert,
) (Report, error) {
	report := Report{CheckID: check.ID}

	last, err := notify.ValidateCycle(&check, alerts)
	if err != nil {
		return report, err
	}

	at := last.Timestamp
	if at.IsZero() {
		at = s.now()
	}

	for i := range subs {
		d := notify.Delivery{Check: check, Subscription: subs[i], Alerts: alerts}
		res, err := s.dispatchOne(ctx, &d, at, last.ToType)
		if err != nil {
			return report, fmt.Errorf("dispatch subscription %s: %w", subs[i].ID, err)
		}
		s.observe(ctx, &res)
		report.Results = append(report.Results, res)
	}

	s.logger.InfoContext(ctx, "dispatched check notifications",
		"check_id", check.ID,
		"subscriptions", len(subs),
		"delivered", report.Count(notify.OutcomeDelivered),
		"skipped", report.Count(notify.OutcomeSkipped),
		"failed", report.Count(notify.OutcomeFailed),
	)
	return report, nil
}

func (s *Service) dispatchOne(
	ctx context.Context,
	d *notify.Delivery,
	at time.Time,
	to model.AlertType,
) (notify.Result, error) {
	sub := &d.Subscription
	n, supported := s.registry.Lookup(sub.Type)

	channel := strings.ToLower(sub.Type.String())
	if supported {
		channel = n.Name()
	}
	res := notify.Begin(channel, d)

	if sub.CheckID != "" && sub.CheckID != d.Check.ID {
		return s.settle(ctx, res.Skip(ReasonOtherCheck)), nil
	}
	if !supported {
		s.logger.WarnContext(ctx, "no notifier for subscription type",
			"check_id", d.Check.ID,
			"subscription_id", sub.ID,
			"type", sub.Type,
		)
		return s.settle(ctx, res.Skip(ReasonUnsupported)), nil
	}
	if err := sub.Validate(); err != nil {
		err = apperrors.WrapField(err, apperrors.ErrCodeConfiguration, "subscription", "invalid subscription")
		return s.settle(ctx, res.Complete(0, err)), nil
	}
	if !sub.ShouldNotify(at, to) {
		return s.settle(ctx, res.Skip(ReasonSuppressed)), nil
	}

	return n.Deliver(ctx, *d)
}

// settle logs a result decided without calling a notifier.
func (s *Service) settle(ctx context.Context, res notify.Result) notify.Result {
	notify.LogResult(ctx, s.logger, &res)
	return res
}

// observe reports a result to the ledger and metrics. Both are best-effort.
func (s *Service) observe(ctx context.Context, res *notify.Result) {
	metrics.EmitDelivery(s.metrics, res)
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Record(ctx, res); err != nil {
		s.logger.WarnContext(ctx, "failed to record delivery outcome",
			"delivery_id", res.DeliveryID,
			"subscription_id", res.SubscriptionID,
			"error", err,
		)
	}
}

// DispatchBatch dispatches several checks concurrently, bounded by the configured
// concurrency. Reports are returned in input order. An InvalidInput error for one
// check does not cancel the others; the first such error is returned.
func (s *Service) DispatchBatch(ctx context.Context, batch []CheckDispatch) ([]Report, error) {
	reports := make([]Report, len(batch))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i := range batch {
		g.Go(func() error {
			rep, err := s.DispatchCheck(ctx, batch[i].Check, batch[i].Subscriptions, batch[i].Alerts)
			reports[i] = rep
			return err
		})
	}
	err := g.Wait()
	return reports, err
}
