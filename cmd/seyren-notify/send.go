package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/target/seyren-notify/internal/bootstrap"
	"github.com/target/seyren-notify/internal/domain/model"
	"github.com/target/seyren-notify/internal/observability/notify"
	"github.com/target/seyren-notify/internal/service/dispatcher"
)

const defaultCommandTimeout = 2 * time.Minute

// envelope is one check with its subscriptions and the alerts of the current cycle.
type envelope struct {
	Check         model.Check          `json:"check"`
	Subscriptions []model.Subscription `json:"subscriptions"`
	Alerts        []model.Alert        `json:"alerts"`
}

type sendOptions struct {
	File    string
	Timeout time.Duration
}

func parseSendFlags(args []string) (sendOptions, error) {
	fs := flag.NewFlagSet("send", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var opts sendOptions
	fs.StringVar(&opts.File, "file", "", "Path to a JSON envelope or array of envelopes (- for stdin)")
	fs.DurationVar(&opts.Timeout, "timeout", defaultCommandTimeout, "Overall command timeout")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if strings.TrimSpace(opts.File) == "" {
		return opts, errors.New("-file is required")
	}
	return opts, nil
}

// readEnvelopes accepts a single envelope object or an array of envelopes.
func readEnvelopes(r io.Reader) ([]envelope, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read envelope: %w", err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, errors.New("envelope is empty")
	}

	if raw[0] == '[' {
		var many []envelope
		if err := json.Unmarshal(raw, &many); err != nil {
			return nil, fmt.Errorf("decode envelopes: %w", err)
		}
		return many, nil
	}

	var one envelope
	if err := json.Unmarshal(raw, &one); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	return []envelope{one}, nil
}

func openEnvelopeFile(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path) //nolint:gosec // operator-supplied path
	if err != nil {
		return nil, fmt.Errorf("open envelope file: %w", err)
	}
	return f, nil
}

func runSend(cmdCtx *commandContext, args []string) error {
	opts, err := parseSendFlags(args)
	if err != nil {
		return err
	}

	rc, err := openEnvelopeFile(opts.File)
	if err != nil {
		return err
	}
	envelopes, err := readEnvelopes(rc)
	if cerr := rc.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("close envelope file: %w", cerr)
	}
	if err != nil {
		return err
	}

	batch := make([]dispatcher.CheckDispatch, len(envelopes))
	for i, env := range envelopes {
		batch[i] = dispatcher.CheckDispatch{Check: env.Check, Subscriptions: env.Subscriptions, Alerts: env.Alerts}
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, opts.Timeout)
	defer cancel()

	return withServices(ctx, cmdCtx, func(c *bootstrap.ServiceContainer) error {
		reports, err := c.Dispatcher.DispatchBatch(ctx, batch)
		if perr := printReports(cmdCtx.Out, reports); perr != nil {
			return errors.Join(err, perr)
		}
		if err != nil {
			return err
		}
		return failureSummary(reports)
	})
}

type testOptions struct {
	Type      model.SubscriptionType
	Target    string
	CheckID   string
	CheckName string
	Timeout   time.Duration
}

func parseTestFlags(args []string) (testOptions, error) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var (
		opts    testOptions
		subType string
	)
	fs.StringVar(&subType, "type", string(model.SubscriptionTypeSlack), "Subscription type (SLACK, PAGERDUTY, HTTP)")
	fs.StringVar(&opts.Target, "target", "", "Subscription target")
	fs.StringVar(&opts.CheckID, "check-id", "test-check", "Check id used in the deep link")
	fs.StringVar(&opts.CheckName, "check-name", "Test check", "Check name shown in the notification")
	fs.DurationVar(&opts.Timeout, "timeout", 30*time.Second, "Overall command timeout")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	t, ok := model.ParseSubscriptionType(subType)
	if !ok {
		return opts, fmt.Errorf("unknown subscription type %q", subType)
	}
	opts.Type = t
	if strings.TrimSpace(opts.Target) == "" {
		return opts, errors.New("-target is required")
	}
	return opts, nil
}

// testDelivery builds a synthetic cycle in which the check moves from WARN to ERROR.
func testDelivery(opts *testOptions, now time.Time) dispatcher.CheckDispatch {
	check := model.Check{
		ID:          opts.CheckID,
		Name:        opts.CheckName,
		Description: "Test notification sent from seyren-notify",
		State:       model.AlertTypeError,
		Enabled:     true,
	}
	sub := model.Subscription{
		ID:      "test-subscription",
		CheckID: check.ID,
		Type:    opts.Type,
		Target:  opts.Target,
		Enabled: true,
	}
	warn, errThreshold := 1.0, 2.0
	alert := model.Alert{
		ID:        "test-alert",
		CheckID:   check.ID,
		Target:    "seyren.test.metric",
		Value:     3,
		Warn:      &warn,
		Error:     &errThreshold,
		FromType:  model.AlertTypeWarn,
		ToType:    model.AlertTypeError,
		Timestamp: now.UTC(),
	}
	return dispatcher.CheckDispatch{Check: check, Subscriptions: []model.Subscription{sub}, Alerts: []model.Alert{alert}}
}

func runTest(cmdCtx *commandContext, args []string) error {
	opts, err := parseTestFlags(args)
	if err != nil {
		return err
	}
	d := testDelivery(&opts, time.Now())

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, opts.Timeout)
	defer cancel()

	return withServices(ctx, cmdCtx, func(c *bootstrap.ServiceContainer) error {
		report, err := c.Dispatcher.DispatchCheck(ctx, d.Check, d.Subscriptions, d.Alerts)
		if err != nil {
			return err
		}
		reports := []dispatcher.Report{report}
		if err := printReports(cmdCtx.Out, reports); err != nil {
			return err
		}
		return failureSummary(reports)
	})
}

func withServices(ctx context.Context, cmdCtx *commandContext, fn func(*bootstrap.ServiceContainer) error) error {
	c, err := bootstrap.NewServices(ctx, &bootstrap.ServiceDeps{Config: &cmdCtx.Config, Logger: cmdCtx.Logger})
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(c)
}

func failureSummary(reports []dispatcher.Report) error {
	failed := 0
	for i := range reports {
		failed += reports[i].Count(notify.OutcomeFailed)
	}
	if failed > 0 {
		return fmt.Errorf("%d notification(s) failed", failed)
	}
	return nil
}
