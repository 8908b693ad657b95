package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"strings"
	"time"

	"github.com/target/seyren-notify/internal/bootstrap"
	"github.com/target/seyren-notify/internal/core"
	"github.com/target/seyren-notify/internal/data"
)

func requireLedger(c *bootstrap.ServiceContainer) (core.OutcomeRecorder, error) {
	if c.Outcomes == nil {
		return nil, errors.New("outcome ledger disabled: set REDIS_ENABLED=true")
	}
	return c.Outcomes, nil
}

func runLastOutcome(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("last-outcome", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	subscriptionID := fs.String("subscription", "", "Subscription id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*subscriptionID) == "" {
		return errors.New("-subscription is required")
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, 30*time.Second)
	defer cancel()

	return withServices(ctx, cmdCtx, func(c *bootstrap.ServiceContainer) error {
		ledger, err := requireLedger(c)
		if err != nil {
			return err
		}
		rec, err := ledger.Last(ctx, *subscriptionID)
		if err != nil {
			return err
		}
		if rec == nil {
			return writef(cmdCtx.Out, "no outcome recorded for subscription %s\n", *subscriptionID)
		}
		return printOutcomes(cmdCtx.Out, []core.OutcomeRecord{*rec})
	})
}

func runHistory(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	checkID := fs.String("check", "", "Check id")
	limit := fs.Int("limit", 20, "Maximum number of outcomes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*checkID) == "" {
		return errors.New("-check is required")
	}
	if *limit <= 0 || *limit > data.HistoryLimit {
		*limit = data.HistoryLimit
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, 30*time.Second)
	defer cancel()

	return withServices(ctx, cmdCtx, func(c *bootstrap.ServiceContainer) error {
		ledger, err := requireLedger(c)
		if err != nil {
			return err
		}
		recs, err := ledger.Recent(ctx, *checkID, *limit)
		if err != nil {
			return err
		}
		if len(recs) == 0 {
			return writef(cmdCtx.Out, "no outcomes recorded for check %s\n", *checkID)
		}
		return printOutcomes(cmdCtx.Out, recs)
	})
}
