package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/target/seyren-notify/internal/core"
	"github.com/target/seyren-notify/internal/observability/notify"
	"github.com/target/seyren-notify/internal/service/dispatcher"
	"github.com/target/seyren-notify/internal/util"
)

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func printReports(w io.Writer, reports []dispatcher.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if err := writef(tw, "CHECK\tSUBSCRIPTION\tCHANNEL\tOUTCOME\tSTATUS\tDURATION\tDETAIL\n"); err != nil {
		return err
	}
	for i := range reports {
		for j := range reports[i].Results {
			r := &reports[i].Results[j]
			if err := writef(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				reports[i].CheckID, r.SubscriptionID, r.Channel, r.Outcome,
				statusText(r.StatusCode), util.FormatDuration(r.Duration), util.OrDash(r.Reason)); err != nil {
				return err
			}
		}
	}
	return tw.Flush()
}

func printOutcomes(w io.Writer, recs []core.OutcomeRecord) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if err := writef(tw, "AT\tDELIVERY\tCHECK\tSUBSCRIPTION\tCHANNEL\tOUTCOME\tSTATUS\tERROR\n"); err != nil {
		return err
	}
	for i := range recs {
		r := &recs[i]
		if err := writef(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.At.UTC().Format(time.RFC3339), r.DeliveryID, r.CheckID, r.SubscriptionID, r.Channel,
			r.Outcome, statusText(r.StatusCode), errorText(r)); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func errorText(r *core.OutcomeRecord) string {
	if r.Outcome != notify.OutcomeFailed {
		return "-"
	}
	if r.ErrorCode == "" {
		return util.OrDash(r.Reason)
	}
	return string(r.ErrorCode) + ": " + util.OrDash(r.Reason)
}

func statusText(code int) string {
	if code == 0 {
		return "-"
	}
	return strconv.Itoa(code)
}
