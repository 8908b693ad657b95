package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/seyren-notify/config"
	"github.com/target/seyren-notify/internal/core"
	"github.com/target/seyren-notify/internal/domain/model"
	"github.com/target/seyren-notify/internal/observability/notify"
	"github.com/target/seyren-notify/internal/service/dispatcher"
)

func testContext(out io.Writer) *commandContext {
	cfg := config.AppConfig{BaseURL: "https://seyren.example"}
	cfg.Notifications.Slack.Enabled = true
	cfg.Notifications.Webhook.Enabled = true
	cfg.Sanitize()
	return &commandContext{
		Ctx:    context.Background(),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Config: cfg,
		Out:    out,
	}
}

type hookRecorder struct {
	mu     sync.Mutex
	status int
	bodies []string
}

func (h *hookRecorder) server(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		h.mu.Lock()
		h.bodies = append(h.bodies, string(b))
		status := h.status
		h.mu.Unlock()
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeEnvelope(t *testing.T, v any) string {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "envelope.json")
	require.NoError(t, os.WriteFile(path, raw, 0o600))
	return path
}

func sampleEnvelope(target string) envelope {
	return envelope{
		Check: model.Check{ID: "c1", Name: "CPU", State: model.AlertTypeError, Enabled: true},
		Subscriptions: []model.Subscription{{
			ID: "s1", CheckID: "c1", Type: model.SubscriptionTypeSlack, Target: target, Enabled: true,
		}},
		Alerts: []model.Alert{{
			CheckID: "c1", Target: "cpu.load", Value: 12.1,
			FromType: model.AlertTypeWarn, ToType: model.AlertTypeError,
			Timestamp: time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC),
		}},
	}
}

func TestPrintUsageListsCommands(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printUsage(&buf))
	for name := range commands() {
		assert.Contains(t, buf.String(), name)
	}
}

func TestReadEnvelopes(t *testing.T) {
	one, err := readEnvelopes(strings.NewReader(`{"check":{"id":"c1","name":"CPU"},"alerts":[]}`))
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "c1", one[0].Check.ID)

	many, err := readEnvelopes(strings.NewReader(` [{"check":{"id":"a"}},{"check":{"id":"b"}}]`))
	require.NoError(t, err)
	require.Len(t, many, 2)

	_, err = readEnvelopes(strings.NewReader("  "))
	require.Error(t, err)
	_, err = readEnvelopes(strings.NewReader("{"))
	require.Error(t, err)
}

func TestParseFlags(t *testing.T) {
	_, err := parseSendFlags(nil)
	require.Error(t, err)

	_, err = parseTestFlags([]string{"-type", "SMS", "-target", "x"})
	require.Error(t, err)
	_, err = parseTestFlags([]string{"-type", "slack"})
	require.Error(t, err)

	opts, err := parseTestFlags([]string{"-type", "http", "-target", "https://hook.example"})
	require.NoError(t, err)
	assert.Equal(t, model.SubscriptionTypeHTTP, opts.Type)
	assert.Equal(t, "test-check", opts.CheckID)
}

func TestTestDeliveryIsFormattable(t *testing.T) {
	opts := testOptions{Type: model.SubscriptionTypeSlack, Target: "https://h/x?channel=ops", CheckID: "c", CheckName: "Check"}
	d := testDelivery(&opts, time.Now())

	msg, err := notify.Format(notify.FormatInput{Check: d.Check, Alerts: d.Alerts, BaseURL: "https://seyren.example"})
	require.NoError(t, err)
	assert.Equal(t, notify.ColorError, msg.Color)
	old, ok := msg.FieldValue(notify.FieldOldState)
	require.True(t, ok)
	assert.Equal(t, "WARN", old)
}

func TestRunSendDelivers(t *testing.T) {
	hook := &hookRecorder{status: http.StatusOK}
	srv := hook.server(t)
	path := writeEnvelope(t, sampleEnvelope(srv.URL+"/hook?channel=ops&username=bot"))

	var out bytes.Buffer
	require.NoError(t, runSend(testContext(&out), []string{"-file", path}))

	assert.Contains(t, out.String(), "delivered")
	hook.mu.Lock()
	defer hook.mu.Unlock()
	require.Len(t, hook.bodies, 1)
	assert.Contains(t, hook.bodies[0], `"channel":"#ops"`)
}

func TestRunSendReportsFailures(t *testing.T) {
	hook := &hookRecorder{status: http.StatusInternalServerError}
	srv := hook.server(t)
	path := writeEnvelope(t, []envelope{sampleEnvelope(srv.URL + "/hook?channel=ops")})

	var out bytes.Buffer
	err := runSend(testContext(&out), []string{"-file", path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 notification(s) failed")
	assert.Contains(t, out.String(), "failed")
	assert.Contains(t, out.String(), "500")
}

func TestRunTestWebhook(t *testing.T) {
	hook := &hookRecorder{status: http.StatusAccepted}
	srv := hook.server(t)

	var out bytes.Buffer
	require.NoError(t, runTest(testContext(&out), []string{"-type", "HTTP", "-target", srv.URL, "-check-name", "Smoke"}))

	hook.mu.Lock()
	defer hook.mu.Unlock()
	require.Len(t, hook.bodies, 1)
	assert.Contains(t, hook.bodies[0], `"name":"Smoke"`)
}

func TestLedgerCommandsRequireRedis(t *testing.T) {
	var out bytes.Buffer
	err := runLastOutcome(testContext(&out), []string{"-subscription", "s1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_ENABLED")

	err = runHistory(testContext(&out), []string{})
	require.Error(t, err)
}

func TestPrintOutcomes(t *testing.T) {
	var buf bytes.Buffer
	recs := []core.OutcomeRecord{{
		Result: notify.Result{
			DeliveryID: "d1", CheckID: "c1", SubscriptionID: "s1", Channel: "slack",
			Outcome: notify.OutcomeFailed, StatusCode: 502, Reason: "endpoint returned 502",
			At: time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC),
		},
		ErrorCode: "delivery_failed",
	}}
	require.NoError(t, printOutcomes(&buf, recs))
	assert.Contains(t, buf.String(), "2026-10-16T09:00:00Z")
	assert.Contains(t, buf.String(), "delivery_failed: endpoint returned 502")
}

func TestPrintReports(t *testing.T) {
	var buf bytes.Buffer
	reports := []dispatcher.Report{{
		CheckID: "c1",
		Results: []notify.Result{{SubscriptionID: "s1", Channel: "email", Outcome: notify.OutcomeSkipped, Reason: "unsupported subscription type"}},
	}}
	require.NoError(t, printReports(&buf, reports))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "unsupported subscription type")
}
