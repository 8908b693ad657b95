package dispatcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/target/seyren-notify/internal/domain/model"
	apperrors "github.com/target/seyren-notify/internal/errors"
	"github.com/target/seyren-notify/internal/mocks"
	"github.com/target/seyren-notify/internal/observability/metrics"
	"github.com/target/seyren-notify/internal/observability/notify"
	"github.com/target/seyren-notify/internal/observability/notify/slack"
	"github.com/target/seyren-notify/internal/testutil"
)

func statusServer(t *testing.T, status int, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func slackRegistry(t *testing.T) *Registry {
	t.Helper()
	n, err := slack.NewNotifier(slack.Config{BaseURL: "https://seyren.example"})
	require.NoError(t, err)
	reg, err := NewRegistry([]notify.Notifier{n}, []model.SubscriptionType{model.SubscriptionTypeSlack})
	require.NoError(t, err)
	return reg
}

func TestDispatchCheckContinuesAfterFailure(t *testing.T) {
	var failHits, okHits atomic.Int32
	failing := statusServer(t, http.StatusInternalServerError, &failHits)
	healthy := statusServer(t, http.StatusOK, &okHits)

	rec := metrics.NewRecorder()
	svc := NewService(ServiceOptions{
		Registry:  slackRegistry(t),
		Observers: Observers{Metrics: rec},
	})

	check := testutil.NewCheck("c1").WithName("Disk").Build()
	subs := []model.Subscription{
		testutil.NewSubscription("s1", "c1", model.SubscriptionTypeSlack, failing.URL+"/hook?channel=ops"),
		testutil.NewSubscription("s2", "c1", model.SubscriptionTypeSlack, healthy.URL+"/hook?channel=dev!"),
	}
	alerts := []model.Alert{testutil.Transition("c1", model.AlertTypeWarn, model.AlertTypeError)}

	report, err := svc.DispatchCheck(context.Background(), check, subs, alerts)
	require.NoError(t, err)
	require.Len(t, report.Results, 2)

	assert.Equal(t, notify.OutcomeFailed, report.Results[0].Outcome)
	assert.Equal(t, http.StatusInternalServerError, report.Results[0].StatusCode)
	assert.True(t, apperrors.IsDeliveryFailed(report.Results[0].Err))
	assert.Equal(t, notify.OutcomeDelivered, report.Results[1].Outcome)

	assert.Equal(t, int32(1), failHits.Load())
	assert.Equal(t, int32(1), okHits.Load())
	assert.Len(t, report.Failures(), 1)
	assert.Equal(t, int64(2), rec.Counts[metrics.MetricDelivery])
}

func TestDispatchCheckEmptyAlertsFailsFast(t *testing.T) {
	ctrl := gomock.NewController(t)
	n := mockNotifier(ctrl, "slack", model.SubscriptionTypeSlack)
	reg, err := NewRegistry([]notify.Notifier{n}, nil)
	require.NoError(t, err)

	svc := NewService(ServiceOptions{Registry: reg})
	subs := []model.Subscription{testutil.NewSubscription("s1", "c1", model.SubscriptionTypeSlack, "https://h/x?channel=a")}

	report, err := svc.DispatchCheck(context.Background(), testutil.NewCheck("c1").Build(), subs, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidInput(err))
	assert.Empty(t, report.Results)
}

func TestDispatchCheckSkips(t *testing.T) {
	ctrl := gomock.NewController(t)
	n := mockNotifier(ctrl, "slack", model.SubscriptionTypeSlack)
	n.EXPECT().Deliver(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, d notify.Delivery) (notify.Result, error) {
			return notify.Begin("slack", &d).Complete(http.StatusOK, nil), nil
		}).Times(1)

	reg, err := NewRegistry([]notify.Notifier{n}, nil)
	require.NoError(t, err)
	svc := NewService(ServiceOptions{Registry: reg})

	ignoring := testutil.NewSubscription("s-ignore", "c1", model.SubscriptionTypeSlack, "https://h/x?channel=a")
	ignoring.IgnoreError = true
	disabled := testutil.NewSubscription("s-off", "c1", model.SubscriptionTypeSlack, "https://h/x?channel=a")
	disabled.Enabled = false

	subs := []model.Subscription{
		testutil.NewSubscription("s-other", "c2", model.SubscriptionTypeSlack, "https://h/x?channel=a"),
		testutil.NewSubscription("s-mail", "c1", model.SubscriptionTypeEmail, "ops@example.com"),
		ignoring,
		disabled,
		testutil.NewSubscription("s-bad", "c1", model.SubscriptionTypeSlack, "  "),
		testutil.NewSubscription("s-ok", "c1", model.SubscriptionTypeSlack, "https://h/x?channel=a"),
	}
	alerts := []model.Alert{testutil.Transition("c1", model.AlertTypeWarn, model.AlertTypeError)}

	report, err := svc.DispatchCheck(context.Background(), testutil.NewCheck("c1").Build(), subs, alerts)
	require.NoError(t, err)
	require.Len(t, report.Results, 6)

	assert.Equal(t, ReasonOtherCheck, report.Results[0].Reason)
	assert.Equal(t, ReasonUnsupported, report.Results[1].Reason)
	assert.Equal(t, "email", report.Results[1].Channel)
	assert.Equal(t, ReasonSuppressed, report.Results[2].Reason)
	assert.Equal(t, ReasonSuppressed, report.Results[3].Reason)
	assert.Equal(t, notify.OutcomeFailed, report.Results[4].Outcome)
	assert.Equal(t, apperrors.ErrCodeConfiguration, report.Results[4].ErrorCode())
	assert.Equal(t, notify.OutcomeDelivered, report.Results[5].Outcome)

	assert.Equal(t, 4, report.Count(notify.OutcomeSkipped))
}

func TestDispatchCheckRecordsOutcomes(t *testing.T) {
	ctrl := gomock.NewController(t)
	n := mockNotifier(ctrl, "slack", model.SubscriptionTypeSlack)
	n.EXPECT().Deliver(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, d notify.Delivery) (notify.Result, error) {
			return notify.Begin("slack", &d).Complete(http.StatusOK, nil), nil
		}).Times(2)

	recorder := mocks.NewMockOutcomeRecorder(ctrl)
	recorder.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil)
	recorder.EXPECT().Record(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

	reg, err := NewRegistry([]notify.Notifier{n}, nil)
	require.NoError(t, err)
	svc := NewService(ServiceOptions{Registry: reg, Observers: Observers{Recorder: recorder}})

	subs := []model.Subscription{
		testutil.NewSubscription("s1", "c1", model.SubscriptionTypeSlack, "https://h/x?channel=a"),
		testutil.NewSubscription("s2", "c1", model.SubscriptionTypeSlack, "https://h/x?channel=b"),
	}
	alerts := []model.Alert{testutil.Transition("c1", model.AlertTypeOK, model.AlertTypeWarn)}

	report, err := svc.DispatchCheck(context.Background(), testutil.NewCheck("c1").Build(), subs, alerts)
	require.NoError(t, err, "recording failures must not surface")
	assert.Equal(t, 2, report.Count(notify.OutcomeDelivered))
}

func TestDispatchCheckNotifierInvalidInputStops(t *testing.T) {
	ctrl := gomock.NewController(t)
	n := mockNotifier(ctrl, "slack", model.SubscriptionTypeSlack)
	n.EXPECT().Deliver(gomock.Any(), gomock.Any()).
		Return(notify.Result{}, apperrors.InvalidInput("check.name", "check name is required")).
		Times(1)

	reg, err := NewRegistry([]notify.Notifier{n}, nil)
	require.NoError(t, err)
	svc := NewService(ServiceOptions{Registry: reg})

	subs := []model.Subscription{
		testutil.NewSubscription("s1", "c1", model.SubscriptionTypeSlack, "https://h/x?channel=a"),
		testutil.NewSubscription("s2", "c1", model.SubscriptionTypeSlack, "https://h/x?channel=b"),
	}
	alerts := []model.Alert{testutil.Transition("c1", model.AlertTypeOK, model.AlertTypeWarn)}

	_, err = svc.DispatchCheck(context.Background(), testutil.NewCheck("c1").Build(), subs, alerts)
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidInput(err))
}

func TestDispatchCheckMissingNameFailsBeforeSkips(t *testing.T) {
	ctrl := gomock.NewController(t)
	n := mockNotifier(ctrl, "slack", model.SubscriptionTypeSlack)
	recorder := mocks.NewMockOutcomeRecorder(ctrl)

	reg, err := NewRegistry([]notify.Notifier{n}, nil)
	require.NoError(t, err)
	rec := metrics.NewRecorder()
	svc := NewService(ServiceOptions{
		Registry:  reg,
		Observers: Observers{Recorder: recorder, Metrics: rec},
	})

	subs := []model.Subscription{
		testutil.NewSubscription("s-other", "c2", model.SubscriptionTypeSlack, "https://h/x?channel=a"),
		testutil.NewSubscription("s1", "c1", model.SubscriptionTypeSlack, "https://h/x?channel=b"),
	}
	alerts := []model.Alert{testutil.Transition("c1", model.AlertTypeOK, model.AlertTypeWarn)}

	report, err := svc.DispatchCheck(context.Background(), testutil.NewCheck("c1").WithName(" ").Build(), subs, alerts)
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidInput(err))
	assert.Equal(t, "check.name", apperrors.GetField(err))
	assert.Empty(t, report.Results)
	assert.Empty(t, rec.Counts)
}

func TestDispatchCheckUsesNowWithoutTimestamp(t *testing.T) {
	ctrl := gomock.NewController(t)
	n := mockNotifier(ctrl, "slack", model.SubscriptionTypeSlack)

	reg, err := NewRegistry([]notify.Notifier{n}, nil)
	require.NoError(t, err)

	// Tuesday 03:00, outside a 0900-1700 window.
	now := time.Date(2026, time.October, 13, 3, 0, 0, 0, time.UTC)
	svc := NewService(ServiceOptions{Registry: reg, Config: Config{Now: func() time.Time { return now }}})

	sub := testutil.NewSubscription("s1", "c1", model.SubscriptionTypeSlack, "https://h/x?channel=a")
	sub.FromTime, sub.ToTime = "0900", "1700"
	alert := testutil.Transition("c1", model.AlertTypeOK, model.AlertTypeError)
	alert.Timestamp = time.Time{}

	report, err := svc.DispatchCheck(context.Background(), testutil.NewCheck("c1").Build(), []model.Subscription{sub}, []model.Alert{alert})
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.Equal(t, ReasonSuppressed, report.Results[0].Reason)
}

func TestDispatchBatch(t *testing.T) {
	var hits atomic.Int32
	srv := statusServer(t, http.StatusOK, &hits)

	rec := metrics.NewRecorder()
	svc := NewService(ServiceOptions{
		Registry:  slackRegistry(t),
		Observers: Observers{Metrics: rec},
		Config:    Config{Concurrency: 2},
	})

	var batch []CheckDispatch
	for _, id := range []string{"c1", "c2", "c3"} {
		batch = append(batch, CheckDispatch{
			Check:         testutil.NewCheck(id).Build(),
			Subscriptions: []model.Subscription{testutil.NewSubscription("s-"+id, id, model.SubscriptionTypeSlack, srv.URL+"?channel=ops")},
			Alerts:        []model.Alert{testutil.Transition(id, model.AlertTypeOK, model.AlertTypeError)},
		})
	}
	batch = append(batch, CheckDispatch{Check: testutil.NewCheck("c4").Build()})

	reports, err := svc.DispatchBatch(context.Background(), batch)
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidInput(err))
	require.Len(t, reports, 4)
	for i, id := range []string{"c1", "c2", "c3"} {
		assert.Equal(t, id, reports[i].CheckID)
		assert.Equal(t, 1, reports[i].Count(notify.OutcomeDelivered))
	}
	assert.Equal(t, int32(3), hits.Load())
	assert.Equal(t, int64(3), rec.Counts[metrics.MetricDelivery])
}

func TestNewServicePanicsWithoutRegistry(t *testing.T) {
	assert.Panics(t, func() { NewService(ServiceOptions{}) })
}
