// Package mocks provides mock implementations for testing the notification dispatcher.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the
// notifier and outcome-recorder ports.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	n := mocks.NewMockNotifier(ctrl)
//	n.EXPECT().Deliver(gomock.Any(), gomock.Any()).Return(notify.Result{Outcome: notify.OutcomeDelivered}, nil)
package mocks

// Generate mock for the Notifier interface from the notify package.
// This creates MockNotifier with Name, CanHandle and Deliver.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=notifier_mock.go github.com/target/seyren-notify/internal/observability/notify Notifier

// Generate mock for OutcomeRecorder interface from internal/core package.
// This creates MockOutcomeRecorder with Record, Last and Recent.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=outcome_recorder_mock.go github.com/target/seyren-notify/internal/core OutcomeRecorder
