package core

import (
	"context"

	apperrors "github.com/target/seyren-notify/internal/errors"
	"github.com/target/seyren-notify/internal/observability/notify"
)

// This file contains the port definitions between the dispatch service and the
// storage layer. Services depend on these interfaces, not on concrete repositories.

// OutcomeRecord is a persisted delivery result. The error itself is not stored;
// its taxonomy code and message survive as ErrorCode and Reason.
type OutcomeRecord struct {
	notify.Result
	ErrorCode apperrors.ErrorCode `json:"errorCode,omitempty"`
}

// NewOutcomeRecord captures a result for storage.
func NewOutcomeRecord(res *notify.Result) OutcomeRecord {
	return OutcomeRecord{Result: *res, ErrorCode: res.ErrorCode()}
}

// OutcomeRecorder persists delivery outcomes so operators can inspect the most
// recent attempt per subscription and the recent history per check.
type OutcomeRecorder interface {
	Record(ctx context.Context, res *notify.Result) error
	Last(ctx context.Context, subscriptionID string) (*OutcomeRecord, error)
	Recent(ctx context.Context, checkID string, limit int) ([]OutcomeRecord, error)
}
