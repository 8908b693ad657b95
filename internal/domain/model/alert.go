//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"strconv"
	"time"
)

// Alert records one state transition of a single metric target within a check.
// Alerts are created once by the evaluator and never mutated afterwards.
type Alert struct {
	ID        string    `json:"id,omitempty"`
	CheckID   string    `json:"checkId"`
	Target    string    `json:"target"`
	Value     float64   `json:"value"`
	Warn      *float64  `json:"warn,omitempty"`
	Error     *float64  `json:"error,omitempty"`
	FromType  AlertType `json:"fromType"`
	ToType    AlertType `json:"toType"`
	Timestamp time.Time `json:"timestamp"`
}

// FormatValue renders the alert value in its shortest exact decimal form (12.1, not 12.100000).
func (a *Alert) FormatValue() string {
	return strconv.FormatFloat(a.Value, 'f', -1, 64)
}

// LastAlert returns the triggering transition of a time-ascending history.
func LastAlert(alerts []Alert) (Alert, bool) {
	if len(alerts) == 0 {
		return Alert{}, false
	}
	return alerts[len(alerts)-1], true
}
