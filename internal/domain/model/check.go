//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"strings"
)

// AlertType is the aggregate state of a check, and the from/to state of an alert.
type AlertType string

const (
	AlertTypeUnknown AlertType = "UNKNOWN"
	AlertTypeOK      AlertType = "OK"
	AlertTypeWarn    AlertType = "WARN"
	AlertTypeError   AlertType = "ERROR"
)

// Valid returns true if the alert type is one of the known states.
func (t AlertType) Valid() bool {
	switch t {
	case AlertTypeUnknown, AlertTypeOK, AlertTypeWarn, AlertTypeError:
		return true
	default:
		return false
	}
}

// String returns the string representation of the alert type.
func (t AlertType) String() string {
	return string(t)
}

// ParseAlertType normalizes a state string and reports whether it is supported.
func ParseAlertType(value string) (AlertType, bool) {
	t := AlertType(strings.ToUpper(strings.TrimSpace(value)))
	if t.Valid() {
		return t, true
	}
	return "", false
}

// Check is a monitored condition. It is owned by the evaluation subsystem and is
// read-only during notification dispatch.
type Check struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	State       AlertType `json:"state"`
	Enabled     bool      `json:"enabled"`
}

// URLFragment is the dashboard route for the check, relative to the platform base URL.
func (c *Check) URLFragment() string {
	return "#/checks/" + c.ID
}
