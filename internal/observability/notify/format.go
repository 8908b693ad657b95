package notify

import (
	"strings"

	"github.com/target/seyren-notify/internal/domain/model"
	apperrors "github.com/target/seyren-notify/internal/errors"
)

// Attachment colors keyed by check state.
const (
	ColorError = "#d93240"
	ColorWarn  = "#FFD801"
	ColorOK    = "#5bb12f"
)

// Field labels rendered for the triggering transition.
const (
	FieldNewState    = "New State Value"
	FieldOldState    = "Old State Value"
	FieldDescription = "Description"
)

// Field is one label/value pair of a formatted message. Short fields may be laid
// out side by side by channels that support it.
type Field struct {
	Label string
	Value string
	Short bool
}

// Message is the channel-agnostic rendering of a notification. Channels serialize
// it into their own wire format.
type Message struct {
	Title      string
	Link       string
	Color      string
	State      model.AlertType
	Fields     []Field
	Mention    bool
	Transition model.Alert
	History    []model.Alert
}

// FormatInput carries everything Format needs. BaseURL is the platform's public URL
// used for deep links; Mention is decided by the channel's target parser.
type FormatInput struct {
	Check        model.Check
	Subscription model.Subscription
	Alerts       []model.Alert
	BaseURL      string
	Mention      bool
}

// Format renders a notification message. It performs no I/O and is deterministic.
// An empty alert history or a check without identity is an InvalidInputError.
func Format(in FormatInput) (Message, error) {
	last, err := ValidateCycle(&in.Check, in.Alerts)
	if err != nil {
		return Message{}, err
	}

	history := make([]model.Alert, len(in.Alerts))
	copy(history, in.Alerts)

	return Message{
		Title: in.Check.Name,
		Link:  CheckLink(in.BaseURL, &in.Check),
		Color: StateColor(in.Check.State),
		State: in.Check.State,
		Fields: []Field{
			{Label: FieldNewState, Value: last.ToType.String(), Short: true},
			{Label: FieldOldState, Value: last.FromType.String(), Short: true},
			{Label: FieldDescription, Value: describe(&last)},
		},
		Mention:    in.Mention,
		Transition: last,
		History:    history,
	}, nil
}

// ValidateCycle checks the caller-supplied part of a notification: a non-empty alert
// history and a check with id and name. It returns the triggering alert.
func ValidateCycle(check *model.Check, alerts []model.Alert) (model.Alert, error) {
	last, ok := model.LastAlert(alerts)
	if !ok {
		return model.Alert{}, apperrors.InvalidInput("alerts", "alert history is empty")
	}
	if strings.TrimSpace(check.ID) == "" {
		return model.Alert{}, apperrors.InvalidInput("check.id", "check id is required")
	}
	if strings.TrimSpace(check.Name) == "" {
		return model.Alert{}, apperrors.InvalidInput("check.name", "check name is required")
	}
	return last, nil
}

// StateColor maps a check state to its color. Only ERROR and OK have dedicated
// colors; every other state, including ones added upstream later, renders as a warning.
func StateColor(state model.AlertType) string {
	switch state {
	case model.AlertTypeError:
		return ColorError
	case model.AlertTypeOK:
		return ColorOK
	default:
		return ColorWarn
	}
}

// CheckLink builds the dashboard deep link for a check.
func CheckLink(baseURL string, check *model.Check) string {
	return strings.TrimRight(baseURL, "/") + "/" + check.URLFragment()
}

func describe(a *model.Alert) string {
	return a.Target + " = " + a.FormatValue()
}

// FieldValue returns the value of the first field with the given label.
func (m Message) FieldValue(label string) (string, bool) {
	for _, f := range m.Fields {
		if f.Label == label {
			return f.Value, true
		}
	}
	return "", false
}
