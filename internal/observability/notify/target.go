package notify

import (
	"net/url"
	"strings"

	apperrors "github.com/target/seyren-notify/internal/errors"
)

// Defaults applied when a subscription target omits addressing parameters.
const (
	DefaultChannel  = "dev-ops"
	DefaultUsername = "Seyren"
)

// mentionSuffix on the channel parameter asks the channel to notify everyone.
const mentionSuffix = "!"

// Target is a parsed subscription target: the delivery endpoint plus its decoded
// query parameters. Unknown parameters are kept.
type Target struct {
	Endpoint string
	Params   url.Values
}

// ParseTarget splits a raw subscription target of the form
// <endpoint>?<key>=<value>&... into endpoint and parameters. A target that is not an
// absolute URL or carries no query component is a ConfigurationError.
func ParseTarget(raw string) (Target, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Target{}, apperrors.Configuration("target", "subscription target is empty")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Target{}, apperrors.WrapField(err, apperrors.ErrCodeConfiguration, "target", "parse subscription target")
	}
	if u.Scheme == "" || u.Host == "" {
		return Target{}, apperrors.Configuration("target", "subscription target must be an absolute url")
	}
	if u.RawQuery == "" {
		return Target{}, apperrors.Configuration("target", "subscription target has no query component")
	}

	params, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return Target{}, apperrors.WrapField(err, apperrors.ErrCodeConfiguration, "target", "decode subscription target query")
	}

	endpoint := *u
	endpoint.RawQuery = ""
	endpoint.ForceQuery = false
	endpoint.Fragment = ""
	endpoint.RawFragment = ""

	return Target{
		Endpoint: endpoint.String(),
		Params:   params,
	}, nil
}

// Channel returns the destination channel name and whether everyone should be
// mentioned. The mention marker is detected before it is stripped; a leading '#'
// is dropped so callers can add their own prefix.
func (t Target) Channel(fallback string) (string, bool) {
	value := strings.TrimSpace(t.Params.Get("channel"))
	mention := strings.HasSuffix(value, mentionSuffix)
	value = strings.TrimSuffix(value, mentionSuffix)
	value = strings.TrimPrefix(value, "#")
	if value == "" {
		value = fallback
	}
	return value, mention
}

// Username returns the display name parameter or the fallback.
func (t Target) Username(fallback string) string {
	if v := strings.TrimSpace(t.Params.Get("username")); v != "" {
		return v
	}
	return fallback
}

// RedactEndpoint keeps scheme and host of an endpoint for logging. Webhook paths
// frequently embed credentials.
func RedactEndpoint(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
