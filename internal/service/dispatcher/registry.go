package dispatcher

import (
	"errors"
	"strings"

	"github.com/target/seyren-notify/internal/domain/model"
	apperrors "github.com/target/seyren-notify/internal/errors"
	"github.com/target/seyren-notify/internal/observability/notify"
)

// Registry maps each subscription type to exactly one notifier.
type Registry struct {
	byType map[model.SubscriptionType]notify.Notifier
}

// NewRegistry binds notifiers to the subscription types they handle. It fails when
// a required type has no handler (gap) or when any known type is claimed by more
// than one notifier (overlap). All problems are reported together.
func NewRegistry(notifiers []notify.Notifier, required []model.SubscriptionType) (*Registry, error) {
	handlers := make(map[model.SubscriptionType][]notify.Notifier)
	for _, n := range notifiers {
		if n == nil {
			continue
		}
		for _, t := range model.AllSubscriptionTypes() {
			if n.CanHandle(t) {
				handlers[t] = append(handlers[t], n)
			}
		}
	}

	var errs []error
	for _, t := range model.AllSubscriptionTypes() {
		if hs := handlers[t]; len(hs) > 1 {
			names := make([]string, len(hs))
			for i, h := range hs {
				names[i] = h.Name()
			}
			errs = append(errs, apperrors.Configurationf("notifiers",
				"subscription type %s handled by %d notifiers: %s", t, len(hs), strings.Join(names, ", ")))
		}
	}
	for _, t := range required {
		if len(handlers[t]) == 0 {
			errs = append(errs, apperrors.Configurationf("notifiers", "no notifier handles subscription type %s", t))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	byType := make(map[model.SubscriptionType]notify.Notifier, len(handlers))
	for t, hs := range handlers {
		byType[t] = hs[0]
	}
	return &Registry{byType: byType}, nil
}

// Lookup returns the notifier for a subscription type.
func (r *Registry) Lookup(t model.SubscriptionType) (notify.Notifier, bool) {
	if r == nil {
		return nil, false
	}
	n, ok := r.byType[t]
	return n, ok
}

// Types returns the handled subscription types in a stable order.
func (r *Registry) Types() []model.SubscriptionType {
	var out []model.SubscriptionType
	for _, t := range model.AllSubscriptionTypes() {
		if _, ok := r.Lookup(t); ok {
			out = append(out, t)
		}
	}
	return out
}
