// Package alert fans incident notifications out to webhook destinations.
// Delivery is fire-and-forget: a failed webhook never blocks or fails the
// request that produced the incident.
package alert

// Dispatcher fans out alert events to matching webhook configurations.
type Dispatcher struct {
	configs []AlertConfig
}

// NewDispatcher creates a Dispatcher from webhook configurations.
// Returns nil if configs is empty (callers should nil-check).
func NewDispatcher(configs []AlertConfig) *Dispatcher {
	if len(configs) == 0 {
		return nil
	}
	return &Dispatcher{configs: configs}
}

// Dispatch sends the event to all webhooks whose Events list matches.
// Matching is on severity or incident type; an empty Events list matches
// everything. Fires goroutines — does not block the caller.
func (d *Dispatcher) Dispatch(event AlertEvent) {
	for _, cfg := range d.configs {
		if matches(cfg.Events, event) {
			go Send(cfg, event)
		}
	}
}

// DispatchSync sends matching webhooks on the calling goroutine. Used by
// one-shot CLI paths that exit immediately after dispatch.
func (d *Dispatcher) DispatchSync(event AlertEvent) {
	for _, cfg := range d.configs {
		if matches(cfg.Events, event) {
			Send(cfg, event)
		}
	}
}

func matches(events []string, event AlertEvent) bool {
	if len(events) == 0 {
		return true
	}
	for _, e := range events {
		if e == event.Severity || e == event.Type {
			return true
		}
	}
	return false
}
