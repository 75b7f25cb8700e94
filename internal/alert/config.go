package alert

// AlertConfig defines a webhook alert destination.
type AlertConfig struct {
	URL     string            `yaml:"url"     json:"url"`
	Format  string            `yaml:"format"  json:"format"` // "generic", "slack", "pagerduty"
	Events  []string          `yaml:"events"  json:"events"` // severities ("CRITICAL") or types ("BURN_RATE")
	Headers map[string]string `yaml:"headers" json:"headers"`
}

// AlertEvent is the payload sent to webhook endpoints for one incident.
type AlertEvent struct {
	Timestamp    string `json:"timestamp"`
	IncidentID   string `json:"incident_id"`
	Type         string `json:"type"`
	Severity     string `json:"severity"`
	Message      string `json:"message"`
	PlaybookLink string `json:"playbook_link"`
	RequestID    string `json:"request_id,omitempty"`
	SafeMode     bool   `json:"safe_mode_active"`
}
