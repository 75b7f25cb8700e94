package alert

import (
	"encoding/json"
	"fmt"
)

// FormatPayload builds the webhook body for the given format.
func FormatPayload(format string, event AlertEvent) ([]byte, error) {
	switch format {
	case "slack":
		return formatSlack(event)
	case "pagerduty":
		return formatPagerDuty(event)
	default:
		return formatGeneric(event)
	}
}

func formatGeneric(event AlertEvent) ([]byte, error) {
	return json.Marshal(event)
}

func formatSlack(event AlertEvent) ([]byte, error) {
	payload := map[string]any{
		"blocks": []any{
			map[string]any{
				"type": "header",
				"text": map[string]any{
					"type": "plain_text",
					"text": fmt.Sprintf("partnerai: %s %s", event.Severity, event.Type),
				},
			},
			map[string]any{
				"type": "section",
				"fields": []any{
					map[string]any{"type": "mrkdwn", "text": fmt.Sprintf("*Incident:* %s", event.IncidentID)},
					map[string]any{"type": "mrkdwn", "text": fmt.Sprintf("*Severity:* %s", event.Severity)},
					map[string]any{"type": "mrkdwn", "text": fmt.Sprintf("*Message:* %s", event.Message)},
					map[string]any{"type": "mrkdwn", "text": fmt.Sprintf("*Playbook:* %s", event.PlaybookLink)},
				},
			},
		},
	}
	return json.Marshal(payload)
}

func formatPagerDuty(event AlertEvent) ([]byte, error) {
	severity := "info"
	switch event.Severity {
	case "CRITICAL":
		severity = "critical"
	case "WARNING":
		severity = "warning"
	}

	payload := map[string]any{
		"event_action": "trigger",
		"payload": map[string]any{
			"summary":  fmt.Sprintf("partnerai %s: %s", event.Type, event.Message),
			"severity": severity,
			"source":   "partnerai",
			"custom_details": map[string]any{
				"incident_id":   event.IncidentID,
				"type":          event.Type,
				"request_id":    event.RequestID,
				"playbook_link": event.PlaybookLink,
				"safe_mode":     event.SafeMode,
			},
		},
	}
	return json.Marshal(payload)
}
