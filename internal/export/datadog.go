// Package export renders static artifacts for external monitoring tooling.
// The Datadog dashboard document is a pure serialization with no dynamic
// core logic.
package export

import "encoding/json"

// WidgetRequest is a single metric query inside a widget.
type WidgetRequest struct {
	Q string `json:"q"`
}

// WidgetDefinition describes one dashboard widget.
type WidgetDefinition struct {
	Type     string          `json:"type"`
	Title    string          `json:"title"`
	Requests []WidgetRequest `json:"requests"`
}

// Widget wraps a definition, matching the Datadog dashboard schema.
type Widget struct {
	Definition WidgetDefinition `json:"definition"`
}

// Dashboard is the Datadog dashboard-definition document.
type Dashboard struct {
	Title             string   `json:"title"`
	Widgets           []Widget `json:"widgets"`
	TemplateVariables []string `json:"template_variables"`
	LayoutType        string   `json:"layout_type"`
	Description       string   `json:"description"`
}

// DatadogDashboard builds the monitoring dashboard definition for the
// assistant's synthetic telemetry.
func DatadogDashboard() Dashboard {
	return Dashboard{
		Title: "Partner AI Observability Dashboard",
		Widgets: []Widget{
			{Definition: WidgetDefinition{
				Type:     "timeseries",
				Title:    "Latency (ms)",
				Requests: []WidgetRequest{{Q: "avg:partner.ai.latency{*}"}},
			}},
			{Definition: WidgetDefinition{
				Type:     "query_value",
				Title:    "Error Rate",
				Requests: []WidgetRequest{{Q: "sum:partner.ai.errors{*}/sum:partner.ai.requests{*}"}},
			}},
			{Definition: WidgetDefinition{
				Type:     "toplist",
				Title:    "Safety Hits",
				Requests: []WidgetRequest{{Q: "top(sum:partner.ai.safety_hits{*} by {type}, 10, 'sum', 'desc')"}},
			}},
		},
		TemplateVariables: []string{},
		LayoutType:        "ordered",
		Description:       "Auto-generated export for Partner AI monitoring",
	}
}

// DatadogJSON renders the dashboard document as indented JSON.
func DatadogJSON() ([]byte, error) {
	return json.MarshalIndent(DatadogDashboard(), "", "  ")
}
