// partnerai — cloud solution architect assistant with built-in
// observability: PII redaction, per-request telemetry, incident
// classification, and a safe-mode breaker.
package main

import "github.com/codewithyash28/Partner-AI-Assistant/internal/cli"

func main() {
	cli.Execute()
}
