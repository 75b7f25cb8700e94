// Package budget tracks per-session model spend against a configured cap.
// Crossing the cap is an observability event (a BURN_RATE incident), not an
// enforcement action: submissions are never blocked on budget alone.
package budget

import "fmt"

// Usage is the running consumption for one session.
type Usage struct {
	CostUSD   float64
	TokensIn  int
	TokensOut int
	Requests  int
}

// Add accumulates one request's consumption.
func (u *Usage) Add(costUSD float64, tokensIn, tokensOut int) {
	if costUSD > 0 {
		u.CostUSD += costUSD
	}
	if tokensIn > 0 {
		u.TokensIn += tokensIn
	}
	if tokensOut > 0 {
		u.TokensOut += tokensOut
	}
	u.Requests++
}

// CheckResult is the outcome of a budget check.
type CheckResult struct {
	Exceeded bool
	Current  float64
	Limit    float64
	Reason   string
}

// Check compares accumulated spend against the cap. A zero or negative cap
// means unlimited (no check).
func Check(usage Usage, maxCostUSD float64) CheckResult {
	if maxCostUSD <= 0 {
		return CheckResult{}
	}
	if usage.CostUSD >= maxCostUSD {
		return CheckResult{
			Exceeded: true,
			Current:  usage.CostUSD,
			Limit:    maxCostUSD,
			Reason: fmt.Sprintf("session burn rate: $%.4f spent >= $%.4f budget over %d requests",
				usage.CostUSD, maxCostUSD, usage.Requests),
		}
	}
	return CheckResult{}
}
