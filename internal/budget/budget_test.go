package budget

import (
	"strings"
	"testing"
)

func TestCheckUnlimited(t *testing.T) {
	u := Usage{CostUSD: 99}
	if res := Check(u, 0); res.Exceeded {
		t.Errorf("zero cap should mean unlimited: %+v", res)
	}
	if res := Check(u, -1); res.Exceeded {
		t.Errorf("negative cap should mean unlimited: %+v", res)
	}
}

func TestCheckWithinBudget(t *testing.T) {
	u := Usage{CostUSD: 0.05}
	if res := Check(u, 0.10); res.Exceeded {
		t.Errorf("under budget flagged: %+v", res)
	}
}

func TestCheckExceeded(t *testing.T) {
	var u Usage
	u.Add(0.06, 1000, 2000)
	u.Add(0.05, 1000, 2000)

	res := Check(u, 0.10)
	if !res.Exceeded {
		t.Fatalf("expected exceeded: %+v", res)
	}
	if res.Current != u.CostUSD || res.Limit != 0.10 {
		t.Errorf("unexpected amounts: %+v", res)
	}
	if !strings.Contains(res.Reason, "2 requests") {
		t.Errorf("reason lacks request count: %q", res.Reason)
	}
}

func TestCheckAtExactLimit(t *testing.T) {
	if res := Check(Usage{CostUSD: 0.10}, 0.10); !res.Exceeded {
		t.Error("spend equal to budget should count as exceeded")
	}
}

func TestAddIgnoresNegative(t *testing.T) {
	var u Usage
	u.Add(-1, -5, -5)
	if u.CostUSD != 0 || u.TokensIn != 0 || u.TokensOut != 0 {
		t.Errorf("negative consumption accumulated: %+v", u)
	}
	if u.Requests != 1 {
		t.Errorf("request count = %d, want 1", u.Requests)
	}
}
