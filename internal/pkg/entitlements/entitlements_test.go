package entitlements

import "testing"

func TestNormalizePlan(t *testing.T) {
	tests := []struct {
		in   string
		want Plan
	}{
		{in: "FREE", want: PlanFree},
		{in: "PAID", want: PlanPaid},
		{in: "paid", want: PlanPaid},
		{in: " paid ", want: PlanPaid},
		{in: "enterprise", want: PlanFree},
		{in: "", want: PlanFree},
	}

	for _, tt := range tests {
		if got := NormalizePlan(tt.in); got != tt.want {
			t.Fatalf("NormalizePlan(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUsageLimit(t *testing.T) {
	if UsageLimit(PlanFree) <= 0 {
		t.Fatalf("free plan must grant a positive usage limit")
	}
	if UsageLimit(PlanPaid) != UnlimitedUsage {
		t.Fatalf("paid plan must grant the unlimited sentinel")
	}
	if UsageLimit(PlanFree) >= UsageLimit(PlanPaid) {
		t.Fatalf("expected paid limit to outrank free limit")
	}
}

func TestMaxUploadBytes(t *testing.T) {
	if MaxUploadBytes(PlanFree) >= MaxUploadBytes(PlanPaid) {
		t.Fatalf("expected paid upload ceiling to outrank free")
	}
}
