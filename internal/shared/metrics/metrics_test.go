package metrics

import (
	"strings"
	"testing"
)

func TestRenderIncludesWebhookOutcomes(t *testing.T) {
	IncWebhookEvent("applied")
	IncWebhookEvent("applied")
	IncWebhookEvent("flagged")
	IncEnhancementStarted()
	ObserveEnhancementDurationMs(750)

	out := Render()

	for _, want := range []string{
		`billing_webhook_events_total{outcome="flagged"}`,
		`billing_webhook_events_total{outcome="applied"}`,
		"# TYPE enhancement_started_total counter",
		`enhancement_duration_ms_bucket{le="1000"}`,
		"enhancement_duration_ms_count",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Index(out, `outcome="applied"`) > strings.Index(out, `outcome="flagged"`) {
		t.Fatalf("expected outcomes sorted by label")
	}
}
