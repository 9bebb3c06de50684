package httpapi

import (
	"context"
	"testing"
)

func TestShouldCreateHTTPAPISpan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want bool
	}{
		{"httpapi.Handler.GetFeaturedFixture", true},
		{"httpapi.Handler.RunSettleJob", true},
		{"httpapi.writeJSON", false},
		{"httpapi.mapError", false},
		{"usecase.SettlementService.Settle", false},
	}
	for _, tc := range tests {
		if got := shouldCreateHTTPAPISpan(tc.name); got != tc.want {
			t.Errorf("shouldCreateHTTPAPISpan(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestStartSpanWithoutParentIsNoop(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gotCtx, span := startSpan(ctx, "httpapi.Handler.GetFeaturedFixture")
	if gotCtx != ctx {
		t.Error("context was replaced even though no parent span exists")
	}
	if span.SpanContext().IsValid() {
		t.Error("span is recording without a parent, want a no-op span")
	}
}
