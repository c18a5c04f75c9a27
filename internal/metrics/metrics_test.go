package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cltl/micro-portraits/pkg/portrait"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveResult(t *testing.T) {
	m := New()
	res := &portrait.Result{
		Portraits: []*portrait.Microportrait{{ID: "t1"}, {ID: "t2"}},
		Diagnostics: []portrait.Diagnostic{
			{Kind: portrait.UnhandledRelation},
			{Kind: portrait.UnhandledRelation},
			{Kind: portrait.MissingHead},
		},
	}
	m.ObserveResult(res, 5*time.Millisecond)
	m.ObserveFailure()

	if got := testutil.ToFloat64(m.portraits); got != 2 {
		t.Fatalf("expected 2 portraits, got %v", got)
	}
	if got := testutil.ToFloat64(m.diagnostics.WithLabelValues(string(portrait.UnhandledRelation))); got != 2 {
		t.Fatalf("expected 2 unhandled relation diagnostics, got %v", got)
	}
	if got := testutil.ToFloat64(m.documents.WithLabelValues("failed")); got != 1 {
		t.Fatalf("expected 1 failed document, got %v", got)
	}
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveMessage("extract_queue", "ack")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	if !strings.Contains(body, `microportraits_queue_messages_total{queue="extract_queue",result="ack"} 1`) {
		t.Fatalf("metric missing from exposition:\n%s", body)
	}
}
