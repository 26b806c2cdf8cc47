package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPrometheusHandler_Exposition(t *testing.T) {
	c := NewCollector()
	tc := sampleCase()
	c.CaseStarted(tc)
	c.CaseFinished(tc, nil)

	handler := NewPrometheusHandler(c)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	resp := rec.Result()
	if resp.StatusCode != 200 {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("unexpected content type %q", ct)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	out := string(body)

	for _, want := range []string{
		"iqverify_cases_run_total 1",
		"iqverify_cases_passed_total 1",
		"iqverify_cases_failed_total 0",
		"iqverify_mismatched_words_total 0",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected exposition to contain %q, got:\n%s", want, out)
		}
	}
}
